package pathway

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Encode serializes an Error to msgpack using the same shape as its JSON form.
func Encode(e *Error) ([]byte, error) {
	return msgpack.Marshal(e.wire())
}

// Decode deserializes msgpack bytes produced by Encode back into an Error.
// The decoded Error is a new value; identity does not survive a round trip.
func Decode(data []byte) (*Error, error) {
	var w errorJSON
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if w.Kind == "" {
		return nil, ErrMissingKind
	}
	return w.error(), nil
}
