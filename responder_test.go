package pathway

import "testing"

func TestResponder(t *testing.T) {
	respond := func(o Outcome[any]) string {
		var got string
		Respond(o).
			Success(func(any) { got = "ok" }).
			Failure(KindNotFound, func(*Error) { got = "404" }).
			Failure(KindForbidden, func(*Error) { got = "403" }).
			Otherwise(func(e *Error) { got = "500 " + string(e.Kind) }).
			Run()
		return got
	}

	tests := []struct {
		name    string
		outcome Outcome[any]
		want    string
	}{
		{"Success", Success(1), "ok"},
		{"Not Found", Fail(KindNotFound, "", nil), "404"},
		{"Forbidden", Fail(KindForbidden, "", nil), "403"},
		{"Other Kind", Fail("underage", "", nil), "500 underage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := respond(tt.outcome); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("No Handler", func(t *testing.T) {
		if Respond(Fail(KindError, "", nil)).Run() {
			t.Error("Run should report false without a matching handler")
		}
		if Respond(Ok[any](1)).Run() {
			t.Error("Run should report false without a success handler")
		}
	})

	t.Run("Receives Values", func(t *testing.T) {
		failure := NewError(KindInvalid, "bad", nil)
		var got *Error
		Respond(Err[int](failure)).Failure(KindInvalid, func(e *Error) { got = e }).Run()
		if got != failure {
			t.Error("handler should receive the identical *Error")
		}

		var v int
		Respond(Ok(7)).Success(func(n int) { v = n }).Run()
		if v != 7 {
			t.Errorf("expected 7, got %d", v)
		}
	})
}
