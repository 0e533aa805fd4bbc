package pathway

import "fmt"

// DefaultsPluginName is the registry name of the Defaults plugin.
const DefaultsPluginName = "defaults"

// Defaults is a plugin that installs a result key and context values.
// It only fills what options left unset.
type Defaults struct {
	Context   map[Key]any
	ResultKey Key
}

// Name implements Plugin.
func (*Defaults) Name() Name {
	return DefaultsPluginName
}

// Install implements Installer.
func (d *Defaults) Install(cfg *Config) error {
	if cfg.ResultKey == "" {
		cfg.ResultKey = d.ResultKey
	}
	if len(d.Context) == 0 {
		return nil
	}
	if cfg.Context == nil {
		cfg.Context = make(map[Key]any, len(d.Context))
	}
	for k, v := range d.Context {
		if _, set := cfg.Context[k]; !set {
			cfg.Context[k] = v
		}
	}
	return nil
}

func newDefaultsFromSettings(settings map[string]any) (Plugin, error) {
	d := &Defaults{}
	if raw, ok := settings["result_key"]; ok {
		key, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("result_key: expected string, got %T", raw)
		}
		d.ResultKey = key
	}
	if raw, ok := settings["context"]; ok {
		values, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("context: expected mapping, got %T", raw)
		}
		d.Context = values
	}
	return d, nil
}
