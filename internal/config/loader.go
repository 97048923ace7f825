package config

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"
)

// decodeStrictYAML rejects unknown keys so typos in the config file
// surface as errors instead of silently applying defaults.
func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}
