// Package profile reads YAML profile files carrying option and setting
// assignments.
//
//	options:
//	  build: false
//	  doc: true
//	settings:
//	  build_type: Debug
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds raw, unvalidated assignments. Scalars are kept as written
// so option validation sees "yes" or "1" and can reject them.
type Profile struct {
	Options  map[string]string `yaml:"options"`
	Settings map[string]string `yaml:"settings"`
}

// LoadFile reads the profile at path.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("profile: %s: %w", path, err)
	}
	return p, nil
}

// Decode parses a profile document. Unknown top-level keys are rejected.
func Decode(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &p, nil
}
