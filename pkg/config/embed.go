package config

import (
	_ "embed"
	"errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// rawBytesProvider adapts a byte slice to koanf's Provider interface so the
// embedded defaults can be layered like any file.
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("rawBytesProvider does not support Read")
}
