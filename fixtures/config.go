package fixtures

import (
	"encoding/json"
	"os"
)

// Config points the generator at its key material and output location.
type Config struct {
	KeyDir    string `json:"key_dir"`
	OutputDir string `json:"output_dir"`
}

// DefaultConfig returns the fixed repository-relative layout.
func DefaultConfig() *Config {
	return &Config{
		KeyDir:    "testdata/keys",
		OutputDir: "testdata/email",
	}
}

// LoadConfig reads an optional JSON config file. A missing file yields the
// defaults, so a bare invocation needs no arguments.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}
