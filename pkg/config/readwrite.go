package config

import (
	"os"
	"path/filepath"
)

// ReadConfigFile reads a configuration file. A missing file is not an error
// and yields a nil content.
func ReadConfigFile(name string) ([]byte, error) {
	path, err := FilePath(name)
	if err != nil {
		return nil, err
	}

	return readFileOrEmpty(path)
}

func WriteConfigFile(name string, content []byte) error {
	path, err := FilePath(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

// FilePath resolves name relative to the working directory unless it is absolute.
func FilePath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Abs(name)
}

func readFileOrEmpty(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return buf, nil
}
