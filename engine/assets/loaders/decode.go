package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/seethrough/engine/core"
	"gopkg.in/yaml.v3"
)

// decodeFile decodes path into v, picking the format from the extension.
// Unknown keys are rejected so typos in configuration do not go unnoticed.
func decodeFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to decode '%s': %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to decode '%s': %w", path, err)
		}
	default:
		return fmt.Errorf("'%s': %w", path, core.ErrUnsupportedFormat)
	}
	return nil
}

// IsConfigFile reports whether path has an extension decodeFile understands.
func IsConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}
