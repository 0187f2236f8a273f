package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/siteplan/pkg/errors"
)

// Config file formats accepted by [Load] and [Encode].
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatFromPath infers the config format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported config file %q (must be .toml, .yaml, .yml, or .json)", filepath.Base(path))
}

// Load reads a site config file and overlays it onto [Default]. Fields the
// file omits keep their default values. The result is validated.
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "site config %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := Decode(data, format)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses data in the given format onto [Default] without validating.
func Decode(data []byte, format string) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s site config", format)
	}
	return cfg, nil
}

// Encode writes c to w in the given format.
func Encode(w io.Writer, c Config, format string) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
}
