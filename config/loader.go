package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/grovetools/vigil/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames lists the file names probed during upward search, in
// precedence order. JSON parses as YAML, so it shares the yaml path.
var configNames = []string{
	"vigil.yml",
	"vigil.yaml",
	"vigil.toml",
	"vigil.json",
	".vigil.yml",
	".vigil.yaml",
}

// Load reads, parses, and validates a vigil configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, filepath.Ext(path))
	if err != nil {
		if vigilErr, ok := err.(*errors.VigilError); ok {
			return nil, vigilErr.WithDetail("path", path)
		}
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// LoadDefault searches upward from the working directory and loads the
// first configuration file found.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	path, err := FindConfigFile(cwd)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// LoadRaw reads and parses a configuration file into its generic document
// form, without decoding or validating it. Schema validation works on this
// form so shape errors the typed decoder tolerates are still caught.
func LoadRaw(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	expanded := expandEnvVars(string(data))
	raw := make(map[string]interface{})
	var parseErr error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parseErr = toml.Unmarshal([]byte(expanded), &raw)
	} else {
		parseErr = yaml.Unmarshal([]byte(expanded), &raw)
	}
	if parseErr != nil {
		return nil, errors.Wrap(parseErr, errors.ErrCodeConfigInvalid, "failed to parse configuration").
			WithDetail("path", path)
	}
	return raw, nil
}

// LoadFromBytes parses configuration from raw bytes. The ext hint selects
// the parser (".toml" for TOML, anything else is treated as YAML/JSON).
func LoadFromBytes(data []byte, ext string) (*Config, error) {
	expanded := expandEnvVars(string(data))

	raw := make(map[string]interface{})
	var parseErr error
	if strings.EqualFold(ext, ".toml") {
		parseErr = toml.Unmarshal([]byte(expanded), &raw)
	} else {
		parseErr = yaml.Unmarshal([]byte(expanded), &raw)
	}
	if parseErr != nil {
		return nil, errors.Wrap(parseErr, errors.ErrCodeConfigInvalid, "failed to parse configuration")
	}

	cfg, err := decode(raw)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode maps the parsed document onto Config, keeping unknown top-level
// sections as extensions.
func decode(raw map[string]interface{}) (*Config, error) {
	var cfg Config
	var metadata mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		TagName:    "yaml",
		Metadata:   &metadata,
		DecodeHook: commandSpecHook,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build config decoder")
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	for _, key := range metadata.Unused {
		// Nested unused keys are reported dot-separated; only whole
		// top-level sections become extensions.
		if strings.Contains(key, ".") {
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]interface{})
		}
		cfg.Extensions[key] = raw[key]
	}

	return &cfg, nil
}

// commandSpecHook lets `command` be written as either a bare program path
// or a program-plus-arguments list.
func commandSpecHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(CommandSpec{}) || from == to {
		return data, nil
	}

	switch value := data.(type) {
	case string:
		return CommandSpec{Program: value}, nil
	case []interface{}:
		if len(value) == 0 {
			return CommandSpec{}, nil
		}
		parts := make([]string, 0, len(value))
		for _, item := range value {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("command entries must be strings, got %T", item)
			}
			parts = append(parts, s)
		}
		return CommandSpec{Program: parts[0], Args: parts[1:]}, nil
	default:
		return nil, fmt.Errorf("command must be a string or a list of strings, got %T", data)
	}
}

// UnmarshalExtension decodes an unknown top-level section into out. Missing
// sections are not an error; out is left untouched.
func (c *Config) UnmarshalExtension(key string, out interface{}) error {
	raw, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "yaml",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// FindConfigFile searches from startDir up to the filesystem root for a
// vigil configuration file.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} with environment variable values,
// supporting ${VAR:-default} fallbacks.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
