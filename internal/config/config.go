package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const FileName = "shiftlog.yml"

// Config models shiftlog.yml.
type Config struct {
	Storage struct {
		Backend string `yaml:"backend" json:"backend" validate:"oneof=sqlite file memory"`
		Key     string `yaml:"key" json:"key" validate:"required"`
		Dir     string `yaml:"dir,omitempty" json:"dir"`
	} `yaml:"storage" json:"storage"`
	Log struct {
		Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
		File  string `yaml:"file,omitempty" json:"file"`
	} `yaml:"log" json:"log"`
	Server struct {
		Addr     string `yaml:"addr" json:"addr" validate:"required,hostname_port"`
		BasePath string `yaml:"base_path" json:"base_path" validate:"omitempty,startswith=/"`
	} `yaml:"server" json:"server"`
}

var validate = validator.New()

// Validate checks field constraints and reports every failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("config.%s: failed %q (got %q)", yamlPath(fe.Namespace()), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// yamlPath turns "Config.Storage.Backend" into "storage.backend".
func yamlPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		switch p {
		case "BasePath":
			parts[i] = "base_path"
		default:
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, ".")
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, FileName)
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with shiftlog config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses config over the defaults and validates it. Keys left out
// of the file keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GenerateDefault returns the commented default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// YAML renders the effective config.
func (c *Config) YAML() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const defaultTemplate = `storage:
  # sqlite keeps the state in .shiftlog/shiftlog.db, file writes one JSON
  # file per key under dir, memory forgets everything on exit.
  backend: sqlite
  key: shiftlog.state
  dir: .shiftlog/state

log:
  level: info
  file: ""

server:
  addr: 127.0.0.1:8765
  base_path: /v0
`
