package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "schwabstmt.yaml"

// DefaultInputFormat is the parser used when input.format is not set.
const DefaultInputFormat = "schwab-json"

// Config represents the top-level schwabstmt.yaml configuration.
type Config struct {
	BrokerID      string            `yaml:"broker_id"`
	Currency      string            `yaml:"currency"`
	Input         InputConfig       `yaml:"input"`
	Output        OutputConfig      `yaml:"output"`
	Accounts      map[string]string `yaml:"accounts,omitempty"`
	BankTypeCodes map[string]string `yaml:"bank_type_codes,omitempty"`
	Log           LogConfig         `yaml:"log"`
}

// InputConfig names the export parser.
type InputConfig struct {
	Format string `yaml:"format"`
}

// OutputConfig selects the default writer and destination.
type OutputConfig struct {
	Format string `yaml:"format"`
	Dir    string `yaml:"dir,omitempty"` // "" = next to the input file
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a schwabstmt.yaml file from disk. Fields the file omits keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BrokerID: model.DefaultBrokerID,
		Currency: "USD",
		Input: InputConfig{
			Format: DefaultInputFormat,
		},
		Output: OutputConfig{
			Format: "ofx",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BrokerID) == "" {
		return errors.New("broker_id must not be empty")
	}
	if strings.TrimSpace(c.Input.Format) == "" {
		return errors.New("input.format must not be empty")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency %q is not a 3-letter code", c.Currency)
	}
	if _, err := c.TypeCodes(); err != nil {
		return err
	}
	return nil
}

// TypeCodes converts BankTypeCodes to bank sub-kinds.
func (c *Config) TypeCodes() (map[string]model.SubKind, error) {
	if len(c.BankTypeCodes) == 0 {
		return nil, nil
	}
	codes := make([]string, 0, len(c.BankTypeCodes))
	for code := range c.BankTypeCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make(map[string]model.SubKind, len(codes))
	for _, code := range codes {
		sub, ok := model.ParseBankSubKind(c.BankTypeCodes[code])
		if !ok {
			return nil, fmt.Errorf("bank_type_codes: %s: unknown sub-kind %q", code, c.BankTypeCodes[code])
		}
		out[code] = sub
	}
	return out, nil
}
