package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/medliq/internal/model"
)

// Config holds all runtime configuration for a liqrun invocation.
type Config struct {
	DSN       string
	FilePath  string
	Specialty string
	Year      int
	Month     int

	Sheet      string // consultation sheet name; empty selects the first sheet
	HoursSheet string // clinical-shift hours sheet; empty selects the second sheet

	LogFormat string // "text" or "json"
	Verbose   bool

	// HeaderSynonyms adds spreadsheet header spellings per canonical field,
	// merged on top of the built-in synonym table.
	HeaderSynonyms map[string][]string `yaml:"header_synonyms"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	HeaderSynonyms map[string][]string `yaml:"header_synonyms"`
	Specialty      string              `yaml:"specialty"`
	Sheet          string              `yaml:"sheet"`
	HoursSheet     string              `yaml:"hours_sheet"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set from flags take precedence over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.HeaderSynonyms = yc.HeaderSynonyms
	if c.Specialty == "" {
		c.Specialty = yc.Specialty
	}
	if c.Sheet == "" {
		c.Sheet = yc.Sheet
	}
	if c.HoursSheet == "" {
		c.HoursSheet = yc.HoursSheet
	}
	return nil
}

// SpecialtyValue returns the parsed specialty.
func (c *Config) SpecialtyValue() (model.Specialty, error) {
	s, ok := model.SpecialtyByName(c.Specialty)
	if !ok {
		return "", fmt.Errorf("unknown specialty %q (want one of %v)", c.Specialty, model.AllSpecialties)
	}
	return s, nil
}

// Period returns the parsed settlement period.
func (c *Config) Period() (model.Period, error) {
	p := model.Period{Year: c.Year, Month: time.Month(c.Month)}
	if !p.Valid() {
		return model.Period{}, fmt.Errorf("invalid period %d-%d", c.Year, c.Month)
	}
	return p, nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if _, err := c.SpecialtyValue(); err != nil {
		return err
	}
	if _, err := c.Period(); err != nil {
		return err
	}
	return nil
}

// ValidateWithDSN checks both run fields and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
