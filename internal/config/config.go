package config

import (
	"fmt"
	"time"
)

// Config is the root run configuration. Its JSON shape matches the persisted
// settings file: version, database, settings and paths.
type Config struct {
	Version  string         `json:"version"  yaml:"version"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Settings SettingsConfig `json:"settings" yaml:"settings"`
	Paths    PathsConfig    `json:"paths"    yaml:"paths"`
	Log      LogConfig      `json:"log"      yaml:"log"`

	// TimeoutRaw bounds a whole run, e.g. "30m". Empty or "0" means no limit.
	TimeoutRaw string `json:"timeout" yaml:"timeout" env:"LEVI_TIMEOUT" env-default:"0"`

	// Timeout is parsed from TimeoutRaw during validation.
	Timeout time.Duration `json:"-" yaml:"-" env:"-"`
}

// DatabaseConfig holds terminology database connection settings.
type DatabaseConfig struct {
	URL      string `json:"url"      yaml:"url"       env:"LEVI_DATABASE_URL"`
	Username string `json:"username" yaml:"username"  env:"LEVI_DATABASE_USERNAME"`
	Password string `json:"password" yaml:"password"  env:"LEVI_DATABASE_PASSWORD"`
	MaxConns int32  `json:"maxConns" yaml:"max_conns" env:"LEVI_DATABASE_MAX_CONNS" env-default:"2"`
}

// SettingsConfig holds the comparison settings of a run.
type SettingsConfig struct {
	CountryCode string `json:"countryCode" yaml:"country_code" env:"LEVI_COUNTRY_CODE"`
	// Bool fields carry no env-default: a default would override an explicit
	// false from the file.
	TransformEszett      bool   `json:"transformEszett"      yaml:"transform_eszett"       env:"LEVI_TRANSFORM_ESZETT"`
	RegexCheck           bool   `json:"regexCheck"           yaml:"regex_check"            env:"LEVI_REGEX_CHECK"`
	FallbackLanguageCode string `json:"fallbackLanguageCode" yaml:"fallback_language_code" env:"LEVI_FALLBACK_LANGUAGE"`
}

// PathsConfig holds input files and the output directory.
type PathsConfig struct {
	CurrentFile     string `json:"currentFile"     yaml:"current_file"     env:"LEVI_CURRENT_FILE"`
	PreviousFile    string `json:"previousFile"    yaml:"previous_file"    env:"LEVI_PREVIOUS_FILE"`
	OutputDirectory string `json:"outputDirectory" yaml:"output_directory" env:"LEVI_OUTPUT_DIRECTORY" env-default:"./output"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"  yaml:"level"  env:"LEVI_LOG_LEVEL"  env-default:"info"`
	Format string `json:"format" yaml:"format" env:"LEVI_LOG_FORMAT" env-default:"text"`
}

// DefaultCountry is the extension checked when no country is configured.
const DefaultCountry = "CH"

// Default returns the configuration used before any file or environment
// values are applied.
func Default() Config {
	return Config{
		Version:    "1",
		Database:   DatabaseConfig{MaxConns: 2},
		Settings:   SettingsConfig{CountryCode: DefaultCountry, TransformEszett: true, RegexCheck: true},
		Paths:      PathsConfig{OutputDirectory: "./output"},
		Log:        LogConfig{Level: "info", Format: "text"},
		TimeoutRaw: "0",
	}
}

// String renders the configuration with the database password masked.
func (c Config) String() string {
	return fmt.Sprintf(
		"database=%s country=%s transformEszett=%t regexCheck=%t fallbackLanguage=%q current=%q previous=%q output=%q",
		c.Database.Redacted(), c.Settings.CountryCode, c.Settings.TransformEszett, c.Settings.RegexCheck,
		c.Settings.FallbackLanguageCode, c.Paths.CurrentFile, c.Paths.PreviousFile, c.Paths.OutputDirectory,
	)
}
