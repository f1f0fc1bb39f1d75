// Package config loads frm settings from .frm.yaml, FRM_* environment
// variables and .env files.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config and source files are read from.
var AppFs = afero.NewOsFs()

// FileName is the name of the project config file.
const FileName = ".frm.yaml"

// Config holds the CLI configuration.
type Config struct {
	Provider    string
	DatabaseURL string
	SchemaPath  string
	QueryPath   string
	Format      string
}

// LoadConfig reads configuration. An explicit file is read when path is
// set; otherwise .frm.yaml is searched in ".", $HOME and $HOME/.config/frm.
// A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(".frm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "frm"))
	}

	v.SetEnvPrefix("FRM")
	v.AutomaticEnv()

	v.SetDefault("provider", "sqlite")
	v.SetDefault("database_url", "frm.db")
	v.SetDefault("schema_path", "schema.frm")
	v.SetDefault("query_path", "queries.py")
	v.SetDefault("format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	loadDotEnv()

	cfg := &Config{
		Provider:    v.GetString("provider"),
		DatabaseURL: v.GetString("database_url"),
		SchemaPath:  v.GetString("schema_path"),
		QueryPath:   v.GetString("query_path"),
		Format:      v.GetString("format"),
	}
	if url := os.Getenv("DATABASE_URL"); url != "" && os.Getenv("FRM_DATABASE_URL") == "" && !v.InConfig("database_url") {
		cfg.DatabaseURL = url
	}
	return cfg, nil
}

// loadDotEnv loads .env, then .env.local with higher priority.
func loadDotEnv() {
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(cfg *Config, path string) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("provider", cfg.Provider)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("schema_path", cfg.SchemaPath)
	v.Set("query_path", cfg.QueryPath)
	v.Set("format", cfg.Format)

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(path)
}

// ReadFile reads a file from AppFs.
func ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(AppFs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes a file to AppFs unless it already exists.
func WriteFile(path, content string) (bool, error) {
	if exists, err := afero.Exists(AppFs, path); err != nil || exists {
		return false, err
	}
	if err := afero.WriteFile(AppFs, path, []byte(content), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
