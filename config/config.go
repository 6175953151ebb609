package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"salarypredict/ml"
)

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log      LogConfig `yaml:"log"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Artifacts struct {
		Dir       string `yaml:"dir"`
		ModelType string `yaml:"model_type"`
		Model     string `yaml:"model"`
		Encoders  string `yaml:"encoders"`
		Scaler    string `yaml:"scaler"`
		Columns   string `yaml:"columns"`
	} `yaml:"artifacts"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Bundle returns the artifact settings in the form ml.LoadBundle expects.
func (c *Config) Bundle() ml.BundleConfig {
	return ml.BundleConfig{
		Dir:       c.Artifacts.Dir,
		ModelType: c.Artifacts.ModelType,
		Model:     c.Artifacts.Model,
		Encoders:  c.Artifacts.Encoders,
		Scaler:    c.Artifacts.Scaler,
		Columns:   c.Artifacts.Columns,
	}
}

// Locate returns path, or the same file one directory up when running from
// cmd/.
func Locate(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) && !filepath.IsAbs(path) {
		parent := filepath.Join("..", path)
		if _, err := os.Stat(parent); err == nil {
			return parent
		}
	}
	return path
}

// Load reads the YAML file at path, applies SALARY_* environment overrides
// and defaults, and validates the result.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnv(&config)
	applyDefaults(&config)

	// Relative artifact and database paths are relative to the config file.
	base := filepath.Dir(path)
	if config.Artifacts.Dir != "" && !filepath.IsAbs(config.Artifacts.Dir) {
		config.Artifacts.Dir = filepath.Join(base, config.Artifacts.Dir)
	}
	if config.Database.Path != "" && !filepath.IsAbs(config.Database.Path) {
		config.Database.Path = filepath.Join(base, config.Database.Path)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func applyEnv(c *Config) {
	if v := getenvInt("SALARY_HTTP_PORT", 0); v != 0 {
		c.Http.Port = v
	}
	c.Log.Level = getenv("SALARY_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenv("SALARY_LOG_FORMAT", c.Log.Format)
	c.Log.File = getenv("SALARY_LOG_FILE", c.Log.File)
	c.Database.Path = getenv("SALARY_DATABASE_PATH", c.Database.Path)
	c.Artifacts.Dir = getenv("SALARY_ARTIFACTS_DIR", c.Artifacts.Dir)
	c.Artifacts.ModelType = getenv("SALARY_MODEL_TYPE", c.Artifacts.ModelType)
}

func applyDefaults(c *Config) {
	if c.Http.Port == 0 {
		c.Http.Port = 8501
	}
	if c.Http.Timeout == 0 {
		c.Http.Timeout = 10 * time.Second
	}
	if len(c.Http.AllowedOrigins) == 0 {
		c.Http.AllowedOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.Artifacts.ModelType == "" {
		c.Artifacts.ModelType = ml.ModelTypeDecisionTree
	}
	if c.Artifacts.Model == "" {
		c.Artifacts.Model = "model.json"
	}
	if c.Artifacts.Encoders == "" {
		c.Artifacts.Encoders = "label_encoders.json"
	}
	if c.Artifacts.Columns == "" {
		c.Artifacts.Columns = "model_columns.json"
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 1024
	}
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	switch c.Artifacts.ModelType {
	case ml.ModelTypeDecisionTree, ml.ModelTypeLogisticRegression:
	default:
		return fmt.Errorf("unsupported artifacts.model_type %q", c.Artifacts.ModelType)
	}
	if c.Artifacts.Dir == "" {
		return errors.New("artifacts.dir is required")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log.format %q", c.Log.Format)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
