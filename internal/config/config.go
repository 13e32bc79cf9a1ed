package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	JWT      JWTConfig      `json:"jwt"`
	Summary  SummaryConfig  `json:"summary"`
	MCP      MCPConfig      `json:"mcp"`
}

type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	CORSOrigins string `json:"cors_origins" mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslmode"`
	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

type JWTConfig struct {
	Secret string `json:"secret"`
	Issuer string `json:"issuer"`
}

// SummaryConfig carries the contract points that differ between the two
// historical API generations. Use a preset ("classic" or "extended") or set
// the individual fields.
type SummaryConfig struct {
	Engine           string   `json:"engine"` // "mock" or "openai"
	OpenAIKey        string   `json:"openai_key,omitempty" mapstructure:"openai_key"`
	OpenAIModel      string   `json:"openai_model,omitempty" mapstructure:"openai_model"`
	Preset           string   `json:"preset"`
	MinTextLength    int      `json:"min_text_length" mapstructure:"min_text_length"`
	MaxTextLength    int      `json:"max_text_length" mapstructure:"max_text_length"`
	Styles           []string `json:"styles"`
	AllowTitleUpdate bool     `json:"allow_title_update" mapstructure:"allow_title_update"`
}

type MCPConfig struct {
	SessionIdleTimeout time.Duration `json:"session_idle_timeout" mapstructure:"session_idle_timeout"`
}

// API generation presets
const (
	PresetClassic  = "classic"
	PresetExtended = "extended"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".summarly"))
	}

	// Set defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "summarly")
	viper.SetDefault("database.database", "summarly")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("jwt.issuer", "summarly-backend")
	viper.SetDefault("summary.engine", "mock")
	viper.SetDefault("summary.preset", PresetExtended)
	viper.SetDefault("mcp.session_idle_timeout", 30*time.Minute)

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine, defaults plus env cover everything
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)
	applySummaryPreset(&cfg.Summary)

	return &cfg, nil
}

// applySummaryPreset fills the generation-specific contract points that were
// not set explicitly. The extended generation is the default.
func applySummaryPreset(sc *SummaryConfig) {
	classic := sc.Preset == PresetClassic

	if sc.MinTextLength == 0 {
		if classic {
			sc.MinTextLength = 1
		} else {
			sc.MinTextLength = 10
		}
	}
	if sc.MaxTextLength == 0 {
		if classic {
			sc.MaxTextLength = 10000
		} else {
			sc.MaxTextLength = 50000
		}
	}
	if len(sc.Styles) == 0 {
		if classic {
			sc.Styles = []string{"paragraph", "bullet", "numbered"}
		} else {
			sc.Styles = []string{"paragraph", "bullets", "outline"}
		}
	}
	if !classic {
		sc.AllowTitleUpdate = true
	}
}

// StyleAllowed reports whether the style is part of the active contract
func (sc SummaryConfig) StyleAllowed(style string) bool {
	for _, s := range sc.Styles {
		if s == style {
			return true
		}
	}
	return false
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("SUMMARLY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("SUMMARLY_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if origins := os.Getenv("SUMMARLY_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = origins
	}
	if secret := os.Getenv("SUMMARLY_JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if preset := os.Getenv("SUMMARLY_API_PRESET"); preset != "" {
		cfg.Summary.Preset = preset
	}
	if engine := os.Getenv("SUMMARLY_SUMMARY_ENGINE"); engine != "" {
		cfg.Summary.Engine = engine
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Summary.OpenAIKey = key
	}
	if timeout := os.Getenv("SUMMARLY_MCP_IDLE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.MCP.SessionIdleTimeout = d
		}
	}

	// Database overrides
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}
}

// Validate checks the parts of the configuration that have no safe default
func (c *Config) Validate() error {
	if c.Summary.Preset != PresetClassic && c.Summary.Preset != PresetExtended {
		return fmt.Errorf("unknown summary preset %q", c.Summary.Preset)
	}
	if c.Summary.Engine == "openai" && c.Summary.OpenAIKey == "" {
		return fmt.Errorf("summary engine is openai but no API key is configured")
	}
	return nil
}
