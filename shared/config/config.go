package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Addr        string        `yaml:"addr" validate:"required"`
	JwtTTL      time.Duration `yaml:"jwt_ttl" validate:"required"`
	LogLevel    string        `yaml:"log_level"`
	LogJSON     bool          `yaml:"log_json"`
	HTTPS       bool          `yaml:"https"` // enables HSTS
	CORSOrigins []string      `yaml:"cors_origins"`
	PgPool      PgPool        `yaml:"pg_pool"`
	Line        LinePublic    `yaml:"line"`
	Redis       Redis         `yaml:"redis"`

	// applied per client ip to signup and signin
	AuthRateLimit RateLimit `yaml:"auth_rate_limit"`
}

type RateLimit struct {
	PerMinute float64 `yaml:"per_minute"`
	Burst     int     `yaml:"burst"`
}

type PgPool struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type LinePublic struct {
	// printf patterns, %s is replaced with the line user uuid / board uuid
	SignupURL               string `yaml:"signup_url"`
	SubboardRegistrationURL string `yaml:"subboard_registration_url"`

	ProvisionRichMenu bool   `yaml:"provision_rich_menu"`
	RichMenuName      string `yaml:"rich_menu_name"`
	RichMenuImage     string `yaml:"rich_menu_image"`
	APIEndpoint       string `yaml:"api_endpoint"` // empty means the SDK default
}

type Redis struct {
	URL      string        `yaml:"url"` // empty disables webhook dedup
	DedupTTL time.Duration `yaml:"dedup_ttl"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
	SSLMode  string `yaml:"sslmode"`
}

type LinePrivate struct {
	ChannelSecret      string `yaml:"channel_secret"`
	ChannelAccessToken string `yaml:"channel_access_token"`
}

type Private struct {
	Pg     Pg          `yaml:"pg"`
	JwtKey string      `yaml:"jwt_key" validate:"required"`
	Line   LinePrivate `yaml:"line"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

// LineEnabled reports whether both LINE channel credentials are configured.
func (c *Config) LineEnabled() bool {
	return c.Private.Line.ChannelSecret != "" && c.Private.Line.ChannelAccessToken != ""
}

func (c *Config) DedupTTL() time.Duration {
	if c.Public.Redis.DedupTTL <= 0 {
		return 24 * time.Hour
	}
	return c.Public.Redis.DedupTTL
}

// AuthRateLimit returns the configured limit, 10 per minute with a burst of 5 by default.
func (c *Config) AuthRateLimit() RateLimit {
	rl := c.Public.AuthRateLimit
	if rl.PerMinute <= 0 {
		rl.PerMinute = 10
	}
	if rl.Burst <= 0 {
		rl.Burst = 5
	}
	return rl
}

// PgDSN builds a lib/pq connection string.
func (c *Config) PgDSN() string {
	pg := c.Private.Pg
	sslmode := pg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.User, pg.Password, pg.Dbname, sslmode)
}

func loadPath(configPath string, output interface{}) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// applyEnv lets deployments keep secrets out of private.yaml.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Private.Pg.Password = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Private.JwtKey = v
	}
	if v := os.Getenv("CHANNEL_SECRET_KEY"); v != "" {
		cfg.Private.Line.ChannelSecret = v
	}
	if v := os.Getenv("CHANNEL_ACCESS_TOKEN"); v != "" {
		cfg.Private.Line.ChannelAccessToken = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Public.Redis.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.Public.Addr = ":" + v
		}
	}
}

// Load reads public.yaml and private.yaml from configFolder, applies environment
// overrides and validates required fields.
func Load(configFolder string) (*Config, error) {
	var public Public
	if err := loadPath(path.Join(configFolder, "public.yaml"), &public); err != nil {
		return nil, err
	}

	var private Private
	if err := loadPath(path.Join(configFolder, "private.yaml"), &private); err != nil {
		return nil, err
	}

	cfg := &Config{Public: public, Private: private}
	applyEnv(cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
