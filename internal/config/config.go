package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ResetConfig struct {
	BaseURL string `yaml:"base_url"`
}

type RateLimitConfig struct {
	Backend       string `yaml:"backend"` // memory | redis
	Limit         int    `yaml:"limit"`
	WindowMinutes int    `yaml:"window_minutes"`
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Reset     ResetConfig     `yaml:"reset"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Reset.BaseURL == "" {
		cfg.Reset.BaseURL = "http://localhost:3000/reset-password"
	}
	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = "memory"
	}
	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = 3
	}
	if cfg.RateLimit.WindowMinutes <= 0 {
		cfg.RateLimit.WindowMinutes = 60
	}
	return &cfg
}
