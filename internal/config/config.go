package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Postgres   `yaml:"postgres"`
	Tokens     `yaml:"tokens"`
	Media      `yaml:"media"`
	RabbitMQ   `yaml:"rabbitmq"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:4000"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Storage selects the account store profile. The file driver keeps all
// accounts in a single JSON document rewritten on every mutation; an empty
// file_path keeps them in memory only (lost on restart).
type Storage struct {
	Driver   string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	FilePath string `yaml:"file_path" env:"STORAGE_FILE_PATH" env-default:"./db.json"`
}

type Postgres struct {
	Host     string `yaml:"host" env-default:"postgres"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Tokens struct {
	IdentitySecret string        `yaml:"identity_secret" env:"IDENTITY_TOKEN_SECRET" env-required:"true"`
	IdentityTTL    time.Duration `yaml:"identity_token_ttl" env-default:"168h"`
}

type Media struct {
	WSURL           string        `yaml:"ws_url" env:"MEDIA_WS_URL" env-required:"true"`
	APIKey          string        `yaml:"api_key" env:"MEDIA_API_KEY" env-required:"true"`
	APISecret       string        `yaml:"api_secret" env:"MEDIA_API_SECRET" env-required:"true"`
	SessionTTL      time.Duration `yaml:"session_token_ttl" env-default:"1h"`
	LegacyStreamURL string        `yaml:"legacy_stream_url"`
}

// RabbitMQ is optional; an empty URL disables device-bound event publishing.
type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL"`
	QueueName string `yaml:"queue_name" env-default:"device_events"`
}

func MustLoad(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("Config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("Failed to read config: " + err.Error())
	}

	return &cfg
}
