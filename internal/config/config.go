// Package config предоставляет структуры и функции для загрузки конфигурации сервиса бронирования.
//
// Конфигурация читается из YAML-файла, путь к которому задаётся переменной CONFIG_PATH.
// Любое поле можно переопределить переменной окружения из тега env.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Operator                `yaml:"operator"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
	Notifier                `yaml:"notifier"`
}

// HTTPServer структура для настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"60s"`
}

// Operator хранит общий секрет оператора, которым защищено создание пользователей.
type Operator struct {
	OperatorSecret string `yaml:"secret" env:"OPERATOR_SECRET"`
}

// RabbitMQ настройки публикации событий о встречах. Пустой URL отключает брокер.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"booking.events"`
	MaxRetries int           `yaml:"max_retries" env:"RABBITMQ_MAX_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// RateLimit ограничение частоты запросов на вход.
type RateLimit struct {
	LoginRPS   float64 `yaml:"login_rps" env:"LOGIN_RPS" env-default:"5"`
	LoginBurst int     `yaml:"login_burst" env:"LOGIN_BURST" env-default:"10"`
}

// Notifier настройки воркера уведомлений о встречах. Пустой SMTPHost
// означает, что письма только пишутся в лог.
type Notifier struct {
	Queue    string   `yaml:"queue" env:"NOTIFIER_QUEUE" env-default:"booking.meeting-notifications"`
	SMTPHost string   `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort string   `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string   `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass string   `yaml:"smtp_pass" env:"SMTP_PASS"`
	MailTo   []string `yaml:"mail_to" env:"NOTIFIER_MAIL_TO" env-separator:","`
}

// Load читает конфиг из файла path и валидирует его.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if path == "" {
		return nil, fmt.Errorf("%s: CONFIG_PATH is not set", op)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Validate проверяет значения, которые нельзя выразить тегами.
func (c *Config) Validate() error {
	if c.TokenTTL <= 0 {
		return errors.New("jwttoken.token_ttl must be positive")
	}
	if c.LoginRPS <= 0 || c.LoginBurst <= 0 {
		return errors.New("rate_limit values must be positive")
	}
	return nil
}

// String печатает конфиг, скрывая секреты.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"Notifier:\n"+
			"  Queue: %s\n"+
			"  SMTPHost: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.MigrationsPath,
		c.AddressRedis,
		c.User,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.URL != "",
		c.Exchange,
		c.Queue,
		c.SMTPHost,
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
