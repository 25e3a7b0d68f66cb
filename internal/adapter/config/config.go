package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Redis    *Redis
	Kafka    *Kafka
	PayWay   *PayWay
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Redis struct {
	Addr      string        `env:"REDIS_ADDRESS"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB"`
	StatusTTL time.Duration `env:"REDIS_STATUS_TTL" envDefault:"3s"`
}

type Kafka struct {
	Brokers   string `env:"KAFKA_BROKERS"`
	PaidTopic string `env:"KAFKA_PAID_TOPIC" envDefault:"order.paid"`
}

// PayWay holds the ABA PayWay merchant credentials and endpoints. StatusCodes
// extends the built-in status code table, format "4:FAILED,5:PENDING".
type PayWay struct {
	MerchantID     string        `env:"PAYWAY_MERCHANT_ID"`
	APIKey         string        `env:"PAYWAY_API_KEY"`
	CheckoutURL    string        `env:"PAYWAY_CHECKOUT_URL"`
	CheckURL       string        `env:"PAYWAY_CHECK_URL"`
	ReturnURL      string        `env:"PAYWAY_RETURN_URL"`
	Currency       string        `env:"PAYWAY_CURRENCY" envDefault:"USD"`
	StatusCodes    string        `env:"PAYWAY_STATUS_CODES"`
	RequestTimeout time.Duration `env:"PAYWAY_REQUEST_TIMEOUT" envDefault:"10s"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var redis Redis
	var kafka Kafka
	var payway PayWay
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&redis.Addr, "c", "", "Redis address (empty disables the status cache)")
	flag.StringVar(&kafka.Brokers, "k", "", "Kafka brokers CSV (empty disables events)")
	flag.StringVar(&payway.CheckoutURL, "g", "", "PayWay checkout endpoint")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&redis)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis config: %w", err)
	}
	err = env.Parse(&kafka)
	if err != nil {
		return nil, fmt.Errorf("error parsing kafka config: %w", err)
	}
	err = env.Parse(&payway)
	if err != nil {
		return nil, fmt.Errorf("error parsing payway config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Redis:    &redis,
		Kafka:    &kafka,
		PayWay:   &payway,
		App:      &app,
	}

	return &config, nil
}
