package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName          string
	LogLevel         string
	HTTPPort         string
	HTTPTimeout      string
	TelegramApiToken string
	TelegramChatID   string
	PriceFeedUrl     string
	KafkaBrokers     string
	KafkaTopic       string
	LokiUrl          string
	DB               *DB
	Mongo            *Mongo
}

type DB struct {
	Host     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Mongo struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

var ErrEnvNotFound = errors.New("err env not found")

func (a *App) loadConfig(confFileName string) error {
	var cfg Config
	var db DB
	var mng Mongo

	err := godotenv.Load(confFileName)
	if err != nil {
		return err
	}

	if cfg.AppName, err = cfg.set("APP_NAME"); err != nil {
		return err
	}

	if cfg.LogLevel, err = cfg.set("LOG_LEVEL"); err != nil {
		return err
	}

	if cfg.HTTPPort, err = cfg.set("HTTP_PORT"); err != nil {
		return err
	}

	if cfg.HTTPTimeout, err = cfg.set("HTTP_TIMEOUT"); err != nil {
		return err
	}

	if cfg.TelegramApiToken, err = cfg.set("TELEGRAM_API_TOKEN"); err != nil {
		return err
	}

	if cfg.TelegramChatID, err = cfg.set("TELEGRAM_CHAT_ID"); err != nil {
		return err
	}

	if cfg.PriceFeedUrl, err = cfg.set("PRICE_FEED_URL"); err != nil {
		return err
	}

	if cfg.KafkaBrokers, err = cfg.set("KAFKA_BROKERS"); err != nil {
		return err
	}

	if cfg.KafkaTopic, err = cfg.set("KAFKA_TOPIC"); err != nil {
		return err
	}

	if cfg.LokiUrl, err = cfg.set("LOKI_URL"); err != nil {
		return err
	}

	if db.Host, err = cfg.set("PG_HOST"); err != nil {
		return err
	}

	if db.User, err = cfg.set("PG_USER"); err != nil {
		return err
	}

	if db.Password, err = cfg.set("PG_PASSWORD"); err != nil {
		return err
	}

	if db.DBName, err = cfg.set("PG_DBNAME"); err != nil {
		return err
	}

	if db.SSLMode, err = cfg.set("PG_SSL_MODE"); err != nil {
		return err
	}

	if mng.Host, err = cfg.set("MONGO_HOST"); err != nil {
		return err
	}

	if mng.Port, err = cfg.set("MONGO_PORT"); err != nil {
		return err
	}

	if mng.User, err = cfg.set("MONGO_USER"); err != nil {
		return err
	}

	if mng.Password, err = cfg.set("MONGO_PASSWORD"); err != nil {
		return err
	}

	if mng.DBName, err = cfg.set("MONGO_DBNAME"); err != nil {
		return err
	}

	cfg.DB = &db
	cfg.Mongo = &mng

	a.Name = cfg.AppName
	a.Config = &cfg

	return nil
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode)
}

func (m *Mongo) DSN() string {
	return fmt.Sprintf("mongodb://%s:%s", m.Host, m.Port)
}

func (c *Config) set(key string) (string, error) {
	if os.Getenv(key) == "" {
		return "", ErrEnvNotFound
	}

	return os.Getenv(key), nil
}
