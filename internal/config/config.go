package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "minimarket.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./minimarket.log"
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}
