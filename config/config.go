// Package config exposes the environment-driven configuration of the API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const name = "simple-api"

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func init() {
	// Missing .env is fine, settings may come from the process environment.
	_ = godotenv.Load()
}

func GetName() string {
	return name
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("SAPI_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(strings.ToLower(logLevel))
}

func IsDebug() bool {
	return os.Getenv("SAPI_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("SAPI_LISTEN")
	if listen == "" {
		listen = "0.0.0.0:8080"
	}
	return listen
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("SAPI_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/simple-api"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("SAPI_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetRedisAddr returns the external redis address. Empty means the embedded
// in-process redis is used instead.
func GetRedisAddr() string {
	return os.Getenv("SAPI_REDIS_ADDR")
}

// GetTokenTTL returns how long an issued access token stays valid.
func GetTokenTTL() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("SAPI_TOKEN_TTL_HOURS"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// GetDefaultUser returns the optional bootstrap account seeded into an empty
// database. All three values must be set for seeding to happen.
func GetDefaultUser() (name, email, password string) {
	return os.Getenv("SAPI_DEFAULT_USERNAME"),
		os.Getenv("SAPI_DEFAULT_EMAIL"),
		os.Getenv("SAPI_DEFAULT_PASSWORD")
}
