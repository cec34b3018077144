package config

import (
	"fmt"
	"os"
	"strconv"
)

type LogLevel string

const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func GetVersion() string {
	return "1.0.0"
}

func GetName() string {
	return "gacha-system"
}

func IsDebug() bool {
	return os.Getenv("GACHA_DEBUG") == "true"
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("GACHA_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func GetListen() string {
	listen := os.Getenv("GACHA_LISTEN")
	if listen == "" {
		return "0.0.0.0"
	}
	return listen
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("GACHA_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("GACHA_DB_FOLDER")
	if dbFolderPath == "" {
		return "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

// GetAssetDir is the root directory of the local object store
// where fetched card images are persisted.
func GetAssetDir() string {
	dir := os.Getenv("GACHA_ASSET_DIR")
	if dir == "" {
		return "assets"
	}
	return dir
}

// GetAssetBaseURL is prepended to object keys to build the public
// image urls returned to clients. Keys already carry the images/
// namespace, so the default (empty) yields urls like /images/<file>
// served by this process itself.
func GetAssetBaseURL() string {
	return os.Getenv("GACHA_ASSET_BASE_URL")
}

func GetAdminPassword() string {
	return os.Getenv("GACHA_ADMIN_PASSWORD")
}

func GetSessionSecret() string {
	secret := os.Getenv("GACHA_SESSION_SECRET")
	if secret == "" {
		return "gacha-system-secret"
	}
	return secret
}

// GetGameConfigPath points at an optional TOML file overriding the
// built-in game rules. Empty means defaults only.
func GetGameConfigPath() string {
	return os.Getenv("GACHA_GAME_CONFIG")
}
