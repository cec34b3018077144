package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gacha-system/config"
	"gacha-system/database"
	"gacha-system/logger"
	"gacha-system/storage"
	"gacha-system/web"
	"gacha-system/web/global"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

func initLogger() {
	var level logging.Level
	switch config.GetLogLevel() {
	case config.Debug:
		level = logging.DEBUG
	case config.Info:
		level = logging.INFO
	case config.Warn:
		level = logging.WARNING
	case config.Error:
		level = logging.ERROR
	default:
		fmt.Println("unknown log level:", config.GetLogLevel())
		os.Exit(1)
	}
	logger.InitLogger(level)
}

func main() {
	_ = godotenv.Load()

	initLogger()
	logger.Infof("%s %s", config.GetName(), config.GetVersion())

	if err := database.InitDB(config.GetDBPath()); err != nil {
		logger.Error("init database failed: ", err)
		os.Exit(1)
	}

	gameConfig, err := config.LoadGameConfig(config.GetGameConfigPath())
	if err != nil {
		logger.Error("load game config failed: ", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStore(config.GetAssetDir(), config.GetAssetBaseURL())
	if err != nil {
		logger.Error("init object store failed: ", err)
		os.Exit(1)
	}

	server := web.NewServer(gameConfig, store)
	global.SetWebServer(server)

	if err := server.Start(); err != nil {
		logger.Error("start web server failed: ", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := server.Stop(); err != nil {
		logger.Warning("stop web server: ", err)
	}
}
