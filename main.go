package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/akraev/simple-api/config"
	"github.com/akraev/simple-api/database"
	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/web"
	"github.com/akraev/simple-api/web/cache"

	"github.com/op/go-logging"
)

func runWebServer() {
	log.Printf("%v", config.GetName())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
	defer logger.CloseLogger()

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	if err := cache.InitRedis(config.GetRedisAddr()); err != nil {
		log.Fatal(err)
	}
	if cache.IsEmbedded() {
		logger.Warning("using embedded redis: issued tokens and cached reads will not survive a restart")
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warning("close redis err:", err)
		}
	}()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func main() {
	runWebServer()
}
