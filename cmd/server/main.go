package main

import (
	"go.uber.org/zap"

	"sermonclip/config"
	"sermonclip/internal/server"
	"sermonclip/internal/storage"
	"sermonclip/log"
)

func main() {
	log.InitLogger()
	defer func() {
		_ = log.GetLogger().Sync()
	}()

	if !config.LoadConfig() {
		log.GetLogger().Fatal("config is invalid, fix it and restart")
	}
	if err := config.CheckConfig(); err != nil {
		log.GetLogger().Warn("config is incomplete, generation will fail until it is filled in", zap.Error(err))
	}

	storage.InitDB()
	if n, err := storage.MarkStaleTasks(); err != nil {
		log.GetLogger().Error("failed to mark stale tasks", zap.Error(err))
	} else if n > 0 {
		log.GetLogger().Info("marked interrupted tasks as failed", zap.Int64("count", n))
	}

	if err := server.StartBackend(); err != nil {
		log.GetLogger().Fatal("server exited", zap.Error(err))
	}
}
