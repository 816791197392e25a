package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sermonclip/config"
	"sermonclip/internal/handler"
	"sermonclip/internal/queue"
	"sermonclip/internal/router"
	"sermonclip/internal/service"
	"sermonclip/internal/taskrunner"
	"sermonclip/log"
)

// StartBackend wires the dispatcher, mounts the API and serves it. Blocks
// until the listener fails.
func StartBackend() error {
	h := handler.NewHandler()

	if config.Conf.Queue.Enabled {
		q := queue.NewQueue()
		service.Dispatch = q
		go func() {
			if err := q.StartWorker(h.Service); err != nil {
				log.GetLogger().Fatal("render queue worker stopped", zap.Error(err))
			}
		}()
		log.GetLogger().Info("render tasks dispatched through redis queue",
			zap.String("addr", config.Conf.Queue.RedisAddr))
	} else {
		runner := taskrunner.NewRunner(h.Service, config.Conf.Queue.Concurrency, 32)
		service.Dispatch = runner
		log.GetLogger().Info("render tasks dispatched in process",
			zap.Int("workers", config.Conf.Queue.Concurrency))
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.Default()
	router.SetupRouter(engine, h)

	addr := fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
	log.GetLogger().Info("server started", zap.String("addr", addr))
	return engine.Run(addr)
}
