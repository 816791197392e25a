package router

import (
	"github.com/gin-gonic/gin"

	"sermonclip/internal/handler"
)

// SetupRouter mounts the API. The handler carries all service wiring.
func SetupRouter(r *gin.Engine, h *handler.Handler) {
	api := r.Group("/api")
	{
		api.POST("/quotes/extract", h.ExtractQuotes)
		api.POST("/transcript/upload", h.UploadTranscript)

		api.POST("/wizard/session", h.CreateWizardSession)
		api.GET("/wizard/session/:sessionId", h.GetWizardSession)
		api.POST("/wizard/session/:sessionId/message", h.WizardMessage)

		api.POST("/render/start", h.StartRenderTask)
		api.GET("/render/status", h.GetRenderTask)
		api.GET("/render/history", h.GetRenderTaskHistory)
		api.POST("/render/retry", h.RetryRenderTask)
		api.DELETE("/render/task", h.DeleteRenderTask)

		api.GET("/file/:taskId/:fileName", h.DownloadFile)
		api.GET("/ws/progress", h.ProgressWS)

		api.GET("/config", h.GetConfig)
		api.POST("/config", h.UpdateConfig)
	}
}
