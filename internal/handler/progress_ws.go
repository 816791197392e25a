package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sermonclip/internal/progress"
	"sermonclip/internal/response"
	"sermonclip/internal/types"
	"sermonclip/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is local-first, same-origin checks would only break the
	// bundled frontend in dev.
	CheckOrigin: func(*http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// ProgressWS streams render progress for one task over a websocket. The
// stream closes once the task reaches a terminal state.
func (h Handler) ProgressWS(c *gin.Context) {
	taskId := c.Query("taskId")
	if taskId == "" {
		response.BadRequest(c, "taskId is required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.GetLogger().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := progress.Subscribe(taskId)
	defer cancel()

	// Drain reads so close frames are processed.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case update := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err = conn.WriteJSON(update); err != nil {
				return
			}
			if update.Status == types.RenderTaskStatusSuccess || update.Status == types.RenderTaskStatusFailed {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteTimeout))
				return
			}
		case <-clientGone:
			return
		}
	}
}
