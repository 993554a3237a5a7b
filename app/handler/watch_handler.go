package handler

import (
	"net/http"
	"time"

	"floortrack/internal/service"
	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Shop-floor terminals connect from the local network without an Origin
	// the server knows about.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type totalUpdate struct {
	PartGID      string    `json:"part_gid"`
	RunningTotal int       `json:"running_total"`
	At           time.Time `json:"at"`
}

// WatchHandler streams running totals over websocket
type WatchHandler struct {
	sessionService *service.SessionService
	pushInterval   time.Duration
}

// NewWatchHandler creates watch handler
func NewWatchHandler(sessionService *service.SessionService, pushInterval time.Duration) *WatchHandler {
	if pushInterval <= 0 {
		pushInterval = 2 * time.Second
	}
	return &WatchHandler{
		sessionService: sessionService,
		pushInterval:   pushInterval,
	}
}

// Watch upgrades to websocket and pushes the part's running total until the
// client disconnects. Only changed totals are sent after the initial push.
// @Summary Watch a part's running total
// @Tags parts
// @Param part_gid path string true "Part task reference"
// @Router /parts/{part_gid}/watch [get]
func (h *WatchHandler) Watch(c *gin.Context) {
	partGID := c.Param("part_gid")
	if partGID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "part_gid required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	// Reader goroutine: its only job is to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	last := -1
	push := func() bool {
		total, err := h.sessionService.RunningTotal(ctx, partGID)
		if err != nil {
			logger.WarnCtx(ctx, "running total push failed, part: %s, error: %v", partGID, err)
			return true
		}
		if total == last {
			return true
		}
		last = total

		update := totalUpdate{PartGID: partGID, RunningTotal: total, At: time.Now().UTC()}
		if err := conn.WriteJSON(update); err != nil {
			return false
		}
		return true
	}

	if !push() {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}
