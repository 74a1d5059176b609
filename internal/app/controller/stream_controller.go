package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/variant-editor/internal/app/service"
	"github.com/ikkim/variant-editor/internal/app/variant"
	apperrors "github.com/ikkim/variant-editor/internal/errors"
	"github.com/ikkim/variant-editor/internal/middleware"
	ws "github.com/ikkim/variant-editor/internal/websocket"
)

type StreamController struct {
	sessionService service.SessionService
	hub            *ws.Hub
	upgrader       websocket.Upgrader
}

func NewStreamController(sessionService service.SessionService, hub *ws.Hub, allowedOrigins []string) *StreamController {
	return &StreamController{
		sessionService: sessionService,
		hub:            hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker accepts requests without an Origin header (non-browser
// clients) and origins listed in ALLOWED_ORIGINS; "*" accepts all.
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// Subscribe upgrades to a websocket that receives every snapshot of the session
// GET /api/v1/sessions/:id/ws
func (ctrl *StreamController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := c.Param("id")

	if _, err := ctrl.sessionService.GetSnapshot(sessionID); err != nil {
		apperrors.ParseAndRespond(c, err, "subscribe")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, sessionID)
	if !ctrl.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	// The initial frame is taken under the session lock after registration,
	// so every later edit reaches the client after it.
	err = ctrl.sessionService.View(sessionID, func(e *variant.Editor) error {
		frame, err := ws.SnapshotFrame(sessionID, e.Snapshot())
		if err != nil {
			return err
		}
		ctrl.hub.Deliver(client, frame)
		return nil
	})
	if err != nil {
		log.Warn("Session closed before the initial snapshot", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		// the session is gone; close whatever subscribed to it in the meantime
		ctrl.hub.CloseSession(sessionID)
		return
	}

	log.Info("WebSocket connection established", map[string]interface{}{
		"session_id": sessionID,
	})
}
