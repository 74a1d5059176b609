package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-editor/internal/app/service"
	apperrors "github.com/ikkim/variant-editor/internal/errors"
	"github.com/ikkim/variant-editor/internal/middleware"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// CreateSession starts an empty editing session
// POST /api/v1/sessions
func (ctrl *SessionController) CreateSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session, snap, err := ctrl.sessionService.CreateSession()
	if err != nil {
		log.Error("Failed to create session", err)
		apperrors.ParseAndRespond(c, err, "create session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"session":    session,
		"snapshot":   snap,
	})
}

// GetSession returns the current snapshot
// GET /api/v1/sessions/:id
func (ctrl *SessionController) GetSession(c *gin.Context) {
	sessionID := c.Param("id")

	snap, err := ctrl.sessionService.GetSnapshot(sessionID)
	if err != nil {
		apperrors.ParseAndRespond(c, err, "get session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"snapshot":   snap,
	})
}

// DeleteSession discards a session and disconnects its subscribers
// DELETE /api/v1/sessions/:id
func (ctrl *SessionController) DeleteSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := c.Param("id")

	if err := ctrl.sessionService.DeleteSession(sessionID); err != nil {
		apperrors.ParseAndRespond(c, err, "delete session")
		return
	}

	log.Info("Session deleted", map[string]interface{}{
		"session_id": sessionID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Session deleted",
	})
}
