package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-editor/internal/app/service"
	apperrors "github.com/ikkim/variant-editor/internal/errors"
	"github.com/ikkim/variant-editor/internal/middleware"
)

type ExportController struct {
	sessionService service.SessionService
	exportService  service.ExportService
}

func NewExportController(sessionService service.SessionService, exportService service.ExportService) *ExportController {
	return &ExportController{
		sessionService: sessionService,
		exportService:  exportService,
	}
}

// DownloadXLSX streams the variant table as a workbook
// GET /api/v1/sessions/:id/export.xlsx
func (ctrl *ExportController) DownloadXLSX(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := c.Param("id")

	snap, err := ctrl.sessionService.GetSnapshot(sessionID)
	if err != nil {
		apperrors.ParseAndRespond(c, err, "export")
		return
	}

	var buf bytes.Buffer
	if err := ctrl.exportService.WriteXLSX(snap, &buf); err != nil {
		log.Error("Failed to render export", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.ParseAndRespond(c, err, "export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="variants-%s.xlsx"`, sessionID))
	c.Data(http.StatusOK, service.XLSXContentType, buf.Bytes())
}

// UploadXLSX stores the workbook in object storage and returns a download link
// POST /api/v1/sessions/:id/export/s3
func (ctrl *ExportController) UploadXLSX(c *gin.Context) {
	sessionID := c.Param("id")

	snap, err := ctrl.sessionService.GetSnapshot(sessionID)
	if err != nil {
		apperrors.ParseAndRespond(c, err, "export")
		return
	}

	result, err := ctrl.exportService.UploadXLSX(c.Request.Context(), sessionID, snap)
	if err != nil {
		apperrors.ParseAndRespond(c, err, "export")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"export": result,
	})
}
