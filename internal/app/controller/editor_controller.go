package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/ikkim/variant-editor/internal/app/service"
	"github.com/ikkim/variant-editor/internal/app/variant"
	apperrors "github.com/ikkim/variant-editor/internal/errors"
	"github.com/ikkim/variant-editor/internal/middleware"
)

// DefaultMaxImportBytes caps uploaded option sheets.
const DefaultMaxImportBytes = 5 << 20

type EditorController struct {
	sessionService service.SessionService
	maxImportBytes int64
}

func NewEditorController(sessionService service.SessionService, maxImportBytes ...int64) *EditorController {
	limit := int64(DefaultMaxImportBytes)
	if len(maxImportBytes) > 0 && maxImportBytes[0] > 0 {
		limit = maxImportBytes[0]
	}
	return &EditorController{
		sessionService: sessionService,
		maxImportBytes: limit,
	}
}

type RenameOptionRequest struct {
	Name string `json:"name"`
}

type ValueRequest struct {
	Value string `json:"value"`
}

// VariantFieldRequest accepts the value as a JSON string or number.
type VariantFieldRequest struct {
	Value json.RawMessage `json:"value"`
}

type GroupByRequest struct {
	OptionName string `json:"option_name"`
}

type SearchRequest struct {
	Term string `json:"term"`
}

type GroupKeyRequest struct {
	GroupKey string `json:"group_key"`
}

// AddOption appends an empty option
// POST /api/v1/sessions/:id/options
func (ctrl *EditorController) AddOption(c *gin.Context) {
	var optionID uint
	snap, ok := ctrl.apply(c, "add_option", func(e *variant.Editor) {
		optionID = e.AddOption()
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"option_id": optionID,
		"snapshot":  snap,
	})
}

// DeleteOption removes an option
// DELETE /api/v1/sessions/:id/options/:optionId
func (ctrl *EditorController) DeleteOption(c *gin.Context) {
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}
	ctrl.applyAndRespond(c, "delete_option", func(e *variant.Editor) {
		e.DeleteOption(optionID)
	})
}

// RenameOption sets an option's name
// PUT /api/v1/sessions/:id/options/:optionId/name
func (ctrl *EditorController) RenameOption(c *gin.Context) {
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}
	var req RenameOptionRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.applyAndRespond(c, "rename_option", func(e *variant.Editor) {
		e.RenameOption(optionID, req.Name)
	})
}

// AddValue appends a value to an option
// POST /api/v1/sessions/:id/options/:optionId/values
func (ctrl *EditorController) AddValue(c *gin.Context) {
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}
	var req ValueRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.applyAndRespond(c, "add_value", func(e *variant.Editor) {
		e.AddValue(optionID, req.Value)
	})
}

// UpdateValue replaces the value at an index
// PUT /api/v1/sessions/:id/options/:optionId/values/:index
func (ctrl *EditorController) UpdateValue(c *gin.Context) {
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}
	var req ValueRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.applyAndRespond(c, "update_value", func(e *variant.Editor) {
		e.UpdateValue(optionID, index, req.Value)
	})
}

// DeleteValue removes the value at an index
// DELETE /api/v1/sessions/:id/options/:optionId/values/:index
func (ctrl *EditorController) DeleteValue(c *gin.Context) {
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}
	ctrl.applyAndRespond(c, "delete_value", func(e *variant.Editor) {
		e.DeleteValue(optionID, index)
	})
}

// ImportOptions replaces all options with the ones in an uploaded XLSX sheet
// POST /api/v1/sessions/:id/options/import
func (ctrl *EditorController) ImportOptions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "An option sheet file is required")
		return
	}
	if fileHeader.Size > ctrl.maxImportBytes {
		apperrors.BadRequest(c, apperrors.ImportFileTooLarge, "The option sheet is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded option sheet", err)
		apperrors.InternalError(c, "")
		return
	}
	defer file.Close()

	drafts, err := service.ReadOptionSheet(file)
	if err != nil {
		log.Warn("Rejected option sheet", map[string]interface{}{
			"filename": fileHeader.Filename,
			"error":    err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "import")
		return
	}

	accepted := false
	snap, ok := ctrl.apply(c, "import_options", func(e *variant.Editor) {
		accepted = e.ReplaceOptions(drafts)
	})
	if !ok {
		return
	}
	if !accepted {
		apperrors.Conflict(c, apperrors.ImportRejected, "The sheet produces too many variants")
		return
	}

	log.Info("Options imported", map[string]interface{}{
		"session_id": c.Param("id"),
		"options":    len(drafts),
		"variants":   len(snap.Variants),
	})
	c.JSON(http.StatusOK, gin.H{
		"snapshot": snap,
	})
}

// UpdateVariantField sets a variant's price or inventory
// PUT /api/v1/sessions/:id/variants/:variantId/:field
func (ctrl *EditorController) UpdateVariantField(c *gin.Context) {
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}
	field := model.VariantField(c.Param("field"))
	if !field.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidField, "Field must be price or inventory")
		return
	}
	var req VariantFieldRequest
	if !bindJSON(c, &req) {
		return
	}
	raw, ok := rawFieldValue(req.Value)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Value must be a string or a number")
		return
	}
	ctrl.applyAndRespond(c, "update_variant", func(e *variant.Editor) {
		e.UpdateVariantField(variantID, field, raw)
	})
}

// SetGroupBy
// PUT /api/v1/sessions/:id/view/group-by
func (ctrl *EditorController) SetGroupBy(c *gin.Context) {
	var req GroupByRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.applyAndRespond(c, "set_group_by", func(e *variant.Editor) {
		e.SetGroupBy(req.OptionName)
	})
}

// SetSearchTerm
// PUT /api/v1/sessions/:id/view/search
func (ctrl *EditorController) SetSearchTerm(c *gin.Context) {
	var req SearchRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.applyAndRespond(c, "set_search", func(e *variant.Editor) {
		e.SetSearchTerm(req.Term)
	})
}

// ToggleSelection
// POST /api/v1/sessions/:id/view/selection/:variantId
func (ctrl *EditorController) ToggleSelection(c *gin.Context) {
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}
	ctrl.applyAndRespond(c, "toggle_selection", func(e *variant.Editor) {
		e.ToggleSelection(variantID)
	})
}

// ToggleSelectAll
// POST /api/v1/sessions/:id/view/selection-all
func (ctrl *EditorController) ToggleSelectAll(c *gin.Context) {
	ctrl.applyAndRespond(c, "toggle_select_all", func(e *variant.Editor) {
		e.ToggleSelectAll()
	})
}

// ToggleGroupSelection
// POST /api/v1/sessions/:id/view/group-selection
func (ctrl *EditorController) ToggleGroupSelection(c *gin.Context) {
	var req GroupKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.applyAndRespond(c, "toggle_group_selection", func(e *variant.Editor) {
		e.ToggleGroupSelection(req.GroupKey)
	})
}

// ToggleGroupExpansion
// POST /api/v1/sessions/:id/view/expansion
func (ctrl *EditorController) ToggleGroupExpansion(c *gin.Context) {
	var req GroupKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.applyAndRespond(c, "toggle_expansion", func(e *variant.Editor) {
		e.ToggleGroupExpansion(req.GroupKey)
	})
}

// CollapseAll
// POST /api/v1/sessions/:id/view/collapse-all
func (ctrl *EditorController) CollapseAll(c *gin.Context) {
	ctrl.applyAndRespond(c, "collapse_all", func(e *variant.Editor) {
		e.CollapseAll()
	})
}

// ExpandAll
// POST /api/v1/sessions/:id/view/expand-all
func (ctrl *EditorController) ExpandAll(c *gin.Context) {
	ctrl.applyAndRespond(c, "expand_all", func(e *variant.Editor) {
		e.ExpandAll()
	})
}

func (ctrl *EditorController) apply(c *gin.Context, operation string, fn func(*variant.Editor)) (variant.Snapshot, bool) {
	snap, err := ctrl.sessionService.Apply(c.Param("id"), operation, fn)
	if err != nil {
		apperrors.ParseAndRespond(c, err, operation)
		return variant.Snapshot{}, false
	}
	return snap, true
}

func (ctrl *EditorController) applyAndRespond(c *gin.Context, operation string, fn func(*variant.Editor)) {
	snap, ok := ctrl.apply(c, operation, fn)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshot": snap,
	})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid path ID", map[string]interface{}{
			name:    idStr,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func parseIndexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid index")
		return 0, false
	}
	return index, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return false
	}
	return true
}

// rawFieldValue turns a JSON string or number into the raw text the numeric
// parser expects. A missing or null value becomes "".
func rawFieldValue(value json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", true
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
	return "", false
}
