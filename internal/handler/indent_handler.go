package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"indentflow/internal/domain"
	"indentflow/internal/service"
)

// IndentHandler handles indent workflow endpoints.
type IndentHandler struct {
	indentService service.IndentService
	exportService service.ExportService
}

// NewIndentHandler creates a new IndentHandler.
func NewIndentHandler(indentService service.IndentService, exportService service.ExportService) *IndentHandler {
	return &IndentHandler{indentService: indentService, exportService: exportService}
}

// parseStageFilter reads stage, view, firm, search and pagination from the
// query string. view defaults to pending.
func parseStageFilter(c *gin.Context) domain.StageFilter {
	offset, limit := parsePagination(c)
	return domain.StageFilter{
		Stage:  domain.Stage(strings.TrimSpace(c.Query("stage"))),
		View:   domain.View(c.DefaultQuery("view", string(domain.ViewPending))),
		Firm:   strings.TrimSpace(c.Query("firm")),
		Search: strings.TrimSpace(c.Query("search")),
		Offset: offset,
		Limit:  limit,
	}
}

// respondFile streams an export as an attachment.
func respondFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Create handles POST /api/v1/indents
// @Summary Create an indent
// @Description Raise a material indent. The indent is numbered and planned for approval.
// @Tags indents
// @Accept json
// @Produce json
// @Param request body service.CreateIndentInput true "Indent details"
// @Success 201 {object} APIResponse{data=domain.Indent} "Indent created"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Firm outside caller access"
// @Security BearerAuth
// @Router /indents [post]
func (h *IndentHandler) Create(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	var input service.CreateIndentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	indent, err := h.indentService.Create(c.Request.Context(), actor, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, indent)
}

// List handles GET /api/v1/indents?stage=approval&view=pending
// @Summary List indents by stage
// @Description List indents pending at or done with a stage, scoped to the caller firm match.
// @Tags indents
// @Produce json
// @Param stage query string true "Stage name, e.g. approval"
// @Param view query string false "pending or history" default(pending)
// @Param firm query string false "Exact firm name filter"
// @Param search query string false "Search number, product, indenter or vendor"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.Indent,meta=PagMeta} "Indents in the view"
// @Failure 400 {object} APIResponse "Unknown stage or view"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /indents [get]
func (h *IndentHandler) List(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filter := parseStageFilter(c)
	indents, total, err := h.indentService.ListByStage(c.Request.Context(), actor, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, indents, PagMeta{Total: total, Offset: filter.Offset, Limit: filter.Limit})
}

// GetByID handles GET /api/v1/indents/:id
// @Summary Get indent by ID
// @Tags indents
// @Produce json
// @Param id path string true "Indent ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Indent} "Indent details"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Indent not found"
// @Security BearerAuth
// @Router /indents/{id} [get]
func (h *IndentHandler) GetByID(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	indent, err := h.indentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, indent)
}

// Approve handles POST /api/v1/indents/:id/approve
// @Summary Approve an indent
// @Description Set vendor type and approved quantity. Reject closes the indent.
// @Tags indents
// @Accept json
// @Produce json
// @Param id path string true "Indent ID (UUID)"
// @Param request body service.ApproveIndentInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Indent} "Updated indent"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Indent not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /indents/{id}/approve [post]
func (h *IndentHandler) Approve(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.ApproveIndentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	indent, err := h.indentService.Approve(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, indent)
}

// UpdateRate handles POST /api/v1/indents/:id/rate
// @Summary Set vendor rate
// @Description Record the vendor, rate and payment term, or three quotes for three party sourcing.
// @Tags indents
// @Accept json
// @Produce json
// @Param id path string true "Indent ID (UUID)"
// @Param request body service.UpdateRateInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Indent} "Updated indent"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Indent not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /indents/{id}/rate [post]
func (h *IndentHandler) UpdateRate(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.UpdateRateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	indent, err := h.indentService.UpdateRate(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, indent)
}

// ApproveThreeParty handles POST /api/v1/indents/:id/three-party
// @Summary Approve a three party quote
// @Tags indents
// @Accept json
// @Produce json
// @Param id path string true "Indent ID (UUID)"
// @Param request body service.ThreePartyInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Indent} "Updated indent"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Indent not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /indents/{id}/three-party [post]
func (h *IndentHandler) ApproveThreeParty(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.ThreePartyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	indent, err := h.indentService.ApproveThreeParty(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, indent)
}

// IssueFromStore handles POST /api/v1/indents/:id/store-issue
// @Summary Issue from store
// @Description Complete a store out indent with the issued quantity.
// @Tags indents
// @Accept json
// @Produce json
// @Param id path string true "Indent ID (UUID)"
// @Param request body service.StoreIssueInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Indent} "Updated indent"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Indent not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /indents/{id}/store-issue [post]
func (h *IndentHandler) IssueFromStore(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.StoreIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	indent, err := h.indentService.IssueFromStore(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, indent)
}

// History handles GET /api/v1/indents/:id/history
// @Summary Indent audit history
// @Tags indents
// @Produce json
// @Param id path string true "Indent ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.AuditEntry,meta=PagMeta} "Audit entries"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Indent not found"
// @Security BearerAuth
// @Router /indents/{id}/history [get]
func (h *IndentHandler) History(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	entries, total, err := h.indentService.History(c.Request.Context(), actor, id, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Anomalies handles GET /api/v1/indents/anomalies
// @Summary List indent anomalies
// @Description Indents whose stage history is out of order.
// @Tags indents
// @Produce json
// @Success 200 {object} APIResponse{data=[]service.IndentAnomaly} "Anomalies"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /indents/anomalies [get]
func (h *IndentHandler) Anomalies(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	anomalies, err := h.indentService.Anomalies(c.Request.Context(), actor)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, anomalies)
}

// Import handles POST /api/v1/indents/import (multipart field "file").
// @Summary Import legacy indents
// @Description Import indents from an xlsx sheet (admin only).
// @Tags indents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Indent workbook"
// @Success 200 {object} APIResponse{data=service.ImportReport} "Import report"
// @Failure 400 {object} APIResponse "Missing or invalid workbook"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden - admin only"
// @Security BearerAuth
// @Router /indents/import [post]
func (h *IndentHandler) Import(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	report, err := h.indentService.Import(c.Request.Context(), actor, file)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// Export handles GET /api/v1/indents/export?stage=&view=&format=csv|xlsx
// Without a stage every indent in scope is exported.
// @Summary Export indents
// @Description Export a stage view as CSV or XLSX.
// @Tags indents
// @Produce octet-stream
// @Param stage query string true "Stage name, e.g. approval"
// @Param view query string false "pending or history" default(pending)
// @Param firm query string false "Exact firm name filter"
// @Param search query string false "Search number, product, indenter or vendor"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export attachment"
// @Failure 400 {object} APIResponse "Unknown stage, view or format"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /indents/export [get]
func (h *IndentHandler) Export(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))
	file, err := h.exportService.ExportIndents(c.Request.Context(), actor, parseStageFilter(c), format)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondFile(c, file)
}
