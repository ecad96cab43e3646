package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"indentflow/internal/service"
)

// LiftHandler handles goods receipt and accounting endpoints.
type LiftHandler struct {
	liftService   service.LiftService
	exportService service.ExportService
}

// NewLiftHandler creates a new LiftHandler.
func NewLiftHandler(liftService service.LiftService, exportService service.ExportService) *LiftHandler {
	return &LiftHandler{liftService: liftService, exportService: exportService}
}

// Create handles POST /api/v1/lifts
// @Summary Record a lift
// @Description Record goods lifted against an indent pending at receipt. Partial lifts are allowed up to the approved quantity.
// @Tags lifts
// @Accept json
// @Produce json
// @Param request body service.CreateLiftInput true "Lift details"
// @Success 201 {object} APIResponse{data=domain.Lift} "Lift created"
// @Failure 400 {object} APIResponse "Validation error or quantity above approved"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Indent not found"
// @Failure 409 {object} APIResponse "Receipt not pending"
// @Security BearerAuth
// @Router /lifts [post]
func (h *LiftHandler) Create(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	var input service.CreateLiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	lift, err := h.liftService.Create(c.Request.Context(), actor, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, lift)
}

// List handles GET /api/v1/lifts?stage=store_in&view=pending
// @Summary List lifts by stage
// @Tags lifts
// @Produce json
// @Param stage query string true "Stage name, e.g. store_in"
// @Param view query string false "pending or history" default(pending)
// @Param firm query string false "Exact firm name filter"
// @Param search query string false "Search number, product, indenter or vendor"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.Lift,meta=PagMeta} "Lifts in the view"
// @Failure 400 {object} APIResponse "Unknown stage or view"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /lifts [get]
func (h *LiftHandler) List(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	filter := parseStageFilter(c)
	lifts, total, err := h.liftService.ListByStage(c.Request.Context(), actor, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, lifts, PagMeta{Total: total, Offset: filter.Offset, Limit: filter.Limit})
}

// ListByIndent handles GET /api/v1/indents/:id/lifts
// @Summary List lifts of an indent
// @Tags lifts
// @Produce json
// @Param id path string true "Indent ID (UUID)"
// @Success 200 {object} APIResponse{data=[]domain.Lift} "Lifts"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Indent not found"
// @Security BearerAuth
// @Router /indents/{id}/lifts [get]
func (h *LiftHandler) ListByIndent(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	indentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	lifts, err := h.liftService.ListByIndent(c.Request.Context(), actor, indentID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lifts)
}

// GetByID handles GET /api/v1/lifts/:id
// @Summary Get lift by ID
// @Tags lifts
// @Produce json
// @Param id path string true "Lift ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Lift} "Lift details"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Lift not found"
// @Security BearerAuth
// @Router /lifts/{id} [get]
func (h *LiftHandler) GetByID(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lift, err := h.liftService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lift)
}

// StoreIn handles POST /api/v1/lifts/:id/store-in
// @Summary Store in a lift
// @Description Record the received quantity and quality check.
// @Tags lifts
// @Accept json
// @Produce json
// @Param id path string true "Lift ID (UUID)"
// @Param request body service.StoreInInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Lift} "Updated lift"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Lift not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /lifts/{id}/store-in [post]
func (h *LiftHandler) StoreIn(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.StoreInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	lift, err := h.liftService.StoreIn(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lift)
}

// CheckBill handles POST /api/v1/lifts/:id/bill-check
// @Summary Check the bill
// @Description Reconcile the vendor bill against the receipt and PO. Completes with matched or mismatch.
// @Tags lifts
// @Accept json
// @Produce json
// @Param id path string true "Lift ID (UUID)"
// @Param request body service.BillCheckInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Lift} "Updated lift"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Lift not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /lifts/{id}/bill-check [post]
func (h *LiftHandler) CheckBill(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.BillCheckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	lift, err := h.liftService.CheckBill(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lift)
}

// EnterTally handles POST /api/v1/lifts/:id/tally
// @Summary Enter tally
// @Description Record the tally voucher, or not_done to plan a correction.
// @Tags lifts
// @Accept json
// @Produce json
// @Param id path string true "Lift ID (UUID)"
// @Param request body service.TallyInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Lift} "Updated lift"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Lift not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /lifts/{id}/tally [post]
func (h *LiftHandler) EnterTally(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.TallyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	lift, err := h.liftService.EnterTally(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lift)
}

// CorrectTally handles POST /api/v1/lifts/:id/correction
// @Summary Correct tally
// @Tags lifts
// @Accept json
// @Produce json
// @Param id path string true "Lift ID (UUID)"
// @Param request body service.CorrectionInput true "Stage input"
// @Success 200 {object} APIResponse{data=domain.Lift} "Updated lift"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Lift not found"
// @Failure 409 {object} APIResponse "Stale version or stage not pending"
// @Security BearerAuth
// @Router /lifts/{id}/correction [post]
func (h *LiftHandler) CorrectTally(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.CorrectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	lift, err := h.liftService.CorrectTally(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lift)
}

// History handles GET /api/v1/lifts/:id/history
// @Summary Lift audit history
// @Tags lifts
// @Produce json
// @Param id path string true "Lift ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.AuditEntry,meta=PagMeta} "Audit entries"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Lift not found"
// @Security BearerAuth
// @Router /lifts/{id}/history [get]
func (h *LiftHandler) History(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	entries, total, err := h.liftService.History(c.Request.Context(), actor, id, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Anomalies handles GET /api/v1/lifts/anomalies
// @Summary List lift anomalies
// @Description Lifts whose stage history is out of order.
// @Tags lifts
// @Produce json
// @Success 200 {object} APIResponse{data=[]service.LiftAnomaly} "Anomalies"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /lifts/anomalies [get]
func (h *LiftHandler) Anomalies(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	anomalies, err := h.liftService.Anomalies(c.Request.Context(), actor)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, anomalies)
}

// Export handles GET /api/v1/lifts/export?stage=&view=&format=csv|xlsx
// @Summary Export lifts
// @Description Export a stage view as CSV or XLSX.
// @Tags lifts
// @Produce octet-stream
// @Param stage query string true "Stage name, e.g. store_in"
// @Param view query string false "pending or history" default(pending)
// @Param firm query string false "Exact firm name filter"
// @Param search query string false "Search number, product, indenter or vendor"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export attachment"
// @Failure 400 {object} APIResponse "Unknown stage, view or format"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /lifts/export [get]
func (h *LiftHandler) Export(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))
	file, err := h.exportService.ExportLifts(c.Request.Context(), actor, parseStageFilter(c), format)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondFile(c, file)
}
