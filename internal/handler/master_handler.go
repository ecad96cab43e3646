package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"indentflow/internal/domain"
	"indentflow/internal/service"
)

// MasterHandler handles dropdown master data endpoints.
type MasterHandler struct {
	masterService service.MasterService
}

// NewMasterHandler creates a new MasterHandler.
func NewMasterHandler(masterService service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// List handles GET /api/v1/masters and GET /api/v1/masters?kind=uom
// @Summary List master options
// @Description Without kind, returns every kind grouped.
// @Tags masters
// @Produce json
// @Param kind query string false "Option kind, e.g. uom"
// @Success 200 {object} APIResponse "Options"
// @Failure 400 {object} APIResponse "Invalid kind"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /masters [get]
func (h *MasterHandler) List(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	kind := c.Query("kind")
	if kind == "" {
		grouped, err := h.masterService.ListGrouped(c.Request.Context(), actor)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, grouped)
		return
	}

	opts, err := h.masterService.List(c.Request.Context(), actor, domain.MasterKind(kind))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, opts)
}

// Add handles POST /api/v1/masters
// @Summary Add a master option
// @Tags masters
// @Accept json
// @Produce json
// @Param request body service.AddMasterOptionInput true "Option"
// @Success 201 {object} APIResponse{data=domain.MasterOption} "Option added"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 409 {object} APIResponse "Option already exists"
// @Security BearerAuth
// @Router /masters [post]
func (h *MasterHandler) Add(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	var input service.AddMasterOptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	opt, err := h.masterService.Add(c.Request.Context(), actor, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, opt)
}

// Delete handles DELETE /api/v1/masters/:id
// @Summary Delete a master option
// @Tags masters
// @Produce json
// @Param id path string true "Option ID (UUID)"
// @Success 200 {object} APIResponse "Option deleted"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden - admin only"
// @Failure 404 {object} APIResponse "Option not found"
// @Security BearerAuth
// @Router /masters/{id} [delete]
func (h *MasterHandler) Delete(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.masterService.Delete(c.Request.Context(), actor, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "option deleted"})
}
