package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"indentflow/internal/service"
)

// VendorHandler handles vendor master endpoints.
type VendorHandler struct {
	vendorService service.VendorService
}

// NewVendorHandler creates a new VendorHandler.
func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// Create handles POST /api/v1/vendors
// @Summary Create a vendor
// @Description Admin or purchaser only.
// @Tags vendors
// @Accept json
// @Produce json
// @Param request body service.CreateVendorInput true "Vendor details"
// @Success 201 {object} APIResponse{data=domain.Vendor} "Vendor created"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 409 {object} APIResponse "Vendor already exists"
// @Security BearerAuth
// @Router /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	var input service.CreateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), actor, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, vendor)
}

// List handles GET /api/v1/vendors?search=
// @Summary List vendors
// @Tags vendors
// @Produce json
// @Param search query string false "Name search"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.Vendor,meta=PagMeta} "Vendors"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	vendors, total, err := h.vendorService.List(c.Request.Context(), actor, c.Query("search"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, vendors, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/vendors/:id
// @Summary Get vendor by ID
// @Tags vendors
// @Produce json
// @Param id path string true "Vendor ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Vendor} "Vendor"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Vendor not found"
// @Security BearerAuth
// @Router /vendors/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, vendor)
}

// Update handles PUT /api/v1/vendors/:id
// @Summary Update a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID (UUID)"
// @Param request body service.UpdateVendorInput true "Fields to update"
// @Success 200 {object} APIResponse{data=domain.Vendor} "Vendor updated"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Vendor not found"
// @Security BearerAuth
// @Router /vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.UpdateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, vendor)
}

// Delete handles DELETE /api/v1/vendors/:id
// @Summary Delete a vendor
// @Tags vendors
// @Produce json
// @Param id path string true "Vendor ID (UUID)"
// @Success 200 {object} APIResponse "Vendor deleted"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Vendor not found"
// @Security BearerAuth
// @Router /vendors/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), actor, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "vendor deleted"})
}
