package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"indentflow/internal/service"
)

// PurchaseOrderHandler handles purchase order endpoints.
type PurchaseOrderHandler struct {
	poService service.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(poService service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

// Create handles POST /api/v1/purchase-orders
// @Summary Create a purchase order
// @Description Group indents pending at the PO stage into one order. All indents must share firm and vendor.
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param request body service.CreatePOInput true "Indents and terms"
// @Success 201 {object} APIResponse{data=domain.PurchaseOrder} "Purchase order created"
// @Failure 400 {object} APIResponse "Validation error, mixed firms or vendors, or missing rate"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Role may not act on this stage"
// @Failure 404 {object} APIResponse "Indent not found"
// @Failure 409 {object} APIResponse "Stage not pending"
// @Security BearerAuth
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	var input service.CreatePOInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	po, err := h.poService.Create(c.Request.Context(), actor, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, po)
}

// List handles GET /api/v1/purchase-orders
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.PurchaseOrder,meta=PagMeta} "Purchase orders"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	pos, total, err := h.poService.List(c.Request.Context(), actor, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, pos, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/purchase-orders/:id
// @Summary Get purchase order by ID
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.PurchaseOrder} "Purchase order"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Purchase order not found"
// @Security BearerAuth
// @Router /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	po, err := h.poService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, po)
}

// Download handles GET /api/v1/purchase-orders/:id/download
// @Summary Purchase order PDF link
// @Description Returns a presigned URL for the rendered PDF.
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID (UUID)"
// @Success 200 {object} APIResponse "Download URL"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Purchase order or PDF not found"
// @Security BearerAuth
// @Router /purchase-orders/{id}/download [get]
func (h *PurchaseOrderHandler) Download(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.poService.GetDownloadURL(c.Request.Context(), actor, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": url})
}

// RegeneratePDF handles POST /api/v1/purchase-orders/:id/pdf
// @Summary Regenerate purchase order PDF
// @Description Admin or purchaser only.
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.PurchaseOrder} "Purchase order"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Purchase order not found"
// @Security BearerAuth
// @Router /purchase-orders/{id}/pdf [post]
func (h *PurchaseOrderHandler) RegeneratePDF(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	po, err := h.poService.RegeneratePDF(c.Request.Context(), actor, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, po)
}
