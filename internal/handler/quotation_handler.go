package handler

import (
	"net/http"

	"procurement/internal/middleware"
	"procurement/internal/model"
	"procurement/internal/service"
	"procurement/pkg/pagination"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	quotationService service.QuotationService
}

// NewQuotationHandler sets up the routing dependencies for quotation endpoints
func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

func (h *QuotationHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotations := router.Group("/api/quotations")
	{
		quotations.POST("", middleware.RequireRole(model.RoleProcurementOfficer), h.CreateQuotation)
		quotations.GET("", middleware.RequireRole(allRoles()...), h.ListQuotations)
		quotations.GET("/:id", middleware.RequireRole(allRoles()...), h.GetQuotation)
		quotations.POST("/:id/suppliers", middleware.RequireRole(model.RoleProcurementOfficer), h.CreateSupplierQuotation)
		quotations.GET("/:id/suppliers", middleware.RequireRole(allRoles()...), h.ListSupplierQuotations)
	}
}

type createQuotationRequest struct {
	PurchaseRequestID string `json:"purchase_request_id" binding:"required"`
}

// CreateQuotation handles POST /api/quotations, copying items from an
// accountant-approved purchase request
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req createQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.quotationService.CreateFromRequest(c.Request.Context(), req.PurchaseRequestID, actingUserID(c))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListQuotations handles GET /api/quotations
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	params := pagination.Parse(c)

	quotations, total, err := h.quotationService.ListQuotations(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   quotations,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetQuotation handles GET /api/quotations/:id
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	result, err := h.quotationService.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreateSupplierQuotation handles POST /api/quotations/:id/suppliers
func (h *QuotationHandler) CreateSupplierQuotation(c *gin.Context) {
	var req service.CreateSupplierQuotationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.QuotationID = c.Param("id")

	result, err := h.quotationService.CreateSupplierQuotation(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListSupplierQuotations handles GET /api/quotations/:id/suppliers
func (h *QuotationHandler) ListSupplierQuotations(c *gin.Context) {
	result, err := h.quotationService.ListSupplierQuotations(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
