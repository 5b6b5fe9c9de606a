package handler

import (
	"net/http"

	"procurement/internal/middleware"
	"procurement/internal/model"
	"procurement/internal/service"
	"procurement/internal/workflow"
	"procurement/pkg/pagination"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
)

type PurchaseOrderHandler struct {
	orderService    service.PurchaseOrderService
	approvalService service.ApprovalService
}

// NewPurchaseOrderHandler sets up the routing dependencies for purchase order endpoints
func NewPurchaseOrderHandler(orderService service.PurchaseOrderService, approvalService service.ApprovalService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService, approvalService: approvalService}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.POST("", middleware.RequireRole(model.RoleProcurementOfficer), h.CreateOrder)
		orders.GET("", middleware.RequireRole(allRoles()...), h.ListOrders)
		orders.GET("/:id", middleware.RequireRole(allRoles()...), h.GetOrder)
		orders.PUT("/:id/approve/accountant", middleware.RequireRole(model.RoleAccountant), h.ApproveAccountant)
		orders.PUT("/:id/approve/president", middleware.RequireRole(model.RolePresident), h.ApprovePresident)
	}
}

// CreateOrder handles POST /api/orders. Issuing an order also marks the
// source purchase request APPROVED; at most one order exists per request.
func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreatePurchaseOrderDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListOrders handles GET /api/orders, optionally filtered by status
func (h *PurchaseOrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetOrder handles GET /api/orders/:id
func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	result, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ApproveAccountant handles PUT /api/orders/:id/approve/accountant
func (h *PurchaseOrderHandler) ApproveAccountant(c *gin.Context) {
	h.approveStage(c, workflow.StageAccountant)
}

// ApprovePresident handles PUT /api/orders/:id/approve/president. The
// president stage requires the accountant stage to be approved first and
// moves the order to APPROVED.
func (h *PurchaseOrderHandler) ApprovePresident(c *gin.Context) {
	h.approveStage(c, workflow.StagePresident)
}

func (h *PurchaseOrderHandler) approveStage(c *gin.Context, stage workflow.Stage) {
	result, err := h.approvalService.ApproveStage(
		c.Request.Context(),
		workflow.KindPurchaseOrder,
		c.Param("id"),
		stage,
		actingUserID(c),
	)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
