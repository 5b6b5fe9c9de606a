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

type PurchaseRequestHandler struct {
	requestService  service.PurchaseRequestService
	approvalService service.ApprovalService
}

// NewPurchaseRequestHandler sets up the routing dependencies for purchase request endpoints
func NewPurchaseRequestHandler(requestService service.PurchaseRequestService, approvalService service.ApprovalService) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{requestService: requestService, approvalService: approvalService}
}

func (h *PurchaseRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		requests.POST("", middleware.RequireRole(model.RoleRequester, model.RoleAdmin), h.CreateRequest)
		requests.GET("", middleware.RequireRole(allRoles()...), h.ListRequests)
		requests.GET("/:id", middleware.RequireRole(allRoles()...), h.GetRequest)
		requests.PUT("/:id/approve/officer", middleware.RequireRole(model.RoleProcurementOfficer), h.ApproveOfficer)
		requests.PUT("/:id/approve/accountant", middleware.RequireRole(model.RoleAccountant), h.ApproveAccountant)
		requests.PUT("/:id/reject", middleware.RequireRole(model.RoleAccountant), h.RejectRequest)
	}
}

// CreateRequest handles POST /api/requests
// @Summary      Create a purchase request
// @Description  Files a new purchase request with its line items; status starts at PENDING
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePurchaseRequestDTO  true  "Purchase Request Payload"
// @Success      201      {object}  response.Response{data=service.PurchaseRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/requests [post]
func (h *PurchaseRequestHandler) CreateRequest(c *gin.Context) {
	var req service.CreatePurchaseRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRequests handles GET /api/requests, optionally filtered by status
func (h *PurchaseRequestHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)

	requests, total, err := h.requestService.ListRequests(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   requests,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetRequest handles GET /api/requests/:id
func (h *PurchaseRequestHandler) GetRequest(c *gin.Context) {
	result, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ApproveOfficer handles PUT /api/requests/:id/approve/officer
// @Summary      Procurement officer approval
// @Description  Executes the procurement officer stage on a purchase request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase Request ID"
// @Success      200  {object}  response.Response{data=service.ApprovalResult}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/requests/{id}/approve/officer [put]
func (h *PurchaseRequestHandler) ApproveOfficer(c *gin.Context) {
	h.approveStage(c, workflow.StageOfficer)
}

// ApproveAccountant handles PUT /api/requests/:id/approve/accountant
func (h *PurchaseRequestHandler) ApproveAccountant(c *gin.Context) {
	h.approveStage(c, workflow.StageAccountant)
}

func (h *PurchaseRequestHandler) approveStage(c *gin.Context, stage workflow.Stage) {
	result, err := h.approvalService.ApproveStage(
		c.Request.Context(),
		workflow.KindPurchaseRequest,
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

// RejectRequest handles PUT /api/requests/:id/reject
func (h *PurchaseRequestHandler) RejectRequest(c *gin.Context) {
	var req service.RejectRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Rejection reason is required"))
		return
	}

	result, err := h.approvalService.RejectPurchaseRequest(c.Request.Context(), c.Param("id"), actingUserID(c), req.Reason)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// actingUserID pulls the authenticated principal id injected by the middleware
func actingUserID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)
	return userIDStr
}
