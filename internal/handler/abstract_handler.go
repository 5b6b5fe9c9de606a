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

type AbstractHandler struct {
	abstractService service.AbstractService
}

func NewAbstractHandler(abstractService service.AbstractService) *AbstractHandler {
	return &AbstractHandler{abstractService: abstractService}
}

func (h *AbstractHandler) RegisterRoutes(router *gin.RouterGroup) {
	abstracts := router.Group("/api/abstracts")
	{
		abstracts.POST("", middleware.RequireRole(model.RoleProcurementOfficer), h.CreateAbstract)
		abstracts.GET("", middleware.RequireRole(allRoles()...), h.ListAbstracts)
		abstracts.GET("/:id", middleware.RequireRole(allRoles()...), h.GetAbstract)
	}
}

// CreateAbstract handles POST /api/abstracts, tabulating supplier bids
// against a purchase request and recording the winning supplier
func (h *AbstractHandler) CreateAbstract(c *gin.Context) {
	var req service.CreateAbstractDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.abstractService.CreateAbstract(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListAbstracts handles GET /api/abstracts
func (h *AbstractHandler) ListAbstracts(c *gin.Context) {
	params := pagination.Parse(c)

	abstracts, total, err := h.abstractService.ListAbstracts(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   abstracts,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetAbstract handles GET /api/abstracts/:id
func (h *AbstractHandler) GetAbstract(c *gin.Context) {
	result, err := h.abstractService.GetAbstract(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
