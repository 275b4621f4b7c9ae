package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/application/report"
)

// AdminHandler serves the admin dashboard
type AdminHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dashboardService *report.DashboardService) *AdminHandler {
	return &AdminHandler{dashboardService: dashboardService}
}

// Dashboard godoc
// @Summary      Marketplace dashboard
// @Description  Totals, revenue per day, top categories and items, moderation queue size
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=report.Dashboard}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	resp, err := h.dashboardService.Dashboard(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
