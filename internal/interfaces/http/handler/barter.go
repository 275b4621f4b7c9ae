package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/application/barter"
	"github.com/studyreuse/backend/internal/domain/shared"
)

// BarterHandler serves barter requests between students
type BarterHandler struct {
	BaseHandler
	barterService *barter.BarterService
}

// NewBarterHandler creates a new barter handler
func NewBarterHandler(barterService *barter.BarterService) *BarterHandler {
	return &BarterHandler{barterService: barterService}
}

// Create godoc
// @Summary      Request a barter
// @Description  Ask the owner of an available item for a swap
// @Tags         barters
// @Accept       json
// @Produce      json
// @Param        request body barter.CreateBarterRequest true "Barter"
// @Success      201 {object} dto.Response{data=barter.BarterResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /barters [post]
func (h *BarterHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req barter.CreateBarterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.barterService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Barter detail
// @Description  Participants and admins only
// @Tags         barters
// @Produce      json
// @Param        id path string true "Barter ID"
// @Success      200 {object} dto.Response{data=barter.BarterResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /barters/{id} [get]
func (h *BarterHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.barterService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @Summary      Answer or withdraw a barter
// @Description  The owner accepts or rejects; the requester may only reject (withdraw)
// @Tags         barters
// @Accept       json
// @Produce      json
// @Param        id path string true "Barter ID"
// @Param        request body barter.UpdateBarterStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=barter.BarterResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /barters/{id}/status [patch]
func (h *BarterHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req barter.UpdateBarterStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.barterService.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

type barterLister func(context.Context, shared.Actor, barter.BarterListFilter) (*shared.Paginated[barter.BarterResponse], error)

func (h *BarterHandler) list(c *gin.Context, fn barterLister) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var f barter.BarterListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := fn(c.Request.Context(), actor, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// ListIncoming godoc
// @Summary      Barters on my items
// @Tags         barters
// @Produce      json
// @Param        status query string false "pending, accepted or rejected"
// @Param        item_id query string false "Item ID"
// @Success      200 {object} dto.Response{data=[]barter.BarterResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /barters/incoming [get]
func (h *BarterHandler) ListIncoming(c *gin.Context) {
	h.list(c, h.barterService.ListIncoming)
}

// ListOutgoing godoc
// @Summary      Barters I requested
// @Tags         barters
// @Produce      json
// @Param        status query string false "pending, accepted or rejected"
// @Success      200 {object} dto.Response{data=[]barter.BarterResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /barters/outgoing [get]
func (h *BarterHandler) ListOutgoing(c *gin.Context) {
	h.list(c, h.barterService.ListOutgoing)
}

// ListAll godoc
// @Summary      All barters
// @Description  Admin only
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]barter.BarterResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/barters [get]
func (h *BarterHandler) ListAll(c *gin.Context) {
	h.list(c, h.barterService.ListAll)
}
