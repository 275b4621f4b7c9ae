package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/application/review"
)

// ReviewHandler serves item reviews
type ReviewHandler struct {
	BaseHandler
	reviewService *review.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *review.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Submit godoc
// @Summary      Review an item
// @Description  One review per user and item; owners cannot review their own items
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body review.SubmitReviewRequest true "Review"
// @Success      201 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id}/reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req review.SubmitReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.reviewService.Submit(c.Request.Context(), actor, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListByItem godoc
// @Summary      Reviews of an item
// @Description  Newest first, with the item's average rating
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=review.ItemReviewsResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /items/{id}/reviews [get]
func (h *ReviewHandler) ListByItem(c *gin.Context) {
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var f review.ReviewListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	resp, err := h.reviewService.ListByItem(c.Request.Context(), itemID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a review
// @Description  The author or an admin
// @Tags         reviews
// @Param        id path string true "Review ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
