package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/application/catalog"
	"github.com/studyreuse/backend/internal/interfaces/http/dto"
	"github.com/studyreuse/backend/internal/interfaces/http/middleware"
)

// ItemHandler serves the item catalog and its moderation
type ItemHandler struct {
	BaseHandler
	itemService  *catalog.ItemService
	imageService *catalog.ImageService
}

// NewItemHandler creates a new item handler. imageService may be nil when
// image uploads are not configured.
func NewItemHandler(itemService *catalog.ItemService, imageService *catalog.ImageService) *ItemHandler {
	return &ItemHandler{itemService: itemService, imageService: imageService}
}

// List godoc
// @Summary      Browse the catalog
// @Description  Approved, unflagged items with filters and pagination
// @Tags         items
// @Produce      json
// @Param        search query string false "Title or description"
// @Param        category query string false "Category"
// @Param        condition query string false "new, like_new, good, fair or poor"
// @Param        status query string false "Available, Reserved or Sold"
// @Param        min_price query string false "Minimum price"
// @Param        max_price query string false "Maximum price"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        order_by query string false "created_at, price, views or title"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]catalog.ItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var f catalog.ItemListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.itemService.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// ListMine godoc
// @Summary      My listings
// @Description  Every item of the caller, including pending and flagged ones
// @Tags         items
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.ItemResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /items/mine [get]
func (h *ItemHandler) ListMine(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var f catalog.ItemListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.itemService.ListMine(c.Request.Context(), actor, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Get godoc
// @Summary      Item detail
// @Description  Hidden items are only visible to their owner and admins
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	// anonymous callers get the zero actor
	actor, _ := middleware.GetActor(c)
	resp, err := h.itemService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @Summary      List an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateItemRequest true "Item"
// @Success      201 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req catalog.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.itemService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @Summary      Edit an item
// @Description  Owner only; omitted fields keep their value
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalog.UpdateItemRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.itemService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeStatus godoc
// @Summary      Set availability
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalog.ChangeStatusRequest true "Status"
// @Success      200 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id}/status [patch]
func (h *ItemHandler) ChangeStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.itemService.ChangeStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete an item
// @Description  Owner or admin
// @Tags         items
// @Param        id path string true "Item ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.itemService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RequestImageUpload godoc
// @Summary      Image upload URL
// @Description  Presigned PUT for a new item image; confirm it afterwards
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalog.ImageUploadRequest true "Image"
// @Success      200 {object} dto.Response{data=catalog.ImageUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id}/image/upload-url [post]
func (h *ItemHandler) RequestImageUpload(c *gin.Context) {
	if !h.imagesEnabled(c) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.imageService.RequestUpload(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConfirmImage godoc
// @Summary      Attach uploaded image
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalog.ConfirmImageRequest true "Uploaded key"
// @Success      200 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id}/image [post]
func (h *ItemHandler) ConfirmImage(c *gin.Context) {
	if !h.imagesEnabled(c) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.ConfirmImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.imageService.ConfirmUpload(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ItemHandler) imagesEnabled(c *gin.Context) bool {
	if h.imageService == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Image uploads are not configured")
		return false
	}
	return true
}

// ListForModeration godoc
// @Summary      Moderation queue
// @Description  Admin only; all items with approval and flag filters
// @Tags         admin
// @Produce      json
// @Param        approved query bool false "Approval state"
// @Param        flagged query bool false "Flag state"
// @Success      200 {object} dto.Response{data=[]catalog.ItemResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/items [get]
func (h *ItemHandler) ListForModeration(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var f catalog.ItemListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.itemService.ListForModeration(c.Request.Context(), actor, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Approve godoc
// @Summary      Approve an item
// @Tags         admin
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/items/{id}/approve [post]
func (h *ItemHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.itemService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Flag godoc
// @Summary      Flag an item
// @Description  Hides the item from the catalog with a reason shown to its owner
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalog.FlagRequest true "Reason"
// @Success      200 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/items/{id}/flag [post]
func (h *ItemHandler) Flag(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.FlagRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.itemService.Flag(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Unflag godoc
// @Summary      Unflag an item
// @Tags         admin
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=catalog.ItemResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/items/{id}/unflag [post]
func (h *ItemHandler) Unflag(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.itemService.Unflag(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
