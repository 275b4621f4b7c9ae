package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/application/trade"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader lets clients retry order placement safely
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// OrderHandler serves checkout and the order lifecycle
type OrderHandler struct {
	BaseHandler
	orderService *trade.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *trade.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @Summary      Place an order
// @Description  Check out a cart. Retrying with the same Idempotency-Key returns the original order with 200.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client generated key"
// @Param        request body trade.CreateOrderRequest true "Cart"
// @Success      201 {object} dto.Response{data=trade.OrderResponse}
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req trade.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		h.BadRequest(c, "Idempotency-Key must not be blank")
		return
	}
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}
	req.IdempotencyKey = key

	resp, created, err := h.orderService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !created {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// idempotencyKey returns the trimmed header value. ok is false when the
// header is sent but blank.
func idempotencyKey(c *gin.Context) (string, bool) {
	if _, sent := c.Request.Header[IdempotencyKeyHeader]; !sent {
		return "", true
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	return key, key != ""
}

// Get godoc
// @Summary      Order detail
// @Description  Buyer, sellers on the order and admins only
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

type orderLister func(context.Context, shared.Actor, trade.OrderListFilter) (*shared.Paginated[trade.OrderResponse], error)

func (h *OrderHandler) list(c *gin.Context, fn orderLister) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var f trade.OrderListFilter
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

// ListMine godoc
// @Summary      My purchases
// @Tags         orders
// @Produce      json
// @Param        state query string false "Order state"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders/mine [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	h.list(c, h.orderService.ListMine)
}

// ListSelling godoc
// @Summary      Orders containing my items
// @Tags         orders
// @Produce      json
// @Param        state query string false "Order state"
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders/selling [get]
func (h *OrderHandler) ListSelling(c *gin.Context) {
	h.list(c, h.orderService.ListSelling)
}

// ListAll godoc
// @Summary      All orders
// @Description  Admin only
// @Tags         admin
// @Produce      json
// @Param        state query string false "Order state"
// @Param        search query string false "Order number"
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	h.list(c, h.orderService.ListAll)
}

// transition runs a state change on the order named by the path
func (h *OrderHandler) transition(c *gin.Context, fn func(context.Context, shared.Actor, uuid.UUID) (*trade.OrderResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Accept godoc
// @Summary      Accept an order
// @Description  A seller on the order moves it from AwaitingSeller to Processing
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/accept [post]
func (h *OrderHandler) Accept(c *gin.Context) {
	h.transition(c, h.orderService.Accept)
}

// Reject godoc
// @Summary      Reject an order
// @Description  A seller declines an order awaiting acceptance; reserved stock is released
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body trade.RejectOrderRequest true "Reason"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *gin.Context) {
	var req trade.RejectOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.transition(c, func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.OrderResponse, error) {
		return h.orderService.Reject(ctx, actor, id, req)
	})
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  The buyer or an admin cancels before shipping
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body trade.CancelOrderRequest false "Reason"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req trade.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.bindError(c, err)
		return
	}
	h.transition(c, func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*trade.OrderResponse, error) {
		return h.orderService.Cancel(ctx, actor, id, req)
	})
}

// Ship godoc
// @Summary      Mark shipped
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.orderService.Ship)
}

// Deliver godoc
// @Summary      Mark delivered
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.orderService.Deliver)
}

// Receipt godoc
// @Summary      Download receipt
// @Tags         orders
// @Produce      application/pdf
// @Produce      text/html
// @Param        id path string true "Order ID"
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.orderService.Receipt(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(receipt.Content) == 0 {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Receipt could not be generated")
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": receipt.Filename}))
	c.Data(http.StatusOK, receipt.ContentType, receipt.Content)
}
