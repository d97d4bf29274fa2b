package order

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type cartRequest struct {
	Items []CartLine `json:"items"`
}

// --------------------------------------------------
// Quote availability for a cart (no side effects)
// --------------------------------------------------
func (h *Handler) Quote(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.engine.Quote(c.Request.Context(), req.Items)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// --------------------------------------------------
// Commit a cart: create the order, decrement stock
// --------------------------------------------------
func (h *Handler) Commit(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.engine.Commit(c.Request.Context(), req.Items)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

// writeEngineError maps the engine's typed outcomes onto HTTP. The
// engine never decides presentation; this is the one place that does.
func (h *Handler) writeEngineError(c *gin.Context, err error) {
	var insufficient *InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient_stock",
			"menu_name": insufficient.MenuName,
			"item_name": insufficient.ItemName,
			"shortfall": insufficient.Shortfall,
		})
		return
	}

	var unknown *UnknownMenuItemError
	if errors.As(err, &unknown) {
		c.JSON(http.StatusBadRequest, gin.H{"error": unknown.Error()})
		return
	}

	switch {
	case errors.Is(err, ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "order conflicted with another checkout, try again"})
	case errors.Is(err, ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, try again"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// --------------------------------------------------
// Order history
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	orders, err := h.engine.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) Get(c *gin.Context) {
	var id int
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, o)
}

// --------------------------------------------------
// Printable receipt
// --------------------------------------------------
func (h *Handler) Receipt(c *gin.Context) {
	var id int
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := WriteReceipt(c.Writer, o); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
