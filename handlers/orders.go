package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DaManu123/Mizu-Sushi/internal/export"
	"github.com/DaManu123/Mizu-Sushi/internal/orders"
	"github.com/DaManu123/Mizu-Sushi/pkg/ctxmanage"
	"github.com/DaManu123/Mizu-Sushi/pkg/logkey"
)

// checkout turns the current cart into an order. The order insert and
// the cart clear commit in one transaction, so a failure leaves the cart
// intact for retry.
func (h *handler) checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var req struct {
		PaymentMethod  string  `json:"payment_method" validate:"required,oneof=cash card"`
		OfferApplied   string  `json:"offer_applied"`
		DiscountAmount float64 `json:"discount_amount" validate:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "payment_method must be cash or card"})
		return
	}

	ctx := c.Request.Context()

	lines, err := h.cart.Items(ctx)
	if err != nil {
		slog.Error("error in fetching cart items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	cashier := ""
	if cl, ok := claims(c); ok {
		cashier = cl.Subject
	}

	order, err := h.orders.Checkout(ctx, lines, req.OfferApplied, req.DiscountAmount, req.PaymentMethod, cashier)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			slog.Error("checkout with empty cart", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		slog.Error("error in checkout", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	slog.Info("order created", slog.String(logkey.TraceID, traceId), slog.String("OrderID", order.ID))
	c.JSON(http.StatusOK, order)
}

func (h *handler) listOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.orders.LoadOrders(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *handler) getOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	orderID := c.Param("id")

	order, err := h.orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			slog.Error("order not found", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			slog.Error("error in retrieving order", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// setOrderStatus advances an order through its lifecycle. Completing an
// order also decrements stock for every line whose product still exists;
// lines that no longer resolve are reported, not fatal.
func (h *handler) setOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	orderID := c.Param("id")

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	to, ok := orders.ParseStatus(req.Status)
	if !ok {
		slog.Error("unknown status", slog.String(logkey.TraceID, traceId), slog.String("Status", req.Status))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	ctx := c.Request.Context()

	order, err := h.orders.SetStatus(ctx, orderID, to)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			slog.Error("order not found", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrInvalidTransition):
			slog.Error("invalid status transition", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID), slog.String("To", string(to)))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		default:
			slog.Error("error in updating order status", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Status update failed"})
		}
		return
	}

	resp := gin.H{"order": order}
	if to == orders.StatusCompleted {
		skipped, err := orders.ApplyStockOnCompletion(ctx, h.products, order)
		if err != nil {
			slog.Error("error in applying stock on completion", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Order completed but stock update failed"})
			return
		}
		if len(skipped) > 0 {
			resp["skipped_products"] = skipped
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) orderReceipt(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	orderID := c.Param("id")

	order, err := h.orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			slog.Error("order not found", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			slog.Error("error in retrieving order", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		}
		return
	}

	c.String(http.StatusOK, export.Receipt(order))
}
