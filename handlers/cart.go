package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DaManu123/Mizu-Sushi/internal/cart"
	"github.com/DaManu123/Mizu-Sushi/internal/offers"
	"github.com/DaManu123/Mizu-Sushi/internal/products"
	"github.com/DaManu123/Mizu-Sushi/pkg/ctxmanage"
	"github.com/DaManu123/Mizu-Sushi/pkg/logkey"
)

// addToCart resolves the product's current offer price and reserves the
// requested quantity. Lines for the same product merge into one.
func (h *handler) addToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var req struct {
		ProductID string `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "product_id and a positive quantity are required"})
		return
	}

	ctx := c.Request.Context()

	product, err := h.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", req.ProductID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("error in retrieving product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	active, err := h.offers.ActiveOffers(ctx)
	if err != nil {
		slog.Error("error in fetching active offers", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve price"})
		return
	}

	price, applied := offers.ResolvePrice(product, active)

	err = h.cart.AddItem(ctx, product.ID, product.Name, req.Quantity, product.Stock, price)
	if err != nil {
		if errors.Is(err, cart.ErrInsufficientStock) {
			slog.Error("insufficient stock", slog.String(logkey.TraceID, traceId), slog.String("ProductID", product.ID))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient stock for product"})
			return
		}
		slog.Error("error in adding item to cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	resp := gin.H{"product_id": product.ID, "unit_price": price, "quantity": req.Quantity}
	if applied != nil {
		resp["offer_applied"] = applied.Name
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) cartItems(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	lines, err := h.cart.Items(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching cart items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      lines,
		"item_count": cart.ItemCount(lines),
		"total":      cart.Total(lines),
	})
}

func (h *handler) setCartQuantity(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	lineID, err := strconv.ParseInt(c.Param("lineID"), 10, 64)
	if err != nil {
		slog.Error("invalid line id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "line id must be an integer"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	// Zero or negative drops the line, mirroring removing the last unit.
	if err := h.cart.SetQuantity(c.Request.Context(), lineID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			slog.Error("cart line not found", slog.String(logkey.TraceID, traceId), slog.Int64("LineID", lineID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
			return
		}
		slog.Error("error in updating cart quantity", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"line_id": lineID, "quantity": req.Quantity})
}

func (h *handler) removeCartLine(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	lineID, err := strconv.ParseInt(c.Param("lineID"), 10, 64)
	if err != nil {
		slog.Error("invalid line id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "line id must be an integer"})
		return
	}

	if err := h.cart.RemoveLine(c.Request.Context(), lineID); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			slog.Error("cart line not found", slog.String(logkey.TraceID, traceId), slog.Int64("LineID", lineID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
			return
		}
		slog.Error("error in removing cart line", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Line removed"})
}

func (h *handler) clearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if err := h.cart.Clear(c.Request.Context()); err != nil {
		slog.Error("error in clearing cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
