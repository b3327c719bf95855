package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DaManu123/Mizu-Sushi/internal/orders"
	"github.com/DaManu123/Mizu-Sushi/pkg/ctxmanage"
	"github.com/DaManu123/Mizu-Sushi/pkg/logkey"
)

// orderReport filters the ledger by the query parameters and returns the
// matching orders with their aggregates. Empty or "all" parameters match
// everything; dates are inclusive and compared by day.
func (h *handler) orderReport(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	q := orders.ReportQuery{
		Product:       c.Query("product"),
		PaymentMethod: c.Query("payment_method"),
		Cashier:       c.Query("cashier"),
		Status:        c.Query("status"),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			slog.Error("invalid from date", slog.String(logkey.TraceID, traceId), slog.String("From", from))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		q.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			slog.Error("invalid to date", slog.String(logkey.TraceID, traceId), slog.String("To", to))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		q.To = t
	}

	list, err := h.orders.LoadOrders(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	matched := orders.Filter(list, q)

	c.JSON(http.StatusOK, gin.H{
		"orders":  matched,
		"summary": orders.Summarize(matched),
	})
}
