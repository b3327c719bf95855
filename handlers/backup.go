package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DaManu123/Mizu-Sushi/internal/export"
	"github.com/DaManu123/Mizu-Sushi/pkg/ctxmanage"
	"github.com/DaManu123/Mizu-Sushi/pkg/logkey"
)

// exportBackup writes a JSON snapshot of the catalog, offers, and order
// ledger to the export directory and returns the path.
func (h *handler) exportBackup(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	ctx := c.Request.Context()

	snap := export.Snapshot{ExportedAt: time.Now().UTC()}

	var err error
	if snap.Products, err = h.products.ListProducts(ctx, ""); err != nil {
		slog.Error("error in fetching products for backup", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}
	if snap.Offers, err = h.offers.LoadOffers(ctx); err != nil {
		slog.Error("error in fetching offers for backup", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}
	if snap.Orders, err = h.orders.LoadOrders(ctx); err != nil {
		slog.Error("error in fetching orders for backup", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}

	path, err := export.WriteSnapshot(h.exportDir, snap)
	if err != nil {
		slog.Error("error in writing backup snapshot", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}

	slog.Info("backup written", slog.String(logkey.TraceID, traceId), slog.String("Path", path))
	c.JSON(http.StatusOK, gin.H{
		"path":     path,
		"products": len(snap.Products),
		"offers":   len(snap.Offers),
		"orders":   len(snap.Orders),
	})
}
