package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/DaManu123/Mizu-Sushi/internal/offers"
	"github.com/DaManu123/Mizu-Sushi/pkg/ctxmanage"
	"github.com/DaManu123/Mizu-Sushi/pkg/logkey"
)

// saveOffer creates or fully replaces an offer. The same endpoint covers
// both because the store upserts on id.
func (h *handler) saveOffer(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newOffer offers.NewOffer
	if err := c.ShouldBindJSON(&newOffer); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(newOffer); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, vErr := range vErrs {
				switch vErr.Tag() {
				case "required":
					slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
					return
				case "oneof":
					slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " must be one of " + vErr.Param()})
					return
				default:
					slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
					return
				}
			}
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	saved, err := h.offers.SaveOffer(c.Request.Context(), newOffer)
	if err != nil {
		slog.Error("error in saving the offer", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Offer Save Failed"})
		return
	}

	c.JSON(http.StatusOK, saved)
}

func (h *handler) listOffers(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.offers.LoadOffers(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching offers", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": list})
}

func (h *handler) offerStats(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.offers.LoadOffers(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching offers", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}

	c.JSON(http.StatusOK, offers.Summarize(list))
}

func (h *handler) toggleOffer(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	offerID := c.Param("id")

	active, err := strconv.ParseBool(c.DefaultQuery("active", "true"))
	if err != nil {
		slog.Error("invalid active parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "active must be true or false"})
		return
	}

	if err := h.offers.ToggleOffer(c.Request.Context(), offerID, active); err != nil {
		if errors.Is(err, offers.ErrNotFound) {
			slog.Error("offer not found", slog.String(logkey.TraceID, traceId), slog.String("OfferID", offerID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		slog.Error("error in toggling the offer", slog.String(logkey.TraceID, traceId), slog.String("OfferID", offerID), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Offer toggle failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"offer_id": offerID, "active": active})
}

func (h *handler) deleteOffer(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	offerID := c.Param("id")

	if err := h.offers.DeleteOffer(c.Request.Context(), offerID); err != nil {
		if errors.Is(err, offers.ErrNotFound) {
			slog.Error("offer not found", slog.String(logkey.TraceID, traceId), slog.String("OfferID", offerID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		slog.Error("error in deleting the offer", slog.String(logkey.TraceID, traceId), slog.String("OfferID", offerID), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Offer deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer successfully deleted"})
}
