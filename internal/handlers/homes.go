package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rental-listings/internal/listing"
	"rental-listings/internal/models"
	"rental-listings/internal/service"
)

// Listings creates and lists rental listings
type Listings interface {
	Create(ctx context.Context, in listing.Input) (*models.Listing, error)
	List(ctx context.Context) ([]models.Listing, error)
}

// HomesHandler serves the listing endpoints
type HomesHandler struct {
	listings Listings
	log      *zap.Logger
}

func NewHomesHandler(listings Listings, log *zap.Logger) *HomesHandler {
	return &HomesHandler{listings: listings, log: log}
}

// CreateHome handles POST /api/homes
func (h *HomesHandler) CreateHome(c *gin.Context) {
	var in listing.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body exceeds 10mb"})
			return
		}
		h.log.Debug("Rejected listing payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing data"})
		return
	}

	home, err := h.listings.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrInvalidListing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, home)
}

// GetHomes handles GET /api/listings
func (h *HomesHandler) GetHomes(c *gin.Context) {
	homes, err := h.listings.List(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list homes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if homes == nil {
		homes = []models.Listing{}
	}
	c.JSON(http.StatusOK, homes)
}
