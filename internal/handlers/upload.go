package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rental-listings/internal/service"
)

// Uploader stores an encoded image and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, image string) (string, error)
}

// UploadHandler serves POST /api/image-upload
type UploadHandler struct {
	uploads Uploader
	log     *zap.Logger
}

func NewUploadHandler(uploads Uploader, log *zap.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, log: log}
}

type uploadRequest struct {
	Image string `json:"image"`
}

// UploadImage decodes {"image": "<data uri>"} and responds with {"url": ...}
func (h *UploadHandler) UploadImage(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body exceeds 10mb"})
			return
		}
		// an empty body carries no image
		if !errors.Is(err, io.EOF) {
			h.log.Warn("Malformed upload request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
			return
		}
	}

	url, err := h.uploads.Upload(c.Request.Context(), req.Image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoImageProvided):
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No image provided"})
		case errors.Is(err, service.ErrInvalidImageData):
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Image data not valid"})
		default:
			h.log.Error("Image upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
