package handlers

import (
	"fmt"
	"io"
	"net/http"

	"layer-backend/service"

	"github.com/gin-gonic/gin"
)

// WardrobeHandler handles HTTP requests for clothing items
type WardrobeHandler struct {
	wardrobe      *service.WardrobeService
	maxImageBytes int64
}

// NewWardrobeHandler creates a new wardrobe handler
func NewWardrobeHandler(wardrobe *service.WardrobeService, maxImageBytes int64) *WardrobeHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = 10 * 1024 * 1024 // 10MB
	}
	return &WardrobeHandler{wardrobe: wardrobe, maxImageBytes: maxImageBytes}
}

// ListItems handles GET /api/items?category=
func (h *WardrobeHandler) ListItems(c *gin.Context) {
	items, err := h.wardrobe.ListItems(c.Request.Context(), sessionFrom(c), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, items)
}

// AddItemRequest is the body of POST /api/items
type AddItemRequest struct {
	Name                string   `json:"name" binding:"required"`
	Category            string   `json:"category"`
	ImageURL            string   `json:"imageUrl"`
	ResaleValue         *float64 `json:"resaleValue"`
	SustainabilityScore *int     `json:"sustainabilityScore"`
}

// AddItem handles POST /api/items
func (h *WardrobeHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.wardrobe.AddItem(c.Request.Context(), sessionFrom(c), service.AddItemRequest{
		Name:                req.Name,
		Category:            req.Category,
		ImageRef:            req.ImageURL,
		ResaleValue:         req.ResaleValue,
		SustainabilityScore: req.SustainabilityScore,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, item)
}

// AnalyzeImage handles POST /api/items/analyze with a multipart "image" field.
// The photo is stored and the returned analysis pre-fills the add-item form.
func (h *WardrobeHandler) AnalyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "Image is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxImageBytes {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("Image size exceeds maximum of %d bytes", h.maxImageBytes),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes))
	if err != nil {
		respondError(c, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	res, err := h.wardrobe.AnalyzeImage(c.Request.Context(), sessionFrom(c), service.AnalyzeImageRequest{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// DeleteItem handles DELETE /api/items/:id
func (h *WardrobeHandler) DeleteItem(c *gin.Context) {
	if err := h.wardrobe.DeleteItem(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogWear handles POST /api/items/:id/wear
func (h *WardrobeHandler) LogWear(c *gin.Context) {
	item, err := h.wardrobe.LogWear(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, item)
}

// GetImage handles GET /api/items/:id/image. Photos hosted elsewhere are redirected to.
func (h *WardrobeHandler) GetImage(c *gin.Context) {
	img, err := h.wardrobe.OpenImage(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if img.Body == nil {
		c.Redirect(http.StatusFound, img.URL)
		return
	}
	defer img.Body.Close()

	c.DataFromReader(http.StatusOK, -1, img.ContentType, img.Body, nil)
}
