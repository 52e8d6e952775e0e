package handlers

import (
	"net/http"

	"layer-backend/service"

	"github.com/gin-gonic/gin"
)

// OutfitHandler handles saved outfits and the folders they are filed in
type OutfitHandler struct {
	outfits *service.OutfitService
}

// NewOutfitHandler creates a new outfit handler
func NewOutfitHandler(outfits *service.OutfitService) *OutfitHandler {
	return &OutfitHandler{outfits: outfits}
}

// ListOutfits handles GET /api/outfits?folderId=&favorites=true
func (h *OutfitHandler) ListOutfits(c *gin.Context) {
	outfits, err := h.outfits.List(c.Request.Context(), sessionFrom(c), service.ListOutfitsRequest{
		FolderID:      c.Query("folderId"),
		FavoritesOnly: c.Query("favorites") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, outfits)
}

// SaveOutfitRequest is the body of POST /api/outfits
type SaveOutfitRequest struct {
	Description string   `json:"description" binding:"required"`
	Reasoning   string   `json:"reasoning"`
	ItemIDs     []string `json:"itemIds"`
	ImageURL    *string  `json:"imageUrl"`
}

// SaveOutfit handles POST /api/outfits. A look already in the collection is a 409.
func (h *OutfitHandler) SaveOutfit(c *gin.Context) {
	var req SaveOutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	outfit, err := h.outfits.Save(c.Request.Context(), sessionFrom(c), service.SaveOutfitRequest{
		Description: req.Description,
		Reasoning:   req.Reasoning,
		ItemIDs:     req.ItemIDs,
		ImageRef:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, outfit)
}

// SaveFromFeed handles POST /api/outfits/from-feed/:postId
func (h *OutfitHandler) SaveFromFeed(c *gin.Context) {
	outfit, err := h.outfits.SaveFromFeed(c.Request.Context(), sessionFrom(c), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, outfit)
}

// DeleteOutfit handles DELETE /api/outfits/:id
func (h *OutfitHandler) DeleteOutfit(c *gin.Context) {
	if err := h.outfits.Delete(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleFavorite handles POST /api/outfits/:id/favorite
func (h *OutfitHandler) ToggleFavorite(c *gin.Context) {
	outfit, err := h.outfits.ToggleFavorite(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, outfit)
}

// MoveToFolderRequest is the body of PUT /api/outfits/:id/folder. A null or
// empty folderId unfiles the outfit.
type MoveToFolderRequest struct {
	FolderID *string `json:"folderId"`
}

// MoveToFolder handles PUT /api/outfits/:id/folder
func (h *OutfitHandler) MoveToFolder(c *gin.Context) {
	var req MoveToFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	outfit, err := h.outfits.MoveToFolder(c.Request.Context(), sessionFrom(c), c.Param("id"), req.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, outfit)
}

// ListFolders handles GET /api/folders
func (h *OutfitHandler) ListFolders(c *gin.Context) {
	folders, err := h.outfits.ListFolders(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, folders)
}

// CreateFolderRequest is the body of POST /api/folders
type CreateFolderRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CreateFolder handles POST /api/folders
func (h *OutfitHandler) CreateFolder(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	folder, err := h.outfits.CreateFolder(c.Request.Context(), sessionFrom(c), service.CreateFolderRequest{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, folder)
}

// DeleteFolder handles DELETE /api/folders/:id. Outfits inside are unfiled, not deleted.
func (h *OutfitHandler) DeleteFolder(c *gin.Context) {
	unfiled, err := h.outfits.DeleteFolder(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"unfiled": unfiled})
}
