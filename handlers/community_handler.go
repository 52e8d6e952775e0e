package handlers

import (
	"net/http"

	"layer-backend/service"

	"github.com/gin-gonic/gin"
)

// CommunityHandler serves the public outfit feed
type CommunityHandler struct {
	community *service.CommunityService
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(community *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

// ListPosts handles GET /api/community
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	posts, err := h.community.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, posts)
}

// CreatePostRequest is the body of POST /api/community
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"imageUrl"`
	Author   string `json:"author"`
}

// CreatePost handles POST /api/community
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.community.Create(c.Request.Context(), service.CreatePostRequest{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Author:   req.Author,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, post)
}
