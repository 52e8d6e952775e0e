package handlers

import (
	"net/http"

	"layer-backend/models"
	"layer-backend/service"

	"github.com/gin-gonic/gin"
)

// StylistHandler exposes the outfit generator and its companion analyses
type StylistHandler struct {
	stylist *service.StylistService
}

// NewStylistHandler creates a new stylist handler
func NewStylistHandler(stylist *service.StylistService) *StylistHandler {
	return &StylistHandler{stylist: stylist}
}

// SuggestRequest is the body of POST /api/stylist/suggest
type SuggestRequest struct {
	Mode        string   `json:"mode"`
	Weather     string   `json:"weather"`
	Style       string   `json:"style"`
	Occasion    string   `json:"occasion"`
	Request     string   `json:"request"`
	Celebrity   string   `json:"celebrity"`
	HeroID      string   `json:"heroId"`
	SelectedIDs []string `json:"selectedIds"`
}

// SuggestResponse pairs the repaired suggestion with the ids repair removed
type SuggestResponse struct {
	models.Suggestion
	DroppedIDs []string `json:"droppedIds,omitempty"`
}

// Suggest handles POST /api/stylist/suggest
func (h *StylistHandler) Suggest(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.stylist.Suggest(c.Request.Context(), sessionFrom(c), service.SuggestRequest{
		Mode:        service.Mode(req.Mode),
		Weather:     req.Weather,
		Style:       req.Style,
		Occasion:    req.Occasion,
		Request:     req.Request,
		Celebrity:   req.Celebrity,
		HeroID:      req.HeroID,
		SelectedIDs: req.SelectedIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, SuggestResponse{Suggestion: res.Suggestion, DroppedIDs: res.DroppedIDs})
}

// Gaps handles POST /api/stylist/gaps
func (h *StylistHandler) Gaps(c *gin.Context) {
	gaps, err := h.stylist.AnalyzeGaps(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gaps)
}

// StyleDNA handles POST /api/stylist/style-dna
func (h *StylistHandler) StyleDNA(c *gin.Context) {
	ids, err := h.stylist.MatchStyleDNA(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"postIds": ids})
}

// ChatRequest is the body of POST /api/stylist/chat
type ChatRequest struct {
	Message string            `json:"message" binding:"required"`
	History []models.ChatTurn `json:"history" binding:"dive"`
}

// Chat handles POST /api/stylist/chat
func (h *StylistHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reply, err := h.stylist.Chat(c.Request.Context(), sessionFrom(c), service.ChatRequest{
		Message: req.Message,
		History: req.History,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"reply": reply})
}
