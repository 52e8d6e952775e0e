package service

import (
	"strings"
	"testing"

	"layer-backend/models"

	"github.com/stretchr/testify/require"
)

func TestFormatWardrobe(t *testing.T) {
	items := []*models.ClothingItem{
		{ID: "a1", Name: "Grey Hoodie", Category: "hoodie"},
		{ID: "b2", Name: "Jeans", Category: "jeans"},
	}

	require.Equal(t,
		"- Grey Hoodie (Category: hoodie, ID: a1)\n- Jeans (Category: jeans, ID: b2)",
		FormatWardrobe(items))
	require.Empty(t, FormatWardrobe(nil))
}

func TestBuildOutfitPrompt(t *testing.T) {
	items := []*models.ClothingItem{{ID: "a1", Name: "Tee", Category: "shirt"}}

	p := BuildOutfitPrompt(items, PromptContext{Weather: "Rainy, 12C", Occasion: "Office"})
	require.Contains(t, p, "Current Weather: Rainy, 12C.")
	require.Contains(t, p, "User's Preferred Style: High Street.")
	require.Contains(t, p, "Occasion: Office.")
	require.Contains(t, p, "- Tee (Category: shirt, ID: a1)")

	p = BuildOutfitPrompt(items, PromptContext{Style: "Minimalist", Occasion: "Office", Request: "something for a gallery opening"})
	require.Contains(t, p, "User's Preferred Style: Minimalist.")
	require.Contains(t, p, "Specific User Request: something for a gallery opening.")
	require.NotContains(t, p, "Occasion: Office")
}

func TestBuildModePrompts(t *testing.T) {
	hero := &models.ClothingItem{ID: "h1", Name: "Red Blazer", Category: "blazer"}
	items := []*models.ClothingItem{hero, {ID: "x", Name: "Slacks", Category: "trousers"}}

	require.Contains(t, BuildHeroPrompt(items, hero), `"Hero Piece": Red Blazer (ID: h1)`)
	require.Contains(t, BuildHeroPrompt(items, hero), "including the hero ID: h1")
	require.Contains(t, BuildCelebrityPrompt(items, "Harry Styles"), "User wants to dress like: Harry Styles.")
	require.Contains(t, BuildSchedulePrompt(items, "Sunny week"), "Context: Sunny week.")
	require.Contains(t, BuildGapPrompt(items), "Analyze this wardrobe: Red Blazer, Slacks.")
}

func TestBuildStyleDNAPrompt(t *testing.T) {
	posts := []*models.CommunityPost{{ID: "p1", Title: "Soft Tailoring"}, {ID: "p2", Title: "Gorpcore"}}

	p := BuildStyleDNAPrompt([]string{"Minimalist", "Streetwear"}, nil, posts)
	require.Contains(t, p, "User styles: Minimalist, Streetwear.")
	require.Contains(t, p, "- Soft Tailoring (ID: p1)\n- Gorpcore (ID: p2)")

	require.False(t, strings.Contains(BuildStyleDNAPrompt(nil, nil, posts), "User styles"))
}
