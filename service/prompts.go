package service

import (
	"fmt"
	"strings"

	"layer-backend/models"
)

// DefaultStylePreference is the style sent when the caller names none
const DefaultStylePreference = "High Street"

// PromptContext is the situational input for an outfit prompt
type PromptContext struct {
	Weather  string
	Style    string
	Occasion string
	// Request is a free-text ask. When set it replaces Occasion.
	Request string
}

// FormatWardrobe enumerates items one per line as "- name (Category: c, ID: id)".
// An empty wardrobe yields an empty string.
func FormatWardrobe(items []*models.ClothingItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s (Category: %s, ID: %s)", it.Name, it.Category, it.ID))
	}
	return strings.Join(lines, "\n")
}

// BuildOutfitPrompt asks for a 3-5 piece look drawn only from the wardrobe
func BuildOutfitPrompt(items []*models.ClothingItem, pc PromptContext) string {
	style := pc.Style
	if strings.TrimSpace(style) == "" {
		style = DefaultStylePreference
	}
	occasion := "Occasion: " + pc.Occasion
	if req := strings.TrimSpace(pc.Request); req != "" {
		occasion = "Specific User Request: " + req
	}

	var b strings.Builder
	b.WriteString("You are a professional fashion stylist.\n")
	fmt.Fprintf(&b, "Current Weather: %s.\n", pc.Weather)
	fmt.Fprintf(&b, "User's Preferred Style: %s.\n", style)
	fmt.Fprintf(&b, "%s.\n\n", occasion)
	b.WriteString("CRITICAL CONSTRAINT: You MUST ONLY suggest items from the following user wardrobe IDs.\n\n")
	b.WriteString("USER WARDROBE:\n")
	b.WriteString(FormatWardrobe(items))
	b.WriteString("\n\nTask: Suggest a complete outfit. Pick the 3-5 most appropriate items.\n\n")
	b.WriteString("Return a JSON object with:\n")
	b.WriteString("1. \"description\": A short, catchy title for the look.\n")
	b.WriteString("2. \"reasoning\": A 1-2 sentence explanation.\n")
	b.WriteString("3. \"itemIds\": An array of the exact IDs from the wardrobe provided above.\n")
	b.WriteString("4. \"error\": (Optional) Only if no matches possible.\n")
	return b.String()
}

// BuildHeroPrompt asks for a look built around one anchor item
func BuildHeroPrompt(items []*models.ClothingItem, hero *models.ClothingItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a complete outfit built around this \"Hero Piece\": %s (ID: %s).\n\n", hero.Name, hero.ID)
	b.WriteString("USER WARDROBE:\n")
	b.WriteString(FormatWardrobe(items))
	fmt.Fprintf(&b, "\n\nReturn JSON with description, reasoning, and itemIds (including the hero ID: %s).\n", hero.ID)
	return b.String()
}

// BuildCelebrityPrompt asks for a look channeling a public figure
func BuildCelebrityPrompt(items []*models.ClothingItem, celebrity string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User wants to dress like: %s.\n", celebrity)
	b.WriteString("AVAILABLE WARDROBE:\n")
	b.WriteString(FormatWardrobe(items))
	b.WriteString("\n\nPick 3-5 items from the list. Return JSON with description, reasoning, and itemIds.\n")
	return b.String()
}

// BuildSchedulePrompt asks for a Mon-Sun plan with one look per day
func BuildSchedulePrompt(items []*models.ClothingItem, weather string) string {
	var b strings.Builder
	b.WriteString("Plan a 7-day schedule (Mon-Sun).\n")
	fmt.Fprintf(&b, "Context: %s.\n", weather)
	b.WriteString("USER WARDROBE:\n")
	b.WriteString(FormatWardrobe(items))
	b.WriteString("\nReturn JSON with a \"schedule\" array. Each day must include \"itemIds\".\n")
	return b.String()
}

// BuildGapPrompt asks which essentials the wardrobe lacks
func BuildGapPrompt(items []*models.ClothingItem) string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return fmt.Sprintf("Analyze this wardrobe: %s.\nIdentify top 3-4 missing essentials. Return JSON.\n", strings.Join(names, ", "))
}

// BuildStyleDNAPrompt asks which feed posts fit the user's aesthetic
func BuildStyleDNAPrompt(styles []string, items []*models.ClothingItem, posts []*models.CommunityPost) string {
	var b strings.Builder
	b.WriteString("Identify IDs of community posts that match user aesthetic.\n")
	if len(styles) > 0 {
		fmt.Fprintf(&b, "User styles: %s.\n", strings.Join(styles, ", "))
	}
	b.WriteString("USER WARDROBE:\n")
	b.WriteString(FormatWardrobe(items))
	b.WriteString("\nCOMMUNITY POSTS:\n")
	for _, p := range posts {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", p.Title, p.ID)
	}
	b.WriteString("Return a JSON array of matching post IDs.\n")
	return b.String()
}

// AnalyzeItemInstruction accompanies an item photo
const AnalyzeItemInstruction = "Analyze this clothing item. Return JSON with name, category (shirt/hoodie/bottom/shoes/outerwear/accessory), resaleEstimate (number), and sustainabilityScore (1-10)."

// Stylist personas for chat
const (
	MasterStylistInstruction    = "You are the Master Stylist, a hyper-advanced 1:1 style persona. You analyze fashion through the lens of fit, silhouette, and confidence."
	AssistantStylistInstruction = "You are a professional fashion assistant."
)
