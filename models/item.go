package models

import "time"

// ClothingItem is a single piece in a user's wardrobe
type ClothingItem struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	Name                string     `json:"name"`
	Category            string     `json:"category"`
	ImageRef            string     `json:"imageUrl"`
	WearCount           int        `json:"wearCount"`
	LastWorn            *time.Time `json:"lastWorn,omitempty"`
	ResaleValue         *float64   `json:"resaleValue,omitempty"`
	SustainabilityScore *int       `json:"sustainabilityScore,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// ItemAnalysis is what the generation service reports about a photographed item
type ItemAnalysis struct {
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	ResaleEstimate      float64 `json:"resaleEstimate"`
	SustainabilityScore int     `json:"sustainabilityScore"`
}
