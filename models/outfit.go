package models

import (
	"strings"
	"time"
)

// Outfit is a saved look. ItemIDs may reference items deleted since it was saved.
type Outfit struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	Reasoning   string    `json:"reasoning"`
	ItemIDs     []string  `json:"itemIds"`
	ImageRef    *string   `json:"imageUrl,omitempty"`
	IsFavorite  bool      `json:"isFavorite"`
	FolderID    *string   `json:"folderId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemKey is the order-sensitive join used for duplicate detection
func ItemKey(ids []string) string {
	return strings.Join(ids, ",")
}

// SameLook reports whether two looks count as the same saved outfit
func SameLook(aDesc string, aIDs []string, bDesc string, bIDs []string) bool {
	return aDesc == bDesc && ItemKey(aIDs) == ItemKey(bIDs)
}

// Folder is a label grouping outfits
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultFolderColor is used when a folder is created without a color
const DefaultFolderColor = "#6366f1"
