package models

import "strings"

// Category is one of the canonical wardrobe buckets used for filtering
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryShoes     Category = "shoes"
	CategoryOuterwear Category = "outerwear"
	CategoryAccessory Category = "accessory"
)

// DefaultItemCategory is stored when an item arrives without a category
const DefaultItemCategory = "shirt"

// Categories lists the canonical buckets in display order
var Categories = []Category{CategoryTop, CategoryBottom, CategoryShoes, CategoryOuterwear, CategoryAccessory}

// categoryAliases maps each canonical bucket to the raw category strings it accepts.
var categoryAliases = map[Category][]string{
	CategoryTop:       {"top", "tops", "shirt", "shirts", "hoodie", "hoodies", "tee", "t-shirt", "blouse"},
	CategoryBottom:    {"bottom", "bottoms", "pants", "jeans", "skirt", "shorts", "trousers"},
	CategoryShoes:     {"shoes", "shoe", "footwear", "sneakers", "boots", "heels"},
	CategoryOuterwear: {"outerwear", "jacket", "coat", "blazer", "cardigan"},
	CategoryAccessory: {"accessory", "accessories", "bag", "hat", "belt", "jewelry", "glasses"},
}

var aliasIndex = func() map[string]Category {
	idx := make(map[string]Category)
	for canonical, aliases := range categoryAliases {
		for _, a := range aliases {
			idx[a] = canonical
		}
	}
	return idx
}()

// Aliases returns the raw strings accepted for a canonical category
func (c Category) Aliases() []string {
	out := make([]string, len(categoryAliases[c]))
	copy(out, categoryAliases[c])
	return out
}

// Matches reports whether a stored raw category falls in bucket c.
// An exact case-insensitive match always counts, even for names outside the table.
func (c Category) Matches(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == string(c) {
		return true
	}
	canonical, ok := aliasIndex[raw]
	return ok && canonical == c
}

// NormalizeCategory resolves a raw category string to its canonical bucket.
func NormalizeCategory(raw string) (Category, bool) {
	c, ok := aliasIndex[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

// ParseCategoryFilter interprets a list filter. An empty string or "all" yields ok with all=true.
func ParseCategoryFilter(raw string) (c Category, all bool, ok bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return "", true, true
	}
	if _, known := categoryAliases[Category(raw)]; known {
		return Category(raw), false, true
	}
	return "", false, false
}
