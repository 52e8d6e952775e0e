package service

import (
	"slices"
	"strings"

	"layer-backend/models"
)

// NoCohesiveMatchMessage is reported when nothing usable survives repair
const NoCohesiveMatchMessage = "The stylist couldn't find a cohesive match in your wardrobe."

// RepairOptions configures RepairSuggestion
type RepairOptions struct {
	// HeroID is an anchor item the look must contain. It is prepended when missing.
	HeroID             string
	DefaultDescription string
	DefaultReasoning   string
}

// wardrobeIndex is the set of item ids in a wardrobe
type wardrobeIndex map[string]*models.ClothingItem

func indexWardrobe(items []*models.ClothingItem) wardrobeIndex {
	idx := make(wardrobeIndex, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return idx
}

// filterKnown keeps the first occurrence of each id present in the wardrobe
// and returns the unknown ids separately.
func (w wardrobeIndex) filterKnown(ids []string) (kept, dropped []string) {
	kept = make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := w[id]; !ok {
			dropped = append(dropped, id)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}
	return kept, dropped
}

// RepairSuggestion makes a raw suggestion safe to show and save. Every returned
// item id exists in the wardrobe, the hero (if any) comes first when it had to be
// added, an empty look without an error gets one, and blank text gets defaults.
// The unknown ids that were removed are returned alongside.
func RepairSuggestion(raw models.Suggestion, wardrobe []*models.ClothingItem, opts RepairOptions) (models.Suggestion, []string) {
	idx := indexWardrobe(wardrobe)
	out := models.Suggestion{
		Description: strings.TrimSpace(raw.Description),
		Reasoning:   strings.TrimSpace(raw.Reasoning),
		Error:       strings.TrimSpace(raw.Error),
	}

	var dropped []string
	out.ItemIDs, dropped = idx.filterKnown(raw.ItemIDs)

	if opts.HeroID != "" {
		if _, known := idx[opts.HeroID]; known && !slices.Contains(out.ItemIDs, opts.HeroID) {
			out.ItemIDs = append([]string{opts.HeroID}, out.ItemIDs...)
		}
	}

	if len(out.ItemIDs) == 0 && out.Error == "" {
		out.Error = NoCohesiveMatchMessage
	}

	if out.Description == "" {
		out.Description = opts.DefaultDescription
	}
	if out.Reasoning == "" {
		out.Reasoning = opts.DefaultReasoning
	}
	return out, dropped
}
