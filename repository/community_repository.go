package repository

import (
	"context"
	"sync"
	"time"

	"layer-backend/errs"
	"layer-backend/models"
)

// SeedPosts returns the launch posts of the global feed. Timestamps step back one
// minute per post from now so a newest-first sort keeps the listed order.
func SeedPosts(now time.Time) []models.CommunityPost {
	seed := []struct {
		id, title, author, photo string
		likes                    int
	}{
		{"1", "Cyberpunk Minimalist", "NeoStyle", "1551488831-00ddcb6c6bd3", 142},
		{"2", "Streetwear Fusion", "LayerKing", "1515886657613-9f3515b0c78f", 89},
		{"3", "Cozy Oversized Vibe", "SoftVibes", "1508427953056-b00b8d78ebf5", 231},
		{"4", "Formal Brutalism", "ArchitectMode", "1539109136881-3be0616acf4b", 56},
		{"5", "Vintage Denim Layering", "RetroSoul", "1523381235312-3a1647fa9747", 312},
		{"6", "Monochrome Techwear", "GhostInShell", "1503342217505-b0a15ec3261c", 178},
		{"7", "Pastel Academia", "LibraryLover", "1516762689617-e1cffcef479d", 445},
		{"8", "Desert Nomad Style", "DuneTraveler", "1475189778702-5ec9941484ae", 92},
	}

	posts := make([]models.CommunityPost, 0, len(seed))
	for i, p := range seed {
		posts = append(posts, models.CommunityPost{
			ID:        p.id,
			Title:     p.title,
			Author:    p.author,
			ImageURL:  "https://images.unsplash.com/photo-" + p.photo + "?auto=format&fit=crop&q=80&w=800",
			Likes:     p.likes,
			Timestamp: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return posts
}

// MemoryCommunityRepository keeps the feed in process memory, newest first.
type MemoryCommunityRepository struct {
	mu    sync.RWMutex
	posts []*models.CommunityPost
}

// NewMemoryCommunityRepository creates a feed holding seed in the given order
func NewMemoryCommunityRepository(seed []models.CommunityPost) *MemoryCommunityRepository {
	r := &MemoryCommunityRepository{posts: make([]*models.CommunityPost, 0, len(seed))}
	for i := range seed {
		p := seed[i]
		r.posts = append(r.posts, &p)
	}
	return r
}

// List returns a snapshot of the feed
func (r *MemoryCommunityRepository) List(_ context.Context) ([]*models.CommunityPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.CommunityPost, 0, len(r.posts))
	for _, p := range r.posts {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

// GetByID finds a post
func (r *MemoryCommunityRepository) GetByID(_ context.Context, id string) (*models.CommunityPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Create prepends a post
func (r *MemoryCommunityRepository) Create(_ context.Context, post *models.CommunityPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *post
	r.posts = append([]*models.CommunityPost{&c}, r.posts...)
	return nil
}
