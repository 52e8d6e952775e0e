package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"layer-backend/models"
	"layer-backend/repository"

	"github.com/stretchr/testify/require"
)

// fakeCompleter answers each generation kind with a scripted reply or error
type fakeCompleter struct {
	mu      sync.Mutex
	replies map[GenerationKind]string
	errs    map[GenerationKind]error
	calls   []CompletionRequest
}

func newFakeCompleter() *fakeCompleter {
	return &fakeCompleter{
		replies: make(map[GenerationKind]string),
		errs:    make(map[GenerationKind]error),
	}
}

func (f *fakeCompleter) reply(kind GenerationKind, text string) *fakeCompleter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[kind] = text
	return f
}

func (f *fakeCompleter) fail(kind GenerationKind, err error) *fakeCompleter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[kind] = err
	return f
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if err := f.errs[req.Kind]; err != nil {
		return "", err
	}
	return f.replies[req.Kind], nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCompleter) lastCall() CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// seedWardrobe stores one item per id for userID, in order
func seedWardrobe(t *testing.T, store *repository.MemoryStore, userID string, ids ...string) []*models.ClothingItem {
	t.Helper()
	items := make([]*models.ClothingItem, 0, len(ids))
	for i, id := range ids {
		it := &models.ClothingItem{
			ID:       id,
			UserID:   userID,
			Name:     fmt.Sprintf("Item %s", id),
			Category: []string{"shirt", "jeans", "sneakers", "coat", "hat"}[i%5],
		}
		require.NoError(t, store.Items().Create(context.Background(), it))
		items = append(items, it)
	}
	return items
}

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

var (
	starter = Session{UserID: "user-1", Plan: models.PlanStarter}
	pro     = Session{UserID: "user-1", Plan: models.PlanPro}
	elite   = Session{UserID: "user-1", Plan: models.PlanElite}
)
