package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"layer-backend/errs"
	"layer-backend/models"

	"github.com/stretchr/testify/require"
)

func TestMemoryOutfits_MostRecentFirst(t *testing.T) {
	store := NewMemoryStore()
	repo := store.Outfits()
	ctx := context.Background()

	for _, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, repo.Create(ctx, &models.Outfit{ID: id, UserID: "u1", Description: id}))
	}

	list, err := repo.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"o3", "o2", "o1"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestMemoryOutfits_CreateIfAbsent(t *testing.T) {
	repo := NewMemoryStore().Outfits()
	ctx := context.Background()

	require.NoError(t, repo.CreateIfAbsent(ctx, &models.Outfit{ID: "o1", UserID: "u1", Description: "D", ItemIDs: []string{"a", "b"}}))
	err := repo.CreateIfAbsent(ctx, &models.Outfit{ID: "o2", UserID: "u1", Description: "D", ItemIDs: []string{"a", "b"}})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	// Different order is a different look
	require.NoError(t, repo.CreateIfAbsent(ctx, &models.Outfit{ID: "o3", UserID: "u1", Description: "D", ItemIDs: []string{"b", "a"}}))
	// Other users are independent
	require.NoError(t, repo.CreateIfAbsent(ctx, &models.Outfit{ID: "o4", UserID: "u2", Description: "D", ItemIDs: []string{"a", "b"}}))

	list, _ := repo.ListByUserID(ctx, "u1")
	require.Len(t, list, 2)
}

func TestMemoryOutfits_ConcurrentDuplicateSaves(t *testing.T) {
	repo := NewMemoryStore().Outfits()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	saved := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.CreateIfAbsent(ctx, &models.Outfit{ID: fmt.Sprintf("o%d", i), UserID: "u1", Description: "D", ItemIDs: []string{"a"}})
			if err == nil {
				mu.Lock()
				saved++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, saved)
}

func TestMemoryOutfits_ReturnsCopies(t *testing.T) {
	repo := NewMemoryStore().Outfits()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Outfit{ID: "o1", UserID: "u1", ItemIDs: []string{"a"}}))

	got, err := repo.GetByID(ctx, "u1", "o1")
	require.NoError(t, err)
	got.ItemIDs[0] = "mutated"

	again, _ := repo.GetByID(ctx, "u1", "o1")
	require.Equal(t, "a", again.ItemIDs[0])
}

func TestMemoryFolders_DeleteDetachesOutfits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	folder := "f1"

	require.NoError(t, store.Folders().Create(ctx, &models.Folder{ID: folder, UserID: "u1", Name: "Work"}))
	require.NoError(t, store.Outfits().Create(ctx, &models.Outfit{ID: "o1", UserID: "u1", FolderID: &folder}))
	require.NoError(t, store.Outfits().Create(ctx, &models.Outfit{ID: "o2", UserID: "u1"}))

	detached, err := store.Folders().Delete(ctx, "u1", folder)
	require.NoError(t, err)
	require.Equal(t, int64(1), detached)

	o, err := store.Outfits().GetByID(ctx, "u1", "o1")
	require.NoError(t, err)
	require.Nil(t, o.FolderID)

	folders, _ := store.Folders().ListByUserID(ctx, "u1")
	require.Empty(t, folders)

	_, err = store.Folders().Delete(ctx, "u1", folder)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMemoryItems(t *testing.T) {
	repo := NewMemoryStore().Items()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.ClothingItem{ID: "i1", UserID: "u1", Name: "Tee"}))
	require.NoError(t, repo.Create(ctx, &models.ClothingItem{ID: "i2", UserID: "u1", Name: "Jeans"}))

	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	item, err := repo.RecordWear(ctx, "u1", "i1", at)
	require.NoError(t, err)
	require.Equal(t, 1, item.WearCount)
	require.Equal(t, at, *item.LastWorn)

	require.NoError(t, repo.Delete(ctx, "u1", "i1"))
	require.ErrorIs(t, repo.Delete(ctx, "u1", "i1"), errs.ErrNotFound)

	items, _ := repo.ListByUserID(ctx, "u1")
	require.Len(t, items, 1)
	require.Equal(t, "i2", items[0].ID)
}

func TestMemoryUsers(t *testing.T) {
	repo := NewMemoryStore().Users()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", Email: "A@b.c", Plan: models.PlanStarter}))
	require.ErrorIs(t, repo.Create(ctx, &models.User{ID: "u2", Email: "a@B.c"}), errs.ErrAlreadyExists)

	u, err := repo.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	require.NoError(t, repo.UpdatePlan(ctx, "u1", models.PlanElite))
	u, _ = repo.GetByID(ctx, "u1")
	require.Equal(t, models.PlanElite, u.Plan)

	require.ErrorIs(t, repo.UpdateStyles(ctx, "nope", nil), errs.ErrNotFound)
}

func TestMemoryPlanner(t *testing.T) {
	repo := NewMemoryStore().Planner()
	ctx := context.Background()
	outfit := "o1"

	week, err := repo.GetWeek(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, week, 7)

	require.NoError(t, repo.SetDay(ctx, "u1", models.PlannedDay{Day: models.Tuesday, OutfitID: &outfit, Note: "date night"}))
	outfit = "changed"

	week, _ = repo.GetWeek(ctx, "u1")
	require.Equal(t, "o1", *week[1].OutfitID)
	require.Equal(t, "date night", week[1].Note)
}

func TestMemoryCommunity_SeedAndPrepend(t *testing.T) {
	now := time.Now()
	repo := NewMemoryCommunityRepository(SeedPosts(now))
	ctx := context.Background()

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 8)
	require.Equal(t, "Cyberpunk Minimalist", posts[0].Title)
	require.Equal(t, "Desert Nomad Style", posts[7].Title)

	require.NoError(t, repo.Create(ctx, &models.CommunityPost{ID: "new", Title: "Fresh"}))
	posts, _ = repo.List(ctx)
	require.Equal(t, "new", posts[0].ID)

	p, err := repo.GetByID(ctx, "3")
	require.NoError(t, err)
	require.Equal(t, "SoftVibes", p.Author)

	_, err = repo.GetByID(ctx, "404")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
