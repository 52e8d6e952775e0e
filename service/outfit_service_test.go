package service

import (
	"context"
	"errors"
	"testing"

	"layer-backend/errs"
	"layer-backend/repository"

	"github.com/stretchr/testify/require"
)

func newOutfitService(store *repository.MemoryStore, opts ...OutfitServiceOption) *OutfitService {
	base := []OutfitServiceOption{
		OutfitWithOutfitRepository(store.Outfits()),
		OutfitWithFolderRepository(store.Folders()),
		OutfitWithItemRepository(store.Items()),
	}
	return NewOutfitService(append(base, opts...)...)
}

func TestOutfitService_SaveRejectsDuplicate(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, starter.UserID, "A", "B")
	s := newOutfitService(store)
	ctx := context.Background()

	first, err := s.Save(ctx, starter, SaveOutfitRequest{Description: "D", ItemIDs: []string{"A", "B"}})
	require.NoError(t, err)
	require.False(t, first.IsFavorite)
	require.NotEmpty(t, first.ID)

	_, err = s.Save(ctx, starter, SaveOutfitRequest{Description: "D", ItemIDs: []string{"A", "B"}})
	requireCode(t, err, "DUPLICATE_OUTFIT")
	require.Equal(t, DuplicateOutfitMessage, errs.PublicMessage(err))
	require.Equal(t, 409, errs.HTTPStatus(err))

	list, err := s.List(ctx, starter, ListOutfitsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Same items in another order is a different look.
	_, err = s.Save(ctx, starter, SaveOutfitRequest{Description: "D", ItemIDs: []string{"B", "A"}})
	require.NoError(t, err)
}

func TestOutfitService_MostRecentFirst(t *testing.T) {
	store := repository.NewMemoryStore()
	s := newOutfitService(store)
	ctx := context.Background()

	var ids []string
	for _, d := range []string{"O1", "O2", "O3"} {
		o, err := s.Save(ctx, starter, SaveOutfitRequest{Description: d})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	list, err := s.List(ctx, starter, ListOutfitsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestOutfitService_SaveDropsUnknownItems(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, starter.UserID, "A")
	s := newOutfitService(store)

	o, err := s.Save(context.Background(), starter, SaveOutfitRequest{Description: "D", ItemIDs: []string{"A", "ghost"}})
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, o.ItemIDs)
}

func TestOutfitService_DeleteFolderUnfilesOutfits(t *testing.T) {
	store := repository.NewMemoryStore()
	s := newOutfitService(store)
	ctx := context.Background()

	folder, err := s.CreateFolder(ctx, starter, CreateFolderRequest{Name: "Work"})
	require.NoError(t, err)
	require.Equal(t, "#6366f1", folder.Color)

	o, err := s.Save(ctx, starter, SaveOutfitRequest{Description: "O"})
	require.NoError(t, err)
	moved, err := s.MoveToFolder(ctx, starter, o.ID, &folder.ID)
	require.NoError(t, err)
	require.Equal(t, folder.ID, *moved.FolderID)

	n, err := s.DeleteFolder(ctx, starter, folder.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	list, err := s.List(ctx, starter, ListOutfitsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].FolderID)

	folders, err := s.ListFolders(ctx, starter)
	require.NoError(t, err)
	require.Empty(t, folders)

	_, err = s.DeleteFolder(ctx, starter, folder.ID)
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestOutfitService_MoveToUnknownFolderIsAccepted(t *testing.T) {
	store := repository.NewMemoryStore()
	s := newOutfitService(store)
	ctx := context.Background()

	o, err := s.Save(ctx, starter, SaveOutfitRequest{Description: "O"})
	require.NoError(t, err)

	nowhere := "no-such-folder"
	moved, err := s.MoveToFolder(ctx, starter, o.ID, &nowhere)
	require.NoError(t, err)
	require.Equal(t, nowhere, *moved.FolderID)

	empty := ""
	moved, err = s.MoveToFolder(ctx, starter, o.ID, &empty)
	require.NoError(t, err)
	require.Nil(t, moved.FolderID)

	_, err = s.MoveToFolder(ctx, starter, "missing", nil)
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestOutfitService_ToggleFavoriteAndFilters(t *testing.T) {
	store := repository.NewMemoryStore()
	s := newOutfitService(store)
	ctx := context.Background()

	a, err := s.Save(ctx, starter, SaveOutfitRequest{Description: "A"})
	require.NoError(t, err)
	_, err = s.Save(ctx, starter, SaveOutfitRequest{Description: "B"})
	require.NoError(t, err)

	fav, err := s.ToggleFavorite(ctx, starter, a.ID)
	require.NoError(t, err)
	require.True(t, fav.IsFavorite)

	favs, err := s.List(ctx, starter, ListOutfitsRequest{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.Equal(t, a.ID, favs[0].ID)

	unfav, err := s.ToggleFavorite(ctx, starter, a.ID)
	require.NoError(t, err)
	require.False(t, unfav.IsFavorite)

	_, err = s.ToggleFavorite(ctx, starter, "missing")
	requireCode(t, err, "NOT_FOUND")
}

func TestOutfitService_Delete(t *testing.T) {
	store := repository.NewMemoryStore()
	s := newOutfitService(store)
	ctx := context.Background()

	o, err := s.Save(ctx, starter, SaveOutfitRequest{Description: "A"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, starter, o.ID))
	require.True(t, errors.Is(s.Delete(ctx, starter, o.ID), errs.ErrNotFound))
}

func TestOutfitService_SaveFromFeed(t *testing.T) {
	store := repository.NewMemoryStore()
	community := NewCommunityService(CommunityWithRepository(
		repository.NewMemoryCommunityRepository(repository.SeedPosts(testNow)),
	))
	s := newOutfitService(store, OutfitWithCommunityService(community))
	ctx := context.Background()

	o, err := s.SaveFromFeed(ctx, starter, "1")
	require.NoError(t, err)
	require.Equal(t, "Cyberpunk Minimalist", o.Description)
	require.Equal(t, "Inspired by @NeoStyle on the Global Feed.", o.Reasoning)
	require.True(t, o.IsFavorite)
	require.Empty(t, o.ItemIDs)
	require.NotNil(t, o.ImageRef)

	_, err = s.SaveFromFeed(ctx, starter, "1")
	requireCode(t, err, "DUPLICATE_OUTFIT")

	_, err = s.SaveFromFeed(ctx, starter, "404")
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestOutfitService_OutfitsAreScopedPerUser(t *testing.T) {
	store := repository.NewMemoryStore()
	s := newOutfitService(store)
	ctx := context.Background()
	other := Session{UserID: "user-2", Plan: starter.Plan}

	o, err := s.Save(ctx, starter, SaveOutfitRequest{Description: "Mine"})
	require.NoError(t, err)

	list, err := s.List(ctx, other, ListOutfitsRequest{})
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = s.ToggleFavorite(ctx, other, o.ID)
	require.True(t, errors.Is(err, errs.ErrNotFound))
}
