package service

import (
	"context"
	"errors"
	"testing"

	"layer-backend/errs"
	"layer-backend/metrics"
	"layer-backend/models"
	"layer-backend/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newStylist(store *repository.MemoryStore, fc Completer, opts ...StylistServiceOption) *StylistService {
	base := []StylistServiceOption{
		StylistWithItemRepository(store.Items()),
		StylistWithUserRepository(store.Users()),
		StylistWithGenerationClient(NewGenerationClient(fc)),
	}
	return NewStylistService(append(base, opts...)...)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	e, ok := errs.As(err)
	require.True(t, ok, "expected *errs.Error, got %v", err)
	require.Equal(t, code, e.Code)
}

func TestStylist_SmallWardrobeSkipsGeneration(t *testing.T) {
	for _, mode := range []Mode{ModeStandard, ModeTwin} {
		t.Run(string(mode), func(t *testing.T) {
			store := repository.NewMemoryStore()
			seedWardrobe(t, store, elite.UserID, "A", "B")
			fc := newFakeCompleter()
			s := newStylist(store, fc)

			_, err := s.Suggest(context.Background(), elite, SuggestRequest{Mode: mode, Celebrity: "Zendaya"})

			requireCode(t, err, "WARDROBE_TOO_SMALL")
			require.Equal(t, WardrobeTooSmallMessage, errs.PublicMessage(err))
			require.Zero(t, fc.callCount())
		})
	}
}

func TestStylist_StandardRepairsSuggestion(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, starter.UserID, "A", "B", "C")
	m := metrics.NewCollector("test")
	fc := newFakeCompleter().reply(GenerateStandard, `{"itemIds":["A","X","C"]}`)
	s := newStylist(store, fc, StylistWithMetrics(m))

	res, err := s.Suggest(context.Background(), starter, SuggestRequest{Weather: "Rainy, 12°C", Occasion: "Work"})
	require.NoError(t, err)

	require.Equal(t, []string{"A", "C"}, res.Suggestion.ItemIDs)
	require.Equal(t, []string{"X"}, res.DroppedIDs)
	require.Equal(t, "Stylist Selection", res.Suggestion.Description)
	require.Equal(t, "A curated look for you.", res.Suggestion.Reasoning)
	require.Contains(t, fc.lastCall().Prompt, "Occasion: Work")
	require.Equal(t, 1.0, testutil.ToFloat64(m.DroppedItemIDs.WithLabelValues("standard")))
}

func TestStylist_StandardAllUnknownIsUnprocessable(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, starter.UserID, "A", "B", "C")
	fc := newFakeCompleter().reply(GenerateStandard, `{"description":"D","itemIds":["X","Y"]}`)
	s := newStylist(store, fc)

	_, err := s.Suggest(context.Background(), starter, SuggestRequest{})

	requireCode(t, err, "SUGGESTION_FAILED")
	require.Equal(t, NoCohesiveMatchMessage, errs.PublicMessage(err))
	require.Equal(t, 422, errs.HTTPStatus(err))
}

func TestStylist_GenerationFailureSurfacesFallbackMessage(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, starter.UserID, "A", "B", "C")
	fc := newFakeCompleter().fail(GenerateStandard, errors.New("boom"))
	s := newStylist(store, fc)

	_, err := s.Suggest(context.Background(), starter, SuggestRequest{})

	require.Equal(t, StylistOverloadedMessage, errs.PublicMessage(err))
	require.Equal(t, 1, fc.callCount())
}

func TestStylist_TwinNeedsElite(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A", "B", "C")
	fc := newFakeCompleter()
	s := newStylist(store, fc)

	_, err := s.Suggest(context.Background(), pro, SuggestRequest{Mode: ModeTwin, Celebrity: "Zendaya"})

	requireCode(t, err, "PLAN_REQUIRED")
	require.True(t, errors.Is(err, errs.ErrForbidden))
	require.Zero(t, fc.callCount())
}

func TestStylist_TwinDefaultsNameTheIcon(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, elite.UserID, "A", "B", "C")
	fc := newFakeCompleter().reply(GenerateTwin, `{"itemIds":["B"]}`)
	s := newStylist(store, fc)

	res, err := s.Suggest(context.Background(), elite, SuggestRequest{Mode: ModeTwin, Celebrity: "Zendaya"})
	require.NoError(t, err)

	require.Equal(t, "Zendaya Vibe", res.Suggestion.Description)
	require.Equal(t, "Inspired by the icon.", res.Suggestion.Reasoning)
	require.Contains(t, fc.lastCall().Prompt, "User wants to dress like: Zendaya.")
}

func TestStylist_OrbitAnchorsHero(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A", "B", "H")
	fc := newFakeCompleter().reply(GenerateOrbit, `{"description":"Orbit","reasoning":"R","itemIds":["A","B"]}`)
	s := newStylist(store, fc)

	res, err := s.Suggest(context.Background(), pro, SuggestRequest{Mode: ModeOrbit, HeroID: "H"})
	require.NoError(t, err)

	require.Equal(t, "H", res.Suggestion.ItemIDs[0])
	require.Equal(t, []string{"H", "A", "B"}, res.Suggestion.ItemIDs)
}

func TestStylist_OrbitFailureFallsBackToHero(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "H")
	fc := newFakeCompleter().fail(GenerateOrbit, errors.New("timeout"))
	s := newStylist(store, fc)

	res, err := s.Suggest(context.Background(), pro, SuggestRequest{Mode: ModeOrbit, HeroID: "H"})
	require.NoError(t, err)

	require.Equal(t, models.Suggestion{
		Description: "Curated Look",
		Reasoning:   "Focused on your hero piece.",
		ItemIDs:     []string{"H"},
	}, res.Suggestion)
}

func TestStylist_OrbitRequiresKnownHero(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A", "B", "C")
	fc := newFakeCompleter()
	s := newStylist(store, fc)

	for _, hero := range []string{"", "missing"} {
		_, err := s.Suggest(context.Background(), pro, SuggestRequest{Mode: ModeOrbit, HeroID: hero})
		requireCode(t, err, "HERO_REQUIRED")
		require.Equal(t, HeroRequiredMessage, errs.PublicMessage(err))
	}
	require.Zero(t, fc.callCount())
}

func TestStylist_Manual(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, starter.UserID, "A", "B")
	fc := newFakeCompleter()
	s := newStylist(store, fc)

	_, err := s.Suggest(context.Background(), starter, SuggestRequest{Mode: ModeManual, SelectedIDs: []string{"A", "ghost"}})
	requireCode(t, err, "SELECTION_TOO_SMALL")

	res, err := s.Suggest(context.Background(), starter, SuggestRequest{Mode: ModeManual, SelectedIDs: []string{"B", "A"}})
	require.NoError(t, err)
	require.Equal(t, "Custom Ensemble", res.Suggestion.Description)
	require.Equal(t, "Hand-selected collection of your personal favorites.", res.Suggestion.Reasoning)
	require.Equal(t, []string{"B", "A"}, res.Suggestion.ItemIDs)
	require.Zero(t, fc.callCount())
}

func TestStylist_UnknownMode(t *testing.T) {
	store := repository.NewMemoryStore()
	s := newStylist(store, newFakeCompleter())

	_, err := s.Suggest(context.Background(), starter, SuggestRequest{Mode: "remix"})
	require.True(t, errors.Is(err, errs.ErrInvalid))
}

func TestStylist_RequiresSession(t *testing.T) {
	s := newStylist(repository.NewMemoryStore(), newFakeCompleter())

	_, err := s.Suggest(context.Background(), Session{}, SuggestRequest{})
	require.True(t, errors.Is(err, errs.ErrUnauthorized))
}

func TestStylist_AnalyzeGaps(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A")
	fc := newFakeCompleter().reply(GenerateGaps, `{"missingItems":["White Sneakers"],"reasoning":"Basics"}`)
	s := newStylist(store, fc)

	_, err := s.AnalyzeGaps(context.Background(), starter)
	requireCode(t, err, "PLAN_REQUIRED")

	gaps, err := s.AnalyzeGaps(context.Background(), pro)
	require.NoError(t, err)
	require.Equal(t, []string{"White Sneakers"}, gaps.MissingItems)
	require.Contains(t, fc.lastCall().Prompt, "Item A")
}

func TestStylist_MatchStyleDNAFiltersUnknownPosts(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A")
	community := NewCommunityService(CommunityWithRepository(
		repository.NewMemoryCommunityRepository(repository.SeedPosts(testNow)),
	))
	fc := newFakeCompleter().reply(GenerateStyleDNA, `["2","99","5"]`)
	s := newStylist(store, fc, StylistWithCommunityService(community))

	ids, err := s.MatchStyleDNA(context.Background(), pro)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "5"}, ids)
	require.Contains(t, fc.lastCall().Prompt, "Streetwear Fusion (ID: 2)")
}

func TestStylist_ChatPersonaFollowsPlan(t *testing.T) {
	store := repository.NewMemoryStore()
	fc := newFakeCompleter().reply(GenerateChat, "Layer it.")
	s := newStylist(store, fc)

	reply, err := s.Chat(context.Background(), elite, ChatRequest{Message: "help"})
	require.NoError(t, err)
	require.Equal(t, "Layer it.", reply)
	require.Equal(t, MasterStylistInstruction, fc.lastCall().System)

	_, err = s.Chat(context.Background(), starter, ChatRequest{Message: "help"})
	require.NoError(t, err)
	require.Equal(t, AssistantStylistInstruction, fc.lastCall().System)

	_, err = s.Chat(context.Background(), starter, ChatRequest{Message: " "})
	require.True(t, errors.Is(err, errs.ErrInvalid))
}
