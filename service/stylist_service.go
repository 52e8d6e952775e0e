package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"layer-backend/errs"
	"layer-backend/metrics"
	"layer-backend/models"
	"layer-backend/repository"

	"go.uber.org/zap"
)

// Mode selects how a look is put together
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeTwin     Mode = "twin"
	ModeOrbit    Mode = "orbit"
	ModeManual   Mode = "manual"
)

const (
	// MinWardrobeSize is the smallest wardrobe standard and twin looks are generated for
	MinWardrobeSize = 3
	// MinManualSelection is the smallest hand-picked look
	MinManualSelection = 2
)

// User-facing gate and fallback messages
const (
	WardrobeTooSmallMessage  = "Your wardrobe is too small. Upload at least 3-5 items to get quality suggestions."
	HeroRequiredMessage      = "Please select a Hero Piece"
	SelectionTooSmallMessage = "Select at least 2 items."
	CelebrityRequiredMessage = "Tell the stylist who to dress like."
	StylistOverloadedMessage = "The Stylist AI is currently overwhelmed."
	TwinFailedMessage        = "Could not generate look."
)

// StylistService produces outfit suggestions, gap reports, feed matches and chat replies
type StylistService struct {
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
	community *CommunityService
	generator *GenerationClient
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// StylistServiceOption is a functional option for StylistService
type StylistServiceOption func(*StylistService)

// StylistWithItemRepository sets the item repository
func StylistWithItemRepository(repo repository.ItemRepository) StylistServiceOption {
	return func(s *StylistService) {
		s.itemRepo = repo
	}
}

// StylistWithUserRepository sets the user repository
func StylistWithUserRepository(repo repository.UserRepository) StylistServiceOption {
	return func(s *StylistService) {
		s.userRepo = repo
	}
}

// StylistWithCommunityService sets the feed used for style matching
func StylistWithCommunityService(c *CommunityService) StylistServiceOption {
	return func(s *StylistService) {
		s.community = c
	}
}

// StylistWithGenerationClient sets the generation client
func StylistWithGenerationClient(g *GenerationClient) StylistServiceOption {
	return func(s *StylistService) {
		s.generator = g
	}
}

// StylistWithLogger sets the logger
func StylistWithLogger(logger *zap.Logger) StylistServiceOption {
	return func(s *StylistService) {
		s.logger = logger
	}
}

// StylistWithMetrics sets the metrics collector
func StylistWithMetrics(m *metrics.Collector) StylistServiceOption {
	return func(s *StylistService) {
		s.metrics = m
	}
}

// NewStylistService creates a new stylist service
func NewStylistService(opts ...StylistServiceOption) *StylistService {
	s := &StylistService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SuggestRequest describes the look to generate
type SuggestRequest struct {
	Mode     Mode
	Weather  string
	Style    string
	Occasion string
	// Request is free text that replaces Occasion in standard mode.
	Request     string
	Celebrity   string
	HeroID      string
	SelectedIDs []string
}

// SuggestResult is a repaired suggestion ready to show or save
type SuggestResult struct {
	Suggestion models.Suggestion
	// DroppedIDs are item ids the generator returned that are not in the wardrobe.
	DroppedIDs []string
}

func (s *StylistService) ready() error {
	if s.itemRepo == nil {
		return errors.New("item repository not set")
	}
	if s.generator == nil {
		return errors.New("generation client not set")
	}
	return nil
}

// Suggest builds a look in the requested mode. Gate failures are returned before
// any generation call. A suggestion that still carries an error after repair is
// returned as an Unprocessable error with that message.
func (s *StylistService) Suggest(ctx context.Context, sess Session, req SuggestRequest) (*SuggestResult, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeStandard
	}
	switch mode {
	case ModeTwin:
		if err := sess.requirePlan(models.PlanElite, "Style Twin"); err != nil {
			return nil, err
		}
	case ModeOrbit:
		if err := sess.requirePlan(models.PlanPro, "Orbit"); err != nil {
			return nil, err
		}
	case ModeStandard, ModeManual:
	default:
		return nil, errs.Invalid(fmt.Sprintf("unknown mode %q", req.Mode))
	}

	wardrobe, err := s.itemRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}

	var (
		raw  models.Suggestion
		opts RepairOptions
	)
	switch mode {
	case ModeStandard:
		if len(wardrobe) < MinWardrobeSize {
			return nil, errs.New(errs.KindInvalid, "WARDROBE_TOO_SMALL", WardrobeTooSmallMessage)
		}
		prompt := BuildOutfitPrompt(wardrobe, PromptContext{
			Weather:  req.Weather,
			Style:    req.Style,
			Occasion: req.Occasion,
			Request:  req.Request,
		})
		raw = s.generator.Suggest(ctx, GenerateStandard, prompt, models.Suggestion{Error: StylistOverloadedMessage})
		opts = RepairOptions{DefaultDescription: "Stylist Selection", DefaultReasoning: "A curated look for you."}

	case ModeTwin:
		if len(wardrobe) < MinWardrobeSize {
			return nil, errs.New(errs.KindInvalid, "WARDROBE_TOO_SMALL", WardrobeTooSmallMessage)
		}
		celebrity := strings.TrimSpace(req.Celebrity)
		if celebrity == "" {
			return nil, errs.New(errs.KindInvalid, "CELEBRITY_REQUIRED", CelebrityRequiredMessage)
		}
		raw = s.generator.Suggest(ctx, GenerateTwin, BuildCelebrityPrompt(wardrobe, celebrity), models.Suggestion{Error: TwinFailedMessage})
		opts = RepairOptions{DefaultDescription: celebrity + " Vibe", DefaultReasoning: "Inspired by the icon."}

	case ModeOrbit:
		hero := indexWardrobe(wardrobe)[req.HeroID]
		if req.HeroID == "" || hero == nil {
			return nil, errs.New(errs.KindInvalid, "HERO_REQUIRED", HeroRequiredMessage)
		}
		fallback := models.Suggestion{
			Description: "Curated Look",
			Reasoning:   "Focused on your hero piece.",
			ItemIDs:     []string{hero.ID},
		}
		raw = s.generator.Suggest(ctx, GenerateOrbit, BuildHeroPrompt(wardrobe, hero), fallback)
		opts = RepairOptions{HeroID: hero.ID, DefaultDescription: "Hero Focus Look", DefaultReasoning: "Centered around your hero piece."}

	case ModeManual:
		kept, _ := indexWardrobe(wardrobe).filterKnown(req.SelectedIDs)
		if len(kept) < MinManualSelection {
			return nil, errs.New(errs.KindInvalid, "SELECTION_TOO_SMALL", SelectionTooSmallMessage)
		}
		raw = models.Suggestion{
			Description: "Custom Ensemble",
			Reasoning:   "Hand-selected collection of your personal favorites.",
			ItemIDs:     req.SelectedIDs,
		}
	}

	suggestion, dropped := RepairSuggestion(raw, wardrobe, opts)
	if len(dropped) > 0 {
		s.logger.Info("dropped unknown item ids from suggestion",
			zap.String("user_id", sess.UserID),
			zap.String("mode", string(mode)),
			zap.Strings("item_ids", dropped),
		)
		s.metrics.AddDroppedItemIDs(string(mode), len(dropped))
	}
	if suggestion.Error != "" {
		return nil, errs.New(errs.KindUnprocessable, "SUGGESTION_FAILED", suggestion.Error)
	}
	return &SuggestResult{Suggestion: suggestion, DroppedIDs: dropped}, nil
}

// AnalyzeGaps reports the essentials missing from the caller's wardrobe
func (s *StylistService) AnalyzeGaps(ctx context.Context, sess Session) (*models.GapAnalysis, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := sess.requirePlan(models.PlanPro, "Gap analysis"); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	wardrobe, err := s.itemRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}
	gaps := s.generator.Gaps(ctx, BuildGapPrompt(wardrobe))
	return &gaps, nil
}

// MatchStyleDNA returns the ids of feed posts that fit the caller's aesthetic.
// Ids the generator invents are dropped.
func (s *StylistService) MatchStyleDNA(ctx context.Context, sess Session) ([]string, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := sess.requirePlan(models.PlanPro, "Style DNA"); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.community == nil {
		return nil, errors.New("community service not set")
	}

	wardrobe, err := s.itemRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}
	posts, err := s.community.List(ctx)
	if err != nil {
		return nil, err
	}
	var styles []string
	if s.userRepo != nil {
		if u, err := s.userRepo.GetByID(ctx, sess.UserID); err == nil {
			styles = u.Styles
		}
	}

	known := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		known[p.ID] = struct{}{}
	}
	matched := make([]string, 0)
	for _, id := range s.generator.MatchIDs(ctx, BuildStyleDNAPrompt(styles, wardrobe, posts)) {
		if _, ok := known[id]; ok {
			matched = append(matched, id)
		}
	}
	return matched, nil
}

// ChatRequest is one user message with the conversation so far
type ChatRequest struct {
	Message string
	History []models.ChatTurn
}

// Chat answers a stylist chat message. Elite members talk to the Master Stylist.
func (s *StylistService) Chat(ctx context.Context, sess Session, req ChatRequest) (string, error) {
	if err := sess.valid(); err != nil {
		return "", err
	}
	if s.generator == nil {
		return "", errors.New("generation client not set")
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return "", errs.Invalid("message is required")
	}
	persona := AssistantStylistInstruction
	if sess.Plan.Allows(models.PlanElite) {
		persona = MasterStylistInstruction
	}
	return s.generator.Chat(ctx, persona, req.History, msg), nil
}
