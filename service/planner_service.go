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

// PlannerService manages the seven-day outfit planner
type PlannerService struct {
	plannerRepo repository.PlannerRepository
	itemRepo    repository.ItemRepository
	outfitRepo  repository.OutfitRepository
	outfits     *OutfitService
	generator   *GenerationClient
	logger      *zap.Logger
	metrics     *metrics.Collector
}

// PlannerServiceOption is a functional option for PlannerService
type PlannerServiceOption func(*PlannerService)

// PlannerWithPlannerRepository sets the planner repository
func PlannerWithPlannerRepository(repo repository.PlannerRepository) PlannerServiceOption {
	return func(s *PlannerService) {
		s.plannerRepo = repo
	}
}

// PlannerWithItemRepository sets the item repository
func PlannerWithItemRepository(repo repository.ItemRepository) PlannerServiceOption {
	return func(s *PlannerService) {
		s.itemRepo = repo
	}
}

// PlannerWithOutfitRepository sets the outfit repository used to check assignments
func PlannerWithOutfitRepository(repo repository.OutfitRepository) PlannerServiceOption {
	return func(s *PlannerService) {
		s.outfitRepo = repo
	}
}

// PlannerWithOutfitService sets the service generated looks are saved through
func PlannerWithOutfitService(o *OutfitService) PlannerServiceOption {
	return func(s *PlannerService) {
		s.outfits = o
	}
}

// PlannerWithGenerationClient sets the generation client
func PlannerWithGenerationClient(g *GenerationClient) PlannerServiceOption {
	return func(s *PlannerService) {
		s.generator = g
	}
}

// PlannerWithLogger sets the logger
func PlannerWithLogger(logger *zap.Logger) PlannerServiceOption {
	return func(s *PlannerService) {
		s.logger = logger
	}
}

// PlannerWithMetrics sets the metrics collector
func PlannerWithMetrics(m *metrics.Collector) PlannerServiceOption {
	return func(s *PlannerService) {
		s.metrics = m
	}
}

// NewPlannerService creates a new planner service
func NewPlannerService(opts ...PlannerServiceOption) *PlannerService {
	s := &PlannerService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetWeek returns the seven slots Mon through Sun
func (s *PlannerService) GetWeek(ctx context.Context, sess Session) ([]models.PlannedDay, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if s.plannerRepo == nil {
		return nil, errors.New("planner repository not set")
	}
	return s.plannerRepo.GetWeek(ctx, sess.UserID)
}

// AssignDayRequest sets one planner slot
type AssignDayRequest struct {
	Day      string
	OutfitID *string
	Note     string
}

// AssignDay puts an outfit (or nothing) and a note into one slot.
// The day name is matched on its first three letters.
func (s *PlannerService) AssignDay(ctx context.Context, sess Session, req AssignDayRequest) ([]models.PlannedDay, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if s.plannerRepo == nil {
		return nil, errors.New("planner repository not set")
	}
	day, ok := models.MatchWeekday(req.Day)
	if !ok {
		return nil, errs.Invalid(fmt.Sprintf("unknown day %q", req.Day))
	}

	outfitID := req.OutfitID
	if outfitID != nil && *outfitID == "" {
		outfitID = nil
	}
	if outfitID != nil && s.outfitRepo != nil {
		if _, err := s.outfitRepo.GetByID(ctx, sess.UserID, *outfitID); err != nil {
			return nil, notFoundAs(err, "Outfit not found")
		}
	}

	if err := s.plannerRepo.SetDay(ctx, sess.UserID, models.PlannedDay{Day: day, OutfitID: outfitID, Note: req.Note}); err != nil {
		return nil, fmt.Errorf("failed to update planner: %w", err)
	}
	return s.plannerRepo.GetWeek(ctx, sess.UserID)
}

// ClearDay empties one slot
func (s *PlannerService) ClearDay(ctx context.Context, sess Session, day string) ([]models.PlannedDay, error) {
	return s.AssignDay(ctx, sess, AssignDayRequest{Day: day})
}

// AutoScheduleResult reports what AutoSchedule changed
type AutoScheduleResult struct {
	Week    []models.PlannedDay `json:"week"`
	Outfits []*models.Outfit    `json:"outfits"`
	// DroppedDays are returned day names that matched no slot.
	DroppedDays []string `json:"droppedDays"`
	// RejectedDays are slots whose look had no wardrobe items left after repair.
	RejectedDays []string `json:"rejectedDays"`
}

// AutoSchedule generates a week of looks in one call and files each into the slot
// its day name matches. Each look goes through RepairSuggestion first and a day
// whose look has no wardrobe items left is reported instead of filled. A failed
// or errored generation leaves every slot alone. Looks saved before a later
// save fails stay saved.
func (s *PlannerService) AutoSchedule(ctx context.Context, sess Session, weather string) (*AutoScheduleResult, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := sess.requirePlan(models.PlanPro, "Auto-scheduling"); err != nil {
		return nil, err
	}
	if s.plannerRepo == nil || s.itemRepo == nil {
		return nil, errors.New("planner or item repository not set")
	}
	if s.outfits == nil || s.generator == nil {
		return nil, errors.New("outfit service or generation client not set")
	}

	wardrobe, err := s.itemRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}
	if len(wardrobe) < MinWardrobeSize {
		return nil, errs.New(errs.KindInvalid, "WARDROBE_TOO_SMALL", WardrobeTooSmallMessage)
	}

	schedule := s.generator.Schedule(ctx, BuildSchedulePrompt(wardrobe, weather))
	if schedule.Error != "" {
		return nil, errs.New(errs.KindUnprocessable, "SCHEDULE_FAILED", schedule.Error)
	}

	result := &AutoScheduleResult{Outfits: []*models.Outfit{}, DroppedDays: []string{}, RejectedDays: []string{}}
	for _, entry := range schedule.Entries {
		day, ok := models.MatchWeekday(entry.Day)
		if !ok {
			result.DroppedDays = append(result.DroppedDays, entry.Day)
			continue
		}

		look, dropped := RepairSuggestion(models.Suggestion{
			Description: entry.Description,
			Reasoning:   entry.Note,
			ItemIDs:     entry.ItemIDs,
		}, wardrobe, RepairOptions{
			DefaultDescription: string(day) + " Look",
			DefaultReasoning:   "Planned for " + string(day) + ".",
		})
		if len(dropped) > 0 {
			s.metrics.AddDroppedItemIDs(string(GenerateSchedule), len(dropped))
		}
		if look.Error != "" {
			result.RejectedDays = append(result.RejectedDays, string(day))
			continue
		}

		outfit, err := s.outfits.SaveGenerated(ctx, sess, look.Description, look.Reasoning, look.ItemIDs)
		if err != nil {
			return nil, err
		}
		outfitID := outfit.ID
		if err := s.plannerRepo.SetDay(ctx, sess.UserID, models.PlannedDay{Day: day, OutfitID: &outfitID, Note: strings.TrimSpace(entry.Note)}); err != nil {
			return nil, fmt.Errorf("failed to update planner: %w", err)
		}
		result.Outfits = append(result.Outfits, outfit)
	}

	if len(result.RejectedDays) > 0 {
		s.logger.Info("skipped schedule entries with no wardrobe items",
			zap.String("user_id", sess.UserID),
			zap.Strings("days", result.RejectedDays),
		)
	}
	if len(result.DroppedDays) > 0 {
		s.logger.Info("dropped schedule entries with unknown days",
			zap.String("user_id", sess.UserID),
			zap.Strings("days", result.DroppedDays),
		)
		s.metrics.AddDroppedScheduleEntries(len(result.DroppedDays))
	}

	week, err := s.plannerRepo.GetWeek(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	result.Week = week
	return result, nil
}
