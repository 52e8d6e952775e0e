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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DuplicateOutfitMessage is shown when a look is saved twice
const DuplicateOutfitMessage = "This look is already in your collection."

// Sources recorded when an outfit is saved
const (
	sourceStylist = "stylist"
	sourceFeed    = "feed"
	sourcePlanner = "planner"
)

// OutfitService reconciles suggestions into saved outfits and folders
type OutfitService struct {
	outfitRepo repository.OutfitRepository
	folderRepo repository.FolderRepository
	itemRepo   repository.ItemRepository
	community  *CommunityService
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// OutfitServiceOption is a functional option for OutfitService
type OutfitServiceOption func(*OutfitService)

// OutfitWithOutfitRepository sets the outfit repository
func OutfitWithOutfitRepository(repo repository.OutfitRepository) OutfitServiceOption {
	return func(s *OutfitService) {
		s.outfitRepo = repo
	}
}

// OutfitWithFolderRepository sets the folder repository
func OutfitWithFolderRepository(repo repository.FolderRepository) OutfitServiceOption {
	return func(s *OutfitService) {
		s.folderRepo = repo
	}
}

// OutfitWithItemRepository sets the item repository used to check saved item ids
func OutfitWithItemRepository(repo repository.ItemRepository) OutfitServiceOption {
	return func(s *OutfitService) {
		s.itemRepo = repo
	}
}

// OutfitWithCommunityService sets the feed used by SaveFromFeed
func OutfitWithCommunityService(c *CommunityService) OutfitServiceOption {
	return func(s *OutfitService) {
		s.community = c
	}
}

// OutfitWithLogger sets the logger
func OutfitWithLogger(logger *zap.Logger) OutfitServiceOption {
	return func(s *OutfitService) {
		s.logger = logger
	}
}

// OutfitWithMetrics sets the metrics collector
func OutfitWithMetrics(m *metrics.Collector) OutfitServiceOption {
	return func(s *OutfitService) {
		s.metrics = m
	}
}

// NewOutfitService creates a new outfit service
func NewOutfitService(opts ...OutfitServiceOption) *OutfitService {
	s := &OutfitService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveOutfitRequest is a suggestion the user accepted
type SaveOutfitRequest struct {
	Description string
	Reasoning   string
	ItemIDs     []string
	ImageRef    *string
}

func (s *OutfitService) requireOutfits() error {
	if s.outfitRepo == nil {
		return errors.New("outfit repository not set")
	}
	return nil
}

func (s *OutfitService) requireFolders() error {
	if s.folderRepo == nil {
		return errors.New("folder repository not set")
	}
	return nil
}

// Save stores an accepted suggestion at the head of the collection. A look with
// the same description and item sequence as a saved one is rejected.
func (s *OutfitService) Save(ctx context.Context, sess Session, req SaveOutfitRequest) (*models.Outfit, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireOutfits(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, errs.Invalid("description is required")
	}

	ids, err := s.knownItemIDs(ctx, sess.UserID, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	outfit := newOutfit(sess.UserID, req.Description, req.Reasoning, ids)
	outfit.ImageRef = req.ImageRef
	if err := s.createUnique(ctx, outfit); err != nil {
		return nil, err
	}
	s.metrics.IncOutfitsSaved(sourceStylist)
	return outfit, nil
}

// SaveGenerated stores a freshly generated look without the duplicate check.
// Item ids must already be repaired against the wardrobe.
func (s *OutfitService) SaveGenerated(ctx context.Context, sess Session, description, reasoning string, itemIDs []string) (*models.Outfit, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireOutfits(); err != nil {
		return nil, err
	}
	outfit := newOutfit(sess.UserID, description, reasoning, itemIDs)
	if err := s.outfitRepo.Create(ctx, outfit); err != nil {
		return nil, fmt.Errorf("failed to save outfit: %w", err)
	}
	s.metrics.IncOutfitsSaved(sourcePlanner)
	return outfit, nil
}

// SaveFromFeed favorites a community post as an outfit without items
func (s *OutfitService) SaveFromFeed(ctx context.Context, sess Session, postID string) (*models.Outfit, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireOutfits(); err != nil {
		return nil, err
	}
	if s.community == nil {
		return nil, errors.New("community service not set")
	}
	post, err := s.community.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	outfit := newOutfit(sess.UserID, post.Title, fmt.Sprintf("Inspired by @%s on the Global Feed.", post.Author), nil)
	image := post.ImageURL
	outfit.ImageRef = &image
	outfit.IsFavorite = true
	if err := s.createUnique(ctx, outfit); err != nil {
		return nil, err
	}
	s.metrics.IncOutfitsSaved(sourceFeed)
	return outfit, nil
}

func newOutfit(userID, description, reasoning string, itemIDs []string) *models.Outfit {
	if itemIDs == nil {
		itemIDs = []string{}
	}
	return &models.Outfit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: description,
		Reasoning:   reasoning,
		ItemIDs:     itemIDs,
	}
}

func (s *OutfitService) createUnique(ctx context.Context, outfit *models.Outfit) error {
	err := s.outfitRepo.CreateIfAbsent(ctx, outfit)
	if errors.Is(err, errs.ErrAlreadyExists) {
		return errs.Wrap(errs.KindConflict, "DUPLICATE_OUTFIT", DuplicateOutfitMessage, err)
	}
	if err != nil {
		return fmt.Errorf("failed to save outfit: %w", err)
	}
	return nil
}

// knownItemIDs drops ids that are not in the user's wardrobe
func (s *OutfitService) knownItemIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	if s.itemRepo == nil || len(ids) == 0 {
		return ids, nil
	}
	wardrobe, err := s.itemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}
	kept, dropped := indexWardrobe(wardrobe).filterKnown(ids)
	if len(dropped) > 0 {
		s.logger.Info("dropped unknown item ids from saved outfit",
			zap.String("user_id", userID),
			zap.Strings("item_ids", dropped),
		)
		s.metrics.AddDroppedItemIDs("save", len(dropped))
	}
	return kept, nil
}

// ListOutfitsRequest filters the collection
type ListOutfitsRequest struct {
	FolderID      string
	FavoritesOnly bool
}

// List returns the user's outfits, most recent first
func (s *OutfitService) List(ctx context.Context, sess Session, req ListOutfitsRequest) ([]*models.Outfit, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireOutfits(); err != nil {
		return nil, err
	}
	all, err := s.outfitRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}
	out := make([]*models.Outfit, 0, len(all))
	for _, o := range all {
		if req.FavoritesOnly && !o.IsFavorite {
			continue
		}
		if req.FolderID != "" && (o.FolderID == nil || *o.FolderID != req.FolderID) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// Delete removes an outfit
func (s *OutfitService) Delete(ctx context.Context, sess Session, id string) error {
	if err := sess.valid(); err != nil {
		return err
	}
	if err := s.requireOutfits(); err != nil {
		return err
	}
	return notFoundAs(s.outfitRepo.Delete(ctx, sess.UserID, id), "Outfit not found")
}

// ToggleFavorite flips the favorite flag
func (s *OutfitService) ToggleFavorite(ctx context.Context, sess Session, id string) (*models.Outfit, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireOutfits(); err != nil {
		return nil, err
	}
	o, err := s.outfitRepo.ToggleFavorite(ctx, sess.UserID, id)
	if err != nil {
		return nil, notFoundAs(err, "Outfit not found")
	}
	return o, nil
}

// MoveToFolder files an outfit under folderID, or unfiles it when folderID is
// nil or empty. The folder itself is not looked up.
func (s *OutfitService) MoveToFolder(ctx context.Context, sess Session, id string, folderID *string) (*models.Outfit, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireOutfits(); err != nil {
		return nil, err
	}
	if folderID != nil && *folderID == "" {
		folderID = nil
	}
	o, err := s.outfitRepo.SetFolder(ctx, sess.UserID, id, folderID)
	if err != nil {
		return nil, notFoundAs(err, "Outfit not found")
	}
	return o, nil
}

// CreateFolderRequest names a new folder
type CreateFolderRequest struct {
	Name  string
	Color string
}

// CreateFolder adds a folder. Color defaults to DefaultFolderColor.
func (s *OutfitService) CreateFolder(ctx context.Context, sess Session, req CreateFolderRequest) (*models.Folder, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireFolders(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Invalid("folder name is required")
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = models.DefaultFolderColor
	}
	folder := &models.Folder{
		ID:     uuid.NewString(),
		UserID: sess.UserID,
		Name:   name,
		Color:  color,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

// ListFolders returns the user's folders
func (s *OutfitService) ListFolders(ctx context.Context, sess Session) ([]*models.Folder, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireFolders(); err != nil {
		return nil, err
	}
	return s.folderRepo.ListByUserID(ctx, sess.UserID)
}

// DeleteFolder removes a folder and unfiles its outfits in one step.
// It returns how many outfits were unfiled.
func (s *OutfitService) DeleteFolder(ctx context.Context, sess Session, id string) (int64, error) {
	if err := sess.valid(); err != nil {
		return 0, err
	}
	if err := s.requireFolders(); err != nil {
		return 0, err
	}
	n, err := s.folderRepo.Delete(ctx, sess.UserID, id)
	if err != nil {
		return 0, notFoundAs(err, "Folder not found")
	}
	s.logger.Debug("folder deleted",
		zap.String("user_id", sess.UserID),
		zap.String("folder_id", id),
		zap.Int64("unfiled", n),
	)
	return n, nil
}

// notFoundAs replaces a repository ErrNotFound with a user-facing NotFound error
func notFoundAs(err error, message string) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Wrap(errs.KindNotFound, "NOT_FOUND", message, err)
	}
	return err
}
