package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"layer-backend/errs"
	"layer-backend/models"
	"layer-backend/repository"
	"layer-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WardrobeService manages clothing items and their photos
type WardrobeService struct {
	itemRepo  repository.ItemRepository
	storage   storage.Storage
	generator *GenerationClient
	logger    *zap.Logger
	now       func() time.Time
}

// WardrobeServiceOption is a functional option for WardrobeService
type WardrobeServiceOption func(*WardrobeService)

// WardrobeWithItemRepository sets the item repository
func WardrobeWithItemRepository(repo repository.ItemRepository) WardrobeServiceOption {
	return func(s *WardrobeService) {
		s.itemRepo = repo
	}
}

// WardrobeWithStorage sets the photo storage backend
func WardrobeWithStorage(st storage.Storage) WardrobeServiceOption {
	return func(s *WardrobeService) {
		s.storage = st
	}
}

// WardrobeWithGenerationClient sets the generation client used for photo analysis
func WardrobeWithGenerationClient(g *GenerationClient) WardrobeServiceOption {
	return func(s *WardrobeService) {
		s.generator = g
	}
}

// WardrobeWithLogger sets the logger
func WardrobeWithLogger(logger *zap.Logger) WardrobeServiceOption {
	return func(s *WardrobeService) {
		s.logger = logger
	}
}

// WardrobeWithClock overrides the time source
func WardrobeWithClock(now func() time.Time) WardrobeServiceOption {
	return func(s *WardrobeService) {
		s.now = now
	}
}

// NewWardrobeService creates a new wardrobe service
func NewWardrobeService(opts ...WardrobeServiceOption) *WardrobeService {
	s := &WardrobeService{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WardrobeService) requireItems() error {
	if s.itemRepo == nil {
		return errors.New("item repository not set")
	}
	return nil
}

// AddItemRequest is an item the user accepted after analysis
type AddItemRequest struct {
	Name                string
	Category            string
	ImageRef            string
	ResaleValue         *float64
	SustainabilityScore *int
}

// AddItem stores a new item. The category is kept as given, lowercased.
func (s *WardrobeService) AddItem(ctx context.Context, sess Session, req AddItemRequest) (*models.ClothingItem, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireItems(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Invalid("name is required")
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = models.DefaultItemCategory
	}
	if req.SustainabilityScore != nil && (*req.SustainabilityScore < 1 || *req.SustainabilityScore > 10) {
		return nil, errs.Invalid("sustainabilityScore must be between 1 and 10")
	}

	item := &models.ClothingItem{
		ID:                  uuid.NewString(),
		UserID:              sess.UserID,
		Name:                name,
		Category:            category,
		ImageRef:            req.ImageRef,
		ResaleValue:         req.ResaleValue,
		SustainabilityScore: req.SustainabilityScore,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// ListItems returns the wardrobe, optionally narrowed to one category bucket
func (s *WardrobeService) ListItems(ctx context.Context, sess Session, category string) ([]*models.ClothingItem, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireItems(); err != nil {
		return nil, err
	}
	bucket, all, ok := models.ParseCategoryFilter(category)
	if !ok {
		return nil, errs.Invalid(fmt.Sprintf("unknown category %q", category))
	}
	items, err := s.itemRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	if all {
		return items, nil
	}
	out := make([]*models.ClothingItem, 0, len(items))
	for _, it := range items {
		if bucket.Matches(it.Category) {
			out = append(out, it)
		}
	}
	return out, nil
}

// DeleteItem removes an item and, best effort, its stored photo.
// Outfits that reference the item keep the id.
func (s *WardrobeService) DeleteItem(ctx context.Context, sess Session, id string) error {
	if err := sess.valid(); err != nil {
		return err
	}
	if err := s.requireItems(); err != nil {
		return err
	}
	item, err := s.itemRepo.GetByID(ctx, sess.UserID, id)
	if err != nil {
		return notFoundAs(err, "Item not found")
	}
	if err := s.itemRepo.Delete(ctx, sess.UserID, id); err != nil {
		return notFoundAs(err, "Item not found")
	}
	if s.storage != nil && isStoredImage(item.ImageRef) {
		if err := s.storage.Delete(ctx, item.ImageRef); err != nil {
			s.logger.Warn("failed to delete item image",
				zap.String("item_id", id),
				zap.String("image_ref", item.ImageRef),
				zap.Error(err),
			)
		}
	}
	return nil
}

// LogWear counts one more wear and stamps the time
func (s *WardrobeService) LogWear(ctx context.Context, sess Session, id string) (*models.ClothingItem, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireItems(); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.RecordWear(ctx, sess.UserID, id, s.now().UTC())
	if err != nil {
		return nil, notFoundAs(err, "Item not found")
	}
	return item, nil
}

// AnalyzeImageRequest is an uploaded clothing photo
type AnalyzeImageRequest struct {
	Filename string
	Data     []byte
}

// AnalyzeImageResult is the generated description plus where the photo was stored
type AnalyzeImageResult struct {
	Analysis models.ItemAnalysis `json:"analysis"`
	ImageRef string              `json:"imageUrl"`
}

// AnalyzeImage stores the photo and asks the generation service what it shows.
// Analysis failures yield a placeholder description, never an error.
func (s *WardrobeService) AnalyzeImage(ctx context.Context, sess Session, req AnalyzeImageRequest) (*AnalyzeImageResult, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}
	if s.generator == nil {
		return nil, errors.New("generation client not set")
	}
	if len(req.Data) == 0 {
		return nil, errs.Invalid("image is empty")
	}

	ref, err := s.storage.Upload(ctx, uuid.New(), req.Filename, bytes.NewReader(req.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	analysis := s.generator.AnalyzeItem(ctx, ImagePart{
		Format: storage.ImageFormat(req.Filename),
		Data:   req.Data,
	})
	analysis.Category = strings.ToLower(strings.TrimSpace(analysis.Category))
	return &AnalyzeImageResult{Analysis: analysis, ImageRef: ref}, nil
}

// ItemImage is an item photo, either stored here or hosted elsewhere
type ItemImage struct {
	Body        io.ReadCloser
	ContentType string
	// URL is set instead of Body when the photo is hosted elsewhere.
	URL string
}

// OpenImage returns the item's photo. The caller closes Body.
func (s *WardrobeService) OpenImage(ctx context.Context, sess Session, id string) (*ItemImage, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if err := s.requireItems(); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, sess.UserID, id)
	if err != nil {
		return nil, notFoundAs(err, "Item not found")
	}
	if item.ImageRef == "" {
		return nil, errs.NotFound("Item has no image")
	}
	if !isStoredImage(item.ImageRef) {
		return &ItemImage{URL: item.ImageRef}, nil
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}
	body, err := s.storage.Download(ctx, item.ImageRef)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.Wrap(errs.KindNotFound, "NOT_FOUND", "Image not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return &ItemImage{Body: body, ContentType: storage.ContentType(item.ImageRef)}, nil
}

// isStoredImage reports whether ref is a storage path rather than a URL
func isStoredImage(ref string) bool {
	return ref != "" && !strings.Contains(ref, "://") && !strings.HasPrefix(ref, "data:")
}
