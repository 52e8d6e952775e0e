package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"layer-backend/errs"
	"layer-backend/metrics"
	"layer-backend/models"
	"layer-backend/repository"

	"go.uber.org/zap"
)

// CommunityService serves the shared feed. When the store fails it falls back to
// the last listing it served successfully.
type CommunityService struct {
	repo    repository.CommunityRepository
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time

	mu       sync.RWMutex
	snapshot []*models.CommunityPost
}

// CommunityServiceOption is a functional option for CommunityService
type CommunityServiceOption func(*CommunityService)

// CommunityWithRepository sets the feed repository
func CommunityWithRepository(repo repository.CommunityRepository) CommunityServiceOption {
	return func(s *CommunityService) {
		s.repo = repo
	}
}

// CommunityWithLogger sets the logger
func CommunityWithLogger(logger *zap.Logger) CommunityServiceOption {
	return func(s *CommunityService) {
		s.logger = logger
	}
}

// CommunityWithMetrics sets the metrics collector
func CommunityWithMetrics(m *metrics.Collector) CommunityServiceOption {
	return func(s *CommunityService) {
		s.metrics = m
	}
}

// CommunityWithClock overrides the time source
func CommunityWithClock(now func() time.Time) CommunityServiceOption {
	return func(s *CommunityService) {
		s.now = now
	}
}

// NewCommunityService creates a new community service
func NewCommunityService(opts ...CommunityServiceOption) *CommunityService {
	s := &CommunityService{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every post, newest first
func (s *CommunityService) List(ctx context.Context) ([]*models.CommunityPost, error) {
	if s.repo == nil {
		return nil, errors.New("community repository not set")
	}
	posts, err := s.repo.List(ctx)
	if err != nil {
		s.mu.RLock()
		cached := s.snapshot
		s.mu.RUnlock()
		if cached == nil {
			return nil, err
		}
		s.logger.Warn("community feed unavailable, serving cached listing", zap.Error(err))
		s.metrics.IncFeedFallback()
		return cached, nil
	}

	s.mu.Lock()
	s.snapshot = posts
	s.mu.Unlock()
	return posts, nil
}

// Get returns one post
func (s *CommunityService) Get(ctx context.Context, id string) (*models.CommunityPost, error) {
	if s.repo == nil {
		return nil, errors.New("community repository not set")
	}
	post, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.NotFound("Post not found")
	}
	return post, err
}

// CreatePostRequest is a new feed post
type CreatePostRequest struct {
	Title    string
	ImageURL string
	Author   string
}

// Create publishes a post at the head of the feed with no likes
func (s *CommunityService) Create(ctx context.Context, req CreatePostRequest) (*models.CommunityPost, error) {
	if s.repo == nil {
		return nil, errors.New("community repository not set")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, errs.Invalid("title is required")
	}
	now := s.now()
	post := &models.CommunityPost{
		ID:        newPostID(now),
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		Author:    req.Author,
		Likes:     0,
		Timestamp: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.snapshot != nil {
		s.snapshot = append([]*models.CommunityPost{post}, s.snapshot...)
	}
	s.mu.Unlock()
	return post, nil
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newPostID builds "{unixMillis}-{9 base36 chars}"
func newPostID(now time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	for range 9 {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}
