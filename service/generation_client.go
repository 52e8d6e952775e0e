package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"layer-backend/metrics"
	"layer-backend/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// GenerationKind labels a generation call for fallbacks, logs and metrics
type GenerationKind string

const (
	GenerateStandard GenerationKind = "standard"
	GenerateTwin     GenerationKind = "twin"
	GenerateOrbit    GenerationKind = "orbit"
	GenerateSchedule GenerationKind = "schedule"
	GenerateGaps     GenerationKind = "gaps"
	GenerateStyleDNA GenerationKind = "style_dna"
	GenerateAnalyze  GenerationKind = "analyze_item"
	GenerateChat     GenerationKind = "chat"
)

// Generation outcomes recorded per call
const (
	outcomeOK         = "ok"
	outcomeError      = "error"
	outcomeParseError = "parse_error"
)

const (
	ScheduleFallbackMessage = "Scheduler timed out."
	ChatEmptyReply          = "I'm processing your style data."
	ChatFallbackReply       = "I couldn't process that right now."
)

// ErrCompleterNotConfigured is returned when no completion backend is wired
var ErrCompleterNotConfigured = errors.New("generation backend not configured")

// ImagePart is an inline image sent along with a prompt
type ImagePart struct {
	// Format is the image subtype, e.g. "jpeg" or "png".
	Format string
	Data   []byte
}

// CompletionRequest is a single request to the completion service
type CompletionRequest struct {
	Kind    GenerationKind
	System  string
	Prompt  string
	Schema  *genai.Schema
	Image   *ImagePart
	History []models.ChatTurn
}

// Completer performs exactly one round trip to a text completion service
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// GenerationClient issues one completion per call and never surfaces an error.
// Transport failures, timeouts and unparseable output all become the fallback
// value for that kind of call.
type GenerationClient struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// GenerationClientOption is a functional option for GenerationClient
type GenerationClientOption func(*GenerationClient)

// WithGenerationTimeout bounds each call
func WithGenerationTimeout(d time.Duration) GenerationClientOption {
	return func(c *GenerationClient) {
		c.timeout = d
	}
}

// WithGenerationLogger sets the logger
func WithGenerationLogger(logger *zap.Logger) GenerationClientOption {
	return func(c *GenerationClient) {
		c.logger = logger
	}
}

// WithGenerationMetrics sets the metrics collector
func WithGenerationMetrics(m *metrics.Collector) GenerationClientOption {
	return func(c *GenerationClient) {
		c.metrics = m
	}
}

// NewGenerationClient creates a generation client. A nil completer makes every
// call return its fallback.
func NewGenerationClient(completer Completer, opts ...GenerationClientOption) *GenerationClient {
	c := &GenerationClient{
		completer: completer,
		timeout:   45 * time.Second,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	suggestionSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {Type: genai.TypeString},
			"reasoning":   {Type: genai.TypeString},
			"itemIds":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"error":       {Type: genai.TypeString},
		},
	}

	scheduleSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"schedule": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":         {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"note":        {Type: genai.TypeString},
						"itemIds":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
				},
			},
			"error": {Type: genai.TypeString},
		},
	}

	gapSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"missingItems": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"reasoning":    {Type: genai.TypeString},
		},
	}

	idListSchema = &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	itemAnalysisSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":                {Type: genai.TypeString},
			"category":            {Type: genai.TypeString},
			"resaleEstimate":      {Type: genai.TypeNumber},
			"sustainabilityScore": {Type: genai.TypeInteger},
		},
		Required: []string{"name", "category"},
	}
)

// complete runs one request under the client timeout and records its outcome
func (c *GenerationClient) complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.completer == nil {
		return "", ErrCompleterNotConfigured
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.completer.Complete(ctx, req)
}

// completeJSON decodes the completion into out. It reports false when the
// caller should use its fallback.
func (c *GenerationClient) completeJSON(ctx context.Context, req CompletionRequest, out any) bool {
	start := time.Now()
	text, err := c.complete(ctx, req)
	if err != nil {
		c.logger.Warn("generation request failed",
			zap.String("kind", string(req.Kind)),
			zap.Error(err),
		)
		c.metrics.ObserveGeneration(string(req.Kind), outcomeError, time.Since(start))
		return false
	}

	text = stripCodeFence(text)
	if text == "" {
		text = "{}"
		if req.Schema != nil && req.Schema.Type == genai.TypeArray {
			text = "[]"
		}
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		c.logger.Warn("generation response was not valid JSON",
			zap.String("kind", string(req.Kind)),
			zap.Int("length", len(text)),
			zap.Error(err),
		)
		c.metrics.ObserveGeneration(string(req.Kind), outcomeParseError, time.Since(start))
		return false
	}
	c.metrics.ObserveGeneration(string(req.Kind), outcomeOK, time.Since(start))
	return true
}

// stripCodeFence removes a surrounding ```json fence some models add
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Suggest requests one outfit suggestion. The result is raw and must be repaired.
func (c *GenerationClient) Suggest(ctx context.Context, kind GenerationKind, prompt string, fallback models.Suggestion) models.Suggestion {
	var s models.Suggestion
	if !c.completeJSON(ctx, CompletionRequest{Kind: kind, Prompt: prompt, Schema: suggestionSchema}, &s) {
		return fallback
	}
	return s
}

// Schedule requests a day-tagged weekly plan
func (c *GenerationClient) Schedule(ctx context.Context, prompt string) models.Schedule {
	var s models.Schedule
	if !c.completeJSON(ctx, CompletionRequest{Kind: GenerateSchedule, Prompt: prompt, Schema: scheduleSchema}, &s) {
		return models.Schedule{Error: ScheduleFallbackMessage}
	}
	return s
}

// Gaps requests the essentials missing from a wardrobe
func (c *GenerationClient) Gaps(ctx context.Context, prompt string) models.GapAnalysis {
	var g models.GapAnalysis
	if !c.completeJSON(ctx, CompletionRequest{Kind: GenerateGaps, Prompt: prompt, Schema: gapSchema}, &g) {
		return models.GapAnalysis{MissingItems: []string{"Basic White Tee"}, Reasoning: "Analysis failed."}
	}
	if g.MissingItems == nil {
		g.MissingItems = []string{}
	}
	return g
}

// MatchIDs requests a list of ids, e.g. feed posts matching a style
func (c *GenerationClient) MatchIDs(ctx context.Context, prompt string) []string {
	var ids []string
	if !c.completeJSON(ctx, CompletionRequest{Kind: GenerateStyleDNA, Prompt: prompt, Schema: idListSchema}, &ids) {
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// AnalyzeItem asks what a photographed clothing item is
func (c *GenerationClient) AnalyzeItem(ctx context.Context, image ImagePart) models.ItemAnalysis {
	fallback := models.ItemAnalysis{
		Name:                "Unknown Item",
		Category:            models.DefaultItemCategory,
		ResaleEstimate:      5,
		SustainabilityScore: 5,
	}
	var a models.ItemAnalysis
	req := CompletionRequest{
		Kind:   GenerateAnalyze,
		Prompt: AnalyzeItemInstruction,
		Schema: itemAnalysisSchema,
		Image:  &image,
	}
	if !c.completeJSON(ctx, req, &a) {
		return fallback
	}
	if strings.TrimSpace(a.Name) == "" {
		a.Name = fallback.Name
	}
	if strings.TrimSpace(a.Category) == "" {
		a.Category = fallback.Category
	}
	return a
}

// Chat sends one message in a stylist conversation and returns the reply text
func (c *GenerationClient) Chat(ctx context.Context, system string, history []models.ChatTurn, message string) string {
	start := time.Now()
	reply, err := c.complete(ctx, CompletionRequest{
		Kind:    GenerateChat,
		System:  system,
		Prompt:  message,
		History: history,
	})
	if err != nil {
		c.logger.Warn("chat request failed", zap.Error(err))
		c.metrics.ObserveGeneration(string(GenerateChat), outcomeError, time.Since(start))
		return ChatFallbackReply
	}
	c.metrics.ObserveGeneration(string(GenerateChat), outcomeOK, time.Since(start))
	if strings.TrimSpace(reply) == "" {
		return ChatEmptyReply
	}
	return reply
}
