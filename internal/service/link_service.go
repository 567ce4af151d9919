package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shortlink-be/internal/entities"
	"shortlink-be/internal/fraud"
	"shortlink-be/internal/metrics"
	"shortlink-be/internal/models"
	"shortlink-be/internal/repository"
	"shortlink-be/internal/shortcode"
)

const (
	// DefaultMaxAttempts bounds short code generation per create call
	DefaultMaxAttempts = 5
	// MaxPageSize is the largest stats page that can be requested
	MaxPageSize = 100
	// MaxTargetURLLength matches links.target_url VARCHAR(2048)
	MaxTargetURLLength = 2048
	// MaxPage keeps (page-1)*MaxPageSize within int
	MaxPage = math.MaxInt/MaxPageSize + 1
)

// LinkService defines the interface for link business logic
type LinkService interface {
	CreateShortLink(ctx context.Context, targetURL string) (*models.ShortLinkResponse, error)
	// ResolveAndRecordClick returns nil, nil for an unknown short code
	ResolveAndRecordClick(ctx context.Context, shortCode string) (*models.RedirectResult, error)
	GetStats(ctx context.Context, page, limit int) (*models.StatsResponse, error)
	Lookup(ctx context.Context, shortCode string) (*entities.Link, error)
}

type linkService struct {
	links       repository.LinkRepository
	clicks      repository.ClickRepository
	validator   fraud.Validator
	baseURL     string
	generate    shortcode.Generator
	maxAttempts int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// Option configures the link service
type Option func(*linkService)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *linkService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *linkService) {
		s.metrics = m
	}
}

// WithGenerator replaces the short code generator
func WithGenerator(g shortcode.Generator) Option {
	return func(s *linkService) {
		if g != nil {
			s.generate = g
		}
	}
}

// WithMaxAttempts sets how many codes are tried before giving up
func WithMaxAttempts(n int) Option {
	return func(s *linkService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewLinkService creates a new link service. baseURL prefixes every short URL.
func NewLinkService(
	links repository.LinkRepository,
	clicks repository.ClickRepository,
	validator fraud.Validator,
	baseURL string,
	opts ...Option,
) LinkService {
	s := &linkService{
		links:       links,
		clicks:      clicks,
		validator:   validator,
		baseURL:     strings.TrimRight(baseURL, "/"),
		generate:    shortcode.Generate,
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateShortLink returns the short link for targetURL, creating it on first use
func (s *linkService) CreateShortLink(ctx context.Context, targetURL string) (*models.ShortLinkResponse, error) {
	normalized := strings.TrimSpace(targetURL)
	if normalized == "" {
		return nil, ErrInvalidArgument
	}
	if utf8.RuneCountInString(normalized) > MaxTargetURLLength {
		return nil, ErrTargetTooLong
	}

	existing, err := s.links.FindByTargetURL(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.metrics.LinkCreated(true)
		return s.toResponse(existing), nil
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}

		if shortcode.Reserved(code) {
			continue
		}

		taken, err := s.links.FindByShortCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			s.logger.Debug("short code collision", zap.String("short_code", code), zap.Int("attempt", attempt))
			continue
		}

		link, err := s.links.Create(ctx, normalized, code)
		switch {
		case errors.Is(err, repository.ErrShortCodeTaken):
			s.logger.Debug("short code taken on insert", zap.String("short_code", code), zap.Int("attempt", attempt))
			continue
		case errors.Is(err, repository.ErrTargetURLTaken):
			// A concurrent request shortened the same target first
			winner, err := s.links.FindByTargetURL(ctx, normalized)
			if err != nil {
				return nil, err
			}
			if winner == nil {
				return nil, ErrConflict
			}
			s.metrics.LinkCreated(true)
			return s.toResponse(winner), nil
		case err != nil:
			return nil, err
		}

		s.logger.Info("short link created",
			zap.Int64("link_id", link.ID),
			zap.String("short_code", link.ShortCode),
			zap.String("target_url", link.TargetURL),
		)
		s.metrics.LinkCreated(false)
		return s.toResponse(link), nil
	}

	s.logger.Warn("short code attempts exhausted", zap.Int("max_attempts", s.maxAttempts))
	return nil, ErrConflict
}

// ResolveAndRecordClick looks up the short code, validates the click and records it.
// Validation and recording run on a context detached from the caller's cancellation.
func (s *linkService) ResolveAndRecordClick(ctx context.Context, shortCode string) (*models.RedirectResult, error) {
	if !shortcode.Valid(shortCode) {
		return nil, nil
	}

	link, err := s.links.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}

	work := context.WithoutCancel(ctx)

	passed := s.validator.Validate(work)
	earnings := decimal.Zero
	if passed {
		earnings = entities.EarningsPerValidClick
	}

	click, err := s.clicks.RecordClick(work, link.ID, earnings)
	if err != nil {
		return nil, err
	}

	s.logger.Info("click recorded",
		zap.Int64("link_id", link.ID),
		zap.Int64("click_id", click.ID),
		zap.Bool("valid", passed),
		zap.String("earnings", earnings.StringFixed(2)),
	)
	s.metrics.ClickRecorded(passed, earnings)

	return &models.RedirectResult{RedirectURL: link.TargetURL}, nil
}

// GetStats returns one page of links, newest first, with their click statistics
func (s *linkService) GetStats(ctx context.Context, page, limit int) (*models.StatsResponse, error) {
	page, limit = ClampPage(page, limit)
	offset := (page - 1) * limit

	var (
		links []*entities.Link
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		links, err = s.links.FindPage(gctx, offset, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.links.CountAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aggregates := map[int64]*entities.LinkAggregate{}
	if len(links) > 0 {
		ids := make([]int64, len(links))
		for i, link := range links {
			ids[i] = link.ID
		}
		var err error
		aggregates, err = s.clicks.GetAggregates(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	data := make([]models.LinkStatsResponse, 0, len(links))
	for _, link := range links {
		data = append(data, toLinkStats(link, aggregates[link.ID]))
	}

	return &models.StatsResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Lookup returns the link for shortCode without recording a click
func (s *linkService) Lookup(ctx context.Context, shortCode string) (*entities.Link, error) {
	if !shortcode.Valid(shortCode) {
		return nil, nil
	}
	return s.links.FindByShortCode(ctx, shortCode)
}

// ClampPage forces page into [1, MaxPage] and limit into [1, MaxPageSize]
func ClampPage(page, limit int) (int, int) {
	return min(MaxPage, max(1, page)), min(MaxPageSize, max(1, limit))
}

func (s *linkService) toResponse(link *entities.Link) *models.ShortLinkResponse {
	return &models.ShortLinkResponse{
		ShortURL:  s.baseURL + "/" + link.ShortCode,
		ShortCode: link.ShortCode,
		TargetURL: link.TargetURL,
	}
}

func toLinkStats(link *entities.Link, agg *entities.LinkAggregate) models.LinkStatsResponse {
	stats := models.LinkStatsResponse{
		URL:              link.TargetURL,
		ShortCode:        link.ShortCode,
		MonthlyBreakdown: []models.MonthlyEarningsResponse{},
	}
	if agg == nil {
		return stats
	}

	stats.TotalClicks = agg.TotalClicks
	stats.TotalEarnings = roundEarnings(agg.TotalEarnings)
	for _, m := range agg.MonthlyBreakdown {
		stats.MonthlyBreakdown = append(stats.MonthlyBreakdown, models.MonthlyEarningsResponse{
			Month:    m.Month,
			Earnings: roundEarnings(m.Earnings),
		})
	}
	return stats
}

// roundEarnings rounds half-up to cents. Earnings are never negative.
func roundEarnings(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
