package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"shortlink-be/internal/entities"
)

type memoryLinkRepository struct {
	mu       sync.RWMutex
	nextID   int64
	links    []*entities.Link
	byCode   map[string]*entities.Link
	byTarget map[string]*entities.Link
	now      func() time.Time
}

// NewMemoryLinkRepository creates a process-local link repository with the same
// uniqueness rules as the Postgres schema
func NewMemoryLinkRepository() LinkRepository {
	return &memoryLinkRepository{
		byCode:   make(map[string]*entities.Link),
		byTarget: make(map[string]*entities.Link),
		now:      time.Now,
	}
}

func (r *memoryLinkRepository) Create(_ context.Context, targetURL, shortCode string) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[shortCode]; ok {
		return nil, ErrShortCodeTaken
	}
	if _, ok := r.byTarget[targetURL]; ok {
		return nil, ErrTargetURLTaken
	}

	r.nextID++
	link := &entities.Link{
		ID:        r.nextID,
		TargetURL: targetURL,
		ShortCode: shortCode,
		CreatedAt: r.now().UTC(),
	}
	r.links = append(r.links, link)
	r.byCode[shortCode] = link
	r.byTarget[targetURL] = link

	copied := *link
	return &copied, nil
}

func (r *memoryLinkRepository) FindByShortCode(_ context.Context, shortCode string) (*entities.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.byCode[shortCode]
	if !ok {
		return nil, nil
	}
	copied := *link
	return &copied, nil
}

func (r *memoryLinkRepository) FindByTargetURL(_ context.Context, targetURL string) (*entities.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.byTarget[targetURL]
	if !ok {
		return nil, nil
	}
	copied := *link
	return &copied, nil
}

// FindPage walks the insertion log backwards, which matches created_at DESC, id DESC
func (r *memoryLinkRepository) FindPage(_ context.Context, offset, limit int) ([]*entities.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset < 0 || limit <= 0 {
		return []*entities.Link{}, nil
	}
	page := make([]*entities.Link, 0, limit)
	for i := len(r.links) - 1 - offset; i >= 0 && len(page) < limit; i-- {
		copied := *r.links[i]
		page = append(page, &copied)
	}
	return page, nil
}

func (r *memoryLinkRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.links)), nil
}

type memoryClickRepository struct {
	mu     sync.RWMutex
	nextID int64
	clicks map[int64][]entities.Click
	now    func() time.Time
}

// NewMemoryClickRepository creates a process-local click repository
func NewMemoryClickRepository() ClickRepository {
	return newMemoryClickRepository(time.Now)
}

func newMemoryClickRepository(now func() time.Time) *memoryClickRepository {
	return &memoryClickRepository{
		clicks: make(map[int64][]entities.Click),
		now:    now,
	}
}

func (r *memoryClickRepository) RecordClick(_ context.Context, linkID int64, earnings decimal.Decimal) (*entities.Click, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	click := entities.Click{
		ID:        r.nextID,
		LinkID:    linkID,
		Earnings:  earnings,
		CreatedAt: r.now().UTC(),
	}
	r.clicks[linkID] = append(r.clicks[linkID], click)
	return &click, nil
}

func (r *memoryClickRepository) GetAggregates(_ context.Context, linkIDs []int64) (map[int64]*entities.LinkAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aggregates := make(map[int64]*entities.LinkAggregate, len(linkIDs))
	for _, id := range linkIDs {
		clicks := r.clicks[id]
		if len(clicks) == 0 {
			continue
		}

		agg := &entities.LinkAggregate{TotalEarnings: decimal.Zero}
		months := make(map[time.Time]decimal.Decimal)
		for _, c := range clicks {
			agg.TotalClicks++
			agg.TotalEarnings = agg.TotalEarnings.Add(c.Earnings)
			month := time.Date(c.CreatedAt.Year(), c.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
			months[month] = months[month].Add(c.Earnings)
		}

		keys := make([]time.Time, 0, len(months))
		for m := range months {
			keys = append(keys, m)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].After(keys[j]) })

		agg.MonthlyBreakdown = make([]entities.MonthlyEarnings, 0, len(keys))
		for _, m := range keys {
			agg.MonthlyBreakdown = append(agg.MonthlyBreakdown, entities.MonthlyEarnings{
				Month:    m.Format("01/2006"),
				Earnings: months[m],
			})
		}
		aggregates[id] = agg
	}
	return aggregates, nil
}
