package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlovrec/curio/internal/model"
)

// ErrNotFound is returned when a mutation targets an id that is not in the
// collection.
var ErrNotFound = errors.New("store: item not found")

// Repository loads and saves the whole collection. Saves are full
// overwrites of a single slot, never incremental.
type Repository interface {
	Load(ctx context.Context) ([]model.Item, error)
	SaveAll(ctx context.Context, items []model.Item) error
}

// Store owns the authoritative in-memory item collection. Every successful
// mutation recomputes the category set where the shape of the collection
// changed and persists the full collection through the repository. A
// mutation whose persistence fails is rolled back whole; callers never see
// unpersisted state.
type Store struct {
	mu         sync.Mutex
	repo       Repository
	items      []model.Item
	categories []string
	log        *slog.Logger

	now func() time.Time // stubbed in tests
}

// New creates a Store backed by the given repository. Call Load before use.
func New(repo Repository, logger *slog.Logger) *Store {
	return &Store{
		repo: repo,
		log:  logger.With("component", "store"),
		now:  time.Now,
	}
}

// Load populates the collection from the repository. An absent or
// unreadable slot yields an empty collection; startup never fails on bad
// persisted data.
func (s *Store) Load(ctx context.Context) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn("loading collection failed, starting empty", "error", err)
		items = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.recomputeCategories()
}

// Add validates the draft and, on success, assigns id and createdAt from
// the current time in unix milliseconds and prepends the item (newest
// first). On validation failure the field map is returned and nothing is
// mutated.
func (s *Store) Add(ctx context.Context, draft model.ItemDraft) (*model.Item, map[string]bool, error) {
	now := s.now()
	if failed := draft.Validate(now); failed != nil {
		return nil, failed, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ms := now.UnixMilli()
	id := ms
	for s.indexOf(id) >= 0 { // two adds in the same millisecond
		id++
	}

	item := model.Item{ID: id, CreatedAt: ms}
	draft.Apply(&item)

	if err := s.commit(ctx, append([]model.Item{item}, s.items...)); err != nil {
		return nil, nil, err
	}
	return &item, nil, nil
}

// Update validates the draft and replaces the editable fields of the item
// with the matching id in place, preserving order, identity and sale state.
func (s *Store) Update(ctx context.Context, id int64, draft model.ItemDraft) (*model.Item, map[string]bool, error) {
	if failed := draft.Validate(s.now()); failed != nil {
		return nil, failed, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, nil, ErrNotFound
	}

	items := s.clone()
	item := items[idx]
	draft.Apply(&item)
	items[idx] = item

	if err := s.commit(ctx, items); err != nil {
		return nil, nil, err
	}
	return &item, nil, nil
}

// Remove deletes the item with the matching id. Removing an absent id is a
// no-op.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	items := s.clone()
	items = append(items[:idx], items[idx+1:]...)
	return s.commit(ctx, items)
}

// Sell records a sale: sale price as given, sale date = today. Selling is a
// one-way transition; selling an already-sold item overwrites price and
// date.
func (s *Store) Sell(ctx context.Context, id int64, salePrice decimal.Decimal) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	items := s.clone()
	items[idx].SalePrice = &salePrice
	items[idx].SaleDate = model.FormatDate(s.now())

	if err := s.commit(ctx, items); err != nil {
		return nil, err
	}
	item := s.items[idx]
	return &item, nil
}

// Revalue replaces the item's current value estimate.
func (s *Store) Revalue(ctx context.Context, id int64, currentValue decimal.Decimal) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	items := s.clone()
	items[idx].CurrentValue = currentValue

	if err := s.commit(ctx, items); err != nil {
		return nil, err
	}
	item := s.items[idx]
	return &item, nil
}

// SetImage replaces the item's picture reference.
func (s *Store) SetImage(ctx context.Context, id int64, image string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	items := s.clone()
	items[idx].Image = image

	if err := s.commit(ctx, items); err != nil {
		return nil, err
	}
	item := s.items[idx]
	return &item, nil
}

// Items returns a copy of the collection in insertion order (newest first).
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns a copy of the item with the matching id.
func (s *Store) Get(id int64) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Item{}, false
	}
	return s.items[idx], true
}

// Categories returns the sorted set of distinct category values across the
// collection. The set is recomputed on every structural mutation rather
// than maintained separately, so it can never drift.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// indexOf returns the position of the item with the given id, or -1.
// Callers must hold the mutex.
func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// recomputeCategories rebuilds the distinct category set. Callers must hold
// the mutex.
func (s *Store) recomputeCategories() {
	seen := make(map[string]bool, len(s.items))
	categories := make([]string, 0, len(s.items))
	for i := range s.items {
		c := s.items[i].Category
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	s.categories = categories
}

// clone returns a fresh copy of the collection for a mutator to work on,
// so the live slice stays untouched until commit. Callers must hold the
// mutex.
func (s *Store) clone() []model.Item {
	items := make([]model.Item, len(s.items))
	copy(items, s.items)
	return items
}

// commit swaps in the mutated collection and overwrites the repository
// slot with it. When persistence fails the previous collection is
// restored, so a rejected mutation is never observable. Callers must hold
// the mutex.
func (s *Store) commit(ctx context.Context, items []model.Item) error {
	prevItems, prevCategories := s.items, s.categories
	s.items = items
	s.recomputeCategories()

	if err := s.repo.SaveAll(ctx, s.items); err != nil {
		s.items = prevItems
		s.categories = prevCategories
		return fmt.Errorf("persisting collection: %w", err)
	}
	return nil
}
