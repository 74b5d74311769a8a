package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/pkg/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cacheEntry is one string-keyed value. The whole booking list lives in a
// single entry as a JSON array, newest first.
type cacheEntry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (cacheEntry) TableName() string {
	return "cache_entries"
}

// LocalCacheStore keeps the booking list in SQLite so the wizard keeps
// working while the remote store is unreachable.
type LocalCacheStore struct {
	db  *gorm.DB
	key string
	mu  sync.Mutex
	now func() time.Time
}

func NewLocalCacheStore(db *gorm.DB) (*LocalCacheStore, error) {
	if err := db.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local cache: %w", err)
	}
	return &LocalCacheStore{
		db:  db,
		key: CacheKey,
		now: time.Now,
	}, nil
}

func (s *LocalCacheStore) load(ctx context.Context) ([]*model.Booking, error) {
	var entry cacheEntry
	err := s.db.WithContext(ctx).Where(&cacheEntry{Key: s.key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []*model.Booking{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local cache: %w", err)
	}

	bookings := []*model.Booking{}
	if entry.Value == "" {
		return bookings, nil
	}
	if err := json.Unmarshal([]byte(entry.Value), &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode local cache: %w", err)
	}
	return bookings, nil
}

func (s *LocalCacheStore) save(ctx context.Context, bookings []*model.Booking) error {
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to encode local cache: %w", err)
	}

	entry := cacheEntry{Key: s.key, Value: string(data), UpdatedAt: s.now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write local cache: %w", err)
	}
	return nil
}

// List returns the cached bookings. Entries written before phone was
// collected decode with an empty phone.
func (s *LocalCacheStore) List(ctx context.Context) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := bookings[:0]
	for _, b := range bookings {
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

// Create stores the booking under a millisecond-timestamp id and puts it first.
func (s *LocalCacheStore) Create(ctx context.Context, booking *model.Booking) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	doc := *booking
	doc.ID = s.nextID(bookings)

	if err := s.save(ctx, append([]*model.Booking{&doc}, bookings...)); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// nextID is the current Unix millisecond, bumped past any id already cached
// so two writes inside one millisecond stay distinct.
func (s *LocalCacheStore) nextID(existing []*model.Booking) string {
	taken := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		taken[b.ID] = struct{}{}
	}

	ms := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}

func (s *LocalCacheStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.load(ctx)
	if err != nil {
		return err
	}

	filtered := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ID != id {
			filtered = append(filtered, b)
		}
	}
	if len(filtered) == len(bookings) {
		return bookingserrors.ErrNotFound
	}
	return s.save(ctx, filtered)
}

func (s *LocalCacheStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Where(&cacheEntry{Key: s.key}).Delete(&cacheEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear local cache: %w", err)
	}
	return nil
}

// Replace overwrites the cache with a remote snapshot.
func (s *LocalCacheStore) Replace(ctx context.Context, bookings []*model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, bookings)
}

// Prepend mirrors a remote create. A booking already cached under the same id
// is replaced rather than duplicated.
func (s *LocalCacheStore) Prepend(ctx context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.load(ctx)
	if err != nil {
		return err
	}

	doc := *booking
	out := make([]*model.Booking, 0, len(bookings)+1)
	out = append(out, &doc)
	for _, b := range bookings {
		if b.ID != doc.ID {
			out = append(out, b)
		}
	}
	return s.save(ctx, out)
}

// Ping checks the SQLite handle is usable, for the readiness probe.
func (s *LocalCacheStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
