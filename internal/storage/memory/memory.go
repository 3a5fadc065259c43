package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
)

// MemoryStorage — in-memory реализация Storage; documents are kept by value
// and copied on the way in and out.
type MemoryStorage struct {
	mu         sync.RWMutex
	profiles   map[string]storage.ProfileDocument
	dailyPlans *DailyPlansMemoryStorage
	reports    *ReportsMemoryStorage
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		profiles:   make(map[string]storage.ProfileDocument),
		dailyPlans: NewDailyPlansMemoryStorage(),
		reports:    NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) GetProfileDocument(ctx context.Context, handle string) (storage.ProfileDocument, bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.profiles[strings.TrimSpace(handle)]
	if !ok {
		return storage.ProfileDocument{}, false, nil
	}
	return copyProfileDocument(doc), true, nil
}

func (m *MemoryStorage) UpsertProfileDocument(ctx context.Context, doc storage.ProfileDocument) (storage.ProfileDocument, error) {
	_ = ctx
	key := strings.TrimSpace(doc.Handle)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.profiles[key]; ok {
		doc.CreatedAt = existing.CreatedAt
	} else {
		doc.CreatedAt = now
	}
	doc.Handle = key
	doc.UpdatedAt = now

	m.profiles[key] = copyProfileDocument(doc)
	return copyProfileDocument(doc), nil
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// GetDailyPlansStorage returns the daily plans storage
func (m *MemoryStorage) GetDailyPlansStorage() *DailyPlansMemoryStorage {
	return m.dailyPlans
}

// GetReportsStorage returns the reports storage
func (m *MemoryStorage) GetReportsStorage() *ReportsMemoryStorage {
	return m.reports
}

func copyProfileDocument(doc storage.ProfileDocument) storage.ProfileDocument {
	out := doc
	if doc.MealTypes != nil {
		out.MealTypes = make([]storage.MealType, len(doc.MealTypes))
		copy(out.MealTypes, doc.MealTypes)
	}
	return out
}
