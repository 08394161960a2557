// Package store persists documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrNoID     = errors.New("document has no id")
)

// Store loads and saves documents by id. Implementations are safe for
// concurrent use.
type Store interface {
	Load(ctx context.Context, id string) (*report.Document, error)
	Save(ctx context.Context, doc *report.Document) error
	Delete(ctx context.Context, id string) error
	// List returns the stored ids, sorted.
	List(ctx context.Context) ([]string, error)
}

type mem struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMem returns a Store keeping encoded documents in memory.
func NewMem() Store {
	return &mem{docs: map[string][]byte{}}
}

func (m *mem) Load(_ context.Context, id string) (*report.Document, error) {
	m.mu.RLock()
	d, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return report.Decode(d, format.JSONFormat)
}

func (m *mem) Save(_ context.Context, doc *report.Document) error {
	if doc.ID == "" {
		return ErrNoID
	}
	d, err := report.Encode(doc, format.JSONFormat)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[doc.ID] = d
	m.mu.Unlock()
	return nil
}

func (m *mem) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.docs, id)
	return nil
}

func (m *mem) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]string, 0, len(m.docs))
	for id := range m.docs {
		res = append(res, id)
	}
	sort.Strings(res)
	return res, nil
}
