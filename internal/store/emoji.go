// Package store holds the editor's in-memory services: saved emoji documents
// and the template catalog.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"emojiforge/internal/state"
)

var ErrNotFound = errors.New("emoji not found")

// Entry is a stored document with its bookkeeping.
type Entry struct {
	Document  state.Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch lists the fields Update changes. Nil fields are left alone.
type Patch struct {
	Name            *string
	Width           *int
	Height          *int
	BackgroundColor *string
	Layers          []state.Layer
}

// EmojiStore is a process-memory persistence service for emoji documents.
// Documents go in and come out as deep copies, so callers never share
// memory with the store.
type EmojiStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	log     *zap.Logger
	latency time.Duration
	now     func() time.Time
}

type Option func(*EmojiStore)

// WithLatency delays every call, like a remote service would.
func WithLatency(d time.Duration) Option {
	return func(s *EmojiStore) { s.latency = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *EmojiStore) { s.log = l }
}

func NewEmojiStore(opts ...Option) *EmojiStore {
	s := &EmojiStore{
		entries: make(map[string]Entry),
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EmojiStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// List returns every stored document, oldest first.
func (s *EmojiStore) List(ctx context.Context) ([]Entry, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		e.Document = e.Document.Clone()
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Document.ID < out[j].Document.ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns the document with the given id, or false if there is none.
func (s *EmojiStore) Get(ctx context.Context, id string) (state.Document, bool, error) {
	if err := s.wait(ctx); err != nil {
		return state.Document{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return state.Document{}, false, nil
	}
	return e.Document.Clone(), true, nil
}

// Create stores a copy of doc under a fresh id and returns the stored copy.
func (s *EmojiStore) Create(ctx context.Context, doc state.Document) (state.Document, error) {
	if err := s.wait(ctx); err != nil {
		return state.Document{}, err
	}
	if err := doc.Validate(); err != nil {
		return state.Document{}, fmt.Errorf("create emoji: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc = doc.Clone()
	doc.ID = uuid.NewString()
	now := s.now()
	s.entries[doc.ID] = Entry{Document: doc, CreatedAt: now, UpdatedAt: now}
	s.log.Debug("emoji created", zap.String("id", doc.ID), zap.String("name", doc.Name))
	return doc.Clone(), nil
}

// Update applies patch to the document with the given id. The stored
// document is left unchanged if the patched result is invalid.
func (s *EmojiStore) Update(ctx context.Context, id string, patch Patch) (state.Document, error) {
	if err := s.wait(ctx); err != nil {
		return state.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return state.Document{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	doc := e.Document.Clone()
	if patch.Name != nil {
		doc.Name = *patch.Name
	}
	if patch.Width != nil {
		doc.Width = *patch.Width
	}
	if patch.Height != nil {
		doc.Height = *patch.Height
	}
	if patch.BackgroundColor != nil {
		doc.BackgroundColor = *patch.BackgroundColor
	}
	if patch.Layers != nil {
		doc.Layers = state.Document{Layers: patch.Layers}.Clone().Layers
	}
	if err := doc.Validate(); err != nil {
		return state.Document{}, fmt.Errorf("update %q: %w", id, err)
	}
	e.Document = doc
	e.UpdatedAt = s.now()
	s.entries[id] = e
	s.log.Debug("emoji updated", zap.String("id", id))
	return doc.Clone(), nil
}

// Save stores doc: documents with a known id are overwritten, anything else
// is created under a fresh id.
func (s *EmojiStore) Save(ctx context.Context, doc state.Document) (state.Document, error) {
	s.mu.RLock()
	_, known := s.entries[doc.ID]
	s.mu.RUnlock()
	if !known {
		return s.Create(ctx, doc)
	}
	return s.Update(ctx, doc.ID, Patch{
		Name:            &doc.Name,
		Width:           &doc.Width,
		Height:          &doc.Height,
		BackgroundColor: &doc.BackgroundColor,
		Layers:          doc.Layers,
	})
}

// Delete removes the document with the given id and returns it.
func (s *EmojiStore) Delete(ctx context.Context, id string) (state.Document, error) {
	if err := s.wait(ctx); err != nil {
		return state.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return state.Document{}, fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	delete(s.entries, id)
	s.log.Debug("emoji deleted", zap.String("id", id))
	return e.Document, nil
}
