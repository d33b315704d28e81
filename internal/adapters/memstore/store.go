package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"fieldtrack.service/internal/ports/store"
)

// Store is an in-memory implementation of the record store port, used by
// unit tests and local development. Items are kept as JSON documents so the
// marshal/unmarshal round trip mirrors the document store's behavior.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]json.RawMessage
}

func NewStore() *Store {
	return &Store{tables: make(map[string]map[string]json.RawMessage)}
}

func (s *Store) Put(ctx context.Context, table string, key store.Key, item any) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshaling item for %s: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(table)[key.Value] = doc
	return nil
}

func (s *Store) PutIfAbsent(ctx context.Context, table string, key store.Key, item any) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshaling item for %s: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	if _, exists := t[key.Value]; exists {
		return store.ErrDuplicateKey
	}
	t[key.Value] = doc
	return nil
}

func (s *Store) Get(ctx context.Context, table string, key store.Key, out any) error {
	s.mu.RLock()
	doc, exists := s.tables[table][key.Value]
	s.mu.RUnlock()

	if !exists {
		return store.ErrNotFound
	}
	return json.Unmarshal(doc, out)
}

func (s *Store) Update(ctx context.Context, table string, key store.Key, sets map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(table)
	doc, exists := t[key.Value]
	if !exists {
		return store.ErrNotFound
	}

	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return err
	}
	for field, value := range sets {
		fields[field] = value
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	t[key.Value] = merged
	return nil
}

func (s *Store) Scan(ctx context.Context, table string, out any) error {
	s.mu.RLock()
	t := s.tables[table]
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	docs := make([]json.RawMessage, 0, len(t))
	for _, k := range keys {
		docs = append(docs, t[k])
	}
	s.mu.RUnlock()

	buf, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

// table returns the named table, creating it on first use. Callers must hold
// the write lock.
func (s *Store) table(name string) map[string]json.RawMessage {
	t, exists := s.tables[name]
	if !exists {
		t = make(map[string]json.RawMessage)
		s.tables[name] = t
	}
	return t
}
