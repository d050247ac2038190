package consumer

import (
	"sync"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
)

// Attributes is an in-memory implementation of the consumer's generic
// attribute mechanism, used when no external store is wired in.
type Attributes struct {
	mu    sync.RWMutex
	attrs map[uint]map[string]string
}

var _ federation.AttributeStore = (*Attributes)(nil)

// NewAttributes creates an empty in-memory attribute store.
func NewAttributes() *Attributes {
	return &Attributes{attrs: make(map[uint]map[string]string)}
}

// FirstAttribute returns the stored value for a user's attribute, or "".
func (s *Attributes) FirstAttribute(userID uint, name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attrs[userID][name]
}

// SetAttribute stores a user's attribute value.
func (s *Attributes) SetAttribute(userID uint, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attrs[userID] == nil {
		s.attrs[userID] = make(map[string]string)
	}
	s.attrs[userID][name] = value
	return nil
}
