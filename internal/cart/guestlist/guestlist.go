// Package guestlist keeps a cart's guest list numbered 1..N. Every operation
// returns a new slice and leaves its input untouched.
package guestlist

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"hotelbox/pkg/model"
)

// Add appends guest as entry N+1. It gets a fresh id unless it carries one
// the list does not use yet.
func Add(list []model.Guest, guest model.Guest) []model.Guest {
	if guest.ID == "" || Contains(list, guest.ID) {
		guest.ID = uuid.NewString()
	}
	out := make([]model.Guest, 0, len(list)+1)
	out = append(out, list...)
	guest.No = len(list) + 1
	return append(out, guest)
}

// Remove drops id and renumbers the survivors. Unknown ids yield an equal copy.
func Remove(list []model.Guest, id string) []model.Guest {
	out := make([]model.Guest, 0, len(list))
	for _, g := range list {
		if g.ID == id {
			continue
		}
		g.No = len(out) + 1
		out = append(out, g)
	}
	return out
}

// Rename changes the name of entry id. Unknown ids yield an equal copy.
func Rename(list []model.Guest, id, name string) []model.Guest {
	out := make([]model.Guest, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i].Name = name
			break
		}
	}
	return out
}

// Contains reports whether the list has an entry with id.
func Contains(list []model.Guest, id string) bool {
	for _, g := range list {
		if g.ID == id {
			return true
		}
	}
	return false
}

// FromNames builds the list from the backend cart's guest names.
func FromNames(names []string) []model.Guest {
	out := make([]model.Guest, 0, len(names))
	for i, name := range names {
		out = append(out, model.Guest{
			ID:   fmt.Sprintf("guest-%d", i),
			No:   i + 1,
			Name: name,
		})
	}
	return out
}

// Names lists guest names in order, as the backend stores them.
func Names(list []model.Guest) []string {
	out := make([]string, 0, len(list))
	for _, g := range list {
		out = append(out, g.Name)
	}
	return out
}

// Store holds the current list per cart. Lists are replaced wholesale and
// readers always receive a copy.
type Store struct {
	mu    sync.RWMutex
	lists map[string][]model.Guest
}

func NewStore() *Store {
	return &Store{lists: make(map[string][]model.Guest)}
}

func (s *Store) Get(cartID string) ([]model.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[cartID]
	return append([]model.Guest(nil), list...), ok
}

// Seed sets the list only when the cart has none yet.
func (s *Store) Seed(cartID string, list []model.Guest) []model.Guest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.lists[cartID]; ok {
		return append([]model.Guest(nil), current...)
	}
	s.lists[cartID] = append([]model.Guest(nil), list...)
	return append([]model.Guest(nil), list...)
}

func (s *Store) Set(cartID string, list []model.Guest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[cartID] = append([]model.Guest(nil), list...)
}

// Update applies fn to the current list under the lock and stores the result.
func (s *Store) Update(cartID string, fn func([]model.Guest) []model.Guest) []model.Guest {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(append([]model.Guest(nil), s.lists[cartID]...))
	s.lists[cartID] = next
	return append([]model.Guest(nil), next...)
}

func (s *Store) Delete(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, cartID)
}
