package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// PageState records the last export of a single page
type PageState struct {
	Title      string    `json:"title"`
	Path       string    `json:"path"`
	LastEdited time.Time `json:"last_edited"`
	MTime      int64     `json:"mtime"`
	Hash       string    `json:"hash"`
	ExportedAt time.Time `json:"exported_at"`
	Expires    time.Time `json:"expires,omitzero"` // earliest hosted file expiry, zero if none
}

// State represents the export state, keyed by page ID
type State struct {
	Pages map[string]*PageState `json:"pages"`
}

// Entry is a page state together with its page ID
type Entry struct {
	ID string
	PageState
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Pages: make(map[string]*PageState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if state.Pages == nil {
		state.Pages = make(map[string]*PageState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged reports whether a page needs exporting: it was never exported,
// it was edited remotely since, or its output file was modified or removed
// locally. Local changes use the mtime + hash approach.
func (s *State) HasChanged(pageID string, lastEdited time.Time) (bool, error) {
	ps, exists := s.Pages[pageID]
	if !exists {
		return true, nil
	}

	if !lastEdited.Equal(ps.LastEdited) {
		return true, nil
	}

	info, err := os.Stat(ps.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}

	// Fast path: check mtime first
	if info.ModTime().Unix() == ps.MTime {
		return false, nil
	}

	hash, err := ComputeHash(ps.Path)
	if err != nil {
		return false, err
	}

	return hash != ps.Hash, nil
}

// Expired reports whether the last export of a page links hosted files
// whose signed URLs are no longer valid at now.
func (s *State) Expired(pageID string, now time.Time) bool {
	ps, exists := s.Pages[pageID]
	if !exists || ps.Expires.IsZero() {
		return false
	}
	return !now.Before(ps.Expires)
}

// Update records a page whose output was just written to path. expires is
// the earliest expiry of the hosted files it links, or zero.
func (s *State) Update(pageID, title, path string, lastEdited, expires time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Pages[pageID] = &PageState{
		Title:      title,
		Path:       path,
		LastEdited: lastEdited,
		MTime:      info.ModTime().Unix(),
		Hash:       hash,
		ExportedAt: time.Now().UTC(),
		Expires:    expires,
	}

	return nil
}

// Remove forgets a page
func (s *State) Remove(pageID string) {
	delete(s.Pages, pageID)
}

// Sorted returns all pages ordered by title, then ID
func (s *State) Sorted() []Entry {
	entries := make([]Entry, 0, len(s.Pages))
	for id, ps := range s.Pages {
		entries = append(entries, Entry{ID: id, PageState: *ps})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Title != entries[j].Title {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// LastExport returns the most recent export time across all pages
func (s *State) LastExport() time.Time {
	var last time.Time
	for _, ps := range s.Pages {
		if ps.ExportedAt.After(last) {
			last = ps.ExportedAt
		}
	}
	return last
}
