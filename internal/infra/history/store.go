package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	domain "github.com/ideavalidator/sanity-api/internal/domain/analysis"
)

// DefaultLimit bounds each user's local history when no limit is configured.
const DefaultLimit = 20

// Store is the local bounded history: one JSON file holding a newest-first
// array per user id, read and rewritten in full on every operation. The
// bound applies per user, not across the file. A mutex serializes callers
// in-process; a file lock guards against other processes sharing the same
// file.
type Store struct {
	mu    sync.Mutex
	path  string
	limit int
	flk   *flock.Flock
}

func New(path string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		path:  path,
		limit: limit,
		flk:   flock.New(path + ".lock"),
	}
}

// Append prepends a result to the user's history and evicts that user's
// oldest entries beyond the bound. Returns the user's updated list.
func (s *Store) Append(userID string, r domain.Result) ([]domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return nil, err
	}
	defer s.flk.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	list := append([]domain.Result{r}, all[userID]...)
	if len(list) > s.limit {
		list = list[:s.limit]
	}
	all[userID] = list
	if err := s.save(all); err != nil {
		return nil, err
	}
	return list, nil
}

// Remove filters out every entry with the given id from the user's history
// and persists the rest. An unknown id is a no-op returning the unchanged
// list. Other users' histories are never touched.
func (s *Store) Remove(userID string, id domain.ID) ([]domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return nil, err
	}
	defer s.flk.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	list := all[userID]
	filtered := list[:0:0]
	for _, r := range list {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == len(list) {
		if list == nil {
			return []domain.Result{}, nil
		}
		return list, nil
	}
	all[userID] = filtered
	if err := s.save(all); err != nil {
		return nil, err
	}
	return filtered, nil
}

// List returns the user's current history, newest-first.
func (s *Store) List(userID string) ([]domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.RLock(); err != nil {
		return nil, err
	}
	defer s.flk.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	list, ok := all[userID]
	if !ok {
		return []domain.Result{}, nil
	}
	return list, nil
}

func (s *Store) load() (map[string][]domain.Result, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string][]domain.Result{}, nil
	}
	if err != nil {
		return nil, err
	}
	var all map[string][]domain.Result
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string][]domain.Result{}
	}
	return all, nil
}

func (s *Store) save(all map[string][]domain.Result) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(all)
	if err != nil {
		return err
	}
	// write-then-rename so a quota or crash mid-write cannot clobber the
	// only durable record in demo mode
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
