package memory

import (
	"context"
	"sync"

	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/service/dao"
)

// Service implements an in-memory run record store. All operations are
// thread-safe and exchange copies of the stored records, so callers cannot
// mutate the store through returned pointers.
type Service struct {
	runs map[string]*run.Run
	mux  sync.RWMutex
}

var _ dao.Service[string, run.Run] = (*Service)(nil)

// Save persists a clone of the supplied run.
func (s *Service) Save(_ context.Context, record *run.Run) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.ID == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.runs[record.ID] = record.Clone()
	return nil
}

// Load retrieves a copy of the run or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*run.Run, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	record, ok := s.runs[id]
	s.mux.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return record.Clone(), nil
}

// Delete removes a run record.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.runs[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.runs, id)
	return nil
}

// List returns copies of all run records, optionally filtered by the engine
// or state parameters.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*run.Run, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*run.Run, 0, len(s.runs))
	for _, record := range s.runs {
		if matches(record, parameters) {
			out = append(out, record.Clone())
		}
	}
	return out, nil
}

func matches(record *run.Run, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		value, _ := parameter.Value.(string)
		switch parameter.Name {
		case "engine":
			if record.Engine != value {
				return false
			}
		case "state":
			if string(record.State) != value {
				return false
			}
		}
	}
	return true
}

// New creates an in-memory run store.
func New() *Service {
	return &Service{runs: map[string]*run.Run{}}
}
