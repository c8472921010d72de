package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// LoadError reports a malformed catalog entry. The whole load aborts on the
// first malformed template.
type LoadError struct {
	Template string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("mission catalog: %v", e.Err)
	}
	return fmt.Sprintf("mission catalog: template %q: %v", e.Template, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// templateEntry is the on-disk catalog schema.
type templateEntry struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Chance   int      `json:"chance"`
	Planet   string   `json:"planet,omitempty"`
	System   string   `json:"system,omitempty"`
	Factions []string `json:"factions,omitempty"`
	Cond     string   `json:"cond,omitempty"`
	Done     string   `json:"done,omitempty"`
	Priority *int     `json:"priority,omitempty"`
	Unique   bool     `json:"unique,omitempty"`
	Module   string   `json:"module"`
}

// Store is the immutable template catalog.
type Store struct {
	byName  map[string]*Template
	ordered []*Template
}

// Load reads the mission catalog from a JSON file. Any malformed entry fails
// the whole load, reported with the offending template's name.
func Load(path string, logger zerolog.Logger) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("error reading catalog: %w", err)}
	}

	var entries []templateEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("error unmarshalling catalog: %w", err)}
	}

	store, err := newStore(entries)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("templates", store.Len()).Str("path", path).
		Msg("Mission catalog loaded")
	return store, nil
}

// newStore builds a validated Store from raw entries.
func newStore(entries []templateEntry) (*Store, error) {
	s := &Store{byName: make(map[string]*Template, len(entries))}

	for i, e := range entries {
		if e.Name == "" {
			return nil, &LoadError{Err: fmt.Errorf("entry %d has no name", i)}
		}
		if _, dup := s.byName[e.Name]; dup {
			return nil, &LoadError{Template: e.Name, Err: fmt.Errorf("duplicate template name")}
		}

		loc, err := ParseLocation(e.Location)
		if err != nil {
			return nil, &LoadError{Template: e.Name, Err: err}
		}
		if e.Chance < 0 || e.Chance > 999 {
			return nil, &LoadError{Template: e.Name, Err: fmt.Errorf("chance %d out of range [0,999]", e.Chance)}
		}
		if e.Module == "" {
			return nil, &LoadError{Template: e.Name, Err: fmt.Errorf("no script module")}
		}

		priority := PriorityDefault
		if e.Priority != nil {
			priority = *e.Priority
		}

		t := &Template{
			Name: e.Name,
			Avail: Availability{
				Loc:      loc,
				Chance:   e.Chance,
				Planet:   e.Planet,
				System:   e.System,
				Factions: e.Factions,
				Cond:     e.Cond,
				Done:     e.Done,
				Priority: priority,
			},
			Unique: e.Unique,
			Module: e.Module,
		}
		s.byName[t.Name] = t
		s.ordered = append(s.ordered, t)
	}

	return s, nil
}

// Get looks up a template by name.
func (s *Store) Get(name string) (*Template, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// All returns the templates in catalog order. Callers must not mutate them.
func (s *Store) All() []*Template {
	out := make([]*Template, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Len returns the number of templates in the catalog.
func (s *Store) Len() int {
	return len(s.ordered)
}
