// Package settings persists the user-editable rule set, exclusion terms and
// sender name as a single JSON document.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"vetremind/internal/model"
	"vetremind/internal/rules"
)

var (
	ErrInvalidRule = errors.New("invalid rule")
	ErrUnknownRule = errors.New("rule not found")
	ErrEmptyTerm   = errors.New("exclusion term is empty")
)

// Store reads and writes the settings file. Every mutation re-reads the file,
// applies the change and writes the whole document back under one lock.
type Store struct {
	path string
	log  *slog.Logger

	mu      sync.Mutex
	current model.Settings
}

// NewStore creates a store for the file at path. Call Load before use.
func NewStore(path string, log *slog.Logger) *Store {
	return &Store{path: path, log: log, current: Defaults()}
}

// Defaults returns the built-in settings: default rules, no exclusions and no user name.
func Defaults() model.Settings {
	return model.Settings{Rules: rules.Defaults(), Exclusions: []string{}}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing or malformed file yields the
// defaults; the file is left untouched until the next write.
func (s *Store) Load() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return model.Settings{}, err
	}
	s.current = st
	return clone(st), nil
}

// Settings returns a copy of the last loaded or written settings.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

// Save writes the current settings.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.current)
}

// Update applies fn to the settings on disk and writes the result. Nothing
// is written when fn returns an error.
func (s *Store) Update(fn func(*model.Settings) error) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return model.Settings{}, err
	}
	if err := fn(&st); err != nil {
		return model.Settings{}, err
	}
	if err := s.write(st); err != nil {
		return model.Settings{}, err
	}
	s.current = st
	return clone(st), nil
}

// Upsert stores r under the normalized key.
func (s *Store) Upsert(key string, r model.Rule) error {
	key = rules.NormalizeKey(key)
	if err := rules.ValidateRule(key, r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	r.VisibleText = strings.TrimSpace(r.VisibleText)
	_, err := s.Update(func(st *model.Settings) error {
		st.Rules[key] = r
		return nil
	})
	return err
}

// Delete removes the rule stored under key.
func (s *Store) Delete(key string) error {
	key = rules.NormalizeKey(key)
	_, err := s.Update(func(st *model.Settings) error {
		if _, ok := st.Rules[key]; !ok {
			return fmt.Errorf("%q: %w", key, ErrUnknownRule)
		}
		delete(st.Rules, key)
		return nil
	})
	return err
}

// ResetDefaults restores the default rules and clears exclusions. The user
// name is kept.
func (s *Store) ResetDefaults() error {
	_, err := s.Update(func(st *model.Settings) error {
		st.Rules = rules.Defaults()
		st.Exclusions = []string{}
		return nil
	})
	return err
}

// AddExclusion adds a lower-case exclusion term. Adding a present term is a no-op.
func (s *Store) AddExclusion(term string) error {
	term = normalizeTerm(term)
	if term == "" {
		return ErrEmptyTerm
	}
	_, err := s.Update(func(st *model.Settings) error {
		if !slices.Contains(st.Exclusions, term) {
			st.Exclusions = append(st.Exclusions, term)
		}
		return nil
	})
	return err
}

// RemoveExclusion removes an exclusion term. It reports whether the term was present.
func (s *Store) RemoveExclusion(term string) (bool, error) {
	term = normalizeTerm(term)
	var removed bool
	_, err := s.Update(func(st *model.Settings) error {
		n := len(st.Exclusions)
		st.Exclusions = slices.DeleteFunc(st.Exclusions, func(e string) bool { return e == term })
		removed = len(st.Exclusions) != n
		return nil
	})
	return removed, err
}

// SetUserName sets the sender name used in messages. An empty name selects
// the anonymous wording.
func (s *Store) SetUserName(name string) error {
	name = strings.TrimSpace(name)
	_, err := s.Update(func(st *model.Settings) error {
		st.UserName = name
		return nil
	})
	return err
}

func (s *Store) read() (model.Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("settings file not found, using defaults", "path", s.path)
		return Defaults(), nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var st model.Settings
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Warn("settings file is malformed, using defaults", "path", s.path, "error", err)
		return Defaults(), nil
	}
	return s.sanitize(st), nil
}

func (s *Store) sanitize(st model.Settings) model.Settings {
	out := model.Settings{
		Rules:      make(map[string]model.Rule, len(st.Rules)),
		Exclusions: []string{},
		UserName:   strings.TrimSpace(st.UserName),
	}
	if st.Rules == nil {
		out.Rules = rules.Defaults()
	}
	for k, r := range st.Rules {
		key := rules.NormalizeKey(k)
		if err := rules.ValidateRule(key, r); err != nil {
			s.log.Warn("skipping invalid rule", "key", k, "error", err)
			continue
		}
		out.Rules[key] = r
	}
	for _, e := range st.Exclusions {
		if t := normalizeTerm(e); t != "" && !slices.Contains(out.Exclusions, t) {
			out.Exclusions = append(out.Exclusions, t)
		}
	}
	return out
}

func (s *Store) write(st model.Settings) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func clone(st model.Settings) model.Settings {
	return model.Settings{
		Rules:      maps.Clone(st.Rules),
		Exclusions: slices.Clone(st.Exclusions),
		UserName:   st.UserName,
	}
}
