// Package session holds the mutable state of one editing session: the
// current source text, its structural inventory, and an undo history of
// every applied edit.
//
// The flow for each instruction is fixed:
//
//	source → analyze → parse → normalize → mutate → new source
//
// The inventory is recomputed after every successful edit rather than
// patched, so location data can never go stale between edits.
package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pyedit/internal/diff"
	"pyedit/internal/edit"
	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

// Revision is one undo step: the source text as it was before the edit
// that this revision records.
type Revision struct {
	ID        uuid.UUID
	Command   string
	Before    string
	AppliedAt time.Time
}

// Outcome reports one applied edit.
type Outcome struct {
	Intent   intent.Intent
	Source   string
	Diff     *diff.Result
	Revision Revision
}

// Session is safe for concurrent use; the watch surface re-executes
// edits from a goroutine while the REPL owns the prompt.
type Session struct {
	mu sync.Mutex

	logger   *zap.Logger
	analyzer *inventory.Analyzer
	parser   *intent.Parser
	mutator  edit.Mutator
	differ   *diff.Engine

	path    string
	source  string
	inv     *inventory.Inventory
	history []Revision
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithParser replaces the default instruction parser.
func WithParser(p *intent.Parser) Option {
	return func(s *Session) { s.parser = p }
}

// WithMutator replaces the default line backend.
func WithMutator(m edit.Mutator) Option {
	return func(s *Session) { s.mutator = m }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		logger:   zap.NewNop(),
		analyzer: inventory.NewAnalyzer(),
		parser:   intent.NewParser(),
		mutator:  edit.NewLineMutator(),
		differ:   diff.NewEngine(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads a file into the session, replacing any current source and
// clearing the undo history.
func (s *Session) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.setSourceLocked(string(data))
	s.logger.Info("loaded source",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return nil
}

// SetSource replaces the session source with text entered directly.
func (s *Session) SetSource(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
	s.setSourceLocked(source)
}

func (s *Session) setSourceLocked(source string) {
	s.source = source
	s.inv = nil
	s.history = nil
}

// Source returns the current source text.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Path returns the file the source was loaded from, if any.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Loaded reports whether the session has source to edit.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source != ""
}

// Clear drops the source, inventory and history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
	s.setSourceLocked("")
}

// Inventory returns the structural inventory of the current source,
// analyzing lazily and caching until the source changes.
func (s *Session) Inventory() *inventory.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventoryLocked()
}

func (s *Session) inventoryLocked() *inventory.Inventory {
	if s.inv == nil {
		s.inv = s.analyzer.Analyze(s.source)
	}
	return s.inv
}

// ParseIntent parses and normalizes an instruction against the current
// source without applying it.
func (s *Session) ParseIntent(command string) intent.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return intent.Normalize(s.parser.Parse(command), s.inventoryLocked())
}

// Execute applies one instruction to the session source. On success the
// session advances to the new source and records an undo revision; on
// failure the session is untouched and the error carries the reason.
func (s *Session) Execute(command string) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return nil, fmt.Errorf("no source loaded")
	}

	inv := s.inventoryLocked()
	in := intent.Normalize(s.parser.Parse(command), inv)
	s.logger.Debug("parsed instruction",
		zap.String("command", command),
		zap.String("action", in.Action))

	out, err := s.mutator.Apply(s.source, in, inv)
	if err != nil {
		s.logger.Warn("edit refused",
			zap.String("action", in.Action),
			zap.Error(err))
		return nil, err
	}

	rev := Revision{
		ID:        uuid.New(),
		Command:   command,
		Before:    s.source,
		AppliedAt: time.Now(),
	}
	result := &Outcome{
		Intent:   in,
		Source:   out,
		Diff:     s.differ.Compute(s.source, out),
		Revision: rev,
	}

	s.history = append(s.history, rev)
	s.source = out
	s.inv = nil
	s.logger.Info("edit applied",
		zap.String("action", in.Action),
		zap.String("revision", rev.ID.String()))
	return result, nil
}

// Undo reverts the most recent edit. It reports whether there was
// anything to revert.
func (s *Session) Undo() (Revision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return Revision{}, false
	}
	rev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.source = rev.Before
	s.inv = nil
	s.logger.Info("edit undone", zap.String("revision", rev.ID.String()))
	return rev, true
}

// History returns the applied revisions, oldest first.
func (s *Session) History() []Revision {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Revision, len(s.history))
	copy(out, s.history)
	return out
}

// Save writes the current source back to the file it was loaded from,
// or to path when given.
func (s *Session) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "" {
		path = s.path
	}
	if path == "" {
		return fmt.Errorf("no target path to save to")
	}
	if err := os.WriteFile(path, []byte(s.source), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	s.logger.Info("saved source", zap.String("path", path))
	return nil
}
