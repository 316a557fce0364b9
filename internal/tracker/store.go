// Package tracker is the issue-tracking engine: the in-memory relational
// store for projects, issues, cycles, goals and milestones together with
// the activity log, relation graph, sub-task and time ledgers, saved views,
// the selection set and bulk operations.
//
// Every mutation is one transaction. A transaction works on lazily cloned
// tables and either commits all of them in a single assignment or none,
// so cascades (project → issues → relations/sub-tasks/time) are never
// observed half-applied. Reads return copies and never block each other.
package tracker

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"issuetracker/internal/domain"
	"issuetracker/internal/idgen"
)

// state is one immutable generation of the store.
type state struct {
	projects     table[domain.Project]
	issues       table[domain.Issue]
	cycles       table[domain.Cycle]
	goals        table[domain.Goal]
	milestones   table[domain.Milestone]
	members      table[domain.Member]
	activities   table[domain.Activity]
	relations    table[domain.Relation]
	subtasks     table[domain.SubTask]
	timeTracking table[domain.TimeTracking] // keyed by issue ID
	savedViews   table[domain.SavedView]
	selection    []string // process-local, never persisted
}

func emptyState() *state {
	return &state{
		projects:     newTable[domain.Project](),
		issues:       newTable[domain.Issue](),
		cycles:       newTable[domain.Cycle](),
		goals:        newTable[domain.Goal](),
		milestones:   newTable[domain.Milestone](),
		members:      newTable[domain.Member](),
		activities:   newTable[domain.Activity](),
		relations:    newTable[domain.Relation](),
		subtasks:     newTable[domain.SubTask](),
		timeTracking: newTable[domain.TimeTracking](),
		savedViews:   newTable[domain.SavedView](),
	}
}

// Store is the engine. The zero value is not usable; call New.
// Store is safe for concurrent use: writers are serialized and readers see
// the last committed generation.
type Store struct {
	mu    sync.RWMutex
	st    *state
	actor string
	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithActor sets the user ID recorded on activities.
func WithActor(userID string) Option {
	return func(s *Store) { s.actor = userID }
}

// WithLogger sets the logger used for mutation traces.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the opaque ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		st:    emptyState(),
		now:   time.Now,
		newID: idgen.NewID,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Actor returns the user ID recorded on activities.
func (s *Store) Actor() string {
	return s.actor
}

// current returns the committed generation. The returned state must not
// be modified.
func (s *Store) current() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// update runs fn as a single transaction. If fn returns an error nothing
// is committed. A transaction that touched no table commits nothing either.
func (s *Store) update(op string, fn func(tx *txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txn{store: s, base: s.st, next: *s.st, now: s.now().UTC()}
	if err := fn(tx); err != nil {
		s.log.Debug("transaction rolled back", "op", op, "error", err)
		return err
	}
	if tx.dirty == 0 {
		s.log.Debug("no-op", "op", op)
		return nil
	}
	next := tx.next
	s.st = &next
	s.log.Debug("transaction committed", "op", op, "tables", tx.dirty.String())
	return nil
}

// dirtySet records which tables a transaction cloned.
type dirtySet uint16

const (
	dirtyProjects dirtySet = 1 << iota
	dirtyIssues
	dirtyCycles
	dirtyGoals
	dirtyMilestones
	dirtyMembers
	dirtyActivities
	dirtyRelations
	dirtySubTasks
	dirtyTimeTracking
	dirtySavedViews
	dirtySelection
)

var dirtyNames = []string{
	"projects", "issues", "cycles", "goals", "milestones", "members",
	"activities", "relations", "subtasks", "time_tracking", "saved_views", "selection",
}

func (d dirtySet) String() string {
	var names []string
	for i, name := range dirtyNames {
		if d&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// txn is an in-flight transaction. Reads go through tx.next directly;
// writes go through the accessor methods, which clone the table first.
type txn struct {
	store *Store
	base  *state
	next  state
	dirty dirtySet
	now   time.Time
}

func touch[T any](tx *txn, bit dirtySet, src table[T], dst *table[T]) *table[T] {
	if tx.dirty&bit == 0 {
		*dst = src.clone()
		tx.dirty |= bit
	}
	return dst
}

func (tx *txn) projects() *table[domain.Project] {
	return touch(tx, dirtyProjects, tx.base.projects, &tx.next.projects)
}

func (tx *txn) issues() *table[domain.Issue] {
	return touch(tx, dirtyIssues, tx.base.issues, &tx.next.issues)
}

func (tx *txn) cycles() *table[domain.Cycle] {
	return touch(tx, dirtyCycles, tx.base.cycles, &tx.next.cycles)
}

func (tx *txn) goals() *table[domain.Goal] {
	return touch(tx, dirtyGoals, tx.base.goals, &tx.next.goals)
}

func (tx *txn) milestones() *table[domain.Milestone] {
	return touch(tx, dirtyMilestones, tx.base.milestones, &tx.next.milestones)
}

func (tx *txn) members() *table[domain.Member] {
	return touch(tx, dirtyMembers, tx.base.members, &tx.next.members)
}

func (tx *txn) activities() *table[domain.Activity] {
	return touch(tx, dirtyActivities, tx.base.activities, &tx.next.activities)
}

func (tx *txn) relations() *table[domain.Relation] {
	return touch(tx, dirtyRelations, tx.base.relations, &tx.next.relations)
}

func (tx *txn) subtasks() *table[domain.SubTask] {
	return touch(tx, dirtySubTasks, tx.base.subtasks, &tx.next.subtasks)
}

func (tx *txn) timeTracking() *table[domain.TimeTracking] {
	return touch(tx, dirtyTimeTracking, tx.base.timeTracking, &tx.next.timeTracking)
}

func (tx *txn) savedViews() *table[domain.SavedView] {
	return touch(tx, dirtySavedViews, tx.base.savedViews, &tx.next.savedViews)
}

func (tx *txn) setSelection(ids []string) {
	tx.next.selection = ids
	tx.dirty |= dirtySelection
}

func (tx *txn) newID() string {
	return tx.store.newID()
}

// appendActivity stamps and stores an activity for issueID.
func (tx *txn) appendActivity(issueID string, a domain.Activity) domain.Activity {
	a.ID = tx.newID()
	a.IssueID = issueID
	if a.UserID == "" {
		a.UserID = tx.store.actor
	}
	a.Timestamp = tx.now
	tx.activities().put(a.ID, a)
	return a
}

// cloneAll maps clone over records read out of the store.
func cloneAll[T any](in []T, clone func(T) T) []T {
	if clone == nil {
		return slices.Clone(in)
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}
