// Package store owns the in-memory entity collections. Each store is an
// id-indexed arena with a name index backing the dedup invariants:
// no two risk targets and no two candidates may share a subject name.
// Stores are safe for the single-writer batch discipline and also take
// a mutex so a stream-triggered service can share them.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"carewatch/internal/models"
)

var (
	// ErrDuplicateTarget is returned when a risk target with the same
	// subject name already exists.
	ErrDuplicateTarget = errors.New("risk target with this name already exists")
	// ErrDuplicateCandidate is returned when a candidate with the same
	// subject name already exists.
	ErrDuplicateCandidate = errors.New("candidate with this name already exists")
	// ErrNotFound is returned by Get/Update/Delete for an unknown id.
	ErrNotFound = errors.New("entity not found")
)

// NextID issues time-based entity ids (unix milliseconds), bumping on
// collision so two entities created in the same millisecond still get
// distinct ids.
type idSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (s *idSource) next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// RiskTargetStore holds escalated subjects awaiting a field visit.
type RiskTargetStore struct {
	mu     sync.RWMutex
	byID   map[int64]*models.RiskTarget
	byName map[string]int64
	ids    *idSource
}

// NewRiskTargetStore creates an empty store. now is the clock used for
// id generation; pass time.Now in production.
func NewRiskTargetStore(now func() time.Time) *RiskTargetStore {
	return &RiskTargetStore{
		byID:   make(map[int64]*models.RiskTarget),
		byName: make(map[string]int64),
		ids:    &idSource{now: now},
	}
}

// Add inserts a target, assigning an id when none is set. Rejects a
// duplicate subject name without mutating the store.
func (s *RiskTargetStore) Add(t models.RiskTarget) (*models.RiskTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[t.Name]; exists {
		return nil, ErrDuplicateTarget
	}
	if t.ID == 0 {
		t.ID = s.ids.next()
	}
	s.byID[t.ID] = &t
	s.byName[t.Name] = t.ID
	return &t, nil
}

// HasName reports whether a target with this exact name exists.
func (s *RiskTargetStore) HasName(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[name]
	return ok
}

// Get returns a copy of the target with the given id.
func (s *RiskTargetStore) Get(id int64) (*models.RiskTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// List returns all targets ordered by id.
func (s *RiskTargetStore) List() []models.RiskTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RiskTarget, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Delete removes a target. Explicit user-initiated operation.
func (s *RiskTargetStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byName, t.Name)
	delete(s.byID, id)
	return nil
}

// Len returns the number of stored targets.
func (s *RiskTargetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// CandidateStore holds follow-up interview candidates.
type CandidateStore struct {
	mu     sync.RWMutex
	byID   map[int64]*models.Candidate
	byName map[string]int64
	ids    *idSource
}

// NewCandidateStore creates an empty store.
func NewCandidateStore(now func() time.Time) *CandidateStore {
	return &CandidateStore{
		byID:   make(map[int64]*models.Candidate),
		byName: make(map[string]int64),
		ids:    &idSource{now: now},
	}
}

// Add inserts a candidate, rejecting a duplicate subject name.
func (s *CandidateStore) Add(c models.Candidate) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[c.Name]; exists {
		return nil, ErrDuplicateCandidate
	}
	if c.ID == 0 {
		c.ID = s.ids.next()
	}
	s.byID[c.ID] = &c
	s.byName[c.Name] = c.ID
	return &c, nil
}

// HasName reports whether a candidate with this exact name exists.
func (s *CandidateStore) HasName(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[name]
	return ok
}

// Get returns a copy of the candidate with the given id.
func (s *CandidateStore) Get(id int64) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Update replaces a candidate's mutable fields (tracking, interview
// answers, reason). The name stays fixed; renaming would bypass the
// dedup index.
func (s *CandidateStore) Update(c models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.Name = existing.Name
	s.byID[c.ID] = &c
	return nil
}

// List returns all candidates ordered by id.
func (s *CandidateStore) List() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Candidate, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Delete removes a candidate. Explicit user-initiated operation.
func (s *CandidateStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byName, c.Name)
	delete(s.byID, id)
	return nil
}

// Len returns the number of stored candidates.
func (s *CandidateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// HypothesisStore holds factor->outcome hypotheses and their
// accumulated verification evidence. Unlike the other stores there is
// no name uniqueness: duplicate factor/outcome pairs from different
// subjects are tracked independently.
type HypothesisStore struct {
	mu   sync.RWMutex
	byID map[int64]*models.Hypothesis
	ids  *idSource
}

// NewHypothesisStore creates an empty store.
func NewHypothesisStore(now func() time.Time) *HypothesisStore {
	return &HypothesisStore{
		byID: make(map[int64]*models.Hypothesis),
		ids:  &idSource{now: now},
	}
}

// Add inserts a hypothesis, assigning an id when none is set.
func (s *HypothesisStore) Add(h models.Hypothesis) *models.Hypothesis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == 0 {
		h.ID = s.ids.next()
	}
	s.byID[h.ID] = &h
	return &h
}

// Get returns a copy of the hypothesis with the given id.
func (s *HypothesisStore) Get(id int64) (*models.Hypothesis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *h
	cp.Verification = append([]models.VerificationData(nil), h.Verification...)
	return &cp, nil
}

// List returns all hypotheses ordered by id, verification included.
func (s *HypothesisStore) List() []models.Hypothesis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Hypothesis, 0, len(s.byID))
	for _, h := range s.byID {
		cp := *h
		cp.Verification = append([]models.VerificationData(nil), h.Verification...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Forwarded returns the hypotheses flagged for bulk verification.
func (s *HypothesisStore) Forwarded() []models.Hypothesis {
	all := s.List()
	out := all[:0]
	for _, h := range all {
		if h.SendToStep2 {
			out = append(out, h)
		}
	}
	return out
}

// AppendVerification appends one evidence entry. Existing entries are
// never removed or reordered.
func (s *HypothesisStore) AppendVerification(id int64, v models.VerificationData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	h.Verification = append(h.Verification, v)
	if h.Status == models.HypothesisDiscovered {
		h.Status = models.HypothesisVerifying
	}
	return nil
}

// SetStatus updates a hypothesis lifecycle status.
func (s *HypothesisStore) SetStatus(id int64, status models.HypothesisStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	h.Status = status
	return nil
}

// Reset clears the registry. Explicit user-initiated operation.
func (s *HypothesisStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[int64]*models.Hypothesis)
}

// Len returns the number of stored hypotheses.
func (s *HypothesisStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
