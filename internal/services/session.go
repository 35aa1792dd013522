package services

import (
	"sync"
	"time"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/SAP-F-2025/di-authoring-service/internal/template"
	"github.com/SAP-F-2025/di-authoring-service/internal/validator"
	"github.com/google/uuid"
)

// Ticket identifies the draft a load was started for. A load may only be
// applied while the session still holds that same draft.
type Ticket struct {
	SessionID string
	Identity  string
}

// UpdateFunc receives a private copy of the draft and returns the draft to
// commit: the same value after mutation or a replacement.
type UpdateFunc func(models.Draft) (models.Draft, error)

// DraftSnapshot is a consistent, detached view of a session.
type DraftSnapshot struct {
	ID           string                 `json:"id"`
	Type         models.QuestionType    `json:"type"`
	Revision     uint64                 `json:"revision"`
	Draft        models.Draft           `json:"question"`
	Completeness validator.Completeness `json:"completeness"`
	// TemplatePreview is the edit-mode rendering of the draft's template,
	// with each {dropdownN} shown as [dropdownN].
	TemplatePreview  string    `json:"template_preview,omitempty"`
	UnresolvedTokens []string  `json:"unresolved_tokens,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Session owns exactly one draft. Every read and write goes through its
// mutex; the draft itself never leaves the session except as a clone.
type Session struct {
	mu           sync.Mutex
	id           string
	identity     string
	revision     uint64
	draft        models.Draft
	completeness validator.Completeness
	gate         *validator.QuestionValidator
	updatedAt    time.Time
	lastUsed     time.Time
}

func NewSession(draft models.Draft, gate *validator.QuestionValidator) *Session {
	now := time.Now()
	s := &Session{
		id:        uuid.NewString(),
		identity:  uuid.NewString(),
		draft:     draft,
		gate:      gate,
		updatedAt: now,
		lastUsed:  now,
	}
	s.completeness = gate.IsComplete(draft)
	return s
}

func (s *Session) ID() string {
	return s.id
}

// LastUsed is the time of the most recent read or write.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Ticket captures the identity of the current draft.
func (s *Session) Ticket() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return Ticket{SessionID: s.id, Identity: s.identity}
}

// Close invalidates every outstanding ticket.
func (s *Session) Close() {
	s.mu.Lock()
	s.identity = uuid.NewString()
	s.mu.Unlock()
}

func (s *Session) Snapshot() *DraftSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.snapshotLocked()
}

// Update applies fn to a copy of the draft and commits the result only when
// fn succeeds, so a failed edit leaves the draft untouched. The gate is
// recomputed after every commit. It reports whether the draft went from
// incomplete to complete.
func (s *Session) Update(fn UpdateFunc) (*DraftSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(fn)
}

// UpdateWithTicket is Update for the result of a load. The result is
// dropped with ErrStaleDraft if the draft was replaced since the ticket was
// taken.
func (s *Session) UpdateWithTicket(t Ticket, fn UpdateFunc) (*DraftSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.SessionID != s.id || t.Identity != s.identity {
		return nil, false, ErrStaleDraft
	}
	return s.updateLocked(fn)
}

func (s *Session) updateLocked(fn UpdateFunc) (*DraftSnapshot, bool, error) {
	s.lastUsed = time.Now()
	working := s.draft.Clone()
	next, err := fn(working)
	if err != nil {
		return nil, false, err
	}
	if next == nil {
		next = working
	}

	wasComplete := s.completeness.OK
	if next != working {
		s.identity = uuid.NewString()
	}
	s.draft = next
	s.revision++
	s.updatedAt = time.Now()
	s.completeness = s.gate.IsComplete(next)

	return s.snapshotLocked(), !wasComplete && s.completeness.OK, nil
}

func (s *Session) snapshotLocked() *DraftSnapshot {
	snap := &DraftSnapshot{
		ID:           s.id,
		Type:         s.draft.Type(),
		Revision:     s.revision,
		Draft:        s.draft.Clone(),
		Completeness: s.completeness,
		UpdatedAt:    s.updatedAt,
	}
	if gi, ok := s.draft.(*models.GraphicsInterpretationDraft); ok {
		snap.TemplatePreview = template.EditPreview(gi.ConclusionTemplate)
		snap.UnresolvedTokens = template.Unresolved(gi.ConclusionTemplate, gi.Dropdowns)
	}
	return snap
}
