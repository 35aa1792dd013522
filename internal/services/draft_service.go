package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/di-authoring-service/internal/events"
	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/SAP-F-2025/di-authoring-service/internal/validator"
)

// LoadFunc does the slow part of a load (reading and parsing a file) and
// returns the mutation to apply once it is done.
type LoadFunc func(ctx context.Context) (UpdateFunc, error)

// DraftService manages the authoring sessions of the process. Drafts live
// only in memory; export is the only durable artifact.
type DraftService interface {
	// Session lifecycle
	Create(ctx context.Context, questionType models.QuestionType, sample bool) (*DraftSnapshot, error)
	Get(ctx context.Context, id string) (*DraftSnapshot, error)
	Replace(ctx context.Context, id string, data []byte) (*DraftSnapshot, error)
	Delete(ctx context.Context, id string) error
	Count() int
	SweepIdle(ctx context.Context, maxIdle time.Duration) int

	// Editing
	Edit(ctx context.Context, id string, cmd EditCommand) (*DraftSnapshot, error)
	Load(ctx context.Context, id string, load LoadFunc) (*DraftSnapshot, error)
	Import(ctx context.Context, id string, filename string, sourceID int, r io.Reader) (*DraftSnapshot, error)
	AttachImage(ctx context.Context, id string, sourceID int, r io.Reader, contentType string, size int64) (*DraftSnapshot, error)

	// Output
	Preview(ctx context.Context, id string, opts PreviewOptions) (*PreviewView, error)
	Export(ctx context.Context, id string, format models.ExportFormat) (*models.ExportFile, error)
	ImportVerbal(ctx context.Context, r io.Reader, filename string) (*models.ImportSummary, error)
}

type draftService struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	gate      *validator.QuestionValidator
	transfer  ImportExportService
	uploads   UploadService
	previews  PreviewService
	publisher events.EventPublisher
	logger    *ServiceLogger
}

type DraftServiceDeps struct {
	Validator      *validator.Validator
	ImportExport   ImportExportService
	Uploads        UploadService
	Previews       PreviewService
	EventPublisher events.EventPublisher
	Logger         *slog.Logger
}

func NewDraftService(deps DraftServiceDeps) DraftService {
	return &draftService{
		sessions:  make(map[string]*Session),
		gate:      deps.Validator.Question(),
		transfer:  deps.ImportExport,
		uploads:   deps.Uploads,
		previews:  deps.Previews,
		publisher: deps.EventPublisher,
		logger:    NewServiceLogger(deps.Logger, LogConfig{Service: "di-authoring-service", Component: "drafts"}),
	}
}

// ===== SESSION LIFECYCLE =====

func (s *draftService) Create(ctx context.Context, questionType models.QuestionType, sample bool) (snap *DraftSnapshot, err error) {
	op := s.logger.WithOperation(ctx, "create_draft", "")
	defer func() { op.LogResult(err) }()

	if !questionType.IsValid() {
		return nil, NewValidationError("type", "must be a valid question type", questionType)
	}

	var draft models.Draft
	if sample {
		draft, err = models.NewSampleDraft(questionType)
	} else {
		draft, err = models.NewDraft(questionType)
	}
	if err != nil {
		return nil, err
	}

	session := NewSession(draft, s.gate)
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	op.draftID = session.ID()
	snap = session.Snapshot()
	s.publish(ctx, events.NewDraftEvent(events.EventDraftCreated, snap.ID, string(snap.Type), snap.Revision))
	return snap, nil
}

func (s *draftService) Get(ctx context.Context, id string) (*DraftSnapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return session.Snapshot(), nil
}

// Replace swaps the session's draft for the one encoded in data. A failed
// import leaves the current draft untouched.
func (s *draftService) Replace(ctx context.Context, id string, data []byte) (snap *DraftSnapshot, err error) {
	op := s.logger.WithOperation(ctx, "replace_draft", id)
	defer func() { op.LogResult(err) }()

	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	imported, err := s.transfer.ImportJSON(ctx, data)
	if err != nil {
		return nil, err
	}
	snap, completed, err := session.Update(func(models.Draft) (models.Draft, error) {
		return imported, nil
	})
	if err != nil {
		return nil, err
	}
	s.afterUpdate(ctx, snap, completed)
	return snap, nil
}

func (s *draftService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrDraftNotFound
	}
	s.discard(ctx, session)
	return nil
}

// SweepIdle discards every session unused for longer than maxIdle and
// returns how many were removed. Loads still running against a swept
// session are dropped as stale.
func (s *draftService) SweepIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var idle []*Session
	for id, session := range s.sessions {
		if session.LastUsed().Before(cutoff) {
			idle = append(idle, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range idle {
		s.discard(ctx, session)
	}
	if len(idle) > 0 {
		s.logger.logger.Info("Discarded idle drafts", "count", len(idle), "max_idle", maxIdle)
	}
	return len(idle)
}

// RunIdleSweeper calls SweepIdle every interval until ctx is done.
func RunIdleSweeper(ctx context.Context, svc DraftService, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.SweepIdle(ctx, maxIdle)
		}
	}
}

func (s *draftService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ===== EDITING =====

func (s *draftService) Edit(ctx context.Context, id string, cmd EditCommand) (snap *DraftSnapshot, err error) {
	op := s.logger.WithOperation(ctx, "edit_"+string(cmd.Op), id)
	defer func() { op.LogResult(err) }()

	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	snap, completed, err := session.Update(func(d models.Draft) (models.Draft, error) {
		if err := ApplyEdit(d, cmd); err != nil {
			return nil, err
		}
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	s.afterUpdate(ctx, snap, completed)
	return snap, nil
}

// Load runs load concurrently with further edits and applies its result
// only if the session still holds the draft the load was started for.
// Cancelling ctx abandons the load without touching the draft.
func (s *draftService) Load(ctx context.Context, id string, load LoadFunc) (*DraftSnapshot, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	ticket := session.Ticket()

	type result struct {
		apply UpdateFunc
		err   error
	}
	done := make(chan result, 1)
	go func() {
		apply, err := load(ctx)
		done <- result{apply: apply, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return nil, r.err
	}

	snap, completed, err := session.UpdateWithTicket(ticket, r.apply)
	if errors.Is(err, ErrStaleDraft) {
		s.logger.logger.Warn("Dropping load for a replaced draft", "draft_id", id)
	}
	if err != nil {
		return nil, err
	}
	s.afterUpdate(ctx, snap, completed)
	return snap, nil
}

// Import loads a file into the draft: .json replaces the whole draft, .csv
// replaces the Table Analysis table or the table of Multi-Source tab
// sourceID.
func (s *draftService) Import(ctx context.Context, id string, filename string, sourceID int, r io.Reader) (snap *DraftSnapshot, err error) {
	op := s.logger.WithOperation(ctx, "import_file", id)
	defer func() { op.LogResult(err) }()

	ext := strings.ToLower(filepath.Ext(filename))
	var load LoadFunc
	switch ext {
	case ".json":
		load = func(ctx context.Context) (UpdateFunc, error) {
			data, err := readAll(ctx, r)
			if err != nil {
				return nil, err
			}
			imported, err := s.transfer.ImportJSON(ctx, data)
			if err != nil {
				return nil, err
			}
			return func(models.Draft) (models.Draft, error) { return imported, nil }, nil
		}
	case ".csv":
		load = func(ctx context.Context) (UpdateFunc, error) {
			data, err := readAll(ctx, r)
			if err != nil {
				return nil, err
			}
			grid, err := s.transfer.ImportCSV(ctx, data)
			if err != nil {
				return nil, err
			}
			return func(d models.Draft) (models.Draft, error) {
				return d, replaceTable(d, sourceID, grid)
			}, nil
		}
	default:
		return nil, fmt.Errorf("import %q: %w", ext, ErrUnsupportedFormat)
	}

	snap, err = s.Load(ctx, id, load)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewTransferEvent(events.EventDraftImported, id, string(snap.Type), strings.TrimPrefix(ext, "."), filename, 0))
	return snap, nil
}

func (s *draftService) AttachImage(ctx context.Context, id string, sourceID int, r io.Reader, contentType string, size int64) (snap *DraftSnapshot, err error) {
	op := s.logger.WithOperation(ctx, "attach_image", id)
	defer func() { op.LogResult(err) }()

	var upload *ImageUpload
	snap, err = s.Load(ctx, id, func(ctx context.Context) (UpdateFunc, error) {
		encoded, err := s.uploads.EncodeImage(ctx, r, contentType, size)
		if err != nil {
			return nil, err
		}
		upload = encoded
		return func(d models.Draft) (models.Draft, error) {
			return d, setImage(d, sourceID, upload.DataURI)
		}, nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewTransferEvent(events.EventImageAttached, id, string(snap.Type), upload.ContentType, "", int(upload.Size)))
	return snap, nil
}

// ===== OUTPUT =====

func (s *draftService) Preview(ctx context.Context, id string, opts PreviewOptions) (*PreviewView, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return s.previews.Render(ctx, session.Snapshot(), opts)
}

func (s *draftService) Export(ctx context.Context, id string, format models.ExportFormat) (file *models.ExportFile, err error) {
	op := s.logger.WithOperation(ctx, "export_"+string(format), id)
	defer func() { op.LogResult(err) }()

	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	snap := session.Snapshot()
	if !snap.Completeness.OK {
		return nil, &IncompleteError{Completeness: snap.Completeness}
	}

	file, err = s.transfer.Export(ctx, snap.Draft, format)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewTransferEvent(events.EventDraftExported, id, string(snap.Type), string(format), file.FileName, len(file.Data)))
	return file, nil
}

func (s *draftService) ImportVerbal(ctx context.Context, r io.Reader, filename string) (*models.ImportSummary, error) {
	summary, err := s.transfer.ImportVerbal(ctx, r, filename)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewVerbalImportedEvent(filename, summary.TotalRows, summary.SuccessCount, summary.ErrorCount, summary.ProcessingTime))
	return summary, nil
}

// ===== HELPERS =====

func (s *draftService) session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return session, nil
}

func (s *draftService) discard(ctx context.Context, session *Session) {
	session.Close()
	s.previews.Invalidate(ctx, session.ID())

	snap := session.Snapshot()
	s.publish(ctx, events.NewDraftEvent(events.EventDraftDiscarded, snap.ID, string(snap.Type), snap.Revision))
}

func (s *draftService) afterUpdate(ctx context.Context, snap *DraftSnapshot, completed bool) {
	if completed {
		s.publish(ctx, events.NewDraftEvent(events.EventDraftCompleted, snap.ID, string(snap.Type), snap.Revision))
	}
}

func (s *draftService) publish(ctx context.Context, event *events.AuthoringEvent) {
	if err := s.publisher.PublishAuthoringEvent(ctx, event); err != nil {
		s.logger.logger.Warn("Failed to publish authoring event", "event_type", event.Type, "error", err)
	}
}

func replaceTable(d models.Draft, sourceID int, grid *models.Grid) error {
	switch draft := d.(type) {
	case *models.TableAnalysisDraft:
		if draft.Table == nil {
			draft.Table = &models.Grid{}
		}
		return draft.ReplaceTable(grid.Headers, grid.Rows)
	case *models.MultiSourceDraft:
		src, err := draft.Source(sourceID)
		if err != nil {
			return err
		}
		if src.Kind != models.SourceTable {
			if err := src.SetKind(models.SourceTable); err != nil {
				return err
			}
		}
		return src.Table.Replace(grid.Headers, grid.Rows)
	default:
		return fmt.Errorf("import csv into %s: %w", draftType(d), ErrNoTabularData)
	}
}

func setImage(d models.Draft, sourceID int, dataURI string) error {
	switch draft := d.(type) {
	case *models.GraphicsInterpretationDraft:
		draft.Image = dataURI
		return nil
	case *models.MultiSourceDraft:
		src, err := draft.Source(sourceID)
		if err != nil {
			return err
		}
		if src.Kind != models.SourceImage {
			if err := src.SetKind(models.SourceImage); err != nil {
				return err
			}
		}
		src.Image = dataURI
		return nil
	default:
		return fmt.Errorf("attach image to %s: %w", draftType(d), ErrWrongQuestionType)
	}
}

func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}
