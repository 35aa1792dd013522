package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of authoring events the service emits
type EventType string

const (
	// Draft lifecycle events
	EventDraftCreated   EventType = "draft.created"
	EventDraftDiscarded EventType = "draft.discarded"
	EventDraftCompleted EventType = "draft.completed"

	// Transfer events
	EventDraftImported  EventType = "draft.imported"
	EventDraftExported  EventType = "draft.exported"
	EventImageAttached  EventType = "draft.image_attached"
	EventVerbalImported EventType = "verbal.imported"
)

const (
	eventSource  = "di-authoring-service"
	eventVersion = "1.0"
)

// AuthoringEvent is the envelope for every event published by the service
type AuthoringEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type DraftEvent struct {
	DraftID      string `json:"draft_id"`
	QuestionType string `json:"question_type"`
	Revision     uint64 `json:"revision"`
}

type TransferEvent struct {
	DraftID      string `json:"draft_id"`
	QuestionType string `json:"question_type"`
	Format       string `json:"format"`
	FileName     string `json:"file_name,omitempty"`
	Bytes        int    `json:"bytes"`
}

type VerbalImportedEvent struct {
	FileName       string `json:"file_name"`
	TotalRows      int    `json:"total_rows"`
	ImportedRows   int    `json:"imported_rows"`
	FailedRows     int    `json:"failed_rows"`
	ProcessingTime string `json:"processing_time"`
}

// Event factory functions

func NewDraftEvent(eventType EventType, draftID, questionType string, revision uint64) *AuthoringEvent {
	return newEvent(eventType, DraftEvent{
		DraftID:      draftID,
		QuestionType: questionType,
		Revision:     revision,
	})
}

func NewTransferEvent(eventType EventType, draftID, questionType, format, fileName string, size int) *AuthoringEvent {
	return newEvent(eventType, TransferEvent{
		DraftID:      draftID,
		QuestionType: questionType,
		Format:       format,
		FileName:     fileName,
		Bytes:        size,
	})
}

func NewVerbalImportedEvent(fileName string, total, imported, failed int, took time.Duration) *AuthoringEvent {
	return newEvent(EventVerbalImported, VerbalImportedEvent{
		FileName:       fileName,
		TotalRows:      total,
		ImportedRows:   imported,
		FailedRows:     failed,
		ProcessingTime: took.String(),
	})
}

func newEvent(eventType EventType, data interface{}) *AuthoringEvent {
	return &AuthoringEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// GenerateEventID returns a unique event id
func GenerateEventID() string {
	return uuid.NewString()
}
