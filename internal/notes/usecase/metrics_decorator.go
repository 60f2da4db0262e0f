package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/chatapi/internal/metrics"
	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
)

// noteUseCaseWithMetrics decorates NoteUseCase with metrics instrumentation.
type noteUseCaseWithMetrics struct {
	next    NoteUseCase
	metrics metrics.BusinessMetrics
}

// NewNoteUseCaseWithMetrics wraps a NoteUseCase with metrics recording.
func NewNoteUseCaseWithMetrics(useCase NoteUseCase, m metrics.BusinessMetrics) NoteUseCase {
	return &noteUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (n *noteUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	n.metrics.RecordOperation(ctx, "notes", operation, status)
	n.metrics.RecordDuration(ctx, "notes", operation, time.Since(start), status)
}

// List records metrics for note listing.
func (n *noteUseCaseWithMetrics) List(ctx context.Context, owner string) ([]notesDomain.Note, error) {
	start := time.Now()
	notes, err := n.next.List(ctx, owner)
	n.record(ctx, "note_list", start, err)
	return notes, err
}

// Create records metrics for note creation.
func (n *noteUseCaseWithMetrics) Create(ctx context.Context, owner, title, content string) (*notesDomain.Note, error) {
	start := time.Now()
	note, err := n.next.Create(ctx, owner, title, content)
	n.record(ctx, "note_create", start, err)
	return note, err
}

// Get records metrics for note retrieval.
func (n *noteUseCaseWithMetrics) Get(ctx context.Context, owner string, noteID uuid.UUID) (*notesDomain.Note, error) {
	start := time.Now()
	note, err := n.next.Get(ctx, owner, noteID)
	n.record(ctx, "note_get", start, err)
	return note, err
}

// Update records metrics for note updates.
func (n *noteUseCaseWithMetrics) Update(ctx context.Context, owner string, noteID uuid.UUID, input UpdateNoteInput) (*notesDomain.Note, error) {
	start := time.Now()
	note, err := n.next.Update(ctx, owner, noteID, input)
	n.record(ctx, "note_update", start, err)
	return note, err
}

// Delete records metrics for note deletions.
func (n *noteUseCaseWithMetrics) Delete(ctx context.Context, owner string, noteID uuid.UUID) error {
	start := time.Now()
	err := n.next.Delete(ctx, owner, noteID)
	n.record(ctx, "note_delete", start, err)
	return err
}
