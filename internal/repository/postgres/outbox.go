package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
)

// FetchPending returns up to limit pending events, oldest first. The worker
// is the single consumer; delivery is at-least-once.
func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM outbox_events WHERE status = $1 ORDER BY created_at ASC LIMIT $2",
		strings.Join(outboxCols, ", "))

	var events []*model.OutboxEvent
	if err := r.router.Admin().SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, model.OutboxStatusProcessed)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, model.OutboxStatusFailed)
}

func (r *outboxRepository) setStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus) error {
	query := "UPDATE outbox_events SET status = $1, processed_at = now() WHERE id = $2"
	if _, err := r.router.Admin().ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to mark event %s: %w", status, err)
	}
	return nil
}
