package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

// maxRetryDelayMinutes ограничивает паузу между попытками применить запись outbox.
const maxRetryDelayMinutes = 60

type OutboxRepositoryAdapter struct {
	db         *sqlx.DB
	maxRetries int
}

func NewOutboxRepositoryAdapter(db *sqlx.DB, maxRetries int) *OutboxRepositoryAdapter {
	return &OutboxRepositoryAdapter{db: db, maxRetries: maxRetries}
}

func (r *OutboxRepositoryAdapter) ListOpen(ctx context.Context, limit int) ([]entity.SettlementOutboxEntry, error) {
	var rows []outboxRow
	query := `
		SELECT id, transaction_id, request_id, attempts, last_error, created_at,
			next_attempt_at, resolved_at, abandoned_at
		FROM settlement_outbox
		WHERE resolved_at IS NULL AND abandoned_at IS NULL AND next_attempt_at <= NOW()
		ORDER BY next_attempt_at, created_at
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить записи outbox")
	}
	result := make([]entity.SettlementOutboxEntry, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *OutboxRepositoryAdapter) Apply(ctx context.Context, entry entity.SettlementOutboxEntry) (bool, error) {
	var applied bool
	err := withRetryingTransaction(ctx, r.db, r.maxRetries, func(tx *sqlx.Tx) error {
		ok, err := markRequestPaid(ctx, tx, entry.RequestID, entry.TransactionID)
		if err != nil {
			return err
		}
		applied = ok
		if !ok {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE settlement_outbox
			SET resolved_at = NOW(), attempts = attempts + 1, last_error = ''
			WHERE id = $1 AND resolved_at IS NULL
		`, entry.ID)
		return dbError(err, "не удалось закрыть запись outbox")
	})
	if err != nil {
		return false, dbError(err, "не удалось применить запись outbox")
	}
	return applied, nil
}

func (r *OutboxRepositoryAdapter) Resolve(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settlement_outbox SET resolved_at = NOW() WHERE id = $1 AND resolved_at IS NULL`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось закрыть запись outbox")
	}
	return nil
}

// RecordAttempt откладывает запись на attempts минут, но не больше чем на maxRetryDelay.
func (r *OutboxRepositoryAdapter) RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE settlement_outbox
		SET attempts = attempts + 1,
			last_error = $2,
			next_attempt_at = NOW() + LEAST(attempts + 1, $3) * INTERVAL '1 minute'
		WHERE id = $1 AND resolved_at IS NULL AND abandoned_at IS NULL
	`, id, lastError, maxRetryDelayMinutes)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить запись outbox")
	}
	return nil
}

func (r *OutboxRepositoryAdapter) Abandon(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE settlement_outbox
		SET attempts = attempts + 1, last_error = $2, abandoned_at = NOW()
		WHERE id = $1 AND resolved_at IS NULL AND abandoned_at IS NULL
	`, id, reason)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось закрыть запись outbox")
	}
	return nil
}

type outboxRow struct {
	ID            uuid.UUID    `db:"id"`
	TransactionID uuid.UUID    `db:"transaction_id"`
	RequestID     uuid.UUID    `db:"request_id"`
	Attempts      int          `db:"attempts"`
	LastError     string       `db:"last_error"`
	CreatedAt     time.Time    `db:"created_at"`
	NextAttemptAt time.Time    `db:"next_attempt_at"`
	ResolvedAt    sql.NullTime `db:"resolved_at"`
	AbandonedAt   sql.NullTime `db:"abandoned_at"`
}

func (o outboxRow) toEntity() entity.SettlementOutboxEntry {
	e := entity.SettlementOutboxEntry{
		ID:            o.ID,
		TransactionID: o.TransactionID,
		RequestID:     o.RequestID,
		Attempts:      o.Attempts,
		LastError:     o.LastError,
		CreatedAt:     o.CreatedAt,
		NextAttemptAt: o.NextAttemptAt,
	}
	if o.ResolvedAt.Valid {
		t := o.ResolvedAt.Time
		e.ResolvedAt = &t
	}
	if o.AbandonedAt.Valid {
		t := o.AbandonedAt.Time
		e.AbandonedAt = &t
	}
	return e
}
