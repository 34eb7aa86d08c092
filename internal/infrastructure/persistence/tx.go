package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

const (
	pqUniqueViolation        = "23505"
	pqSerializationFailure   = "40001"
	pqDeadlockDetected       = "40P01"
	pendingRequestUniqueName = "requests_one_pending_idx"
)

// retryBackoff задаёт паузу перед повтором, она растёт линейно с номером попытки.
var retryBackoff = 20 * time.Millisecond

// withTransaction выполняет fn внутри транзакции: откат при ошибке или панике, иначе коммит.
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// withRetryingTransaction повторяет транзакцию целиком при сериализационных конфликтах и дедлоках.
func withRetryingTransaction(ctx context.Context, db *sqlx.DB, maxAttempts int, fn func(*sqlx.Tx) error) error {
	return retry(ctx, maxAttempts, func() error {
		return withTransaction(ctx, db, fn)
	})
}

// retry вызывает fn до maxAttempts раз, пока ошибка временная. После исчерпания попыток
// возвращает Conflict.
func retry(ctx context.Context, maxAttempts int, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}

		logger.L().WithError(lastErr).WithField("attempt", attempt).Debug("транзакция будет повторена")

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	return apperror.Wrap(lastErr, apperror.ErrCodeConflict, apperror.ErrTxConflict.Message)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isRetryable(err error) bool {
	switch pqCode(err) {
	case pqSerializationFailure, pqDeadlockDetected:
		return true
	}
	return false
}

// isUniqueViolation проверяет нарушение уникальности. Пустой constraint означает любое ограничение.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// dbError пропускает AppError без изменений, остальное оборачивает в DATABASE_ERROR.
func dbError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if isRetryable(err) {
		// повтором займётся retry
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}

func uuidStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseUUIDs разбирает uuid[] из базы, некорректные значения пропускает.
func parseUUIDs(values pq.StringArray) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
