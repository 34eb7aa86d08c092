package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

const transactionColumns = `id, from_user_id, to_user_id, amount, currency, status, gateway_order_id,
	gateway_payment_id, purpose, mentor_request_id, hire_id, created_at, updated_at`

type TransactionRepositoryAdapter struct {
	db         *sqlx.DB
	maxRetries int
}

func NewTransactionRepositoryAdapter(db *sqlx.DB, maxRetries int) *TransactionRepositoryAdapter {
	return &TransactionRepositoryAdapter{db: db, maxRetries: maxRetries}
}

func (r *TransactionRepositoryAdapter) Create(ctx context.Context, t *entity.Transaction) error {
	row := transactionRowFromEntity(t)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (:id, :from_user_id, :to_user_id, :amount, :currency, :status, :gateway_order_id,
			:gateway_payment_id, :purpose, :mentor_request_id, :hire_id, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, "") {
			return apperror.Wrap(err, apperror.ErrCodeConflict, "заказ шлюза уже привязан к другому платежу")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить платёж")
	}
	return nil
}

func (r *TransactionRepositoryAdapter) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*entity.Transaction, error) {
	var row transactionRow
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE gateway_order_id = $1`
	if err := r.db.GetContext(ctx, &row, query, gatewayOrderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить платёж")
	}
	return row.toEntity(), nil
}

// Confirm подтверждает платёж в одной транзакции. Строка платежа блокируется, поэтому
// параллельные подтверждения одного заказа выполняются по очереди.
func (r *TransactionRepositoryAdapter) Confirm(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*repository.ConfirmResult, error) {
	var result *repository.ConfirmResult

	err := withRetryingTransaction(ctx, r.db, r.maxRetries, func(tx *sqlx.Tx) error {
		result = nil

		var row transactionRow
		query := `SELECT ` + transactionColumns + ` FROM transactions WHERE gateway_order_id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &row, query, gatewayOrderID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrTransactionNotFound
			}
			return dbError(err, "не удалось заблокировать платёж")
		}

		t := row.toEntity()
		changed, err := t.MarkSucceeded(gatewayPaymentID)
		if err != nil {
			return err
		}
		if !changed {
			result = &repository.ConfirmResult{Transaction: t, Replayed: true}
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET status = 'success', gateway_payment_id = $2, updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
		`, t.ID, gatewayPaymentID); err != nil {
			return dbError(err, "не удалось обновить статус платежа")
		}

		result = &repository.ConfirmResult{Transaction: t}
		if t.Linked == nil {
			return nil
		}

		applied, err := markRequestPaid(ctx, tx, t.Linked.ID, t.ID)
		if err != nil {
			return err
		}
		if !applied {
			if err := insertOutbox(ctx, tx, t.ID, t.Linked.ID, "заявка не в статусе accepted на момент подтверждения"); err != nil {
				return err
			}
			result.Outboxed = true
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "не удалось подтвердить платёж")
	}
	return result, nil
}

func (r *TransactionRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.TransactionStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус платежа")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус платежа")
	}
	if n == 0 {
		return apperror.New(apperror.ErrCodeInvalidTransition, "платёж уже завершён")
	}
	return nil
}

func (r *TransactionRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	var rows []transactionRow
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить платежи")
	}
	result := make([]*entity.Transaction, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// markRequestPaid отмечает принятую неоплаченную заявку оплаченной. applied == false,
// если заявка уже не в статусе accepted или уже оплачена.
func markRequestPaid(ctx context.Context, tx *sqlx.Tx, requestID, transactionID uuid.UUID) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE requests
		SET paid = TRUE, transaction_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'accepted' AND NOT paid
	`, requestID, transactionID)
	if err != nil {
		return false, dbError(err, "не удалось отметить заявку оплаченной")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError(err, "не удалось отметить заявку оплаченной")
	}
	return n > 0, nil
}

func insertOutbox(ctx context.Context, tx *sqlx.Tx, transactionID, requestID uuid.UUID, reason string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO settlement_outbox (id, transaction_id, request_id, last_error)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (transaction_id) DO NOTHING
	`, uuid.New(), transactionID, requestID, reason)
	return dbError(err, "не удалось записать отложенную отметку об оплате")
}

type transactionRow struct {
	ID               uuid.UUID       `db:"id"`
	FromUserID       uuid.UUID       `db:"from_user_id"`
	ToUserID         uuid.UUID       `db:"to_user_id"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	Status           string          `db:"status"`
	GatewayOrderID   string          `db:"gateway_order_id"`
	GatewayPaymentID sql.NullString  `db:"gateway_payment_id"`
	Purpose          string          `db:"purpose"`
	MentorRequestID  uuid.NullUUID   `db:"mentor_request_id"`
	HireID           uuid.NullUUID   `db:"hire_id"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func transactionRowFromEntity(t *entity.Transaction) transactionRow {
	row := transactionRow{
		ID:             t.ID,
		FromUserID:     t.FromUserID,
		ToUserID:       t.ToUserID,
		Amount:         t.Amount.Amount,
		Currency:       t.Amount.Currency,
		Status:         string(t.Status),
		GatewayOrderID: t.GatewayOrderID,
		Purpose:        t.Purpose,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.GatewayPaymentID != "" {
		row.GatewayPaymentID = sql.NullString{String: t.GatewayPaymentID, Valid: true}
	}
	if t.Linked != nil {
		link := uuid.NullUUID{UUID: t.Linked.ID, Valid: true}
		if t.Linked.Kind == valueobject.KindMentor {
			row.MentorRequestID = link
		} else {
			row.HireID = link
		}
	}
	return row
}

func (r *transactionRow) toEntity() *entity.Transaction {
	t := &entity.Transaction{
		ID:               r.ID,
		FromUserID:       r.FromUserID,
		ToUserID:         r.ToUserID,
		Amount:           valueobject.Money{Amount: r.Amount, Currency: r.Currency},
		Status:           valueobject.TransactionStatus(r.Status),
		GatewayOrderID:   r.GatewayOrderID,
		GatewayPaymentID: r.GatewayPaymentID.String,
		Purpose:          r.Purpose,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	switch {
	case r.MentorRequestID.Valid:
		t.Linked = &entity.LinkedRequest{Kind: valueobject.KindMentor, ID: r.MentorRequestID.UUID}
	case r.HireID.Valid:
		t.Linked = &entity.LinkedRequest{Kind: valueobject.KindHiring, ID: r.HireID.UUID}
	}
	return t
}
