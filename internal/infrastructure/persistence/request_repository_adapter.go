package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

const requestColumns = `id, kind, initiator_id, counterparty_id, status, paid, transaction_id,
	role, rate, duration, message, offered_rate, offered_skills, requested_skills, created_at, updated_at`

type RequestRepositoryAdapter struct {
	db         *sqlx.DB
	maxRetries int
}

func NewRequestRepositoryAdapter(db *sqlx.DB, maxRetries int) *RequestRepositoryAdapter {
	return &RequestRepositoryAdapter{db: db, maxRetries: maxRetries}
}

func (r *RequestRepositoryAdapter) Create(ctx context.Context, req *entity.Request) error {
	row := requestRowFromEntity(req)
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES (:id, :kind, :initiator_id, :counterparty_id, :status, :paid, :transaction_id,
			:role, :rate, :duration, :message, :offered_rate, :offered_skills, :requested_skills, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, pendingRequestUniqueName) {
			return apperror.ErrDuplicatePending
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заявку")
	}
	return nil
}

func (r *RequestRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	var row requestRow
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrRequestNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку")
	}
	return row.toEntity()
}

func (r *RequestRepositoryAdapter) ExistsPending(ctx context.Context, initiatorID, counterpartyID uuid.UUID, kind valueobject.RequestKind) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM requests
			WHERE initiator_id = $1 AND counterparty_id = $2 AND kind = $3 AND status = 'pending'
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, initiatorID, counterpartyID, string(kind)); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить заявки")
	}
	return exists, nil
}

func (r *RequestRepositoryAdapter) Transition(ctx context.Context, id uuid.UUID, from, to valueobject.RequestStatus) error {
	err := retry(ctx, r.maxRetries, func() error {
		return transitionRequest(ctx, r.db, id, from, to)
	})
	return dbError(err, "не удалось обновить статус заявки")
}

// AcceptSkillExchange переводит обмен в accepted и добавляет навыки сторонам в одной транзакции.
// Получатель получает предложенные навыки, инициатор запрошенные.
func (r *RequestRepositoryAdapter) AcceptSkillExchange(ctx context.Context, req *entity.Request) error {
	terms, ok := req.Terms.(entity.SkillExchangeTerms)
	if !ok {
		return apperror.New(apperror.ErrCodeInvalidArgument, "заявка не является обменом навыками")
	}

	err := withRetryingTransaction(ctx, r.db, r.maxRetries, func(tx *sqlx.Tx) error {
		if err := transitionRequest(ctx, tx, req.ID, valueobject.RequestStatusPending, valueobject.RequestStatusAccepted); err != nil {
			return err
		}
		// Пользователей обновляем в порядке id, как и граф подписок.
		updates := []struct {
			userID uuid.UUID
			skills []string
		}{
			{req.CounterpartyID, terms.OfferedSkills},
			{req.InitiatorID, terms.RequestedSkills},
		}
		if strings.Compare(updates[0].userID.String(), updates[1].userID.String()) > 0 {
			updates[0], updates[1] = updates[1], updates[0]
		}
		for _, u := range updates {
			if err := mergeSkills(ctx, tx, u.userID, u.skills); err != nil {
				return err
			}
		}
		return nil
	})
	return dbError(err, "не удалось принять обмен навыками")
}

func (r *RequestRepositoryAdapter) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.Request, error) {
	where := []string{"kind = $1"}
	args := []interface{}{string(filter.Kind), filter.OwnerID}

	switch filter.Direction {
	case valueobject.DirectionSent:
		where = append(where, "initiator_id = $2")
	case valueobject.DirectionReceived:
		where = append(where, "counterparty_id = $2")
	default:
		where = append(where, "(initiator_id = $2 OR counterparty_id = $2)")
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + requestColumns + ` FROM requests WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявки")
	}

	result := make([]*entity.Request, 0, len(rows))
	for i := range rows {
		req, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, nil
}

// transitionRequest выполняет условное обновление статуса. Ноль затронутых строк значит, что заявку
// уже перевели конкурентно.
func transitionRequest(ctx context.Context, exec sqlx.ExecerContext, id uuid.UUID, from, to valueobject.RequestStatus) error {
	res, err := exec.ExecContext(ctx,
		`UPDATE requests SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return dbError(err, "не удалось обновить статус заявки")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err, "не удалось обновить статус заявки")
	}
	if n == 0 {
		return entity.InvalidTransition(from, to)
	}
	return nil
}

func mergeSkills(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, skills []string) error {
	if len(skills) == 0 {
		return nil
	}
	query := `
		UPDATE users
		SET skills = skills || ARRAY(
				SELECT DISTINCT s FROM unnest($2::text[]) AS s WHERE NOT (s = ANY(skills))
			),
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query, userID, pq.StringArray(skills))
	if err != nil {
		return dbError(err, "не удалось обновить навыки пользователя")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}

type requestRow struct {
	ID              uuid.UUID           `db:"id"`
	Kind            string              `db:"kind"`
	InitiatorID     uuid.UUID           `db:"initiator_id"`
	CounterpartyID  uuid.UUID           `db:"counterparty_id"`
	Status          string              `db:"status"`
	Paid            bool                `db:"paid"`
	TransactionID   uuid.NullUUID       `db:"transaction_id"`
	Role            sql.NullString      `db:"role"`
	Rate            decimal.NullDecimal `db:"rate"`
	Duration        sql.NullString      `db:"duration"`
	Message         sql.NullString      `db:"message"`
	OfferedRate     decimal.NullDecimal `db:"offered_rate"`
	OfferedSkills   pq.StringArray      `db:"offered_skills"`
	RequestedSkills pq.StringArray      `db:"requested_skills"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at"`
}

func requestRowFromEntity(req *entity.Request) requestRow {
	row := requestRow{
		ID:             req.ID,
		Kind:           string(req.Kind()),
		InitiatorID:    req.InitiatorID,
		CounterpartyID: req.CounterpartyID,
		Status:         string(req.Status),
		Paid:           req.Paid,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}
	if req.TransactionID != nil {
		row.TransactionID = uuid.NullUUID{UUID: *req.TransactionID, Valid: true}
	}

	switch t := req.Terms.(type) {
	case entity.HiringTerms:
		row.Role = sql.NullString{String: string(t.Role), Valid: true}
		row.Rate = decimal.NewNullDecimal(t.Rate)
		row.Duration = sql.NullString{String: t.Duration, Valid: true}
		row.Message = sql.NullString{String: t.Message, Valid: true}
	case entity.MentorTerms:
		row.OfferedRate = decimal.NewNullDecimal(t.OfferedRate)
		row.Message = sql.NullString{String: t.Message, Valid: true}
	case entity.SkillExchangeTerms:
		row.OfferedSkills = pq.StringArray(t.OfferedSkills)
		row.RequestedSkills = pq.StringArray(t.RequestedSkills)
	}
	return row
}

func (r *requestRow) toEntity() (*entity.Request, error) {
	kind, err := valueobject.NewRequestKind(r.Kind)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "в базе заявка неизвестного типа")
	}

	var terms entity.Terms
	switch kind {
	case valueobject.KindHiring:
		terms = entity.HiringTerms{
			Role:     valueobject.HiringRole(r.Role.String),
			Rate:     r.Rate.Decimal,
			Duration: r.Duration.String,
			Message:  r.Message.String,
		}
	case valueobject.KindMentor:
		terms = entity.MentorTerms{
			OfferedRate: r.OfferedRate.Decimal,
			Message:     r.Message.String,
		}
	case valueobject.KindSkillExchange:
		terms = entity.SkillExchangeTerms{
			OfferedSkills:   []string(r.OfferedSkills),
			RequestedSkills: []string(r.RequestedSkills),
		}
	}

	req := &entity.Request{
		ID:             r.ID,
		InitiatorID:    r.InitiatorID,
		CounterpartyID: r.CounterpartyID,
		Terms:          terms,
		Status:         valueobject.RequestStatus(r.Status),
		Paid:           r.Paid,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.TransactionID.Valid {
		id := r.TransactionID.UUID
		req.TransactionID = &id
	}
	return req, nil
}
