package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

const userColumns = `id, name, email, image, title, role, mentor_rate, developer_rate, skills, followers, following`

type UserRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUserRepositoryAdapter(db *sqlx.DB) *UserRepositoryAdapter {
	return &UserRepositoryAdapter{db: db}
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}

func (r *UserRepositoryAdapter) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	result := make(map[uuid.UUID]*entity.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &rows, query, uuidStrings(ids)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователей")
	}
	for i := range rows {
		u := rows[i].toEntity()
		result[u.ID] = u
	}
	return result, nil
}

type userRow struct {
	ID            uuid.UUID       `db:"id"`
	Name          string          `db:"name"`
	Email         string          `db:"email"`
	Image         string          `db:"image"`
	Title         string          `db:"title"`
	Role          string          `db:"role"`
	MentorRate    decimal.Decimal `db:"mentor_rate"`
	DeveloperRate decimal.Decimal `db:"developer_rate"`
	Skills        pq.StringArray  `db:"skills"`
	Followers     pq.StringArray  `db:"followers"`
	Following     pq.StringArray  `db:"following"`
}

func (u *userRow) toEntity() *entity.User {
	return &entity.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Image:         u.Image,
		Title:         u.Title,
		Role:          u.Role,
		MentorRate:    valueobject.NewRate(u.MentorRate),
		DeveloperRate: valueobject.NewRate(u.DeveloperRate),
		Skills:        []string(u.Skills),
		Followers:     parseUUIDs(u.Followers),
		Following:     parseUUIDs(u.Following),
	}
}
