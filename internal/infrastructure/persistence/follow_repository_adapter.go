package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type FollowRepositoryAdapter struct {
	db         *sqlx.DB
	maxRetries int
}

func NewFollowRepositoryAdapter(db *sqlx.DB, maxRetries int) *FollowRepositoryAdapter {
	return &FollowRepositoryAdapter{db: db, maxRetries: maxRetries}
}

// UpdatePair блокирует строки обоих пользователей в порядке id, поэтому встречные
// подписки A->B и B->A не взаимоблокируются. Записываются только изменённые колонки:
// followers у target и following у actor.
func (r *FollowRepositoryAdapter) UpdatePair(ctx context.Context, actorID, targetID uuid.UUID, fn func(actor, target *entity.User) error) error {
	err := withRetryingTransaction(ctx, r.db, r.maxRetries, func(tx *sqlx.Tx) error {
		first, second := actorID, targetID
		if first.String() > second.String() {
			first, second = second, first
		}

		locked := make(map[uuid.UUID]*entity.User, 2)
		for _, id := range []uuid.UUID{first, second} {
			u, err := lockGraphRow(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = u
		}

		actor, target := locked[actorID], locked[targetID]
		if err := fn(actor, target); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET followers = $2::uuid[], updated_at = NOW() WHERE id = $1`,
			target.ID, uuidStrings(target.Followers)); err != nil {
			return dbError(err, "не удалось обновить подписчиков")
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET following = $2::uuid[], updated_at = NOW() WHERE id = $1`,
			actor.ID, uuidStrings(actor.Following)); err != nil {
			return dbError(err, "не удалось обновить подписки")
		}
		return nil
	})
	return dbError(err, "не удалось изменить подписку")
}

func (r *FollowRepositoryAdapter) Profiles(ctx context.Context, ids []uuid.UUID) ([]entity.FollowProfile, error) {
	if len(ids) == 0 {
		return []entity.FollowProfile{}, nil
	}

	var rows []followProfileRow
	query := `SELECT id, name, email, image, role, title FROM users WHERE id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &rows, query, uuidStrings(ids)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профили")
	}
	return orderProfiles(ids, rows), nil
}

func lockGraphRow(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.User, error) {
	var row struct {
		ID        uuid.UUID      `db:"id"`
		Followers pq.StringArray `db:"followers"`
		Following pq.StringArray `db:"following"`
	}
	err := tx.GetContext(ctx, &row, `SELECT id, followers, following FROM users WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, dbError(err, "не удалось заблокировать пользователя")
	}
	return &entity.User{
		ID:        row.ID,
		Followers: parseUUIDs(row.Followers),
		Following: parseUUIDs(row.Following),
	}, nil
}

type followProfileRow struct {
	ID    uuid.UUID `db:"id"`
	Name  string    `db:"name"`
	Email string    `db:"email"`
	Image string    `db:"image"`
	Role  string    `db:"role"`
	Title string    `db:"title"`
}

// orderProfiles раскладывает строки в порядке ids, пропуская удалённых пользователей.
func orderProfiles(ids []uuid.UUID, rows []followProfileRow) []entity.FollowProfile {
	byID := make(map[uuid.UUID]followProfileRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	out := make([]entity.FollowProfile, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, entity.FollowProfile{
			ID:    row.ID,
			Name:  row.Name,
			Email: row.Email,
			Image: row.Image,
			Role:  row.Role,
			Title: row.Title,
		})
	}
	return out
}
