package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, email, name, password_hash, age, medical_flags, commute_patterns,
	notification_preferences, alert_preferences, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, age, medical_flags, commute_patterns,
			notification_preferences, alert_preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Name, u.PasswordHash, u.Age, u.MedicalFlags, u.CommutePatterns,
		u.NotificationPreferences, u.AlertPreferences)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+column+` = $1
	`, value)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// UpdateProfile applies the partial update in one UPDATE statement;
// NULL parameters fall through to the stored value via COALESCE, so the
// read-modify-write never spans multiple statements.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, in repository.ProfileUpdate) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET
			name = $2,
			age = COALESCE($3, age),
			medical_flags = COALESCE($4, medical_flags),
			commute_patterns = COALESCE($5, commute_patterns),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, in.Name, in.Age, in.MedicalFlags, in.CommutePatterns)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ReplacePreferences(ctx context.Context, userID string, notification, alert map[string]string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET
			notification_preferences = $2,
			alert_preferences = $3,
			updated_at = now()
		WHERE id = $1
	`, userID, notification, alert)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, u *entity.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Age,
		&u.MedicalFlags, &u.CommutePatterns,
		&u.NotificationPreferences, &u.AlertPreferences,
		&u.CreatedAt, &u.UpdatedAt)
}

var _ repository.UserRepository = (*UserRepository)(nil)
