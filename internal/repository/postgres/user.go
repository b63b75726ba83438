package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/pkg/apperror"
)

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.FindByID(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", r.selectList())

	var user model.User
	if err := sqlx.GetContext(ctx, r.router.For(ctx), &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.FindMany(ctx, nil)
}

func (r *userRepository) SetRefreshTokenID(ctx context.Context, id uuid.UUID, jti string) error {
	_, err := r.ConditionalUpdate(ctx, id, nil, map[string]interface{}{
		"jwt_id":        jti,
		"last_login_at": time.Now(),
	})
	return err
}
