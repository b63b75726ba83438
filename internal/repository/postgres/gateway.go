package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/healthdesk/clinic-api/internal/repository"
	"github.com/healthdesk/clinic-api/pkg/apperror"
)

// gateway implements repository.Gateway over one table. Conditional
// operations are single statements, so the row match and the mutation are
// one atomic step; this is the only concurrency-control primitive the
// repositories build on.
type gateway[T any] struct {
	router *StoreRouter
	table  string
	entity string
	cols   []string
}

func newGateway[T any](router *StoreRouter, table, entity string, cols ...string) *gateway[T] {
	return &gateway[T]{router: router, table: table, entity: entity, cols: cols}
}

func (g *gateway[T]) selectList() string {
	return strings.Join(g.cols, ", ")
}

func (g *gateway[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", g.selectList(), g.table)

	var entity T
	if err := sqlx.GetContext(ctx, g.router.For(ctx), &entity, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(g.entity, err)
		}
		return nil, fmt.Errorf("failed to get %s: %w", g.entity, err)
	}
	return &entity, nil
}

func (g *gateway[T]) FindMany(ctx context.Context, filter repository.Filter) ([]*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", g.selectList(), g.table)

	var args []interface{}
	var clauses []string
	for _, p := range filter {
		switch p.Op {
		case repository.OpIn:
			args = append(args, pq.Array(p.Value))
			clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", p.Field, len(args)))
		default:
			args = append(args, p.Value)
			clauses = append(clauses, fmt.Sprintf("%s %s $%d", p.Field, p.Op, len(args)))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC"

	var entities []*T
	if err := sqlx.SelectContext(ctx, g.router.For(ctx), &entities, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", g.entity, err)
	}
	return entities, nil
}

// Save inserts the entity, or fully replaces it when the id already exists
func (g *gateway[T]) Save(ctx context.Context, entity *T) (*T, error) {
	var placeholders, updates []string
	for _, col := range g.cols {
		placeholders = append(placeholders, ":"+col)
		if col == "id" || col == "created_at" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s RETURNING %s",
		g.table,
		strings.Join(g.cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
		g.selectList(),
	)

	rows, err := sqlx.NamedQueryContext(ctx, g.router.For(ctx), query, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", g.entity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", g.entity, err)
		}
		return nil, fmt.Errorf("failed to save %s: no row returned", g.entity)
	}

	var saved T
	if err := rows.StructScan(&saved); err != nil {
		return nil, fmt.Errorf("failed to scan saved %s: %w", g.entity, err)
	}
	return &saved, nil
}

func (g *gateway[T]) ConditionalUpdate(ctx context.Context, id uuid.UUID, criteria, patch map[string]interface{}) (*T, error) {
	return condUpdate[T](ctx, g.router.For(ctx), g.table, g.entity, g.cols, id, criteria, patch)
}

func (g *gateway[T]) ConditionalDelete(ctx context.Context, id uuid.UUID, criteria map[string]interface{}) (*T, error) {
	return condDelete[T](ctx, g.router.For(ctx), g.table, g.entity, g.cols, id, criteria)
}

// condUpdate applies patch only to the row matching id AND criteria and
// returns the post-image. It works against a plain handle or a transaction.
func condUpdate[T any](ctx context.Context, q sqlx.ExtContext, table, entity string, cols []string, id uuid.UUID, criteria, patch map[string]interface{}) (*T, error) {
	var args []interface{}
	var sets []string
	for _, key := range sortedKeys(patch) {
		args = append(args, patch[key])
		sets = append(sets, fmt.Sprintf("%s = $%d", key, len(args)))
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	where := []string{fmt.Sprintf("id = $%d", len(args))}
	for _, key := range sortedKeys(criteria) {
		args = append(args, criteria[key])
		where = append(where, fmt.Sprintf("%s = $%d", key, len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		table, strings.Join(sets, ", "), strings.Join(where, " AND "), strings.Join(cols, ", "))

	var updated T
	if err := q.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(entity, err)
		}
		return nil, fmt.Errorf("failed to update %s: %w", entity, err)
	}
	return &updated, nil
}

// condDelete removes the row matching id AND criteria and returns it
func condDelete[T any](ctx context.Context, q sqlx.ExtContext, table, entity string, cols []string, id uuid.UUID, criteria map[string]interface{}) (*T, error) {
	args := []interface{}{id}
	where := []string{"id = $1"}
	for _, key := range sortedKeys(criteria) {
		args = append(args, criteria[key])
		where = append(where, fmt.Sprintf("%s = $%d", key, len(args)))
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s RETURNING %s",
		table, strings.Join(where, " AND "), strings.Join(cols, ", "))

	var deleted T
	if err := q.QueryRowxContext(ctx, query, args...).StructScan(&deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(entity, err)
		}
		return nil, fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	return &deleted, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
