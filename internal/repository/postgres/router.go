package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/healthdesk/clinic-api/internal/model"
)

// StoreRouter maps the caller's role to one of four logically isolated
// store handles. Resolution is pure and happens per request; an unknown or
// missing role falls back to the default handle so unauthenticated requests
// stay routable to public endpoints.
type StoreRouter struct {
	fallback *sqlx.DB
	handles  map[model.Role]*sqlx.DB
}

func NewStoreRouter(fallback, admin, doctor, patient *sqlx.DB) *StoreRouter {
	return &StoreRouter{
		fallback: fallback,
		handles: map[model.Role]*sqlx.DB{
			model.RoleAdmin:   admin,
			model.RoleDoctor:  doctor,
			model.RolePatient: patient,
		},
	}
}

// For resolves the handle for the principal attached to ctx
func (r *StoreRouter) For(ctx context.Context) *sqlx.DB {
	return r.Resolve(model.PrincipalFromContext(ctx))
}

// Resolve picks the handle for a principal. Roles are checked in
// privilege order so a multi-role principal lands on its widest store.
func (r *StoreRouter) Resolve(p *model.Principal) *sqlx.DB {
	if p == nil {
		return r.fallback
	}
	for _, role := range []model.Role{model.RoleAdmin, model.RoleDoctor, model.RolePatient} {
		if p.HasRole(role) {
			return r.handles[role]
		}
	}
	return r.fallback
}

// Admin returns the widest handle directly, for background work that runs
// outside any request principal.
func (r *StoreRouter) Admin() *sqlx.DB {
	return r.handles[model.RoleAdmin]
}

// Close closes every distinct handle once
func (r *StoreRouter) Close() error {
	seen := map[*sqlx.DB]bool{r.fallback: true}
	err := r.fallback.Close()
	for _, db := range r.handles {
		if seen[db] {
			continue
		}
		seen[db] = true
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
