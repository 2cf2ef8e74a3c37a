package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

var _ repository.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implementación de GroupRepository (usable con pool o tx).
type GroupRepo struct {
	q Querier
}

// NewGroupRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGroupRepository(q Querier) *GroupRepo {
	return &GroupRepo{q: q}
}

// Create persiste el grupo.
func (r *GroupRepo) Create(g *entity.Group) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	query := `
		INSERT INTO groups (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, g.ID, g.Name, g.Status, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// GetByID obtiene un grupo por ID.
func (r *GroupRepo) GetByID(id string) (*entity.Group, error) {
	query := `SELECT id, name, status, created_at, updated_at FROM groups WHERE id = $1`
	var g entity.Group
	err := r.q.QueryRow(context.Background(), query, id).Scan(&g.ID, &g.Name, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}
