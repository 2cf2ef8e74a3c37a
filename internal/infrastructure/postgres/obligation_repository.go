package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

var _ repository.ObligationRepository = (*ObligationRepo)(nil)

// ObligationRepo implementación de ObligationRepository (usable con pool o tx).
type ObligationRepo struct {
	q Querier
}

// NewObligationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewObligationRepository(q Querier) *ObligationRepo {
	return &ObligationRepo{q: q}
}

const obligationColumns = `id, group_id, name, description, frequency, day_deadline,
	month_deadline, period_months, initial_generation_date, final_generation_date,
	months_advanced, generate_automatic_tasks, version, last_competence,
	last_year_month_qt, created_at, updated_at`

// Create persiste la obligación.
func (r *ObligationRepo) Create(o *entity.Obligation) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	query := `
		INSERT INTO obligations (` + obligationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.GroupID, o.Name, nullIfEmpty(o.Description), o.Frequency,
		o.DayDeadline, o.MonthDeadline, o.PeriodMonths,
		o.InitialGenerationDate, o.FinalGenerationDate,
		o.MonthsAdvanced, o.GenerateAutomaticTasks, o.Version,
		nullIfEmpty(o.LastCompetence), nullIfEmpty(o.LastYearMonthQT),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert obligation: %w", err)
	}
	return nil
}

// Update actualiza la configuración de la obligación (incluida la versión).
func (r *ObligationRepo) Update(o *entity.Obligation) error {
	query := `
		UPDATE obligations
		SET name                     = $2,
		    description              = $3,
		    frequency                = $4,
		    day_deadline             = $5,
		    month_deadline           = $6,
		    period_months            = $7,
		    initial_generation_date  = $8,
		    final_generation_date    = $9,
		    months_advanced          = $10,
		    generate_automatic_tasks = $11,
		    version                  = $12,
		    updated_at               = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Name, nullIfEmpty(o.Description), o.Frequency,
		o.DayDeadline, o.MonthDeadline, o.PeriodMonths,
		o.InitialGenerationDate, o.FinalGenerationDate,
		o.MonthsAdvanced, o.GenerateAutomaticTasks, o.Version, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update obligation: %w", err)
	}
	return nil
}

// GetByID obtiene una obligación por ID.
func (r *ObligationRepo) GetByID(id string) (*entity.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE id = $1`
	o, err := scanObligation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// ListAutomatic devuelve las obligaciones con generación automática activada
// y ventana de generación todavía abierta a la fecha dada.
func (r *ObligationRepo) ListAutomatic(now time.Time) ([]*entity.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE generate_automatic_tasks = true
		  AND (final_generation_date IS NULL OR final_generation_date >= $1)
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, now)
	if err != nil {
		return nil, fmt.Errorf("list automatic obligations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateHighWater actualiza solo las marcas informativas de última generación.
func (r *ObligationRepo) UpdateHighWater(id, lastCompetence, lastYearMonthQT string) error {
	query := `
		UPDATE obligations
		SET last_competence    = COALESCE($2, last_competence),
		    last_year_month_qt = COALESCE($3, last_year_month_qt)
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, nullIfEmpty(lastCompetence), nullIfEmpty(lastYearMonthQT))
	if err != nil {
		return fmt.Errorf("update obligation high water: %w", err)
	}
	return nil
}

func scanObligation(row pgx.Row) (*entity.Obligation, error) {
	var o entity.Obligation
	var description, lastCompetence, lastYearMonthQT *string
	err := row.Scan(
		&o.ID, &o.GroupID, &o.Name, &description, &o.Frequency,
		&o.DayDeadline, &o.MonthDeadline, &o.PeriodMonths,
		&o.InitialGenerationDate, &o.FinalGenerationDate,
		&o.MonthsAdvanced, &o.GenerateAutomaticTasks, &o.Version,
		&lastCompetence, &lastYearMonthQT, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan obligation: %w", err)
	}
	o.Description = derefStr(description)
	o.LastCompetence = derefStr(lastCompetence)
	o.LastYearMonthQT = derefStr(lastYearMonthQT)
	return &o, nil
}
