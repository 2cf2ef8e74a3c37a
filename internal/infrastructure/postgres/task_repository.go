package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación de TaskRepository (usable con pool o tx).
//
// La tabla tasks lleva un unique parcial sobre (cause_id, company_id,
// competency) WHERE deleted = false AND task_corrected IS NULL: una sola
// tarea viva por tripleta, con las rectificaciones exentas porque comparten
// competencia con su predecesora por diseño.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `id, group_id, company_id, title, description, competency, deadline,
	status, cause_id, cause_version, task_corrected, responsible, percent,
	delayed_days, dynamic_fields, flowchart_fields, deleted, created_at, updated_at`

// Create persiste la tarea. Una violación del unique por competencia se
// traduce a ErrDuplicateTask para que el caso de uso reintente el plan.
func (r *TaskRepo) Create(t *entity.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	dynamic, err := marshalFields(t.DynamicFields)
	if err != nil {
		return err
	}
	flowchart, err := marshalFields(t.FlowchartFields)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err = r.q.Exec(context.Background(), query,
		t.ID, t.GroupID, t.CompanyID, t.Title, nullIfEmpty(t.Description),
		t.Competency, t.Deadline, t.Status, t.CauseID, t.CauseVersion,
		t.TaskCorrected, t.Responsible, t.Percent, t.DelayedDays,
		dynamic, flowchart, t.Deleted, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s/%s", domain.ErrDuplicateTask, t.CauseID, t.CompanyID, t.Competency)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update actualiza los campos mutables de la tarea.
func (r *TaskRepo) Update(t *entity.Task) error {
	dynamic, err := marshalFields(t.DynamicFields)
	if err != nil {
		return err
	}
	flowchart, err := marshalFields(t.FlowchartFields)
	if err != nil {
		return err
	}
	query := `
		UPDATE tasks
		SET title            = $2,
		    description      = $3,
		    deadline         = $4,
		    status           = $5,
		    responsible      = $6,
		    percent          = $7,
		    delayed_days     = $8,
		    dynamic_fields   = $9,
		    flowchart_fields = $10,
		    deleted          = $11,
		    updated_at       = $12
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		t.ID, t.Title, nullIfEmpty(t.Description), t.Deadline, t.Status,
		t.Responsible, t.Percent, t.DelayedDays, dynamic, flowchart,
		t.Deleted, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// FindByCompetency busca la tarea viva para (obligación, empresa, competencia).
// Cualquier estado cuenta; con cadena de rectificaciones devuelve la más antigua
// (la original), suficiente para decidir existencia.
func (r *TaskRepo) FindByCompetency(obligationID, companyID, competency string) (*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE cause_id = $1 AND company_id = $2 AND competency = $3 AND deleted = false
		ORDER BY created_at
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, obligationID, companyID, competency))
}

// GetByID obtiene una tarea por ID (incluye borradas; el caso de uso decide).
func (r *TaskRepo) GetByID(id string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// ListByGroup lista las tareas vivas del grupo, más recientes primero.
func (r *TaskRepo) ListByGroup(groupID string, limit, offset int) ([]*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE group_id = $1 AND deleted = false
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TaskRepo) scanOne(row pgx.Row) (*entity.Task, error) {
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var description *string
	var dynamic, flowchart []byte
	err := row.Scan(
		&t.ID, &t.GroupID, &t.CompanyID, &t.Title, &description,
		&t.Competency, &t.Deadline, &t.Status, &t.CauseID, &t.CauseVersion,
		&t.TaskCorrected, &t.Responsible, &t.Percent, &t.DelayedDays,
		&dynamic, &flowchart, &t.Deleted, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Description = derefStr(description)
	if t.DynamicFields, err = unmarshalFields(dynamic); err != nil {
		return nil, err
	}
	if t.FlowchartFields, err = unmarshalFields(flowchart); err != nil {
		return nil, err
	}
	return &t, nil
}

// Los campos dinámicos viajan como JSONB; el dominio usa la variante tipada.
func marshalFields(m entity.FieldMap) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal dynamic fields: %w", err)
	}
	return b, nil
}

func unmarshalFields(b []byte) (entity.FieldMap, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var m entity.FieldMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal dynamic fields: %w", err)
	}
	return m, nil
}
