package correction_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Obligaciones-api/internal/application/correction"
	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeTaskRepo struct {
	tasks map[string]*entity.Task
}

func (r *fakeTaskRepo) FindByCompetency(obligationID, companyID, competency string) (*entity.Task, error) {
	for _, t := range r.tasks {
		if t.CauseID == obligationID && t.CompanyID == companyID && t.Competency == competency && !t.Deleted {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTaskRepo) Create(t *entity.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Update(t *entity.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) ListByGroup(groupID string, limit, offset int) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, t := range r.tasks {
		if t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeDocRepo struct {
	docs []*entity.Document
}

func (r *fakeDocRepo) CreateBatch(docs []*entity.Document) error {
	r.docs = append(r.docs, docs...)
	return nil
}

func (r *fakeDocRepo) ListByTask(taskID string) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.docs {
		if d.TaskID == taskID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) CreateSignatures(sigs []*entity.ApproverSignature) error { return nil }

type fakeTimelineRepo struct {
	entries []*entity.TimelineEntry
}

func (r *fakeTimelineRepo) Append(e *entity.TimelineEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

type fakeTxRunner struct {
	taskRepo     *fakeTaskRepo
	docRepo      *fakeDocRepo
	timelineRepo *fakeTimelineRepo
}

func (tr *fakeTxRunner) RunCorrection(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	docRepo repository.DocumentRepository,
	timelineRepo repository.TimelineRepository,
) error) error {
	return fn(tr.taskRepo, tr.docRepo, tr.timelineRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	groupA   = "group-a"
	userID   = "user-gestor"
	taskID   = "task-original"
	causeIVA = "obligation-iva"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture() (*fakeTxRunner, *correction.CorrectTaskUseCase) {
	tr := &fakeTxRunner{
		taskRepo:     &fakeTaskRepo{tasks: map[string]*entity.Task{}},
		docRepo:      &fakeDocRepo{},
		timelineRepo: &fakeTimelineRepo{},
	}
	return tr, correction.NewCorrectTaskUseCase(tr)
}

func originalTask() *entity.Task {
	return &entity.Task{
		ID:           taskID,
		GroupID:      groupA,
		CompanyID:    "company-x",
		Title:        "Declaración IVA 2025-01",
		Competency:   "2025-01",
		Deadline:     date(2025, time.January, 15),
		Status:       entity.TaskStatusFinished,
		CauseID:      causeIVA,
		CauseVersion: 3,
		Percent:      decimal.NewFromInt(100),
		DynamicFields: entity.FieldMap{
			"radicado": {Kind: entity.FieldText, Text: "2025-000123"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCorrect_CreaSucesoraEnlazada(t *testing.T) {
	tr, uc := newFixture()
	require.NoError(t, tr.taskRepo.Create(originalTask()))
	tr.docRepo.docs = []*entity.Document{
		{
			ID: "doc-1", TaskID: taskID, DocumentTypeID: "type-1",
			Name: "Borrador declaración", EstimatedDays: 2,
			Status: entity.DocumentStatusApproved, DocumentPath: "/files/doc-1.pdf",
		},
	}

	now := date(2025, time.February, 1)
	successor, err := uc.Correct(context.Background(), groupA, taskID, userID, date(2025, time.February, 20), now)
	require.NoError(t, err)
	require.NotNil(t, successor)

	// La sucesora arranca limpia pero hereda identidad y versión fijada.
	assert.NotEqual(t, taskID, successor.ID)
	assert.Equal(t, entity.TaskStatusNew, successor.Status)
	assert.True(t, successor.Percent.IsZero())
	assert.Equal(t, "2025-01", successor.Competency, "la competencia se conserva")
	assert.Equal(t, 3, successor.CauseVersion, "la versión de plantilla fijada se conserva")
	assert.Equal(t, date(2025, time.February, 20), successor.Deadline)
	require.NotNil(t, successor.TaskCorrected)
	assert.Equal(t, taskID, *successor.TaskCorrected, "enlace simple hijo -> padre")
	assert.Equal(t, "2025-000123", successor.DynamicFields["radicado"].Text)

	// La original queda rectificada.
	original, _ := tr.taskRepo.GetByID(taskID)
	assert.Equal(t, entity.TaskStatusRectified, original.Status)

	// Documentos clonados en limpio: sin path, sin aprobación arrastrada.
	clones, _ := tr.docRepo.ListByTask(successor.ID)
	require.Len(t, clones, 1)
	assert.Equal(t, entity.DocumentStatusUnstarted, clones[0].Status)
	assert.Empty(t, clones[0].DocumentPath)
	assert.Equal(t, "Borrador declaración", clones[0].Name)

	// Dos entradas de timeline: rectificación en la original, creación en la sucesora.
	require.Len(t, tr.timelineRepo.entries, 2)
	assert.Equal(t, entity.TimelineTaskRectified, tr.timelineRepo.entries[0].Event)
	assert.Equal(t, entity.TimelineCreatedTask, tr.timelineRepo.entries[1].Event)
}

// Cadena A -> B -> C: cada rectificación apunta a su predecesora inmediata.
func TestCorrect_CadenaDeRectificaciones(t *testing.T) {
	tr, uc := newFixture()
	require.NoError(t, tr.taskRepo.Create(originalTask()))

	now := date(2025, time.February, 1)
	b, err := uc.Correct(context.Background(), groupA, taskID, userID, date(2025, time.February, 20), now)
	require.NoError(t, err)

	c, err := uc.Correct(context.Background(), groupA, b.ID, userID, date(2025, time.March, 10), now)
	require.NoError(t, err)

	assert.Equal(t, taskID, *b.TaskCorrected)
	assert.Equal(t, b.ID, *c.TaskCorrected)

	bPersisted, _ := tr.taskRepo.GetByID(b.ID)
	assert.Equal(t, entity.TaskStatusRectified, bPersisted.Status)
	cPersisted, _ := tr.taskRepo.GetByID(c.ID)
	assert.Equal(t, entity.TaskStatusNew, cPersisted.Status)
}

func TestCorrect_FechaNoFutura_Rechaza(t *testing.T) {
	tr, uc := newFixture()
	require.NoError(t, tr.taskRepo.Create(originalTask()))
	now := date(2025, time.February, 1)

	// Mismo día: no es estrictamente posterior.
	_, err := uc.Correct(context.Background(), groupA, taskID, userID, now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidDeadline)

	// Pasada.
	_, err = uc.Correct(context.Background(), groupA, taskID, userID, date(2025, time.January, 10), now)
	assert.ErrorIs(t, err, domain.ErrInvalidDeadline)

	// El rechazo ocurre antes de mutar nada.
	original, _ := tr.taskRepo.GetByID(taskID)
	assert.Equal(t, entity.TaskStatusFinished, original.Status)
	assert.Empty(t, tr.timelineRepo.entries)
}

func TestCorrect_TareaYaRectificada_Rechaza(t *testing.T) {
	tr, uc := newFixture()
	require.NoError(t, tr.taskRepo.Create(originalTask()))
	now := date(2025, time.February, 1)

	_, err := uc.Correct(context.Background(), groupA, taskID, userID, date(2025, time.February, 20), now)
	require.NoError(t, err)

	// Rectificar dos veces la misma tarea está prohibido: ya tiene sucesora.
	_, err = uc.Correct(context.Background(), groupA, taskID, userID, date(2025, time.March, 1), now)
	assert.ErrorIs(t, err, domain.ErrTaskRectified)
}

func TestCorrect_TareaDeOtroGrupo_Rechaza(t *testing.T) {
	tr, uc := newFixture()
	require.NoError(t, tr.taskRepo.Create(originalTask()))

	_, err := uc.Correct(context.Background(), "group-b", taskID, userID,
		date(2025, time.February, 20), date(2025, time.February, 1))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCorrect_TareaInexistente(t *testing.T) {
	_, uc := newFixture()
	_, err := uc.Correct(context.Background(), groupA, "task-fantasma", userID,
		date(2025, time.February, 20), date(2025, time.February, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
