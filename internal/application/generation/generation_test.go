package generation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/application/generation"
	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
	"github.com/jhoicas/Obligaciones-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeTaskRepo struct {
	tasks []*entity.Task
}

func (r *fakeTaskRepo) FindByCompetency(obligationID, companyID, competency string) (*entity.Task, error) {
	var found *entity.Task
	for _, t := range r.tasks {
		if t.CauseID == obligationID && t.CompanyID == companyID && t.Competency == competency && !t.Deleted {
			if found == nil || t.CreatedAt.Before(found.CreatedAt) {
				found = t
			}
		}
	}
	return found, nil
}

func (r *fakeTaskRepo) Create(t *entity.Task) error {
	// Mismo unique parcial que la tabla: una tarea viva por tripleta,
	// excluyendo rectificaciones.
	for _, existing := range r.tasks {
		if existing.CauseID == t.CauseID && existing.CompanyID == t.CompanyID &&
			existing.Competency == t.Competency && !existing.Deleted &&
			existing.TaskCorrected == nil && t.TaskCorrected == nil {
			return domain.ErrDuplicateTask
		}
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	r.tasks = append(r.tasks, &cp)
	return nil
}

func (r *fakeTaskRepo) Update(t *entity.Task) error {
	for i, existing := range r.tasks {
		if existing.ID == t.ID {
			cp := *t
			r.tasks[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTaskRepo) GetByID(id string) (*entity.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTaskRepo) ListByGroup(groupID string, limit, offset int) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, t := range r.tasks {
		if t.GroupID == groupID && !t.Deleted {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeObligationRepo struct {
	obligations map[string]*entity.Obligation
	highWater   map[string][2]string
}

func newFakeObligationRepo(obs ...*entity.Obligation) *fakeObligationRepo {
	r := &fakeObligationRepo{obligations: map[string]*entity.Obligation{}, highWater: map[string][2]string{}}
	for _, o := range obs {
		r.obligations[o.ID] = o
	}
	return r
}

func (r *fakeObligationRepo) Create(o *entity.Obligation) error { r.obligations[o.ID] = o; return nil }
func (r *fakeObligationRepo) Update(o *entity.Obligation) error { r.obligations[o.ID] = o; return nil }

func (r *fakeObligationRepo) GetByID(id string) (*entity.Obligation, error) {
	return r.obligations[id], nil
}

func (r *fakeObligationRepo) ListAutomatic(now time.Time) ([]*entity.Obligation, error) {
	var out []*entity.Obligation
	for _, o := range r.obligations {
		if o.GenerateAutomaticTasks && o.GenerationWindowOpen(now) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeObligationRepo) UpdateHighWater(id, lastCompetence, lastYearMonthQT string) error {
	r.highWater[id] = [2]string{lastCompetence, lastYearMonthQT}
	return nil
}

type fakeCompanyRepo struct {
	companies []*entity.Company
}

func (r *fakeCompanyRepo) Create(c *entity.Company) error { r.companies = append(r.companies, c); return nil }

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) ListByIDs(ids []string) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, id := range ids {
		for _, c := range r.companies {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeCompanyRepo) ListByGroup(groupID string) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.companies {
		if c.GroupID == groupID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeDocRepo struct {
	docs []*entity.Document
	sigs []*entity.ApproverSignature
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

func (r *fakeDocRepo) CreateSignatures(sigs []*entity.ApproverSignature) error {
	r.sigs = append(r.sigs, sigs...)
	return nil
}

type fakeTypeRepo struct {
	types     []*entity.DocumentType
	approvers map[string][]*entity.Approver
}

func (r *fakeTypeRepo) ListActive(obligationID string, version int) ([]*entity.DocumentType, error) {
	var out []*entity.DocumentType
	for _, dt := range r.types {
		if dt.ObligationID == obligationID && dt.ObligationVersion == version && dt.Active {
			out = append(out, dt)
		}
	}
	return out, nil
}

func (r *fakeTypeRepo) ListApprovers(documentTypeID string) ([]*entity.Approver, error) {
	return r.approvers[documentTypeID], nil
}

func (r *fakeTypeRepo) CreateBatch(types []*entity.DocumentType) error {
	r.types = append(r.types, types...)
	return nil
}

type fakeTimelineRepo struct {
	entries []*entity.TimelineEntry
}

func (r *fakeTimelineRepo) Append(e *entity.TimelineEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

// fakeTxRunner pasa los mismos fakes sin transacción real: suficiente para
// verificar la semántica del ciclo plan -> materialización.
type fakeTxRunner struct {
	taskRepo     *fakeTaskRepo
	docRepo      *fakeDocRepo
	typeRepo     *fakeTypeRepo
	timelineRepo *fakeTimelineRepo
}

func (tr *fakeTxRunner) Run(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	docRepo repository.DocumentRepository,
	typeRepo repository.DocumentTypeRepository,
	timelineRepo repository.TimelineRepository,
) error) error {
	return fn(tr.taskRepo, tr.docRepo, tr.typeRepo, tr.timelineRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	groupA    = "group-a"
	companyX  = "company-x"
	companyY  = "company-y"
	causeIVA  = "obligation-iva"
	causeRent = "obligation-renta"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ivaObligation() *entity.Obligation {
	return &entity.Obligation{
		ID:                    causeIVA,
		GroupID:               groupA,
		Name:                  "Declaración IVA",
		Frequency:             entity.FrequencyMonthly,
		DayDeadline:           15,
		InitialGenerationDate: date(2024, time.January, 1),
		MonthsAdvanced:        1,
		Version:               1,
	}
}

type fixture struct {
	taskRepo       *fakeTaskRepo
	docRepo        *fakeDocRepo
	typeRepo       *fakeTypeRepo
	timelineRepo   *fakeTimelineRepo
	obligationRepo *fakeObligationRepo
	companyRepo    *fakeCompanyRepo
	txRunner       *fakeTxRunner
}

func newFixture(obs ...*entity.Obligation) *fixture {
	f := &fixture{
		taskRepo:     &fakeTaskRepo{},
		docRepo:      &fakeDocRepo{},
		typeRepo:     &fakeTypeRepo{approvers: map[string][]*entity.Approver{}},
		timelineRepo: &fakeTimelineRepo{},
		companyRepo: &fakeCompanyRepo{companies: []*entity.Company{
			{ID: companyX, GroupID: groupA, Name: "Empresa X", TaxID: "900111222"},
			{ID: companyY, GroupID: groupA, Name: "Empresa Y", TaxID: "900333444"},
		}},
		obligationRepo: newFakeObligationRepo(obs...),
	}
	f.txRunner = &fakeTxRunner{taskRepo: f.taskRepo, docRepo: f.docRepo, typeRepo: f.typeRepo, timelineRepo: f.timelineRepo}
	return f
}

func (f *fixture) addTemplate(obligationID string, version int, names ...string) {
	for i, name := range names {
		f.typeRepo.types = append(f.typeRepo.types, &entity.DocumentType{
			ID:                uuid.New().String(),
			ObligationID:      obligationID,
			ObligationVersion: version,
			Name:              name,
			IsObligatory:      true,
			EstimatedDays:     2,
			RequiredFile:      true,
			ApprovalRequired:  entity.ApprovalNone,
			DisplayOrder:      i + 1,
			Active:            true,
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateTasks
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateTasks_CreaTareasPorEmpresaYCompetencia(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)
	f.addTemplate(causeIVA, 1, "Borrador declaración", "Soporte de pago")

	uc := generation.NewGenerateUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	resp, err := uc.GenerateTasks(context.Background(), groupA, dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX, companyY},
		Competencies: []string{"2025-01", "2025-02"},
	}, date(2025, time.January, 2))
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Count, "2 empresas x 2 competencias = 4 tareas")
	require.Len(t, f.taskRepo.tasks, 4)

	first := f.taskRepo.tasks[0]
	assert.Equal(t, entity.TaskStatusNew, first.Status)
	assert.Equal(t, causeIVA, first.CauseID)
	assert.Equal(t, 1, first.CauseVersion, "la tarea fija la versión vigente de la plantilla")
	assert.Equal(t, "Declaración IVA 2025-01", first.Title)
	assert.True(t, first.Percent.IsZero())

	// Cada tarea nace con la plantilla completa clonada y su entrada de timeline.
	docs, _ := f.docRepo.ListByTask(first.ID)
	assert.Len(t, docs, 2)
	assert.Equal(t, entity.DocumentStatusUnstarted, docs[0].Status)
	assert.Len(t, f.timelineRepo.entries, 4)

	// Marca informativa de última competencia actualizada.
	assert.Equal(t, "2025-02", f.obligationRepo.highWater[causeIVA][0])
}

func TestGenerateTasks_Idempotente(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)
	f.addTemplate(causeIVA, 1, "Borrador declaración")

	uc := generation.NewGenerateUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	req := dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX},
		Competencies: []string{"2025-03"},
	}
	now := date(2025, time.February, 1)

	resp, err := uc.GenerateTasks(context.Background(), groupA, req, now)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)

	// Segunda corrida idéntica: cero tareas nuevas, las existentes intactas.
	resp, err = uc.GenerateTasks(context.Background(), groupA, req, now)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count, "la segunda corrida no debe crear nada")
	assert.Len(t, f.taskRepo.tasks, 1)
}

func TestGenerateTasks_CompetenciasDuplicadasSeDeduplicen(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)
	f.addTemplate(causeIVA, 1, "Borrador declaración")

	uc := generation.NewGenerateUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	resp, err := uc.GenerateTasks(context.Background(), groupA, dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX},
		Competencies: []string{"2025-04", "2025-04", "2025-04"},
	}, date(2025, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
}

func TestGenerateTasks_PlantillaFijadaPorVersion(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)
	f.addTemplate(causeIVA, 1, "Borrador declaración")

	uc := generation.NewGenerateUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	resp, err := uc.GenerateTasks(context.Background(), groupA, dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX},
		Competencies: []string{"2025-01"},
	}, date(2025, time.January, 2))
	require.NoError(t, err)
	oldTaskID := resp.Tasks[0].ID

	// La plantilla cambia: versión 2 con tres documentos.
	obligation.Version = 2
	f.addTemplate(causeIVA, 2, "Borrador declaración", "Anexo conciliación", "Soporte de pago")

	resp, err = uc.GenerateTasks(context.Background(), groupA, dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX},
		Competencies: []string{"2025-02"},
	}, date(2025, time.January, 2))
	require.NoError(t, err)
	newTaskID := resp.Tasks[0].ID
	assert.Equal(t, 2, resp.Tasks[0].CauseVersion)

	oldDocs, _ := f.docRepo.ListByTask(oldTaskID)
	newDocs, _ := f.docRepo.ListByTask(newTaskID)
	assert.Len(t, oldDocs, 1, "la tarea vieja conserva la plantilla v1")
	assert.Len(t, newDocs, 3, "la tarea nueva usa la plantilla v2")
}

func TestGenerateTasks_AprobadoresCongeladosComoFirmas(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)
	typeID := uuid.New().String()
	f.typeRepo.types = append(f.typeRepo.types, &entity.DocumentType{
		ID:                typeID,
		ObligationID:      causeIVA,
		ObligationVersion: 1,
		Name:              "Declaración firmada",
		ApprovalRequired:  entity.ApprovalSequential,
		Active:            true,
	})
	f.typeRepo.approvers[typeID] = []*entity.Approver{
		{ID: "ap-1", DocumentTypeID: typeID, UserID: "user-revisor", Sequence: 1},
		{ID: "ap-2", DocumentTypeID: typeID, UserID: "user-contador", Sequence: 2},
	}

	uc := generation.NewGenerateUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	_, err := uc.GenerateTasks(context.Background(), groupA, dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX},
		Competencies: []string{"2025-05"},
	}, date(2025, time.April, 1))
	require.NoError(t, err)

	require.Len(t, f.docRepo.sigs, 2)
	assert.Equal(t, "user-revisor", f.docRepo.sigs[0].UserID)
	assert.Equal(t, entity.SignatureStatusPending, f.docRepo.sigs[0].Status)
	assert.Equal(t, 2, f.docRepo.sigs[1].Sequence)
}

func TestGenerateTasks_ObligacionDeOtroGrupo(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)

	uc := generation.NewGenerateUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	_, err := uc.GenerateTasks(context.Background(), "group-b", dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX},
		Competencies: []string{"2025-01"},
	}, date(2025, time.January, 2))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGenerateTasks_EmpresaInexistente(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)

	uc := generation.NewGenerateUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	_, err := uc.GenerateTasks(context.Background(), groupA, dto.GenerateRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{"company-fantasma"},
		Competencies: []string{"2025-01"},
	}, date(2025, time.January, 2))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PreviewTasks
// ──────────────────────────────────────────────────────────────────────────────

func TestPreviewTasks_SinEfectos(t *testing.T) {
	obligation := ivaObligation()
	f := newFixture(obligation)
	f.addTemplate(causeIVA, 1, "Borrador declaración")

	// Una tarea ya existente para 2025-01 / empresa X.
	require.NoError(t, f.taskRepo.Create(&entity.Task{
		ID: "task-existente", GroupID: groupA, CompanyID: companyX,
		CauseID: causeIVA, CauseVersion: 1, Competency: "2025-01",
		Status: entity.TaskStatusFinished,
	}))

	uc := generation.NewPreviewUseCase(f.obligationRepo, f.companyRepo, f.taskRepo)
	resp, err := uc.PreviewTasks(context.Background(), groupA, dto.PreviewRequest{
		ObligationID: causeIVA,
		CompanyIDs:   []string{companyX, companyY},
		StartDate:    "2025-01-01",
		EndDate:      "2025-02-28",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-01", "2025-02"}, resp.Competencies)
	assert.Equal(t, 3, resp.TotalNew)
	assert.Equal(t, 1, resp.TotalExisting, "la tarea finished cuenta como existente")
	require.Len(t, resp.Preview, 4)

	for _, e := range resp.Preview {
		if e.CompanyID == companyX && e.Competency == "2025-01" {
			assert.True(t, e.AlreadyExists)
			assert.Equal(t, "task-existente", e.ExistingTaskID)
		}
	}

	// La vista previa nunca escribe.
	assert.Len(t, f.taskRepo.tasks, 1)
	assert.Empty(t, f.docRepo.docs)
	assert.Empty(t, f.timelineRepo.entries)
}

// ──────────────────────────────────────────────────────────────────────────────
// Generación automática
// ──────────────────────────────────────────────────────────────────────────────

func TestAutomaticRun_ProcesaTodasYAislaFallos(t *testing.T) {
	sana := ivaObligation()
	sana.GenerateAutomaticTasks = true

	retefuente := &entity.Obligation{
		ID: causeRent, GroupID: groupA, Name: "Retención en la fuente",
		Frequency: entity.FrequencyMonthly, DayDeadline: 20,
		InitialGenerationDate:  date(2024, time.January, 1),
		MonthsAdvanced:         1,
		Version:                1,
		GenerateAutomaticTasks: true,
	}

	rota := &entity.Obligation{
		ID: "obligation-rota", GroupID: groupA, Name: "Obligación mal configurada",
		Frequency: "weekly", DayDeadline: 10,
		InitialGenerationDate:  date(2024, time.January, 1),
		MonthsAdvanced:         1,
		GenerateAutomaticTasks: true,
	}

	apagada := ivaObligation()
	apagada.ID = "obligation-apagada"
	apagada.GenerateAutomaticTasks = false

	f := newFixture(sana, retefuente, rota, apagada)
	f.addTemplate(causeIVA, 1, "Borrador declaración")
	f.addTemplate(causeRent, 1, "Formulario 350")

	uc := generation.NewAutomaticGenerationUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	resp, err := uc.Run(context.Background(), date(2025, time.January, 10))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Processed, "la apagada no entra al lote")
	require.Len(t, resp.Errors, 1, "la obligación rota se aísla, no aborta el lote")
	assert.Equal(t, "obligation-rota", resp.Errors[0].ObligationID)

	// Ventana [10-ene, 10-feb]: competencias 2025-01 y 2025-02 para las dos
	// obligaciones sanas, dos empresas cada una.
	assert.Equal(t, 8, resp.TasksCreated)
}

func TestAutomaticRun_SegundaCorridaNoDuplica(t *testing.T) {
	sana := ivaObligation()
	sana.GenerateAutomaticTasks = true
	f := newFixture(sana)
	f.addTemplate(causeIVA, 1, "Borrador declaración")

	uc := generation.NewAutomaticGenerationUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)
	now := date(2025, time.January, 10)

	resp, err := uc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.TasksCreated)

	resp, err = uc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TasksCreated, "correr dos veces el mismo día no duplica")
	assert.Empty(t, resp.Errors)
	assert.Len(t, f.taskRepo.tasks, 4)
}

func TestAutomaticRun_VentanaCerradaQuedaFuera(t *testing.T) {
	final := date(2024, time.June, 30)
	cerrada := ivaObligation()
	cerrada.GenerateAutomaticTasks = true
	cerrada.FinalGenerationDate = &final

	f := newFixture(cerrada)
	uc := generation.NewAutomaticGenerationUseCase(f.txRunner, f.obligationRepo, f.companyRepo, nil)

	resp, err := uc.Run(context.Background(), date(2025, time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Processed, "ventana cerrada: ni siquiera entra al lote")
	assert.Empty(t, f.taskRepo.tasks)
}
