package entity

import "time"

// Frecuencias de recurrencia de una obligación.
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Obligation es la plantilla de un cumplimiento recurrente: define la regla
// de recurrencia, la ventana de generación y la plantilla de documentos
// (DocumentType) versionada. Pertenece a un Group.
type Obligation struct {
	ID          string
	GroupID     string
	Name        string
	Description string

	Frequency     string // ver constantes Frequency*
	DayDeadline   int    // 1-31; se recorta al último día del mes si lo excede
	MonthDeadline int    // 1-12; mes ancla del vencimiento para quarterly/yearly
	PeriodMonths  int    // ancho del período en meses para quarterly (0 = 3)

	// Ventana de generación: fuera de [InitialGenerationDate, FinalGenerationDate]
	// nunca se calculan períodos. FinalGenerationDate nil = ventana abierta.
	InitialGenerationDate time.Time
	FinalGenerationDate   *time.Time

	// Cuántos meses hacia adelante de "hoy" puede generar el cron automático.
	MonthsAdvanced         int
	GenerateAutomaticTasks bool

	// Version se incrementa cada vez que cambia la plantilla de documentos.
	// Las tareas ya generadas quedan fijadas (CauseVersion) a la versión
	// vigente en su creación.
	Version int

	// Marcas de agua de la última generación exitosa. Solo informativas:
	// la verificación de existencia dentro de la transacción es la única
	// fuente de verdad contra duplicados.
	LastCompetence  string
	LastYearMonthQT string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenerationWindowOpen indica si la obligación todavía admite generación en la fecha dada.
func (o *Obligation) GenerationWindowOpen(now time.Time) bool {
	if o.FinalGenerationDate == nil {
		return true
	}
	return !now.After(*o.FinalGenerationDate)
}
