// Package schedule implementa el cálculo de competencias (períodos) de una
// obligación recurrente: funciones puras, sin reloj global ni persistencia.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Obligaciones-api/internal/domain"
	"github.com/jhoicas/Obligaciones-api/internal/domain/entity"
)

// Period una competencia calculada: etiqueta ("2025-01", "1T/2025", "2025")
// y fecha límite de la tarea correspondiente.
type Period struct {
	Label    string
	Deadline time.Time
}

// Validate verifica que los parámetros de recurrencia de la obligación sean
// coherentes. Una obligación inválida se salta en el cron (no aborta el lote).
func Validate(o *entity.Obligation) error {
	if o.DayDeadline < 1 || o.DayDeadline > 31 {
		return fmt.Errorf("%w: day_deadline %d fuera de 1-31", domain.ErrInvalidRecurrence, o.DayDeadline)
	}
	switch o.Frequency {
	case entity.FrequencyMonthly:
		// Solo necesita día de vencimiento.
	case entity.FrequencyQuarterly:
		if o.MonthDeadline < 1 || o.MonthDeadline > 12 {
			return fmt.Errorf("%w: quarterly sin mes ancla", domain.ErrInvalidRecurrence)
		}
		if w := quarterWidth(o); 12%w != 0 {
			return fmt.Errorf("%w: ancho de período %d no divide 12 meses", domain.ErrInvalidRecurrence, w)
		}
	case entity.FrequencyYearly:
		if o.MonthDeadline < 1 || o.MonthDeadline > 12 {
			return fmt.Errorf("%w: yearly sin mes de vencimiento", domain.ErrInvalidRecurrence)
		}
	default:
		return fmt.Errorf("%w: frecuencia %q desconocida", domain.ErrInvalidRecurrence, o.Frequency)
	}
	return nil
}

// ComputePeriods calcula la secuencia ordenada y sin duplicados de
// competencias de la obligación dentro de [from, to]. El rango pedido se
// recorta primero a la ventana de generación de la obligación; fuera de ella
// nunca se devuelven períodos. Determinista: mismas entradas, misma salida.
func ComputePeriods(o *entity.Obligation, from, to time.Time) ([]Period, error) {
	if err := Validate(o); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: rango invertido", domain.ErrInvalidInput)
	}

	from = dateOnly(from)
	to = dateOnly(to)
	if init := dateOnly(o.InitialGenerationDate); from.Before(init) {
		from = init
	}
	if o.FinalGenerationDate != nil {
		if final := dateOnly(*o.FinalGenerationDate); to.After(final) {
			to = final
		}
	}
	if from.After(to) {
		return nil, nil
	}

	switch o.Frequency {
	case entity.FrequencyMonthly:
		return monthlyPeriods(o, from, to), nil
	case entity.FrequencyQuarterly:
		return quarterlyPeriods(o, from, to), nil
	default:
		return yearlyPeriods(o, from, to), nil
	}
}

// DeadlineForLabel interpreta una etiqueta de competencia explícita (la que
// envía el caller de GenerateTasks) y devuelve el período con su fecha
// límite. Rechaza etiquetas que no cuadran con la frecuencia o que caen
// fuera de la ventana de generación.
func DeadlineForLabel(o *entity.Obligation, label string) (Period, error) {
	if err := Validate(o); err != nil {
		return Period{}, err
	}
	var start time.Time
	var p Period
	switch o.Frequency {
	case entity.FrequencyMonthly:
		y, m, err := parseMonthLabel(label)
		if err != nil {
			return Period{}, err
		}
		start = time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		p = Period{Label: monthLabel(y, m), Deadline: clampedDate(y, m, o.DayDeadline)}
	case entity.FrequencyQuarterly:
		q, y, err := parseQuarterLabel(label)
		if err != nil {
			return Period{}, err
		}
		w := quarterWidth(o)
		if q < 1 || q > 12/w {
			return Period{}, fmt.Errorf("%w: trimestre %d fuera de rango", domain.ErrInvalidInput, q)
		}
		start = time.Date(y, time.Month((q-1)*w+1), 1, 0, 0, 0, 0, time.UTC)
		p = Period{Label: quarterLabel(q, y), Deadline: quarterDeadline(o, q, y)}
	default:
		y, err := parseYearLabel(label)
		if err != nil {
			return Period{}, err
		}
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		p = Period{Label: yearLabel(y), Deadline: clampedDate(y, o.MonthDeadline, o.DayDeadline)}
	}

	// El inicio del período debe caer dentro de la ventana de generación.
	if start.Before(startOfPeriodContaining(o, dateOnly(o.InitialGenerationDate))) {
		return Period{}, fmt.Errorf("%w: competencia %s anterior a la ventana de generación", domain.ErrInvalidInput, p.Label)
	}
	if o.FinalGenerationDate != nil && start.After(dateOnly(*o.FinalGenerationDate)) {
		return Period{}, fmt.Errorf("%w: competencia %s posterior a la ventana de generación", domain.ErrInvalidInput, p.Label)
	}
	return p, nil
}

// ── frecuencias ───────────────────────────────────────────────────────────────

func monthlyPeriods(o *entity.Obligation, from, to time.Time) []Period {
	var out []Period
	y, m := from.Year(), int(from.Month())
	endY, endM := to.Year(), int(to.Month())
	for y < endY || (y == endY && m <= endM) {
		out = append(out, Period{Label: monthLabel(y, m), Deadline: clampedDate(y, m, o.DayDeadline)})
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return out
}

func quarterlyPeriods(o *entity.Obligation, from, to time.Time) []Period {
	w := quarterWidth(o)
	var out []Period
	y, q := from.Year(), quarterOf(int(from.Month()), w)
	endY, endQ := to.Year(), quarterOf(int(to.Month()), w)
	for y < endY || (y == endY && q <= endQ) {
		out = append(out, Period{Label: quarterLabel(q, y), Deadline: quarterDeadline(o, q, y)})
		q++
		if q > 12/w {
			q = 1
			y++
		}
	}
	return out
}

func yearlyPeriods(o *entity.Obligation, from, to time.Time) []Period {
	var out []Period
	for y := from.Year(); y <= to.Year(); y++ {
		out = append(out, Period{Label: yearLabel(y), Deadline: clampedDate(y, o.MonthDeadline, o.DayDeadline)})
	}
	return out
}

// quarterDeadline vence en el mes ancla (MonthDeadline) desplazado un ancho
// de período por cada trimestre transcurrido; si el mes resultante pasa de
// diciembre, el vencimiento cae en el año siguiente.
func quarterDeadline(o *entity.Obligation, q, year int) time.Time {
	w := quarterWidth(o)
	m := o.MonthDeadline + (q-1)*w
	for m > 12 {
		m -= 12
		year++
	}
	return clampedDate(year, m, o.DayDeadline)
}

func quarterWidth(o *entity.Obligation) int {
	if o.PeriodMonths > 0 {
		return o.PeriodMonths
	}
	return 3
}

func quarterOf(month, width int) int {
	return (month-1)/width + 1
}

// startOfPeriodContaining devuelve el primer día del período (según la
// frecuencia de o) que contiene la fecha d.
func startOfPeriodContaining(o *entity.Obligation, d time.Time) time.Time {
	switch o.Frequency {
	case entity.FrequencyMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case entity.FrequencyQuarterly:
		w := quarterWidth(o)
		q := quarterOf(int(d.Month()), w)
		return time.Date(d.Year(), time.Month((q-1)*w+1), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// ── etiquetas ─────────────────────────────────────────────────────────────────

func monthLabel(y, m int) string   { return fmt.Sprintf("%04d-%02d", y, m) }
func quarterLabel(q, y int) string { return fmt.Sprintf("%dT/%d", q, y) }
func yearLabel(y int) string       { return fmt.Sprintf("%04d", y) }

func parseMonthLabel(label string) (year, month int, err error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: competencia mensual %q (se espera YYYY-MM)", domain.ErrInvalidInput, label)
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || year < 1 || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: competencia mensual %q", domain.ErrInvalidInput, label)
	}
	return year, month, nil
}

func parseQuarterLabel(label string) (quarter, year int, err error) {
	upper := strings.ToUpper(label)
	idx := strings.Index(upper, "T/")
	if idx < 1 {
		return 0, 0, fmt.Errorf("%w: competencia trimestral %q (se espera <n>T/<año>)", domain.ErrInvalidInput, label)
	}
	quarter, err1 := strconv.Atoi(upper[:idx])
	year, err2 := strconv.Atoi(upper[idx+2:])
	if err1 != nil || err2 != nil || year < 1 {
		return 0, 0, fmt.Errorf("%w: competencia trimestral %q", domain.ErrInvalidInput, label)
	}
	return quarter, year, nil
}

func parseYearLabel(label string) (int, error) {
	year, err := strconv.Atoi(label)
	if err != nil || year < 1 {
		return 0, fmt.Errorf("%w: competencia anual %q (se espera YYYY)", domain.ErrInvalidInput, label)
	}
	return year, nil
}

// ── fechas ────────────────────────────────────────────────────────────────────

// clampedDate construye la fecha (year, month, day) recortando day al último
// día del mes cuando lo excede (ej. día 31 en febrero -> 28 o 29).
func clampedDate(year, month, day int) time.Time {
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year, month int) int {
	// Día 0 del mes siguiente = último día del mes.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
