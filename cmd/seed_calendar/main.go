// seed_calendar genera un script SQL con obligaciones del calendario tributario
// a partir del XML oficial CalendarioTributario.xml (DIAN, codificado ISO-8859-1).
//
// Uso: go run ./cmd/seed_calendar [ruta/CalendarioTributario.xml]
// Por defecto busca CalendarioTributario.xml en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_calendar.sql
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type calendario struct {
	Obligaciones []obligacion `xml:"obligacion"`
}

type obligacion struct {
	Nombre      string `xml:"nombre,attr"`
	Frecuencia  string `xml:"frecuencia,attr"` // mensual | trimestral | anual
	Dia         int    `xml:"dia,attr"`
	Mes         int    `xml:"mes,attr"`    // solo anual/trimestral
	Inicio      string `xml:"inicio,attr"` // YYYY-MM-DD
	Descripcion string `xml:"descripcion,attr"`
}

var frequencyMap = map[string]string{
	"mensual":    "monthly",
	"trimestral": "quarterly",
	"anual":      "yearly",
}

func main() {
	xmlPath := "CalendarioTributario.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var cal calendario
	dec := xml.NewDecoder(f)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&cal); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	var rows []obligacion
	for _, o := range cal.Obligaciones {
		if o.Nombre == "" || frequencyMap[o.Frecuencia] == "" || o.Dia < 1 || o.Dia > 31 {
			continue
		}
		if o.Inicio == "" {
			continue
		}
		rows = append(rows, o)
	}
	// Orden estable por nombre para que el script no cambie entre corridas
	sort.Slice(rows, func(i, j int) bool { return rows[i].Nombre < rows[j].Nombre })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_calendar.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Calendario tributario Colombia\n")
	out.WriteString("-- Generado desde CalendarioTributario.xml (DIAN)\n")
	out.WriteString("-- Requiere la variable :group_id del grupo destino\n\n")

	for _, o := range rows {
		freq := frequencyMap[o.Frecuencia]
		month := o.Mes
		if freq == "monthly" {
			month = 0
		}
		fmt.Fprintf(out, "INSERT INTO obligations (id, group_id, name, description, frequency, day_deadline, month_deadline, period_months, initial_generation_date, months_advanced, generate_automatic_tasks, version, created_at, updated_at)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), :'group_id', '%s', '%s', '%s', %d, %d, 0, '%s', 1, true, 1, now(), now());\n",
			escapeSQL(o.Nombre), escapeSQL(o.Descripcion), freq, o.Dia, month, o.Inicio)
	}

	fmt.Printf("Generado %s: %d obligaciones\n", outPath, len(rows))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
