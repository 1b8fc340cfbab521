package ingest

import (
	"fmt"
	"strings"
)

// Column names as the original spreadsheet defines them. Bank exports
// reliably carry only date, description and amount; the rest is
// optional and defaulted.
const (
	ColFecha       = "Fecha"
	ColTipo        = "Tipo"
	ColCategoria   = "Categoria"
	ColDescripcion = "Descripcion"
	ColMonto       = "Monto"
	ColEsFijo      = "Es_Fijo"
)

var requiredColumns = []string{ColFecha, ColDescripcion, ColMonto}

// SchemaError reports a structurally unusable batch: required columns
// are missing from the header. This aborts the whole batch, unlike
// per-row failures which are recovered locally.
type SchemaError struct {
	Missing  []string
	Required []string
	Found    []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("batch header missing required columns %v (required %v, found %v)",
		e.Missing, e.Required, e.Found)
}

// schema maps column names to header positions.
type schema struct {
	index map[string]int
}

// mapColumns matches a header row against the known columns. Header
// cells are whitespace-trimmed before matching; source files exported
// from spreadsheets often pad them.
func mapColumns(header []string) (schema, error) {
	s := schema{index: make(map[string]int, len(header))}
	found := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found = append(found, name)
		if _, dup := s.index[name]; !dup {
			s.index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := s.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return schema{}, &SchemaError{Missing: missing, Required: requiredColumns, Found: found}
	}
	return s, nil
}

// field returns the trimmed cell for col, or "" when the column is
// absent or the row is short.
func (s schema) field(row []string, col string) string {
	i, ok := s.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
