package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contable/internal/core"
)

func TestParseBatchNormalizesRows(t *testing.T) {
	csvData := strings.Join([]string{
		"Fecha,Tipo,Categoria,Descripcion,Monto,Es_Fijo",
		`01/01/2025,Gasto,Vivienda,Alquiler,"600,00",NO`,
		`15/01/2025,Ingreso,Trabajo,Nomina,"1.800,00",NO`,
		`20/01/2025,,,Cafeteria,"-3,50",`,
	}, "\n")

	batch, err := ParseBatch(strings.NewReader(csvData), Options{})
	require.NoError(t, err)
	require.Len(t, batch.Records, 3)
	assert.Empty(t, batch.RowErrors)

	rent := batch.Records[0]
	assert.Equal(t, "2025-01-01", rent.Date.ISO())
	assert.Equal(t, core.Gasto, rent.Type)
	assert.Equal(t, "-600", rent.Amount.String()) // label forces the sign
	assert.Equal(t, "Vivienda", rent.Category)
	assert.False(t, rent.IsFixed, "ingestion never sets the fixed flag")

	salary := batch.Records[1]
	assert.Equal(t, core.Ingreso, salary.Type)
	assert.Equal(t, "1800", salary.Amount.String())

	coffee := batch.Records[2]
	assert.Equal(t, core.Gasto, coffee.Type, "type derived from sign without a label")
	assert.Equal(t, "-3.5", coffee.Amount.String())
	assert.Equal(t, DefaultCategory, coffee.Category)
}

func TestParseBatchMissingColumnsFailsWholeBatch(t *testing.T) {
	csvData := "Fecha,Descripcion\n01/01/2025,Alquiler\n"

	_, err := ParseBatch(strings.NewReader(csvData), Options{})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Monto"}, schemaErr.Missing)
	assert.Contains(t, schemaErr.Found, "Fecha")
}

func TestParseBatchRecoversMalformedRows(t *testing.T) {
	csvData := strings.Join([]string{
		"Fecha,Descripcion,Monto",
		"01/01/2025,Alquiler,abc",
		"not a date,Netflix,\"-12,99\"",
		"03/01/2025,Super,\"-84,30\"",
	}, "\n")

	batch, err := ParseBatch(strings.NewReader(csvData), Options{})
	require.NoError(t, err, "per-row failures must not abort the batch")
	require.Len(t, batch.Records, 3)
	require.Len(t, batch.RowErrors, 2)

	assert.True(t, batch.Records[0].Amount.IsZero(), "malformed amount yields zero")
	assert.True(t, errors.Is(batch.RowErrors[0].Err, core.ErrMalformedAmount))
	assert.Equal(t, 2, batch.RowErrors[0].Line)

	assert.True(t, batch.Records[1].Date.IsNull(), "malformed date yields null")
	assert.Equal(t, "-12.99", batch.Records[1].Amount.String())

	assert.Equal(t, "-84.3", batch.Records[2].Amount.String())
}

func TestParseBatchBlankAmountNotReported(t *testing.T) {
	csvData := "Fecha,Descripcion,Monto\n01/01/2025,Nota,\n"
	batch, err := ParseBatch(strings.NewReader(csvData), Options{})
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Empty(t, batch.RowErrors)
	assert.True(t, batch.Records[0].Amount.IsZero())
}

func TestParseBatchLatin1Fallback(t *testing.T) {
	// "Peluquería" with the í as the single ISO-8859-1 byte 0xED.
	raw := []byte("Fecha,Descripcion,Monto\n05/01/2025,Peluquer\xeda,\"-15,00\"\n")

	batch, err := ParseBatch(strings.NewReader(string(raw)), Options{})
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Peluquería", batch.Records[0].Description)
}

func TestParseBatchStripsBOM(t *testing.T) {
	raw := "\xEF\xBB\xBFFecha,Descripcion,Monto\n05/01/2025,Luz,\"-40,00\"\n"

	batch, err := ParseBatch(strings.NewReader(raw), Options{})
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "-40", batch.Records[0].Amount.String())
}

func TestParseBatchPaddedHeaders(t *testing.T) {
	csvData := " Fecha , Descripcion , Monto \n01/01/2025,Alquiler,\"-600,00\"\n"

	batch, err := ParseBatch(strings.NewReader(csvData), Options{})
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Alquiler", batch.Records[0].Description)
}

func TestParseBatchEmptyInput(t *testing.T) {
	_, err := ParseBatch(strings.NewReader(""), Options{})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
