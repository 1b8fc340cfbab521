package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"contable/internal/core"
	"contable/internal/ingest"
)

// Wire shapes. Amounts travel as canonical decimal strings so the
// dashboard never sees float drift; dates as YYYY-MM-DD or "".
type (
	movementDTO struct {
		Fecha       string `json:"fecha"`
		Tipo        string `json:"tipo"`
		Categoria   string `json:"categoria"`
		Descripcion string `json:"descripcion"`
		Monto       string `json:"monto"`
		EsFijo      bool   `json:"es_fijo"`
	}

	rowErrorDTO struct {
		Linea int    `json:"linea"`
		Campo string `json:"campo"`
		Valor string `json:"valor"`
		Error string `json:"error"`
	}

	importResponse struct {
		BatchID     string        `json:"batch_id"`
		Importados  int           `json:"importados"`
		Fijos       int           `json:"fijos"`
		Promovidos  int           `json:"promovidos"`
		ErroresFila []rowErrorDTO `json:"errores_fila"`
	}

	schemaErrorResponse struct {
		Error      string   `json:"error"`
		Faltantes  []string `json:"faltantes"`
		Requeridas []string `json:"requeridas"`
		Detectadas []string `json:"detectadas"`
	}

	overviewResponse struct {
		Balance     string `json:"balance"`
		Ingresos    string `json:"ingresos"`
		Gastos      string `json:"gastos"`
		Movimientos int    `json:"movimientos"`
	}

	fixedPlanResponse struct {
		Fijos        []movementDTO `json:"fijos"`
		PisoMensual  string        `json:"piso_mensual"`
		Obligaciones int           `json:"obligaciones"`
	}
)

func toMovementDTO(r core.TransactionRecord) movementDTO {
	return movementDTO{
		Fecha:       r.Date.ISO(),
		Tipo:        string(r.Type),
		Categoria:   r.Category,
		Descripcion: r.Description,
		Monto:       r.Amount.String(),
		EsFijo:      r.IsFixed,
	}
}

func toMovementDTOs(records []core.TransactionRecord) []movementDTO {
	out := make([]movementDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toMovementDTO(r))
	}
	return out
}

// handleImport accepts a CSV batch, either as the raw request body or
// as a multipart upload under the "file" field.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := importBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	result, err := s.importer.Import(r.Context(), io.LimitReader(body, maxImportBytes))
	if err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			writeJSON(w, http.StatusUnprocessableEntity, schemaErrorResponse{
				Error:      "columnas requeridas faltantes",
				Faltantes:  schemaErr.Missing,
				Requeridas: schemaErr.Required,
				Detectadas: schemaErr.Found,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	resp := importResponse{
		BatchID:     result.BatchID,
		Importados:  result.Imported,
		Fijos:       result.Fixed,
		Promovidos:  result.Promoted,
		ErroresFila: make([]rowErrorDTO, 0, len(result.RowErrors)),
	}
	for _, re := range result.RowErrors {
		resp.ErroresFila = append(resp.ErroresFila, rowErrorDTO{
			Linea: re.Line,
			Campo: re.Field,
			Valor: re.Value,
			Error: re.Err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func importBody(r *http.Request) (io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			return nil, errors.New("invalid multipart body")
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("missing multipart field \"file\"")
		}
		return f, nil
	}
	return r.Body, nil
}

func (s *Server) handleMovements(w http.ResponseWriter, r *http.Request) {
	records, err := s.budget.Movements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load movements")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movimientos": toMovementDTOs(records)})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	summary, err := s.budget.Overview(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		Balance:     summary.Balance.String(),
		Ingresos:    summary.Income.String(),
		Gastos:      summary.Expenses.String(),
		Movimientos: summary.Records,
	})
}

func (s *Server) handleFixedPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.budget.Plan(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load fixed plan")
		return
	}
	writeJSON(w, http.StatusOK, fixedPlanResponse{
		Fijos:        toMovementDTOs(plan.Entries),
		PisoMensual:  plan.Floor.String(),
		Obligaciones: len(plan.Entries),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
