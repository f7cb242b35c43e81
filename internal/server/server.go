// Package server exposes the core over HTTP. It is a thin layer: every
// handler parses the request, delegates to the parser, service or
// aggregator, and maps the outcome to a status code.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"fjacquet/msg-ledger/internal/balance"
	"fjacquet/msg-ledger/internal/ledger"
	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/parser"
	"fjacquet/msg-ledger/internal/parsererror"
	"fjacquet/msg-ledger/internal/store"
)

// Server routes HTTP requests into the core.
type Server struct {
	parser          *parser.Parser
	service         *ledger.Service
	aggregator      *balance.Aggregator
	apiKey          string
	defaultCurrency string
	log             logging.Logger
	router          chi.Router
}

// New creates a Server. An empty apiKey disables authentication; the
// default currency is applied to aggregation requests that do not name
// one, so balances are always netted within a single currency.
func New(p *parser.Parser, svc *ledger.Service, agg *balance.Aggregator, apiKey, defaultCurrency string, log logging.Logger) *Server {
	s := &Server{
		parser:          p,
		service:         svc,
		aggregator:      agg,
		apiKey:          apiKey,
		defaultCurrency: defaultCurrency,
		log:             log,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(log))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiKeyAuth(apiKey))
		r.Post("/messages", s.handleIngest)
		r.Put("/expenses/{id}", s.handleReallocate)
		r.Delete("/expenses/{id}", s.handleDelete)
		r.Get("/balance", s.handleBalance)
		r.Get("/loans", s.handleLoans)
		r.Get("/totals", s.handleTotals)
	})

	// Webhook endpoint in the form-encoded shape messaging providers use.
	r.Post("/webhook/messages", s.handleWebhook)

	s.router = r
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

type ingestRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	result, status, reason := s.ingest(r, req.Text, req.Source)
	if reason != "" {
		writeError(w, status, reason)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleWebhook ingests a message delivered by a messaging provider as a
// form post with From and Body fields. It always answers 200 with a short
// status so providers do not retry unparseable messages.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	result, _, reason := s.ingest(r, body, "webhook:"+from)
	if reason != "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "reason": reason})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "recorded", "result": result})
}

// ingest runs the parse-then-persist pipeline and maps the error taxonomy
// to a status code and user-facing reason.
func (s *Server) ingest(r *http.Request, text, source string) (*ledger.IngestResult, int, string) {
	parsed, err := s.parser.Parse(text)
	if err != nil {
		var unparseable *parsererror.UnparseableError
		if errors.As(err, &unparseable) {
			return nil, http.StatusUnprocessableEntity, unparseable.Reason
		}
		return nil, http.StatusInternalServerError, "parse failed"
	}

	result, err := s.service.Ingest(r.Context(), parsed, source, text)
	if err != nil {
		var invalid *parsererror.ValidationError
		if errors.As(err, &invalid) {
			return nil, http.StatusBadRequest, invalid.Error()
		}
		s.log.WithError(err).Error("Ingest failed")
		return nil, http.StatusInternalServerError, "could not persist message"
	}
	return result, 0, ""
}

func (s *Server) handleReallocate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	parsed, err := s.parser.Parse(req.Text)
	if err != nil {
		var unparseable *parsererror.UnparseableError
		if errors.As(err, &unparseable) {
			writeError(w, http.StatusUnprocessableEntity, unparseable.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, "parse failed")
		return
	}

	expense, debts, err := s.service.Reallocate(r.Context(), id, parsed, req.Text)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("Reallocate failed")
		writeError(w, http.StatusInternalServerError, "could not update expense")
		return
	}

	writeJSON(w, http.StatusOK, ledger.IngestResult{Expense: expense, Reimbursements: debts})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	err = s.service.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("Delete failed")
		writeError(w, http.StatusInternalServerError, "could not delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryCurrency resolves the currency query parameter, falling back to the
// configured default when absent.
func (s *Server) queryCurrency(r *http.Request) string {
	if c := r.URL.Query().Get("currency"); c != "" {
		return c
	}
	return s.defaultCurrency
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := s.aggregator.ReimbursementBalance(r.Context(), r.URL.Query().Get("party"), s.queryCurrency(r))
	if err != nil {
		s.log.WithError(err).Error("Balance query failed")
		writeError(w, http.StatusInternalServerError, "could not compute balance")
		return
	}
	writeJSON(w, http.StatusOK, bal)
}

func (s *Server) handleLoans(w http.ResponseWriter, r *http.Request) {
	balances, err := s.aggregator.ReceivableBalances(r.Context(), s.queryCurrency(r))
	if err != nil {
		s.log.WithError(err).Error("Loan balance query failed")
		writeError(w, http.StatusInternalServerError, "could not compute loan balances")
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.aggregator.LedgerTotals(r.Context(), s.queryCurrency(r))
	if err != nil {
		s.log.WithError(err).Error("Totals query failed")
		writeError(w, http.StatusInternalServerError, "could not compute totals")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}
