package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

var classifications = []core.Classification{core.Income, core.Expense, core.Movement}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	catalog, err := s.catalogSvc.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Catalog load error", "error", err)
	}

	data := struct {
		Today           string
		Classifications []core.Classification
		Wallets         []string
		CatalogError    bool
	}{
		Today:           time.Now().Format("2006-01-02"),
		Classifications: classifications,
		Wallets:         catalog.WalletNames(),
		CatalogError:    err != nil,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	in, parseErr := s.parseTransactionForm(r)
	if parseErr != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(parseErr) + `</div>`))
		return
	}

	result, err := s.submitSvc.Submit(r.Context(), in)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid transaction: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	var b strings.Builder
	for _, leg := range result.Legs {
		b.WriteString(`<li>`)
		b.WriteString(template.HTMLEscapeString(string(leg.Record.Classification)))
		b.WriteString(` `)
		b.WriteString(template.HTMLEscapeString(leg.Record.Amount.String()))
		if leg.Err != nil {
			b.WriteString(` — failed`)
		} else if leg.Ref != "" {
			b.WriteString(` — #` + template.HTMLEscapeString(leg.Ref))
		}
		b.WriteString(`</li>`)
	}

	if !result.AllSucceeded() {
		slog.ErrorContext(r.Context(), "Submission partially failed",
			"legs", len(result.Legs),
			"failed", len(result.Failed()))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<div class="partial">Some records were not saved:<ul>` + b.String() + `</ul></div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaction saved:<ul>` + b.String() + `</ul></div>`))
}

// parseTransactionForm builds the domain input from the posted form. The
// returned string is a user-facing message, empty when parsing succeeded.
func (s *Server) parseTransactionForm(r *http.Request) (core.TransactionInput, string) {
	var in core.TransactionInput

	dateStr := strings.TrimSpace(r.Form.Get("date"))
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return in, "Invalid date"
	}
	in.Date = core.Date{Time: t}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		return in, "Invalid amount"
	}
	in.Amount = core.Money{Cents: cents}

	in.Classification = core.Classification(sanitizeInput(r.Form.Get("classification")))
	in.SpecificCategory = sanitizeInput(r.Form.Get("specific_category"))
	in.Subcategory = sanitizeInput(r.Form.Get("subcategory"))
	in.Description = sanitizeInput(r.Form.Get("description"))
	in.SourceWallet = sanitizeInput(r.Form.Get("source_wallet"))
	in.EndWallet = sanitizeInput(r.Form.Get("end_wallet"))

	in.FeeApplicable = r.Form.Get("fee_applicable") != ""
	if feeStr := strings.TrimSpace(r.Form.Get("fee_amount")); feeStr != "" {
		feeCents, err := core.ParseDecimalToCents(feeStr)
		if err != nil {
			return in, "Invalid fee amount"
		}
		in.FeeAmount = core.Money{Cents: feeCents}
	}

	return in, ""
}

func (s *Server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	catalog, err := s.catalogSvc.Refresh(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Catalog refresh error", "error", err)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<div class="error">Could not refresh categories</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Categories refreshed</div>`))
	slog.InfoContext(r.Context(), "Catalog refreshed", "entries", catalog.Len())
}

// handleSpecificCategories renders the specific-category options for the
// chosen classification.
func (s *Server) handleSpecificCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	cls := core.Classification(sanitizeInput(r.URL.Query().Get("classification")))
	catalog, err := s.catalogSvc.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Catalog load error", "error", err)
	}

	writeOptions(w, catalog.SpecificCategoriesFor(cls), "-- choose --")
}

// handleSubcategories renders the subcategory options for the chosen
// classification and specific category.
func (s *Server) handleSubcategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	cls := core.Classification(sanitizeInput(r.URL.Query().Get("classification")))
	specific := sanitizeInput(r.URL.Query().Get("specific_category"))
	catalog, err := s.catalogSvc.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Catalog load error", "error", err)
	}

	writeOptions(w, catalog.SubcategoriesFor(cls, specific), "-- choose --")
}

// handleWallets renders the wallet options.
func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	catalog, err := s.catalogSvc.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Catalog load error", "error", err)
	}

	writeOptions(w, catalog.WalletNames(), "--")
}

func writeOptions(w http.ResponseWriter, values []string, placeholder string) {
	var b strings.Builder
	b.WriteString(`<option value="">` + template.HTMLEscapeString(placeholder) + `</option>`)
	for _, v := range values {
		escaped := template.HTMLEscapeString(v)
		b.WriteString(`<option value="` + escaped + `">` + escaped + `</option>`)
	}
	_, _ = w.Write([]byte(b.String()))
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
