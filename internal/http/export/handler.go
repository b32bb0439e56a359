package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/natog7/PersonalFinance/internal/export"
	"github.com/natog7/PersonalFinance/internal/http/respond"
	"github.com/natog7/PersonalFinance/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers under the transactions subtree; the static /export
// segment takes precedence over the /{id} wildcard.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.exportCSV)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// Buffered so a listing failure still becomes a 500 rather than a
	// half-written 200.
	var buf bytes.Buffer

	if _, err := h.svc.Export(r.Context(), filter, &buf); err != nil {
		respond.Internal(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func filterFromQuery(r *http.Request) (transaction.Filter, error) {
	q := r.URL.Query()

	filter := transaction.Filter{Title: q.Get("title")}

	if s := q.Get("type"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || !transaction.Type(n).Valid() {
			return transaction.Filter{}, fmt.Errorf("invalid type %q", s)
		}

		typ := transaction.Type(n)
		filter.Type = &typ
	}

	if s := q.Get("start_date"); s != "" {
		start, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return transaction.Filter{}, fmt.Errorf("invalid start_date %q", s)
		}

		var end *time.Time

		if e := q.Get("end_date"); e != "" {
			t, err := time.Parse(time.DateOnly, e)
			if err != nil {
				return transaction.Filter{}, fmt.Errorf("invalid end_date %q", e)
			}

			end = &t
		}

		period, err := transaction.NewDatePeriod(start, end)
		if err != nil {
			return transaction.Filter{}, err
		}

		filter.Period = &period
	}

	if s := q.Get("category_ids"); s != "" {
		for _, raw := range strings.Split(s, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return transaction.Filter{}, fmt.Errorf("invalid category id %q", raw)
			}

			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}

	return filter, nil
}
