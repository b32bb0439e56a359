package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/natog7/PersonalFinance/internal/categorize"
	"github.com/natog7/PersonalFinance/internal/http/respond"
	"github.com/natog7/PersonalFinance/internal/importer"
	"github.com/natog7/PersonalFinance/internal/money"
	"github.com/natog7/PersonalFinance/internal/transaction"
)

const maxStatementSize = 10 << 20

type Handler struct {
	parser *importer.Parser
	txSvc  *transaction.Service
	catSvc *categorize.Service
}

func NewHandler(parser *importer.Parser, txSvc *transaction.Service, catSvc *categorize.Service) *Handler {
	return &Handler{
		parser: parser,
		txSvc:  txSvc,
		catSvc: catSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/statement", h.importStatement)
	r.Post("/mappings", h.learnMapping)
}

type importedTransaction struct {
	ID     uuid.UUID        `json:"id"`
	Title  string           `json:"title"`
	Amount string           `json:"amount"`
	Date   string           `json:"date"`
	Type   transaction.Type `json:"type"`
}

type importResponse struct {
	Imported     int                   `json:"imported"`
	Skipped      int                   `json:"skipped"`
	Total        int                   `json:"total"`
	Transactions []importedTransaction `json:"transactions"`
}

// importStatement takes a multipart form with a `file` statement, an optional
// `currency` and a `category_id` fallback for rows no learned pattern covers.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	fallbackID, err := uuid.Parse(r.FormValue("category_id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "category_id field is required")
		return
	}

	currency := r.FormValue("currency")
	if currency == "" {
		currency = money.DefaultCurrency
	}

	rows, err := h.parser.Parse(file)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	params := make([]transaction.CreateParams, 0, len(rows))

	for _, row := range rows {
		amount, err := money.New(row.Amount, currency)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		categoryID := fallbackID

		suggested, err := h.catSvc.Suggest(r.Context(), row.Title)
		if err != nil {
			// The fallback category still applies; surface the store failure.
			slog.Error("failed to suggest category", "title", row.Title, "error", err)
		} else if suggested != uuid.Nil {
			categoryID = suggested
		}

		params = append(params, transaction.CreateParams{
			Title:      row.Title,
			Amount:     amount,
			Date:       row.Date,
			Type:       row.Type,
			CategoryID: categoryID,
		})
	}

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		// Row-level invariant violations carry the offending row's context
		// and are the caller's to fix.
		if transaction.IsInvalid(err) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		respond.Internal(w, err)

		return
	}

	total, err := h.txSvc.Count(r.Context())
	if err != nil {
		respond.Internal(w, err)
		return
	}

	resp := importResponse{
		Imported:     len(result.Imported),
		Skipped:      result.Skipped,
		Total:        total,
		Transactions: make([]importedTransaction, 0, len(result.Imported)),
	}

	for _, tx := range result.Imported {
		resp.Transactions = append(resp.Transactions, importedTransaction{
			ID:     tx.ID,
			Title:  tx.Title,
			Amount: tx.Amount.Amount().StringFixed(2),
			Date:   tx.Date.Format(time.DateOnly),
			Type:   tx.Type,
		})
	}

	respond.JSON(w, http.StatusCreated, resp)
}

type learnMappingRequest struct {
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"category_id"`
}

func (h *Handler) learnMapping(w http.ResponseWriter, r *http.Request) {
	var req learnMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Pattern == "" {
		respond.Error(w, http.StatusBadRequest, "pattern is required")
		return
	}

	if req.CategoryID == uuid.Nil {
		respond.Error(w, http.StatusBadRequest, "category_id is required")
		return
	}

	if err := h.catSvc.Learn(r.Context(), req.Pattern, req.CategoryID); err != nil {
		respond.Internal(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
