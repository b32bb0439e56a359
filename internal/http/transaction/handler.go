package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natog7/PersonalFinance/internal/http/respond"
	"github.com/natog7/PersonalFinance/internal/money"
	"github.com/natog7/PersonalFinance/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/recurrent", h.createRecurrent)
	r.Post("/filter", h.filter)
	r.Post("/balance-projection", h.project)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Date       string          `json:"date"`
	Type       int             `json:"type"`
	CategoryID uuid.UUID       `json:"category_id"`
}

// toParams validates the wire shape and converts it to service input.
// Domain invariants (future date, title length) stay with the entity.
func (req createTransactionRequest) toParams() (transaction.CreateParams, error) {
	currency := req.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}

	amount, err := money.New(req.Amount, currency)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return transaction.CreateParams{}, errors.New("date must be formatted as YYYY-MM-DD")
	}

	return transaction.CreateParams{
		Title:      req.Title,
		Amount:     amount,
		Date:       date,
		Type:       transaction.Type(req.Type),
		CategoryID: req.CategoryID,
	}, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	params, err := req.toParams()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeCreateError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]uuid.UUID{"id": tx.ID})
}

type createRecurrentRequest struct {
	createTransactionRequest
	Period  int    `json:"period"`
	EndDate string `json:"end_date"`
}

func (h *Handler) createRecurrent(w http.ResponseWriter, r *http.Request) {
	var req createRecurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	params, err := req.toParams()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	endDate, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "end_date must be formatted as YYYY-MM-DD")
		return
	}

	tx, err := h.svc.CreateRecurrent(r.Context(), transaction.CreateRecurrentParams{
		CreateParams: params,
		Period:       transaction.Recurrence(req.Period),
		EndDate:      endDate,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]uuid.UUID{"id": tx.ID})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "transaction not found")
			return
		}

		respond.Internal(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CategoryID uuid.UUID       `json:"category_id"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}

	amount, err := money.New(req.Amount, currency)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.svc.Update(r.Context(), id, amount, req.CategoryID)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "transaction not found")
		case errors.Is(err, transaction.ErrMissingAmount):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			respond.Internal(w, err)
		}

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "transaction not found")
			return
		}

		respond.Internal(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type filterRequest struct {
	Title       string       `json:"title"`
	DatePeriod  *periodInput `json:"date_period"`
	Type        *int         `json:"type"`
	CategoryIDs []uuid.UUID  `json:"category_ids"`
}

type periodInput struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

func (f filterRequest) toFilter() (transaction.Filter, error) {
	filter := transaction.Filter{
		Title:       f.Title,
		CategoryIDs: f.CategoryIDs,
	}

	if f.Type != nil {
		typ := transaction.Type(*f.Type)
		if !typ.Valid() {
			return transaction.Filter{}, transaction.ErrInvalidType
		}

		filter.Type = &typ
	}

	if f.DatePeriod != nil {
		start, err := time.Parse(time.DateOnly, f.DatePeriod.Start)
		if err != nil {
			return transaction.Filter{}, errors.New("date_period.start must be formatted as YYYY-MM-DD")
		}

		var end *time.Time

		if f.DatePeriod.End != nil {
			e, err := time.Parse(time.DateOnly, *f.DatePeriod.End)
			if err != nil {
				return transaction.Filter{}, errors.New("date_period.end must be formatted as YYYY-MM-DD")
			}

			end = &e
		}

		period, err := transaction.NewDatePeriod(start, end)
		if err != nil {
			return transaction.Filter{}, err
		}

		filter.Period = &period
	}

	return filter, nil
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := req.toFilter()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := h.svc.List(r.Context(), f)
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"transactions": toResponseList(txs)})
}

type projectionRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	StartDate  string     `json:"start_date"`
	MonthCount int        `json:"month_count"`
}

type monthlyBalanceResponse struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

type projectionResponse struct {
	CategoryID  *uuid.UUID               `json:"category_id"`
	Projections []monthlyBalanceResponse `json:"projections"`
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "start_date must be formatted as YYYY-MM-DD")
		return
	}

	balances, err := h.svc.Project(r.Context(), transaction.ProjectionParams{
		CategoryID: req.CategoryID,
		Start:      start,
		Months:     req.MonthCount,
	})
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidMonthCount) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		respond.Internal(w, err)

		return
	}

	resp := projectionResponse{
		CategoryID:  req.CategoryID,
		Projections: make([]monthlyBalanceResponse, len(balances)),
	}

	for i, b := range balances {
		resp.Projections[i] = monthlyBalanceResponse{
			Year:     b.Year,
			Month:    int(b.Month),
			Income:   b.Income.StringFixed(2),
			Expenses: b.Expenses.StringFixed(2),
			Net:      b.Net.StringFixed(2),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

// writeCreateError maps entity construction failures to 400 and everything
// else to 500.
func writeCreateError(w http.ResponseWriter, err error) {
	if transaction.IsInvalid(err) {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	respond.Internal(w, err)
}
