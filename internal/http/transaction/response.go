package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/natog7/PersonalFinance/internal/transaction"
)

type transactionResponse struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Amount       string              `json:"amount"`
	Currency     string              `json:"currency"`
	Date         string              `json:"date"`
	Type         transaction.Type    `json:"type"`
	CategoryID   uuid.UUID           `json:"category_id"`
	CategoryName string              `json:"category_name,omitempty"`
	IsRecurrent  bool                `json:"is_recurrent"`
	Recurrence   *recurrenceResponse `json:"recurrence,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`
}

type recurrenceResponse struct {
	Period  transaction.Recurrence `json:"period"`
	EndDate string                 `json:"end_date"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:           tx.ID,
		Title:        tx.Title,
		Amount:       tx.Amount.Amount().StringFixed(2),
		Currency:     tx.Amount.Currency(),
		Date:         tx.Date.Format(time.DateOnly),
		Type:         tx.Type,
		CategoryID:   tx.CategoryID,
		CategoryName: tx.CategoryName,
		IsRecurrent:  tx.IsRecurrent(),
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}

	if tx.Recurrence != nil {
		resp.Recurrence = &recurrenceResponse{
			Period:  tx.Recurrence.Period,
			EndDate: tx.Recurrence.EndDate.Format(time.DateOnly),
		}
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
