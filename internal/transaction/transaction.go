package transaction

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/natog7/PersonalFinance/internal/money"
)

// Type discriminates income from expense. Wire values are 1 and 2.
type Type int

const (
	TypeIncome  Type = 1
	TypeExpense Type = 2
)

func (t Type) Valid() bool { return t == TypeIncome || t == TypeExpense }

func (t Type) String() string {
	switch t {
	case TypeIncome:
		return "income"
	case TypeExpense:
		return "expense"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Recurrence is how often a recurrent transaction repeats.
type Recurrence int

const (
	RecurWeekly  Recurrence = 1
	RecurMonthly Recurrence = 2
	RecurYearly  Recurrence = 3
)

func (r Recurrence) Valid() bool {
	return r == RecurWeekly || r == RecurMonthly || r == RecurYearly
}

// RecurrenceRule is present only on recurrent transactions.
type RecurrenceRule struct {
	Period  Recurrence
	EndDate time.Time
}

const maxTitleLen = 256

var (
	ErrNotFound = errors.New("transaction not found")

	ErrEmptyTitle    = errors.New("transaction title cannot be empty")
	ErrTitleTooLong  = fmt.Errorf("transaction title cannot exceed %d characters", maxTitleLen)
	ErrFutureDate    = errors.New("transaction date cannot be in the future")
	ErrInvalidType   = errors.New("transaction type must be income or expense")
	ErrMissingAmount = errors.New("transaction amount is required")

	ErrInvalidRecurrence = errors.New("recurrence period is invalid")
	ErrEndBeforeDate     = errors.New("recurrence end date must be after the transaction date")
)

// Transaction is a single income or expense entry. Recurrent transactions are
// the same record with a non-nil Recurrence rule rather than a subtype.
type Transaction struct {
	ID              uuid.UUID
	Title           string
	Amount          money.Money
	Date            time.Time
	Type            Type
	CategoryID      uuid.UUID
	Recurrence      *RecurrenceRule
	IdempotencyHash string
	CreatedAt       time.Time
	UpdatedAt       *time.Time

	// CategoryName is attached by the store when the row is read with its
	// category joined. Empty on freshly built entities.
	CategoryName string
}

// New builds a simple transaction, validating the creation invariants.
func New(title string, amount money.Money, date time.Time, typ Type, categoryID uuid.UUID) (*Transaction, error) {
	title = strings.TrimSpace(title)

	if err := checkCreate(title, amount, date, typ); err != nil {
		return nil, err
	}

	return &Transaction{
		ID:         uuid.New(),
		Title:      title,
		Amount:     amount,
		Date:       DateOnly(date),
		Type:       typ,
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// NewRecurrent builds a recurrent transaction. On top of the simple
// invariants the end date must fall after the transaction date.
func NewRecurrent(title string, amount money.Money, date time.Time, typ Type, categoryID uuid.UUID, period Recurrence, endDate time.Time) (*Transaction, error) {
	tx, err := New(title, amount, date, typ, categoryID)
	if err != nil {
		return nil, err
	}

	if !period.Valid() {
		return nil, ErrInvalidRecurrence
	}

	endDate = DateOnly(endDate)
	if !endDate.After(tx.Date) {
		return nil, ErrEndBeforeDate
	}

	tx.Recurrence = &RecurrenceRule{Period: period, EndDate: endDate}

	return tx, nil
}

func checkCreate(title string, amount money.Money, date time.Time, typ Type) error {
	if title == "" {
		return ErrEmptyTitle
	}

	if utf8.RuneCountInString(title) > maxTitleLen {
		return ErrTitleTooLong
	}

	if amount.IsZero() {
		return ErrMissingAmount
	}

	if DateOnly(date).After(DateOnly(time.Now().UTC())) {
		return ErrFutureDate
	}

	if !typ.Valid() {
		return ErrInvalidType
	}

	return nil
}

// IsInvalid reports whether err is one of the creation or update invariant
// violations, as opposed to an infrastructure failure.
func IsInvalid(err error) bool {
	for _, sentinel := range []error{
		ErrEmptyTitle, ErrTitleTooLong, ErrFutureDate, ErrInvalidType,
		ErrMissingAmount, ErrInvalidRecurrence, ErrEndBeforeDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

// IsRecurrent reports whether the transaction carries a recurrence rule.
func (t *Transaction) IsRecurrent() bool { return t.Recurrence != nil }

// Update replaces the amount and owning category and stamps UpdatedAt.
func (t *Transaction) Update(amount money.Money, categoryID uuid.UUID) error {
	if amount.IsZero() {
		return ErrMissingAmount
	}

	t.Amount = amount
	t.CategoryID = categoryID

	now := time.Now().UTC()
	t.UpdatedAt = &now

	return nil
}

// ComputeIdempotencyHash fingerprints the transaction's date, amount and
// title for statement-import deduplication.
func (t *Transaction) ComputeIdempotencyHash() string {
	combined := t.Date.Format(time.DateOnly) + t.Amount.Amount().StringFixed(2) + t.Title
	sum := sha256.Sum256([]byte(combined))

	return base64.StdEncoding.EncodeToString(sum[:])
}

// DateOnly strips the time-of-day portion, keeping a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
