package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/natog7/PersonalFinance/internal/transaction"
)

func TestService_ProjectInvalidMonthCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	for _, months := range []int{0, -1} {
		_, err := svc.Project(context.Background(), transaction.ProjectionParams{
			Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Months: months,
		})
		assert.ErrorIs(t, err, transaction.ErrInvalidMonthCount)
	}
}

func TestService_Project(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	income := func(amount string, date time.Time) *transaction.Transaction {
		return testTx(t, amount, date, transaction.TypeIncome)
	}
	expense := func(amount string, date time.Time) *transaction.Transaction {
		return testTx(t, amount, date, transaction.TypeExpense)
	}

	byMonth := map[string][]*transaction.Transaction{
		"2024-01-01": {income("100", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))},
		"2024-02-01": {expense("40", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))},
		"2024-03-01": nil,
	}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		FilterTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
			require.NotNil(t, filter.Period)

			start := filter.Period.Start()
			end, ok := filter.Period.End()
			require.True(t, ok)

			// Inclusive full calendar month.
			assert.Equal(t, 1, start.Day())
			assert.Equal(t, start.AddDate(0, 1, -1), end)

			return byMonth[start.Format(time.DateOnly)], nil
		}).
		Times(3)

	svc := transaction.NewService(repo)

	got, err := svc.Project(context.Background(), transaction.ProjectionParams{
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Months: 3,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 2024, got[0].Year)
	assert.Equal(t, time.January, got[0].Month)
	assert.True(t, got[0].Net.Equal(decimal.NewFromInt(100)), "net=%s", got[0].Net)
	assert.True(t, got[0].Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, got[0].Expenses.IsZero())

	assert.Equal(t, time.February, got[1].Month)
	assert.True(t, got[1].Net.Equal(decimal.NewFromInt(-40)), "net=%s", got[1].Net)

	assert.Equal(t, time.March, got[2].Month)
	assert.True(t, got[2].Net.IsZero())
}

func TestService_ProjectScopesCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	categoryID := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		FilterTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
			assert.Equal(t, []uuid.UUID{categoryID}, filter.CategoryIDs)
			return nil, nil
		})

	svc := transaction.NewService(repo)

	_, err := svc.Project(context.Background(), transaction.ProjectionParams{
		CategoryID: &categoryID,
		Start:      time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		Months:     1,
	})
	require.NoError(t, err)
}

func TestService_ProjectMonthOverflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var months []string

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		FilterTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
			months = append(months, filter.Period.Start().Format("2006-01"))
			return nil, nil
		}).
		Times(3)

	svc := transaction.NewService(repo)

	got, err := svc.Project(context.Background(), transaction.ProjectionParams{
		Start:  time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC),
		Months: 3,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02"}, months)
	assert.Equal(t, 2024, got[1].Year)
	assert.Equal(t, time.January, got[1].Month)
}

func TestService_ProjectRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoErr := errors.New("connection reset")

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		FilterTransactions(gomock.Any(), gomock.Any()).
		Return(nil, repoErr)

	svc := transaction.NewService(repo)

	_, err := svc.Project(context.Background(), transaction.ProjectionParams{
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Months: 2,
	})
	assert.ErrorIs(t, err, repoErr)
}

func testTx(t *testing.T, amount string, date time.Time, typ transaction.Type) *transaction.Transaction {
	t.Helper()

	tx, err := transaction.New("test", mustMoney(t, amount), date, typ, uuid.New())
	require.NoError(t, err)

	return tx
}
