package importcsv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/natog7/PersonalFinance/internal/categorize"
	"github.com/natog7/PersonalFinance/internal/importer"
	"github.com/natog7/PersonalFinance/internal/transaction"
)

type stubSuggestRepo struct {
	id  uuid.UUID
	err error
}

func (s *stubSuggestRepo) FindCategory(context.Context, string) (uuid.UUID, error) {
	return s.id, s.err
}

func (s *stubSuggestRepo) CreateMapping(context.Context, string, uuid.UUID) error {
	return nil
}

func statementRequest(t *testing.T, csv string, categoryID uuid.UUID) *http.Request {
	t.Helper()

	var body bytes.Buffer

	form := multipart.NewWriter(&body)

	file, err := form.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)

	_, err = file.Write([]byte(csv))
	require.NoError(t, err)

	require.NoError(t, form.WriteField("category_id", categoryID.String()))
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/statement", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())

	return req
}

func TestImportStatementFutureDateRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	h := NewHandler(importer.NewParser(),
		transaction.NewService(repo),
		categorize.NewService(&stubSuggestRepo{}))

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(time.DateOnly)
	csv := "date;title;amount\n" + fmt.Sprintf("%s;Pending row;10.00\n", tomorrow)

	rec := httptest.NewRecorder()
	h.importStatement(rec, statementRequest(t, csv, uuid.New()))

	// A row violating a creation invariant is the caller's problem, not a
	// server failure.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "future")
	assert.Contains(t, rec.Body.String(), "Pending row")
}

func TestImportStatementSuggestFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	fallbackID := uuid.New()

	var inserted []*transaction.Transaction

	repo.EXPECT().ExistingHashes(gomock.Any(), gomock.Any()).
		Return(map[string]struct{}{}, nil)
	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			inserted = txs
			return nil
		})
	repo.EXPECT().CountTransactions(gomock.Any()).Return(1, nil)

	h := NewHandler(importer.NewParser(),
		transaction.NewService(repo),
		categorize.NewService(&stubSuggestRepo{err: errors.New("store down")}))

	csv := "date;title;amount\n2024-02-05;Market;-42.50\n"

	rec := httptest.NewRecorder()
	h.importStatement(rec, statementRequest(t, csv, fallbackID))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, inserted, 1)
	assert.Equal(t, fallbackID, inserted[0].CategoryID)
	assert.Contains(t, rec.Body.String(), `"imported":1`)
}

func TestImportStatementMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)

	h := NewHandler(importer.NewParser(),
		transaction.NewService(transaction.NewMockRepository(ctrl)),
		categorize.NewService(&stubSuggestRepo{}))

	var body bytes.Buffer

	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("category_id", uuid.NewString()))
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/statement", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())

	rec := httptest.NewRecorder()
	h.importStatement(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
