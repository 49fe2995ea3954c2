package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/income-planner/internal/entity/document"
)

type documentStorage interface {
	GetDocument(ctx context.Context, ownerID, key string) (document.Document, bool, error)
	SaveDocument(ctx context.Context, ownerID, key string, doc document.Document) error
}

func exerciseStorage(t *testing.T, s documentStorage) {
	ctx := context.Background()

	_, found, err := s.GetDocument(ctx, "42", document.KeyIncomeData)
	require.NoError(t, err)
	assert.False(t, found)

	at := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	require.NoError(t, s.SaveDocument(ctx, "42", document.KeyIncomeData, document.Document{
		Value:     json.RawMessage(`{"incomes":[]}`),
		UpdatedAt: at,
	}))
	require.NoError(t, s.SaveDocument(ctx, "42", document.KeyFamilyData, document.Document{
		Value:     json.RawMessage(`{"members":[]}`),
		UpdatedAt: at,
	}))
	require.NoError(t, s.SaveDocument(ctx, "42", document.KeyIncomeData, document.Document{
		Value:     json.RawMessage(`{"incomes":[{"year":2030,"selfIncome":1,"partnerIncome":0}]}`),
		UpdatedAt: at.Add(time.Second),
	}))

	doc, found, err := s.GetDocument(ctx, "42", document.KeyIncomeData)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"incomes":[{"year":2030,"selfIncome":1,"partnerIncome":0}]}`, string(doc.Value))
	assert.True(t, doc.UpdatedAt.Equal(at.Add(time.Second)))

	family, found, err := s.GetDocument(ctx, "42", document.KeyFamilyData)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"members":[]}`, string(family.Value))

	_, found, err = s.GetDocument(ctx, "43", document.KeyIncomeData)
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_OnInMemStorage_ShouldKeepDocumentsPerOwnerAndKey(t *testing.T) {
	exerciseStorage(t, NewInMemStorage())
}

func Test_OnSQLiteStorage_ShouldKeepDocumentsPerOwnerAndKey(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "replica", "replica.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	exerciseStorage(t, s)
}

func Test_OnInMemStorage_ShouldCopyValues(t *testing.T) {
	s := NewInMemStorage()
	value := json.RawMessage(`{"a":1}`)
	require.NoError(t, s.SaveDocument(context.Background(), "1", "k", document.Document{Value: value}))

	value[2] = 'b'

	doc, _, err := s.GetDocument(context.Background(), "1", "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(doc.Value))
}
