package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/entity/income"
	"max.ks1230/income-planner/internal/model/docstore"
	"max.ks1230/income-planner/internal/model/storage"
)

func Test_OnEditOnOneDevice_ShouldReachTheOther(t *testing.T) {
	store := docstore.New(storage.NewInMemStorage())
	phone := New(store, WithDebounce(testDelay), WithWriterID("phone"))
	laptop := New(store, WithDebounce(testDelay), WithWriterID("laptop"))
	defer phone.Close()
	defer laptop.Close()

	phone.SignIn(owner)
	laptop.SignIn(owner)
	synced := func() bool {
		return phone.Status().State == Synced && laptop.Status().State == Synced
	}
	require.Eventually(t, synced, waitFor, tick)

	require.NoError(t, phone.UpdateCell(2030, income.Self, 480))
	require.NoError(t, phone.UpdateCell(2030, income.Partner, 310))

	assert.Eventually(t, func() bool {
		return laptop.Timeline().Record(2030) == income.YearlyIncome{Year: 2030, SelfIncome: 480, PartnerIncome: 310}
	}, waitFor, tick)
	assert.Equal(t, "phone", laptop.Timeline().UpdatedBy)

	require.NoError(t, laptop.UpdateCell(2031, income.Self, 500))
	assert.Eventually(t, func() bool {
		return phone.Timeline().Gross(2031, income.Self) == 500
	}, waitFor, tick)
	assert.Equal(t, 480, phone.Timeline().Gross(2030, income.Self))

	raw, found, err := store.Get(context.Background(), owner.ID, document.KeyIncomeData)
	require.NoError(t, err)
	require.True(t, found)
	var stored income.Timeline
	require.NoError(t, stored.UnmarshalJSON(raw))
	assert.True(t, stored.Equal(phone.Timeline()))
}
