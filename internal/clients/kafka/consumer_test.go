package kafka

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/income-planner/internal/entity/document"
)

type recordingDispatcher struct {
	changes []document.Change
	errs    []error
}

func (d *recordingDispatcher) Dispatch(change document.Change) {
	d.changes = append(d.changes, change)
}

func (d *recordingDispatcher) Fail(err error) {
	d.errs = append(d.errs, err)
}

func Test_OnChangeMessage_ShouldDispatch(t *testing.T) {
	d := &recordingDispatcher{}
	c := &Consumer{dispatcher: d}
	change := document.Change{
		OwnerID:   "42",
		Key:       document.KeyIncomeData,
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(change)
	require.NoError(t, err)

	c.handleMessage([]byte("42"), raw)

	require.Len(t, d.changes, 1)
	assert.Equal(t, "42", d.changes[0].OwnerID)
	assert.Equal(t, document.KeyIncomeData, d.changes[0].Key)
	assert.True(t, change.UpdatedAt.Equal(d.changes[0].UpdatedAt))
}

func Test_OnMalformedMessage_ShouldSkip(t *testing.T) {
	d := &recordingDispatcher{}
	c := &Consumer{dispatcher: d}

	c.handleMessage([]byte("42"), []byte("not json"))

	assert.Empty(t, d.changes)
	assert.Empty(t, d.errs)
}

func Test_OnConsumerGroupName_ShouldBeUniquePerProcess(t *testing.T) {
	a, b := consumerGroupName("planner"), consumerGroupName("planner")

	assert.True(t, strings.HasPrefix(a, "planner-"))
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(consumerGroupName(""), "income-planner-"))
}
