package income

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OnAbsentYear_ShouldReadAsZero(t *testing.T) {
	tl := NewTimeline(YearlyIncome{Year: 2030, SelfIncome: 500, PartnerIncome: 300})

	assert.Equal(t, 500, tl.Gross(2030, Self))
	assert.Equal(t, 300, tl.Gross(2030, Partner))
	assert.Equal(t, 0, tl.Gross(2031, Self))
	assert.Equal(t, YearlyIncome{Year: 2031}, tl.Record(2031))
	assert.False(t, tl.Has(2031))
}

func Test_OnPut_ShouldNotMutateOriginal(t *testing.T) {
	before := NewTimeline(YearlyIncome{Year: 2030, SelfIncome: 500})
	after := before.Put(YearlyIncome{Year: 2030, SelfIncome: 700})

	assert.Equal(t, 500, before.Gross(2030, Self))
	assert.Equal(t, 700, after.Gross(2030, Self))
}

func Test_OnDuplicateYearsInDocument_ShouldKeepLast(t *testing.T) {
	raw := `{"incomes":[{"year":2030,"selfIncome":1,"partnerIncome":2},{"year":2030,"selfIncome":3,"partnerIncome":-4}],"updatedAt":"2026-01-02T03:04:05Z"}`

	var tl Timeline
	require.NoError(t, json.Unmarshal([]byte(raw), &tl))

	assert.Equal(t, 1, tl.Len())
	assert.Equal(t, YearlyIncome{Year: 2030, SelfIncome: 3, PartnerIncome: 0}, tl.Record(2030))
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), tl.UpdatedAt)
}

func Test_OnMarshal_ShouldWriteSortedDocument(t *testing.T) {
	tl := NewTimeline(
		YearlyIncome{Year: 2031, SelfIncome: 2},
		YearlyIncome{Year: 2030, SelfIncome: 1},
	)
	tl.UpdatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tl.UpdatedBy = "writer-1"

	raw, err := json.Marshal(tl)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"incomes":[
			{"year":2030,"selfIncome":1,"partnerIncome":0},
			{"year":2031,"selfIncome":2,"partnerIncome":0}
		],
		"updatedAt":"2026-01-02T03:04:05Z",
		"updatedBy":"writer-1"
	}`, string(raw))
}

func Test_OnParseField_ShouldAcceptKnownNames(t *testing.T) {
	f, ok := ParseField(" Partner ")
	assert.True(t, ok)
	assert.Equal(t, Partner, f)

	_, ok = ParseField("child")
	assert.False(t, ok)
}
