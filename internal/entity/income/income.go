package income

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Gross and net values are whole blocks of 10,000 currency units.

type Field string

const (
	Self    Field = "self"
	Partner Field = "partner"
)

func ParseField(s string) (Field, bool) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case Self:
		return Self, true
	case Partner:
		return Partner, true
	}
	return "", false
}

type YearlyIncome struct {
	Year          int `json:"year"`
	SelfIncome    int `json:"selfIncome"`
	PartnerIncome int `json:"partnerIncome"`
}

func (y YearlyIncome) Value(f Field) int {
	if f == Partner {
		return y.PartnerIncome
	}
	return y.SelfIncome
}

func (y YearlyIncome) With(f Field, value int) YearlyIncome {
	if f == Partner {
		y.PartnerIncome = value
	} else {
		y.SelfIncome = value
	}
	return y
}

// Timeline is a sparse year-keyed set of records. Lookups are total: a year
// without a record reads as zero income for both parties.
type Timeline struct {
	records   map[int]YearlyIncome
	UpdatedAt time.Time
	// UpdatedBy identifies the writer that produced the document, empty for legacy documents.
	UpdatedBy string
}

func NewTimeline(records ...YearlyIncome) Timeline {
	t := Timeline{records: make(map[int]YearlyIncome, len(records))}
	for _, rec := range records {
		t.records[rec.Year] = sanitize(rec)
	}
	return t
}

func (t Timeline) Len() int {
	return len(t.records)
}

func (t Timeline) IsEmpty() bool {
	return len(t.records) == 0
}

func (t Timeline) Has(year int) bool {
	_, ok := t.records[year]
	return ok
}

// Record returns the stored record or a zero-income record for the year.
func (t Timeline) Record(year int) YearlyIncome {
	rec, ok := t.records[year]
	if !ok {
		return YearlyIncome{Year: year}
	}
	return rec
}

func (t Timeline) Gross(year int, f Field) int {
	return t.Record(year).Value(f)
}

func (t Timeline) Years() []int {
	years := make([]int, 0, len(t.records))
	for year := range t.records {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

func (t Timeline) Records() []YearlyIncome {
	res := make([]YearlyIncome, 0, len(t.records))
	for _, year := range t.Years() {
		res = append(res, t.records[year])
	}
	return res
}

// Put returns a copy of the timeline with rec stored under its year.
func (t Timeline) Put(rec YearlyIncome) Timeline {
	res := t.clone()
	res.records[rec.Year] = sanitize(rec)
	return res
}

func (t Timeline) Equal(other Timeline) bool {
	if len(t.records) != len(other.records) {
		return false
	}
	for year, rec := range t.records {
		if o, ok := other.records[year]; !ok || o != rec {
			return false
		}
	}
	return true
}

func (t Timeline) clone() Timeline {
	res := Timeline{
		records:   make(map[int]YearlyIncome, len(t.records)+1),
		UpdatedAt: t.UpdatedAt,
		UpdatedBy: t.UpdatedBy,
	}
	for year, rec := range t.records {
		res.records[year] = rec
	}
	return res
}

func sanitize(rec YearlyIncome) YearlyIncome {
	if rec.SelfIncome < 0 {
		rec.SelfIncome = 0
	}
	if rec.PartnerIncome < 0 {
		rec.PartnerIncome = 0
	}
	return rec
}

type document struct {
	Incomes   []YearlyIncome `json:"incomes"`
	UpdatedAt string         `json:"updatedAt"`
	UpdatedBy string         `json:"updatedBy,omitempty"`
}

func (t Timeline) MarshalJSON() ([]byte, error) {
	doc := document{
		Incomes:   t.Records(),
		UpdatedBy: t.UpdatedBy,
	}
	if !t.UpdatedAt.IsZero() {
		doc.UpdatedAt = t.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON keeps the last record for a repeated year and clamps negative values to zero.
func (t *Timeline) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "decode income timeline")
	}

	res := NewTimeline(doc.Incomes...)
	res.UpdatedBy = doc.UpdatedBy
	if doc.UpdatedAt != "" {
		at, err := time.Parse(time.RFC3339Nano, doc.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "decode income timeline updatedAt")
		}
		res.UpdatedAt = at
	}
	*t = res
	return nil
}
