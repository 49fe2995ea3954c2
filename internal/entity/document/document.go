package document

import (
	"encoding/json"
	"time"
)

// Keys of the per-owner documents.
const (
	KeyFamilyData = "familyData"
	KeyIncomeData = "incomeData"
)

type Document struct {
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Change announces that one owner's document was written. It carries no value:
// subscribers re-read storage, so a late notification never delivers an old value.
type Change struct {
	OwnerID   string    `json:"ownerId"`
	Key       string    `json:"key"`
	UpdatedAt time.Time `json:"updatedAt"`
}
