package household

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleSelf    Role = "self"
	RolePartner Role = "partner"
	RoleChild   Role = "child"
)

// FamilyMember mirrors one entry of the familyData document. BirthDate is YYYY-MM-DD.
type FamilyMember struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	BirthDate     string `json:"birthDate"`
	Role          Role   `json:"role"`
	InitialIncome *int   `json:"initialIncome,omitempty"`
}

type FamilyData struct {
	Members   []FamilyMember `json:"members"`
	UpdatedAt string         `json:"updatedAt"`
}

func (d FamilyData) Member(role Role) (FamilyMember, bool) {
	for _, m := range d.Members {
		if m.Role == role {
			return m, true
		}
	}
	return FamilyMember{}, false
}

// Identity is the read-only view of the household consumed by the timeline and the seeding initializer.
type Identity struct {
	SelfName             string
	SelfBirthYear        int
	SelfInitialIncome    int
	PartnerName          string
	PartnerBirthYear     *int
	PartnerInitialIncome int
}

func (i Identity) HasPartner() bool {
	return i.PartnerBirthYear != nil
}

// IdentityFromFamily resolves the self member; ok is false when there is no self member with a usable birth date.
func IdentityFromFamily(data FamilyData) (id Identity, ok bool) {
	self, found := data.Member(RoleSelf)
	if !found {
		return Identity{}, false
	}
	selfYear, err := BirthYear(self.BirthDate)
	if err != nil {
		return Identity{}, false
	}

	id = Identity{
		SelfName:          self.Name,
		SelfBirthYear:     selfYear,
		SelfInitialIncome: incomeOrZero(self.InitialIncome),
	}

	partner, found := data.Member(RolePartner)
	if !found {
		return id, true
	}
	id.PartnerName = partner.Name
	id.PartnerInitialIncome = incomeOrZero(partner.InitialIncome)
	if partnerYear, err := BirthYear(partner.BirthDate); err == nil {
		id.PartnerBirthYear = &partnerYear
	}
	return id, true
}

func BirthYear(birthDate string) (int, error) {
	if birthDate == "" {
		return 0, errors.New("empty birth date")
	}
	t, err := now.ParseInLocation(time.UTC, birthDate)
	if err != nil {
		return 0, errors.Wrap(err, "parse birth date")
	}
	return t.Year(), nil
}

func incomeOrZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
