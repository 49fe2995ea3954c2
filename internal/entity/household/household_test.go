package household

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const familyDoc = `{
	"members": [
		{"id": "1", "name": "Taro", "birthDate": "1990-04-01", "role": "self", "initialIncome": 600},
		{"id": "2", "name": "Hanako", "birthDate": "1992-11-20", "role": "partner"},
		{"id": "3", "name": "Jiro", "birthDate": "2020-06-15", "role": "child"}
	],
	"updatedAt": "2026-01-01T00:00:00Z"
}`

func Test_OnFullFamily_ShouldResolveIdentity(t *testing.T) {
	var data FamilyData
	require.NoError(t, json.Unmarshal([]byte(familyDoc), &data))

	id, ok := IdentityFromFamily(data)
	require.True(t, ok)

	assert.Equal(t, "Taro", id.SelfName)
	assert.Equal(t, 1990, id.SelfBirthYear)
	assert.Equal(t, 600, id.SelfInitialIncome)
	require.True(t, id.HasPartner())
	assert.Equal(t, 1992, *id.PartnerBirthYear)
	assert.Equal(t, 0, id.PartnerInitialIncome)
}

func Test_OnMissingSelf_ShouldNotResolve(t *testing.T) {
	data := FamilyData{Members: []FamilyMember{{Name: "Hanako", BirthDate: "1992-11-20", Role: RolePartner}}}

	_, ok := IdentityFromFamily(data)
	assert.False(t, ok)
}

func Test_OnBadSelfBirthDate_ShouldNotResolve(t *testing.T) {
	data := FamilyData{Members: []FamilyMember{{Name: "Taro", BirthDate: "", Role: RoleSelf}}}

	_, ok := IdentityFromFamily(data)
	assert.False(t, ok)
}
