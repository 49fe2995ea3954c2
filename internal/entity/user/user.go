package user

import "strconv"

// Owner is an authenticated identity; every document belongs to exactly one owner.
type Owner struct {
	ID          string
	DisplayName string
}

func (o Owner) IsZero() bool {
	return o.ID == ""
}

// FromTelegram maps a Telegram account onto an owner. The display name falls back to the first name.
func FromTelegram(id int64, userName, firstName string) Owner {
	name := userName
	if name == "" {
		name = firstName
	}
	return Owner{
		ID:          strconv.FormatInt(id, 10),
		DisplayName: name,
	}
}
