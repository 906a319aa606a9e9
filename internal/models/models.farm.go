// FilePath: internal/models/models.farm.go
package models

import "time"

type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// Farm is the top-level tenant grouping. Farm and zone records are
// read-mostly reference data for the readings subsystem; membership
// management itself lives outside this service.
type Farm struct {
	ID         string    `json:"id" db:"id"`
	FarmID     string    `json:"farm_id" db:"farm_id"`
	FarmName   string    `json:"farm_name" db:"farm_name"`
	Location   string    `json:"location" db:"location"`
	AccessCode string    `json:"-" db:"access_code"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FarmMember is one (user, role) pair of a farm. A user appears at most
// once per farm.
type FarmMember struct {
	FarmID string     `json:"farm_id" db:"farm_id"`
	UserID string     `json:"user_id" db:"user_id"`
	Role   MemberRole `json:"role" db:"role"`
}

// HasMember reports whether userID holds any role among members.
func HasMember(members []FarmMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// HasAdmin reports whether userID holds the admin role among members.
func HasAdmin(members []FarmMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID && m.Role == RoleAdmin {
			return true
		}
	}
	return false
}
