package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const AdminRole = "administrator"

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`

	// Stripe customer linked to this user, set once during owner resolution.
	StripeCustomerID string `json:"stripe_customer_id" gorm:"index"`

	// Role ids currently held by the user.
	Roles datatypes.JSON `json:"roles"`

	Subscriptions []Subscription `json:"-"`
}

func (u *User) RoleIDs() []string {
	return DecodeRoles(u.Roles)
}

func (u *User) HasRole(rid string) bool {
	for _, role := range u.RoleIDs() {
		if role == rid {
			return true
		}
	}
	return false
}

func (u *User) AddRole(rid string) {
	if u.HasRole(rid) {
		return
	}
	u.Roles = EncodeRoles(append(u.RoleIDs(), rid))
}

func (u *User) RemoveRole(rid string) {
	roles := u.RoleIDs()
	kept := roles[:0]
	for _, role := range roles {
		if role != rid {
			kept = append(kept, role)
		}
	}
	u.Roles = EncodeRoles(kept)
}

func (u *User) IsAdmin() bool {
	return u.HasRole(AdminRole)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"email":    u.Email,
		"username": u.Username,
		"roles":    u.RoleIDs(),
	}
}
