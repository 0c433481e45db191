package models

import "github.com/google/uuid"

const (
	StudentRole = "student"
	AdminRole   = "admin"
)

type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string
	Roles    []string
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
