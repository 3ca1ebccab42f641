package domain

import (
	"github.com/google/uuid"
)

type Role string

const (
	Admin  Role = "admin"
	Reader Role = "reader"
)

type TokenPayload struct {
	ID      uuid.UUID
	Subject string
	Role    Role
}
