package model

import "github.com/google/uuid"

// User is the hosted auth identity. Its ID is also the primary key of the
// matching profile row.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
