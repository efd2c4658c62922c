package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         Role       `db:"role"`
	ClientID     *uuid.UUID `db:"client_id"`
	CreatedAt    time.Time  `db:"created_at"`
}
