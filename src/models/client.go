package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a tenant: the organization that owns a set of assets.
type Client struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
