package schemas

import (
	"time"

	"github.com/google/uuid"
)

type ClientRequest struct {
	Name string `json:"name"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
