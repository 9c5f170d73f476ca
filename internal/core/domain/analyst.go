package domain

import (
	"time"

	"github.com/google/uuid"
)

// Analyst is an operator account allowed to administer the blacklist.
type Analyst struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
