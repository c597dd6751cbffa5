package contact

import (
	"errors"
	"time"
)

var ErrMessageFieldsEmpty = errors.New("contact message fields empty")

// Message is a single contact form submission. Messages are append-only:
// once stored they are never updated or deleted through the API.
type Message struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
