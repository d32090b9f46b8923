package users

import "time"

// User es la cuenta dueña de medicamentos y logs de adherencia.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}
