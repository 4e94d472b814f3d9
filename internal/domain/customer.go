package domain

import "time"

// Customer is an account that can log in and buy products.
type Customer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
