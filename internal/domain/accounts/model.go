package accounts

import "animal-chip-tracker/internal/ports/auth"

// Account es la cuenta que administra animales; Animal.ChipperID apunta acá.
type Account struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         auth.Role
}
