package auth

import "context"

// CredentialsVerifier valida un par email/password (HTTP Basic) y
// devuelve los claims de la cuenta o error.
type CredentialsVerifier interface {
	Verify(ctx context.Context, email, password string) (Claims, error)
}
