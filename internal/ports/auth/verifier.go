package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite un token para un usuario ya autenticado.
// Lo usa el módulo users en register/login; el resto del sistema
// solo conoce AuthVerifier.
type TokenIssuer interface {
	Issue(ctx context.Context, userID, email string) (string, error)
}
