package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
// - Sin header Authorization => el request sigue anónimo; cada handler
//   decide si exige identidad.
// - Con "Basic ..." => verifica email/password contra el verifier. Un par
//   inválido corta aquí con 401 (credenciales malas nunca pasan como
//   anónimas).
func AuthContext(verifier auth.CredentialsVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := basicCredentials(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), email, password)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Basic")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(apperr.HTTPStatus(err))
				_ = json.NewEncoder(w).Encode(map[string]string{"message": apperr.PublicMessage(err)})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// RequireRole exige identidad y uno de los roles dados. Sin claims => 401;
// con claims pero rol insuficiente => 403.
func RequireRole(ctx context.Context, roles ...auth.Role) (auth.Claims, error) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return auth.Claims{}, apperr.Unauthorized("authentication required")
	}
	for _, role := range roles {
		if claims.Role == role {
			return claims, nil
		}
	}
	return auth.Claims{}, apperr.Forbidden("insufficient role")
}

func basicCredentials(authHeader string) (email, password string, ok bool) {
	if strings.TrimSpace(authHeader) == "" {
		return "", "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", false
	}

	pair := strings.SplitN(string(decoded), ":", 2)
	if len(pair) != 2 {
		return "", "", false
	}
	return pair[0], pair[1], true
}
