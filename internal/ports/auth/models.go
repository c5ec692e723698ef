package auth

// Role es el rol grueso que viaja como claim; las reglas finas
// (self-service, ownership) se deciden en cada handler.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleChipper Role = "CHIPPER"
	RoleUser    Role = "USER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleChipper, RoleUser:
		return Role(s), true
	default:
		return "", false
	}
}

// Claims representa la identidad autenticada del request.
type Claims struct {
	AccountID string
	Email     string
	Role      Role
}
