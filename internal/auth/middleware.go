package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/eventpass/internal/domain"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Usuario *domain.Usuario
}

// ID returns the caller's usuario id.
func (p *Principal) ID() int64 {
	return p.Usuario.ID
}

// IsManager reports whether the caller may manage eventos.
func (p *Principal) IsManager() bool {
	return p.Usuario.Role.IsManager()
}

// UsuarioLoader is the lookup the middleware needs to resolve a token subject.
type UsuarioLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.Usuario, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	usuarios UsuarioLoader
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, usuarios UsuarioLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, usuarios: usuarios}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	usuario, err := m.usuarios.GetByID(c.UserContext(), claims.UsuarioID)
	if err != nil {
		if errors.Is(err, domain.ErrUsuarioNotFound) {
			return apperrors.NewUnauthorized("usuario not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Usuario: usuario})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal.Usuario != nil
}
