package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/repository"
	apperrors "github.com/scentwork/partner-console/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Role       domain.Role
	SubjectID  string
	Ambassador *domain.Ambassador
}

// Actor converts the principal into the actor recorded on state changes.
func (p *Principal) Actor() domain.Actor {
	return domain.Actor{Role: p.Role, ID: p.SubjectID}
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// CanActFor reports whether the caller may act for the given ambassador.
func (p *Principal) CanActFor(ambassadorID string) bool {
	return p.IsAdmin() || (p.Role == domain.RoleAmbassador && p.SubjectID == ambassadorID)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	ambassadors repository.AmbassadorRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, ambassadors repository.AmbassadorRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, ambassadors: ambassadors}
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

	principal := &Principal{Role: claims.Role, SubjectID: claims.SubjectID}

	switch claims.Role {
	case domain.RoleAdmin:
	case domain.RoleAmbassador:
		ambassador, err := m.ambassadors.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownAmbassador) {
				return apperrors.NewUnauthorized("ambassador not found")
			}
			return apperrors.MapError(err)
		}
		principal.Ambassador = ambassador
	default:
		return apperrors.NewUnauthorized("unknown role")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
