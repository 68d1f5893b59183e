package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"screening-sync/internal/pkg/jwt"
)

const (
	CtxSessionIDKey = "session_id"
	CtxTokenKey     = "access_token"
	CtxUserIDKey    = "user_id"

	HeaderSessionID = "X-Session-ID"
)

// SessionMiddleware resolves the workspace session of a request. A bearer
// token is optional: with one the session belongs to the token's user,
// without one it is an anonymous local-only session named by X-Session-ID.
type SessionMiddleware struct {
	jwt jwt.Service
}

func NewSessionMiddleware(jwtSvc jwt.Service) *SessionMiddleware {
	return &SessionMiddleware{jwt: jwtSvc}
}

func (m *SessionMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			// Browsers cannot set headers on websocket upgrades.
			token = strings.TrimSpace(c.Query("access_token"))
			ok = token != ""
		}

		if !ok {
			sid := strings.TrimSpace(c.Get(HeaderSessionID))
			if sid == "" {
				sid = "default"
			}
			c.Locals(CtxSessionIDKey, "anon:"+sid)
			c.Locals(CtxTokenKey, "")
			return c.Next()
		}

		if m.jwt != nil && m.jwt.Enabled() {
			claims, err := m.jwt.Validate(token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
				}
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			}
			c.Locals(CtxUserIDKey, claims.UserID())
			c.Locals(CtxSessionIDKey, "user:"+claims.UserID())
		} else {
			c.Locals(CtxSessionIDKey, "token:"+uuid.NewSHA1(uuid.NameSpaceOID, []byte(token)).String())
		}
		c.Locals(CtxTokenKey, token)
		return c.Next()
	}
}

func SessionID(c fiber.Ctx) string {
	s, _ := c.Locals(CtxSessionIDKey).(string)
	if s == "" {
		return "anon:default"
	}
	return s
}

func Token(c fiber.Ctx) string {
	s, _ := c.Locals(CtxTokenKey).(string)
	return s
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
