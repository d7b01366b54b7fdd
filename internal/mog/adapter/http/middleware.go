package http

import (
	"errors"
	"strings"

	apperrors "mog/internal/shared/errors"
	"mog/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMissing          = errors.New("authentication required")
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// RequestID tags every request with an X-Request-ID, generating a UUID when
// the client did not send one.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

// RequestContext copies the request id assigned by RequestID into the user context.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// TokenGuard checks HS256 bearer tokens.
type TokenGuard struct {
	secret []byte
	issuer string
}

// NewTokenGuard creates a guard for tokens signed with secret. An empty issuer accepts any issuer.
func NewTokenGuard(secret, issuer string) (*TokenGuard, error) {
	if secret == "" {
		return nil, errors.New("jwt secret key cannot be empty")
	}
	return &TokenGuard{secret: []byte(secret), issuer: issuer}, nil
}

// Validate parses tokenString and returns its registered claims.
func (g *TokenGuard) Validate(tokenString string) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if g.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(g.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignatureInvalid
		}
		return g.secret, nil
	}, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Protect rejects requests without a valid bearer token and stores the
// token subject in the user context.
func (g *TokenGuard) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.Validate(bearerToken(c))
		if err != nil {
			appErr := apperrors.NewAuthenticationError(err.Error()).WithCause(err)
			return c.Status(appErr.HTTPCode).JSON(fiber.Map{
				"error": appErr.Message,
				"type":  appErr.Type,
			})
		}
		if claims.Subject != "" {
			c.SetUserContext(utils.WithSubject(c.UserContext(), claims.Subject))
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
