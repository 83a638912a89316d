package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

type Claims struct {
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}

func (p *JWTProvider) Generate(actor user.Actor, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:         actor.ID.String(),
		Role:           string(actor.Role),
		OrganizationID: actor.OrganizationID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, common.NewError(common.CodeInternal, "failed to sign token", err)
	}
	return signed, expiresAt, nil
}

func (p *JWTProvider) Parse(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, common.NewError(common.CodeUnauthorized, "invalid token", err)
	}
	if !token.Valid {
		return nil, common.NewError(common.CodeUnauthorized, "invalid token", nil)
	}
	if claims.UserID == "" && claims.Subject != "" {
		claims.UserID = claims.Subject
	}
	return &claims, nil
}

// Actor reconstructs the request actor from verified claims.
func (c *Claims) Actor() (user.Actor, error) {
	id, err := common.ParseUUID(c.UserID)
	if err != nil {
		return user.Actor{}, common.NewError(common.CodeUnauthorized, "invalid user id", err)
	}
	role, ok := user.ParseRole(c.Role)
	if !ok {
		return user.Actor{}, common.NewError(common.CodeUnauthorized, "unknown role", nil)
	}
	actor := user.Actor{ID: id, Role: role}
	if c.OrganizationID != "" {
		if orgID, err := common.ParseUUID(c.OrganizationID); err == nil {
			actor.OrganizationID = orgID
		}
	}
	return actor, nil
}
