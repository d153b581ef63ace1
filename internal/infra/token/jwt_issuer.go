package token

import (
	"time"

	"ekathu/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// ログイントークンの有効期限
const AccessTokenTTL = 24 * time.Hour

// HS256 で署名するJWT発行
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = AccessTokenTTL
	}
	return &JWTIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// sub=ユーザーID, role, tv=token_version
func (i *JWTIssuer) Issue(userID string, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
