package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/golang-jwt/jwt"
)

var (
	ErrAccessTokenInvalid = errors.New("invalid access token")
	ErrAccessTokenExpired = fmt.Errorf("%w: token expired", ErrAccessTokenInvalid)
)

// Authorizer signs and checks HS256 access tokens. Tokens carry the user id
// in "sub" and the account role in "role".
type Authorizer struct {
	Secret         string
	AccessTokenTTL time.Duration
	Now            func() time.Time
}

func (a *Authorizer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Authorizer) GenerateAccessToken(userID string, role user.Role) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  now.Add(a.AccessTokenTTL).Unix(),
		"iat":  now.Unix(),
	})
	return token.SignedString([]byte(a.Secret))
}

type AccessTokenData struct {
	UserID string
	Role   user.Role
}

func (a *Authorizer) ValidateAccessToken(accessToken string) (*AccessTokenData, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(a.Secret), nil
	})

	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrAccessTokenExpired
		}
		return nil, ErrAccessTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !user.Role(role).Valid() {
		return nil, ErrAccessTokenInvalid
	}

	return &AccessTokenData{
		UserID: sub,
		Role:   user.Role(role),
	}, nil
}
