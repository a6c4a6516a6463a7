package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

var NowFunc = time.Now // mockable

// IsTokenValid decodes the claims segment of a JWT without verifying the
// signature (the backend owns verification) and checks the exp claim against
// the current time. It fails closed: any malformed token is invalid.
func IsTokenValid(token string) (valid bool) {
	// the jwt parser is not meant for hostile input; never let it panic us
	defer func() {
		if r := recover(); r != nil {
			valid = false
		}
	}()

	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok || exp == 0 {
		return false
	}
	return NowFunc().Before(time.Unix(int64(exp), 0))
}
