package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the user id inside the session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// MintToken issues a signed HS256 token for the given user id. The rest of
// the system treats the result as an opaque string: nothing verifies or
// expires it once it has been persisted, it exists only to mark a session
// as live. The random jti makes every mint unique even within one clock
// tick.
func MintToken(userID string, secret []byte, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
		UserID: userID,
	})

	return token.SignedString(secret)
}
