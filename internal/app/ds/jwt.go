package ds

import (
	"github.com/golang-jwt/jwt"
)

// JWTClaims - claims of the admin token issued by the content API.
// Only read locally to learn the expiry, the signature is checked by the API.
type JWTClaims struct {
	jwt.StandardClaims
	UserID string `json:"id"`
}
