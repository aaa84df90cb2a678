package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims carried by a TaskHub bearer token.
type Payload struct {
	// StandardClaims embeds the JWT standard fields (Exp, Iat, Iss) used for
	// token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the account identifier the token asserts.
	UserID string `json:"user_id"`

	// Username is the account's username, carried for logging and display.
	Username string `json:"username"`
}
