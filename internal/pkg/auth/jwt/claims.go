package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the Haven API.
// It includes standard claims required by the JWT specification and the custom claims
// necessary for identifying users across REST calls and WebSocket upgrades.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the numeric account identifier the token was issued for.
	UserID int64 `json:"user_id"`

	// Username is the unique login name, kept in the token so push payloads and
	// deep links can be built without an extra lookup.
	Username string `json:"username"`

	// Nickname is the display name at issue time. May lag behind the profile.
	Nickname string `json:"nickname,omitempty"`

	// IsAdmin marks accounts allowed to hit operational endpoints (digest trigger).
	IsAdmin bool `json:"is_admin,omitempty"`
}
