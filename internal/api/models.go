package api

import "time"

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// AccessToken is sent as a bearer token on admin requests
	AccessToken string `json:"access_token"`

	// RefreshToken is used to obtain a new token pair
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt time.Time `json:"expires_at"`
}

// ExistsResponse is returned by existence checks.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// CountResponse is returned by counting endpoints.
type CountResponse struct {
	Count int `json:"count"`
}
