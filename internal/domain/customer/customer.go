// Package customer holds the customer profile snapshot cached next to
// the session token, and helpers for inspecting the opaque token.
package customer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Customer is the cached profile snapshot. The password is never part
// of it; it is submitted to the customer service and discarded.
type Customer struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Verified   bool   `json:"verified"`
}

// DisplayName returns the name shown in the account menu
func (c *Customer) DisplayName() string {
	if c.FirstName != "" {
		return c.FirstName
	}
	return c.Email
}

// Session pairs the bearer token with its cached profile. The two are
// persisted and cleared together, never one without the other.
type Session struct {
	Token    string
	Customer Customer
}

// TokenExpired peeks at the token's exp claim without verifying the
// signature; verification is the customer service's job. Tokens
// without a parseable exp claim are treated as live so the server side
// still gets the final say.
func TokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
