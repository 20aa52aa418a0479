package customer

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "cust-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "future exp is live",
			token: signedToken(t, now.Add(time.Hour)),
			want:  false,
		},
		{
			name:  "past exp is expired",
			token: signedToken(t, now.Add(-time.Hour)),
			want:  true,
		},
		{
			name:  "opaque token treated as live",
			token: "not-a-jwt",
			want:  false,
		},
		{
			name:  "empty token treated as live",
			token: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenExpired(tt.token, now))
		})
	}
}

func TestTokenExpired_NoExpClaim(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, TokenExpired(s, time.Now()))
}

func TestDisplayName(t *testing.T) {
	c := Customer{FirstName: "Ada", Email: "ada@example.com"}
	assert.Equal(t, "Ada", c.DisplayName())

	c.FirstName = ""
	assert.Equal(t, "ada@example.com", c.DisplayName())
}
