// Package auth resolves bearer tokens issued by the identity service into a
// verified domain.Identity.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jws"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

var (
	// ErrUnauthorized is returned for missing, malformed or badly signed tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrExpired is returned for tokens past their exp claim.
	ErrExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
)

// claims is the identity service's token payload.
type claims struct {
	EmpID json.RawMessage `json:"emp_id"`
	Role  string          `json:"role"`
	Exp   *float64        `json:"exp,omitempty"`
}

// Verifier checks HS256 tokens against a shared secret.
type Verifier struct {
	key []byte
	now func() time.Time
}

// NewVerifier creates a verifier for secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{key: []byte(secret), now: time.Now}
}

// Identity verifies token and returns the caller it names. The token itself is
// kept on the identity so it can be forwarded to the resource API.
func (v *Verifier) Identity(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	payload, err := jws.Verify([]byte(token), jws.WithKey(jwa.HS256(), v.key))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: invalid claims: %v", ErrUnauthorized, err)
	}
	if c.Exp != nil && v.now().Unix() >= int64(*c.Exp) {
		return domain.Identity{}, ErrExpired
	}

	role := domain.Role(c.Role)
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: unknown role %q", ErrUnauthorized, c.Role)
	}
	subject, err := subjectID(c.EmpID)
	if err != nil {
		return domain.Identity{}, err
	}

	return domain.Identity{SubjectID: subject, Role: role, Token: token}, nil
}

// subjectID accepts emp_id as a JSON string or integer.
func subjectID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("%w: missing emp_id", ErrUnauthorized)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("%w: empty emp_id", ErrUnauthorized)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: invalid emp_id", ErrUnauthorized)
	}
	i, err := n.Int64()
	if err != nil {
		return "", fmt.Errorf("%w: invalid emp_id", ErrUnauthorized)
	}
	return fmt.Sprintf("%d", i), nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
