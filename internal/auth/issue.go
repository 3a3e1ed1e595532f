package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jws"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// Sign issues an HS256 token for subject. It is used by the CLI's dev login
// and by tests; production tokens come from the identity service.
func Sign(secret, subject string, role domain.Role, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"emp_id": subject,
		"role":   role,
		"exp":    time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	signed, err := jws.Sign(payload, jws.WithKey(jwa.HS256(), []byte(secret)))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}
