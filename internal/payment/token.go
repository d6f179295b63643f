package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/gymform/internal/domain"
)

// ErrInvalidToken is returned for a return token that cannot be parsed.
var ErrInvalidToken = errors.New("invalid return token")

// BuildReturnToken joins a checkout session ID and plan as "<session>_<plan>".
func BuildReturnToken(sessionID string, plan domain.PlanType) string {
	return sessionID + "_" + string(plan)
}

// ParseReturnToken splits a return token on its last underscore. Stripe
// session IDs contain underscores themselves (cs_test_...), plan names don't.
func ParseReturnToken(token string) (string, domain.PlanType, error) {
	token = strings.TrimSpace(token)
	i := strings.LastIndex(token, "_")
	if i <= 0 || i == len(token)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	sessionID, plan := token[:i], token[i+1:]
	if !domain.ValidPlanType(plan) {
		return "", "", fmt.Errorf("%w: unknown plan %q", ErrInvalidToken, plan)
	}
	return sessionID, domain.PlanType(plan), nil
}
