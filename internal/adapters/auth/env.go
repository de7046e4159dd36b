package auth

import (
	"context"
	"fmt"
	"os"

	"daybook/internal/ports"
)

// EnvTokenSource reads a bearer token from an environment variable. It is
// the simplest integration: the surrounding OAuth machinery is expected to
// keep the variable populated.
type EnvTokenSource struct {
	Var string
}

var _ ports.TokenSource = EnvTokenSource{}

// Token returns the variable's value, or an error when it is unset.
func (s EnvTokenSource) Token(context.Context) (string, error) {
	token := os.Getenv(s.Var)
	if token == "" {
		return "", fmt.Errorf("no credential: %s is not set", s.Var)
	}
	return token, nil
}
