package ports

import "context"

// TokenSource yields a bearer credential for a cloud provider. The
// acquisition mechanics (OAuth flows, token files) live behind this
// interface; adapters only see the resulting credential.
type TokenSource interface {
	// Token returns a currently valid bearer token, or an error when no
	// credential can be acquired.
	Token(ctx context.Context) (string, error)
}
