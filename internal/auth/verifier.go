package auth

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
	"google.golang.org/api/idtoken"
)

// IdentityVerifier validates a raw Google ID token and extracts the operator
// identity it asserts.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type googleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier builds a verifier that checks tokens against the console's
// OAuth client ID.
func NewGoogleVerifier(clientID string) (IdentityVerifier, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	return &googleVerifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}, nil
}

func (v *googleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token is required")
	}

	payload, err := v.validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid id token")
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token carries no email")
	}
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "email is not verified")
	}

	name, _ := payload.Claims["name"].(string)
	avatar, _ := payload.Claims["picture"].(string)

	return &Identity{
		Email:     email,
		Name:      name,
		AvatarURL: avatar,
	}, nil
}
