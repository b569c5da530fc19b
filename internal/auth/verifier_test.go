package auth

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
	"google.golang.org/api/idtoken"
)

func TestVerifyExtractsIdentity(t *testing.T) {
	v := &googleVerifier{
		clientID: "client-id",
		validate: func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			if audience != "client-id" {
				t.Fatalf("unexpected audience: %s", audience)
			}
			return &idtoken.Payload{Claims: map[string]any{
				"email":          "ops@example.com",
				"email_verified": true,
				"name":           "Ops",
				"picture":        "https://example.com/a.png",
			}}, nil
		},
	}

	identity, err := v.Verify(context.Background(), "raw-token")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.Email != "ops@example.com" || identity.Name != "Ops" || identity.AvatarURL != "https://example.com/a.png" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestVerifyRejectsUnverifiedEmail(t *testing.T) {
	v := &googleVerifier{
		clientID: "client-id",
		validate: func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Claims: map[string]any{
				"email":          "ops@example.com",
				"email_verified": false,
			}}, nil
		},
	}

	_, err := v.Verify(context.Background(), "raw-token")
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsValidatorError(t *testing.T) {
	v := &googleVerifier{
		clientID: "client-id",
		validate: func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return nil, errors.New("signature mismatch")
		},
	}

	_, err := v.Verify(context.Background(), "raw-token")
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsEmptyToken(t *testing.T) {
	v := &googleVerifier{clientID: "client-id"}
	if _, err := v.Verify(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty token")
	}
}
