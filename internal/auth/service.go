package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgAuth "github.com/parshwa-io/adminconsole-backend/pkg/auth"
	"github.com/parshwa-io/adminconsole-backend/pkg/auth/session"
	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
)

const notAllowlistedMessage = "account is not authorized for this console"

// Service defines the behavior needed by the session controller.
type Service interface {
	SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
}

type allowlistGate interface {
	IsAllowed(email string) bool
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	verifier    IdentityVerifier
	gate        allowlistGate
	session     sessionManager
	broadcaster *Broadcaster
	jwtCfg      config.JWTConfig
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build a session service.
type ServiceParams struct {
	Verifier       IdentityVerifier
	Gate           allowlistGate
	SessionManager sessionManager
	Broadcaster    *Broadcaster
	JWTConfig      config.JWTConfig
}

// NewService constructs a sign-in service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Verifier == nil {
		return nil, fmt.Errorf("identity verifier is required")
	}
	if params.Gate == nil {
		return nil, fmt.Errorf("allowlist gate is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		verifier:    params.Verifier,
		gate:        params.Gate,
		session:     params.SessionManager,
		broadcaster: params.Broadcaster,
		jwtCfg:      params.JWTConfig,
		now:         time.Now,
	}, nil
}

// SignIn verifies the Google token, applies the allowlist, and only then
// issues a session. A denied identity never reaches the session store.
func (s *service) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	identity, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	if !s.gate.IsAllowed(identity.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, notAllowlistedMessage)
	}

	accessID := session.NewAccessID()
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		Email:     identity.Email,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
		JTI:       accessID,
	})
	if err != nil {
		// Roll the session back so the orphaned refresh entry cannot be used.
		_ = s.session.Revoke(ctx, accessID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if s.broadcaster != nil {
		s.broadcaster.SignedIn(*identity)
	}

	return &SignInResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Operator:     *identity,
	}, nil
}

// SignOut revokes the refresh session tied to the access token. Expired
// tokens are accepted; sign-out must work after the access token lapses.
func (s *service) SignOut(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}

	if s.broadcaster != nil {
		s.broadcaster.SignedOut()
	}

	return nil
}

// Refresh rotates the refresh token and mints a new access token carrying the
// same operator identity under a fresh access ID.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		Email:     claims.Email,
		Name:      claims.Name,
		AvatarURL: claims.AvatarURL,
		JTI:       newAccessID,
	})
	if err != nil {
		_ = s.session.Revoke(ctx, newAccessID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}
