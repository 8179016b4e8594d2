package users

import (
	"context"

	"github.com/collabwrite/collabwrite/internal/models"
)

// CredentialAuthenticator is implemented by repositories that can check
// email/password credentials (the demo repository).
type CredentialAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Service encapsulates user-related business logic
type Service struct {
	repo  UserRepository
	creds CredentialAuthenticator
}

func NewService(r UserRepository) *Service {
	s := &Service{repo: r}
	if ca, ok := r.(CredentialAuthenticator); ok {
		s.creds = ca
	}
	return s
}

// UpsertFromClaims creates or updates a user using OIDC claims map
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	image, _ := claims["picture"].(string)
	if sub == "" {
		return nil, nil
	}
	u := &models.User{
		Sub:   sub,
		Email: email,
		Name:  name,
		Image: image,
	}
	return s.repo.UpsertBySub(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// Authenticate checks credentials against the configured provider. Returns
// (nil, nil) when credential sign-in is not available or does not match.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if s.creds == nil {
		return nil, nil
	}
	return s.creds.Authenticate(ctx, email, password)
}
