package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// OAuthScopes are requested from Google
var OAuthScopes = []string{"openid", "email", "profile"}

// OAuthService runs the Google sign-in popup flow
type OAuthService struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	// userInfoEndpoint overrides the Google API base URL.
	userInfoEndpoint string
	auth             *AuthService
	logger           *zap.Logger
}

// OAuthServiceOption is a functional option for OAuthService
type OAuthServiceOption func(*OAuthService)

// OAuthWithCredentials sets the Google client credentials
func OAuthWithCredentials(clientID, clientSecret string) OAuthServiceOption {
	return func(s *OAuthService) {
		s.clientID = clientID
		s.clientSecret = clientSecret
	}
}

// OAuthWithEndpoint overrides the authorization server
func OAuthWithEndpoint(endpoint oauth2.Endpoint) OAuthServiceOption {
	return func(s *OAuthService) {
		s.endpoint = endpoint
	}
}

// OAuthWithUserInfoEndpoint overrides the base URL of the userinfo API
func OAuthWithUserInfoEndpoint(url string) OAuthServiceOption {
	return func(s *OAuthService) {
		s.userInfoEndpoint = url
	}
}

// OAuthWithAuthService sets the service that issues session tokens
func OAuthWithAuthService(auth *AuthService) OAuthServiceOption {
	return func(s *OAuthService) {
		s.auth = auth
	}
}

// OAuthWithLogger sets the logger
func OAuthWithLogger(logger *zap.Logger) OAuthServiceOption {
	return func(s *OAuthService) {
		s.logger = logger
	}
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(opts ...OAuthServiceOption) *OAuthService {
	s := &OAuthService{endpoint: google.Endpoint, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OAuthService) config(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       OAuthScopes,
		Endpoint:     s.endpoint,
	}
}

// NewState returns a fresh anti-forgery state value
func (s *OAuthService) NewState() string {
	return uuid.NewString()
}

// AuthURL builds the consent page URL the popup opens
func (s *OAuthService) AuthURL(redirectURL, state string) string {
	return s.config(redirectURL).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Complete exchanges the callback code, looks up the Google profile and signs
// the matching account in.
func (s *OAuthService) Complete(ctx context.Context, redirectURL, code string) (*AuthResult, error) {
	if s.auth == nil {
		return nil, errors.New("auth service not set")
	}
	if code == "" {
		return nil, errors.New("authorization code missing")
	}

	cfg := s.config(redirectURL)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(cfg.Client(ctx, token))}
	if s.userInfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(s.userInfoEndpoint))
	}
	api, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := api.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	s.logger.Debug("oauth profile retrieved", zap.String("email", info.Email))
	return s.auth.SignInOAuth(ctx, info.Email, info.Name)
}
