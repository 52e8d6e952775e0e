package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"layer-backend/errs"
	"layer-backend/models"
	"layer-backend/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService manages accounts and session tokens
type AuthService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// AuthServiceOption is a functional option for AuthService
type AuthServiceOption func(*AuthService)

// AuthWithUserRepository sets the user repository
func AuthWithUserRepository(repo repository.UserRepository) AuthServiceOption {
	return func(s *AuthService) {
		s.userRepo = repo
	}
}

// AuthWithSecret sets the HS256 signing key
func AuthWithSecret(secret string) AuthServiceOption {
	return func(s *AuthService) {
		s.secret = []byte(secret)
	}
}

// AuthWithTokenTTL sets how long issued tokens stay valid
func AuthWithTokenTTL(ttl time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		s.tokenTTL = ttl
	}
}

// AuthWithLogger sets the logger
func AuthWithLogger(logger *zap.Logger) AuthServiceOption {
	return func(s *AuthService) {
		s.logger = logger
	}
}

// AuthWithClock overrides the time source
func AuthWithClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.now = now
	}
}

// NewAuthService creates a new auth service
func NewAuthService(opts ...AuthServiceOption) *AuthService {
	s := &AuthService{
		tokenTTL: 24 * time.Hour,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthResult is a signed-in user and their token
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// SignupRequest creates an account
type SignupRequest struct {
	Email    string
	Username string
	Password string
}

func (s *AuthService) ready() error {
	if s.userRepo == nil {
		return errors.New("user repository not set")
	}
	if len(s.secret) == 0 {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}

// Signup creates a Starter account and signs it in
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || req.Password == "" {
		return nil, errs.Invalid("email and password are required")
	}
	if username == "" {
		username = strings.Split(email, "@")[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Styles:       []string{},
		Plan:         models.PlanStarter,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, errs.Wrap(errs.KindConflict, "USER_EXISTS", "User already exists", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.signIn(user)
}

// Login checks a password and signs the user in
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err != nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errs.New(errs.KindUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	}
	return s.signIn(user)
}

// SignInOAuth signs in the account for a verified email, creating it on first use.
// OAuth accounts have no password.
func (s *AuthService) SignInOAuth(ctx context.Context, email, name string) (*AuthResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errs.Invalid("identity provider returned no email")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return s.signIn(user)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	username := strings.TrimSpace(name)
	if username == "" {
		username = strings.Split(email, "@")[0]
	}
	user = &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		Styles:   []string{},
		Plan:     models.PlanStarter,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent first sign-in may have created the account.
		if errors.Is(err, errs.ErrAlreadyExists) {
			if existing, gerr := s.userRepo.GetByEmail(ctx, email); gerr == nil {
				return s.signIn(existing)
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("created account from oauth sign-in", zap.String("user_id", user.ID))
	return s.signIn(user)
}

func (s *AuthService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// IssueToken signs an HS256 token carrying user_id and exp
func (s *AuthService) IssueToken(userID string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("JWT_SECRET is not set")
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     s.now().Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Authenticate resolves a token to its user. The user is reloaded so plan
// changes apply to existing tokens.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	unauthorized := errs.New(errs.KindUnauthorized, "UNAUTHORIZED", "Invalid or expired token")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, unauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, unauthorized
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, unauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, unauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, sess Session) (*models.User, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}
	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	return user, nil
}

// UpdatePlan switches the caller's subscription tier
func (s *AuthService) UpdatePlan(ctx context.Context, sess Session, plan models.Plan) (*models.User, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if !plan.Valid() {
		return nil, errs.Invalid(fmt.Sprintf("unknown plan %q", plan))
	}
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}
	if err := s.userRepo.UpdatePlan(ctx, sess.UserID, plan); err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	return s.Me(ctx, sess)
}

// UpdateStyles replaces the caller's style preferences
func (s *AuthService) UpdateStyles(ctx context.Context, sess Session, styles []string) (*models.User, error) {
	if err := sess.valid(); err != nil {
		return nil, err
	}
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}
	clean := make([]string, 0, len(styles))
	for _, st := range styles {
		if st = strings.TrimSpace(st); st != "" {
			clean = append(clean, st)
		}
	}
	if err := s.userRepo.UpdateStyles(ctx, sess.UserID, clean); err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	return s.Me(ctx, sess)
}
