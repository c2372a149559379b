package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cinesocial/auth-api/internal/domain"
	"github.com/cinesocial/auth-api/internal/email"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Metrics records authentication events. Implemented by metrics.Collector.
type Metrics interface {
	CodeIssued()
	VerificationSucceeded()
	VerificationFailed()
	EmailSent()
	EmailFailed()
}

// AuthConfig holds the tunables of the authentication service.
type AuthConfig struct {
	JWTSecret []byte
	CodeTTL   time.Duration
	SiteName  string
}

// AuthService implements the verification-code lifecycle: issuing a one-time
// code for an email/username pair, redeeming it for a session token, and
// validating tokens on later requests.
type AuthService struct {
	users   domain.UserRepository
	emails  domain.EmailSender
	codes   CodeGenerator
	metrics Metrics
	config  AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, emails domain.EmailSender, codes CodeGenerator, metrics Metrics, config AuthConfig) *AuthService {
	return &AuthService{
		users:   users,
		emails:  emails,
		codes:   codes,
		metrics: metrics,
		config:  config,
	}
}

// VerifyResult is returned on a successful code redemption.
type VerifyResult struct {
	Token       string
	Username    string
	DisplayName *string
	AvatarURL   *string
	IsNewUser   bool
}

// RequestCode issues a fresh verification code for the given email/username
// pair and emails it to the user. The same call serves both signup and login:
// an unknown email creates the record, a known one overwrites its username
// and outstanding code, so at most one code is live per email.
//
// Email delivery is best-effort. A failed send is logged and counted but not
// reported to the caller; the persisted code stays valid either way.
func (s *AuthService) RequestCode(ctx context.Context, emailAddr, username string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	username = strings.ToLower(strings.TrimSpace(username))
	if emailAddr == "" || username == "" {
		return fmt.Errorf("%w: email and username are required", domain.ErrInvalidInput)
	}

	code, err := s.codes.Generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	expiresAt := time.Now().UTC().Add(s.config.CodeTTL)

	user := &domain.User{
		ID:               uuid.NewString(),
		Email:            emailAddr,
		Username:         username,
		VerificationCode: &code,
		CodeExpiresAt:    &expiresAt,
	}
	if err := s.users.UpsertByEmail(ctx, user); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	s.metrics.CodeIssued()

	subject, body, err := email.RenderVerification(email.VerificationParams{
		SiteName: s.config.SiteName,
		Code:     code,
		Expiry:   s.config.CodeTTL,
	})
	if err != nil {
		// Rendering only fails on a broken template; the code is already
		// persisted, so treat it like a delivery failure.
		slog.Error("render verification email", "error", err)
		s.metrics.EmailFailed()
		return nil
	}

	if err := s.emails.Send(ctx, emailAddr, subject, body); err != nil {
		slog.Warn("send verification email", "email", emailAddr, "error", err)
		s.metrics.EmailFailed()
		return nil
	}
	s.metrics.EmailSent()

	return nil
}

// VerifyCode redeems an outstanding verification code for a session token.
// Unknown email, wrong code, and expired code are indistinguishable to the
// caller: all return domain.ErrInvalidCode, so a caller probing the endpoint
// cannot tell which condition failed.
func (s *AuthService) VerifyCode(ctx context.Context, emailAddr, code string) (*VerifyResult, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	code = strings.TrimSpace(code)
	if emailAddr == "" || code == "" {
		return nil, fmt.Errorf("%w: email and code are required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()

	user, err := s.users.GetByLiveCode(ctx, emailAddr, code, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.VerificationFailed()
			return nil, domain.ErrInvalidCode
		}
		return nil, fmt.Errorf("find live code: %w", err)
	}

	// Captured before the consuming update; the update sets LastLoginAt.
	isNewUser := user.LastLoginAt == nil

	applied, err := s.users.ConsumeCode(ctx, user.ID, code, now)
	if err != nil {
		return nil, fmt.Errorf("consume code: %w", err)
	}
	if !applied {
		// A concurrent verification won the race and consumed the code.
		s.metrics.VerificationFailed()
		return nil, domain.ErrInvalidCode
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate jwt: %w", err)
	}
	s.metrics.VerificationSucceeded()

	slog.Info("user verified", "user_id", user.ID, "new_user", isNewUser)

	return &VerifyResult{
		Token:       token,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		IsNewUser:   isNewUser,
	}, nil
}

// ValidateToken parses and validates a session token string.
// Returns the user ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.config.JWTSecret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}

	return sub, nil
}

// generateJWT signs a session token whose subject is the user id. Sessions
// do not expire and cannot be revoked; only the signature ties the token to
// this server.
func (s *AuthService) generateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.JWTSecret)
}
