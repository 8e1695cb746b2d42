package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/pkg/auth"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthServicer interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	ValidateToken(token string) (*model.TokenClaims, error)
}

// Service authenticates the single configured API operator.
type Service struct {
	account config.AuthConfig
	hasher  security.PasswordHasher
	jwtSvc  auth.JWTService
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(account config.AuthConfig, hasher security.PasswordHasher, jwtSvc auth.JWTService, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		account: account,
		hasher:  hasher,
		jwtSvc:  jwtSvc,
		logger:  log,
		now:     time.Now,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if s.account.Username == "" || s.account.PasswordHash == "" {
		s.logger.Warn("login attempted but no operator account is configured")
		return nil, apperrors.Unauthorized(ErrInvalidCredentials.Error())
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.account.Username)) == 1
	// The hash is always compared so a wrong username costs as much as a
	// wrong password.
	err := s.hasher.Compare(s.account.PasswordHash, req.Password)
	if err != nil && !errors.Is(err, security.ErrMismatch) {
		s.logger.Error(err, "configured password hash is unusable")
	}
	if err != nil || !userOK {
		s.logger.Warn("failed login", "username", req.Username)
		return nil, apperrors.Unauthorized(ErrInvalidCredentials.Error())
	}

	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(req.Username)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}

	s.logger.Info("operator logged in", "username", req.Username)
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiresAt.Sub(s.now()).Seconds()),
	}, nil
}

func (s *Service) ValidateToken(token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}
