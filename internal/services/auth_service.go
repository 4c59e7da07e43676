package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/storage"
)

type authServiceImpl struct {
	logger            zerolog.Logger
	users             storage.UserRepository
	hashParams        *argon2id.Params
	jwtIssuer         string
	jwtSigningKey     []byte
	jwtAccessTokenTTL time.Duration

	dummyHashOnce sync.Once
	dummyHash     string
}

type AuthOption func(*authServiceImpl)

// WithHashParams overrides argon2id.DefaultParams for new password hashes.
func WithHashParams(params *argon2id.Params) AuthOption {
	return func(s *authServiceImpl) {
		s.hashParams = params
	}
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserRepository,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtAccessTokenTTL time.Duration,
	opts ...AuthOption,
) AuthService {
	s := &authServiceImpl{
		logger:            logger,
		users:             users,
		hashParams:        argon2id.DefaultParams,
		jwtIssuer:         jwtIssuer,
		jwtSigningKey:     jwtSigningKey,
		jwtAccessTokenTTL: jwtAccessTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authServiceImpl) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.SelectUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("username", username).
				Msg("user not found")
			s.compareDummyHash(password)
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("username", username).
			Msg("failed to select user by username")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("selected user")

	match, err := argon2id.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	return user, nil
}

// compareDummyHash runs one argon2id comparison with the configured params
// against a hash no password matches.
func (s *authServiceImpl) compareDummyHash(password string) {
	s.dummyHashOnce.Do(func() {
		hash, err := argon2id.CreateHash(uuid.NewString(), s.hashParams)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to create dummy hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = argon2id.ComparePasswordAndHash(password, s.dummyHash)
}

func (s *authServiceImpl) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, newValidationError("username", "username is required")
	}
	if password == "" {
		return nil, newValidationError("password", "password is required")
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(password, s.hashParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	err = s.users.InsertUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.logger.Warn().
				Str("username", user.Username).
				Msg("user with this username already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("registered user")
	return user, nil
}

func (s *authServiceImpl) IssueToken(user *models.User) (*IssueTokenResult, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   user.ID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Time("expires_at", expiresAt).
		Msg("issued access token")
	return &IssueTokenResult{
		AccessToken:          signed,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) AuthenticateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.ParseJWTToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.SelectUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("user_id", claims.Subject).
				Msg("token subject not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", claims.Subject).
			Msg("failed to select user by id")
		return nil, err
	}
	return user, nil
}

func (s *authServiceImpl) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token is expired: %w", ErrInvalidToken, err)
		}
		return nil, fmt.Errorf("%w: failed to parse token: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
