package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/chatapi/internal/auth/domain"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

// tokenClaims is the JWT claim set carried by both token types.
type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// jwtTokenService implements TokenService using HMAC-SHA256 signed JWTs.
type jwtTokenService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenService creates a TokenService signing with the shared secret.
func NewTokenService(secret string, accessExpiry, refreshExpiry time.Duration) TokenService {
	return &jwtTokenService{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssueAccessToken signs a short-lived access token for username.
func (s *jwtTokenService) IssueAccessToken(username string) (string, error) {
	return s.issue(username, authDomain.AccessToken, s.accessExpiry)
}

// IssueRefreshToken signs a long-lived refresh token for username.
// Refresh tokens carry a unique jti so two tokens issued in the same second
// are still distinct.
func (s *jwtTokenService) IssueRefreshToken(username string) (string, error) {
	return s.issue(username, authDomain.RefreshToken, s.refreshExpiry)
}

// IssuePair signs an access and refresh token for username.
func (s *jwtTokenService) IssuePair(username string) (authDomain.TokenPair, error) {
	accessToken, err := s.IssueAccessToken(username)
	if err != nil {
		return authDomain.TokenPair{}, err
	}

	refreshToken, err := s.IssueRefreshToken(username)
	if err != nil {
		return authDomain.TokenPair{}, err
	}

	return authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *jwtTokenService) issue(
	username string,
	tokenType authDomain.TokenType,
	expiry time.Duration,
) (string, error) {
	if len(s.secret) == 0 {
		return "", apperrors.New("jwt secret not configured")
	}

	now := time.Now()
	claims := tokenClaims{
		Type: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	if tokenType == authDomain.RefreshToken {
		claims.ID = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify validates a token and checks its type matches expected.
//
// All failure modes collapse into ErrUnauthorized so callers cannot learn
// whether the signature, expiry, or type check failed.
func (s *jwtTokenService) Verify(
	token string,
	expected authDomain.TokenType,
) (*authDomain.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.ErrUnauthorized
	}

	if claims.Type != string(expected) || claims.Subject == "" {
		return nil, apperrors.ErrUnauthorized
	}

	return &authDomain.Claims{
		Username: claims.Subject,
		Type:     authDomain.TokenType(claims.Type),
	}, nil
}

// Refresh verifies a refresh token and issues a new access token bound to
// the same username.
func (s *jwtTokenService) Refresh(refreshToken string) (string, error) {
	claims, err := s.Verify(refreshToken, authDomain.RefreshToken)
	if err != nil {
		return "", err
	}

	return s.IssueAccessToken(claims.Username)
}
