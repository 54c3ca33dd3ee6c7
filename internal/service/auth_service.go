package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"surveyflow/internal/config"
	"surveyflow/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles host and respondent authentication
type AuthService struct {
	hostUsername       string
	hostPassword       string
	jwtSecret          []byte
	hostTokenTTL       time.Duration
	respondentTokenTTL time.Duration
	now                func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		hostUsername:       cfg.HostUsername,
		hostPassword:       cfg.HostPassword,
		jwtSecret:          []byte(cfg.JWTSecret),
		hostTokenTTL:       cfg.HostTokenTTL,
		respondentTokenTTL: cfg.RespondentTokenTTL,
		now:                time.Now,
	}
}

// Login validates credentials and returns a host token. The host id is
// stable per username so a host keeps their surveys across logins.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if s.hostPassword == "" ||
		subtle.ConstantTimeCompare([]byte(username), []byte(s.hostUsername)) != 1 ||
		subtle.ConstantTimeCompare([]byte(password), []byte(s.hostPassword)) != 1 {
		return nil, ErrInvalidCredentials
	}

	hostID := HostID(username)

	now := s.now()
	claims := &model.HostClaims{
		HostID: hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   hostID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.hostTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:  tokenString,
		HostID: hostID,
	}, nil
}

// ValidateHostToken validates a host JWT and returns claims
func (s *AuthService) ValidateHostToken(tokenString string) (*model.HostClaims, error) {
	claims := &model.HostClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.HostID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateRespondentToken creates a token scoped to one response
func (s *AuthService) GenerateRespondentToken(surveyID, responseID, respondentID string) (string, error) {
	now := s.now()
	claims := &model.RespondentClaims{
		SurveyID:     surveyID,
		ResponseID:   responseID,
		RespondentID: respondentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   responseID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.respondentTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateRespondentToken validates a respondent JWT and returns claims
func (s *AuthService) ValidateRespondentToken(tokenString string) (*model.RespondentClaims, error) {
	claims := &model.RespondentClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.ResponseID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// HostID derives the stable host id for a login name
func HostID(username string) string {
	return "host_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String()[:8]
}
