package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// CompanyClaims is the token payload issued at login. The company id travels
// in the "id" claim; "sub" is accepted as a fallback.
type CompanyClaims struct {
	CompanyID   string `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	CompanyName string `json:"nome_empresa,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	VerifyToken(tokenString string) (uuid.UUID, error)
	IssueToken(companyID uuid.UUID, email, companyName string) (string, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger, jwtSecretKey string, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = 7 * 24 * time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
	}
}

func (as *authService) VerifyToken(tokenString string) (uuid.UUID, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("%w: missing token", ErrInvalidToken)
	}
	if len(as.jwtSecretKey) == 0 {
		return uuid.Nil, errors.New("JWT_SECRET is not configured")
	}
	claims := &CompanyClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		as.log.Debug("token rejected", "error", err)
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	raw := claims.CompanyID
	if raw == "" {
		raw = claims.Subject
	}
	companyID, err := uuid.Parse(raw)
	if err != nil || companyID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad company id in token", ErrInvalidToken)
	}
	return companyID, nil
}

func (as *authService) IssueToken(companyID uuid.UUID, email, companyName string) (string, error) {
	if len(as.jwtSecretKey) == 0 {
		return "", errors.New("JWT_SECRET is not configured")
	}
	now := time.Now()
	claims := CompanyClaims{
		CompanyID:   companyID.String(),
		Email:       email,
		CompanyName: companyName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   companyID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
