package http

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sm8ta/webike_cache_microservice/internal/core/domain"
	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

var errInvalidToken = errors.New("invalid token")

type JWTTokenService struct {
	secretKey  []byte
	expiration time.Duration
	logger     ports.LoggerPort
}

func NewJWTTokenService(secretKey string, expiration time.Duration, logger ports.LoggerPort) *JWTTokenService {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	return &JWTTokenService{
		secretKey:  []byte(secretKey),
		expiration: expiration,
		logger:     logger,
	}
}

func (j *JWTTokenService) CreateToken(subject string, role domain.Role) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		j.logger.Error("Failed to generate uuid", map[string]interface{}{
			"error":   err.Error(),
			"subject": subject,
			"method":  "CreateToken",
		})
		return "", err
	}

	issuedAt := time.Now()
	claims := jwt.MapClaims{
		"id":   id.String(),
		"sub":  subject,
		"role": string(role),
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(j.expiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

func (j *JWTTokenService) VerifyToken(token string) (domain.TokenPayload, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		j.logger.Debug("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return domain.TokenPayload{}, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return domain.TokenPayload{}, errInvalidToken
	}

	idStr, ok := claims["id"].(string)
	if !ok {
		return domain.TokenPayload{}, errInvalidToken
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.TokenPayload{}, errInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return domain.TokenPayload{}, errInvalidToken
	}

	roleClaimed, ok := claims["role"].(string)
	if !ok {
		return domain.TokenPayload{}, errInvalidToken
	}

	role := domain.Role(roleClaimed)
	if role != domain.Admin && role != domain.Reader {
		j.logger.Warn("Invalid role in token", map[string]interface{}{
			"role":   roleClaimed,
			"method": "VerifyToken",
		})
		return domain.TokenPayload{}, errInvalidToken
	}

	return domain.TokenPayload{
		ID:      id,
		Subject: subject,
		Role:    role,
	}, nil
}

var _ ports.TokenService = (*JWTTokenService)(nil)
