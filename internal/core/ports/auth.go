package ports

import (
	"github.com/sm8ta/webike_cache_microservice/internal/core/domain"
)

type TokenService interface {
	CreateToken(subject string, role domain.Role) (string, error)
	VerifyToken(token string) (domain.TokenPayload, error)
}
