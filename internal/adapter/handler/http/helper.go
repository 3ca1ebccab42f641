package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sm8ta/webike_cache_microservice/internal/core/domain"
)

func getAuthPayload(ctx *gin.Context, key string) (*domain.TokenPayload, bool) {
	value, exists := ctx.Get(key)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*domain.TokenPayload)
	if !ok {
		return nil, false
	}
	return payload, true
}

func logFields(c *gin.Context, fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["request_id"] = c.GetString(requestIDKey)
	if payload, ok := getAuthPayload(c, authorizationPayloadKey); ok {
		fields["subject"] = payload.Subject
	}
	return fields
}
