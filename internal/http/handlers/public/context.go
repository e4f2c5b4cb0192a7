package public

import (
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

func currentIdentity(c *gin.Context) service.Identity {
	return handlershared.GetIdentity(c)
}

func requireIdentity(c *gin.Context) (service.Identity, bool) {
	return handlershared.RequireIdentity(c)
}

func respondError(c *gin.Context, code int, reason, key string, err error) {
	handlershared.RespondError(c, code, reason, key, err)
}
