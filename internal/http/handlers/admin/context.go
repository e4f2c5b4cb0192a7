package admin

import (
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getStaffIdentity(c *gin.Context) (service.Identity, bool) {
	return handlershared.RequireIdentity(c)
}
