package admin

import (
	"github.com/bazaar-next/internal/constants"
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "用户标识无效", "用户标识类型错误")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

// adminPrincipal 构造管理员身份。路由层已确保当前用户具备管理员角色。
func adminPrincipal(c *gin.Context) (service.Principal, bool) {
	adminID, ok := getAdminID(c)
	if !ok {
		return service.Principal{}, false
	}
	return service.Principal{UserID: adminID, Role: constants.RoleAdmin}, true
}
