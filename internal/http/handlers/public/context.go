package public

import (
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getContextUintWithKeys(c *gin.Context, key, invalidMsg, typeInvalidMsg string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidMsg, typeInvalidMsg)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "用户标识无效", "用户标识类型错误")
}

// getPrincipal 从认证中间件写入的上下文构造当前操作者身份。
func getPrincipal(c *gin.Context) (service.Principal, bool) {
	userID, ok := getUserID(c)
	if !ok {
		return service.Principal{}, false
	}
	role := ""
	if value, exists := c.Get("role"); exists {
		if r, ok := value.(string); ok {
			role = r
		}
	}
	return service.Principal{UserID: userID, Role: role}, true
}
