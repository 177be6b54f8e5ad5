package service

import "github.com/bazaar-next/internal/constants"

// Principal 操作主体
// 服务层所有需要鉴权的操作都显式接收该参数，不读取任何环境态
type Principal struct {
	UserID uint   // 用户ID
	Role   string // 角色 user/seller/admin
}

// Valid 判断主体是否有效
func (p Principal) Valid() bool {
	return p.UserID > 0
}

// IsAdmin 是否管理员
func (p Principal) IsAdmin() bool {
	return p.Role == constants.RoleAdmin
}
