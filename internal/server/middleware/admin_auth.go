package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/logger"
)

// AdminTokenHeader 管理令牌请求头
const AdminTokenHeader = "X-Admin-Token"

// AdminAuth 校验请求头中的管理令牌。tokenHash 为空时放行
func AdminAuth(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenHash == "" {
			c.Next()
			return
		}

		token := c.GetHeader(AdminTokenHeader)
		if token == "" || bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)) != nil {
			logger.Warn("管理令牌校验失败")
			response.Error(c, errno.ErrTokenInvalid)
			c.Abort()
			return
		}
		c.Next()
	}
}

// HashToken 生成管理令牌的 bcrypt 哈希，写入 app.admin_token_hash
func HashToken(token string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
