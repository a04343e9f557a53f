package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"

	"escrowd/config"
)

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// TriggerAuth пропускает запрос только с верным общим секретом
// (заголовок X-Clearing-Secret или параметр token для вебсокетов).
// При настроенном TOTP-секрете оператор может вместо него передать
// одноразовый код в заголовке X-Clearing-OTP.
func TriggerAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader("X-Clearing-Secret")
		if secret == "" {
			secret = c.Query("token")
		}
		if secret != "" && secretsEqual(secret, cfg.TriggerSecret) {
			c.Next()
			return
		}
		if cfg.TriggerTOTPSecret != "" {
			if code := c.GetHeader("X-Clearing-OTP"); code != "" && totp.Validate(code, cfg.TriggerTOTPSecret) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credential"})
	}
}

// secretsEqual сравнивает секреты за постоянное время.
func secretsEqual(a, b string) bool {
	ah := sha256.Sum256([]byte(a))
	bh := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ah[:], bh[:]) == 1
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if lStr := c.Query("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if oStr := c.Query("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return
}
