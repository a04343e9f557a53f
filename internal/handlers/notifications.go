package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"escrowd/internal/models"
)

// ListNotifications godoc
// @Summary Список уведомлений получателя
// @Tags notifications
// @Security ClearingSecret
// @Produce json
// @Param userId query string true "ID получателя"
// @Param limit query int false "лимит"
// @Param offset query int false "смещение"
// @Success 200 {array} models.Notification
// @Failure 400 {object} ErrorResponse
// @Router /notifications [get]
func ListNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userId required"})
			return
		}
		limit, offset := parsePagination(c)
		var ns []models.Notification
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc").
			Limit(limit).Offset(offset).Find(&ns).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, ns)
	}
}
