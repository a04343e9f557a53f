package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"escrowd/internal/models"
	"escrowd/internal/notifications"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// ClearingEventsWS godoc
// @Summary Вебсокет событий клиринга
// @Description Поток выпусков и итогов циклов для операторских панелей.
// @Tags clearing
// @Param token query string true "общий секрет"
// @Success 101 {object} clearing.ReleaseEvent "Switching Protocols"
// @Failure 401 {object} ErrorResponse
// @Router /ws/clearing/events [get]
func ClearingEventsWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		notifications.AddOps(conn)
		defer func() {
			notifications.RemoveOps(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}

// NotificationsWS godoc
// @Summary Вебсокет уведомлений получателя
// @Description После подключения сервер отправляет неотправленные уведомления.
// @Tags notifications
// @Param token query string true "общий секрет"
// @Param userId query string true "ID получателя"
// @Success 101 {object} models.Notification "Switching Protocols"
// @Failure 401 {object} ErrorResponse
// @Router /ws/notifications [get]
func NotificationsWS(db *gorm.DB) gin.HandlerFunc {
	notifications.SetDB(db)
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userId required"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		notifications.AddClient(userID, conn)
		defer func() {
			notifications.RemoveClient(userID, conn)
			conn.Close()
		}()

		var list []models.Notification
		if err := db.Where("user_id = ? AND read_at IS NULL AND sent_at IS NULL", userID).Find(&list).Error; err == nil {
			for _, n := range list {
				if err := notifications.Send(conn, n); err != nil {
					return
				}
			}
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
