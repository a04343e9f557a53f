package notifications

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"escrowd/internal/models"
)

var (
	db      *gorm.DB
	clients = struct {
		sync.RWMutex
		m map[string]map[*websocket.Conn]bool
	}{m: make(map[string]map[*websocket.Conn]bool)}

	// соединения операторов, получающие все события клиринга
	ops = struct {
		sync.Mutex
		m map[*websocket.Conn]bool
	}{m: make(map[*websocket.Conn]bool)}
)

// WriteTimeout ограничивает каждую запись в вебсокет. Соединение,
// не уложившееся в дедлайн, закрывается и удаляется из реестра,
// чтобы зависший получатель не задерживал остальных.
var WriteTimeout = 5 * time.Second

// SetDB устанавливает соединение с базой данных для обновления уведомлений.
func SetDB(d *gorm.DB) {
	db = d
}

// AddClient добавляет соединение вебсокета для получателя выплат.
func AddClient(userID string, conn *websocket.Conn) {
	clients.Lock()
	defer clients.Unlock()
	conns, ok := clients.m[userID]
	if !ok {
		conns = make(map[*websocket.Conn]bool)
		clients.m[userID] = conns
	}
	conns[conn] = true
}

// RemoveClient удаляет соединение вебсокета для получателя.
func RemoveClient(userID string, conn *websocket.Conn) {
	clients.Lock()
	defer clients.Unlock()
	if conns, ok := clients.m[userID]; ok {
		delete(conns, conn)
	}
}

// Send отправляет уведомление через указанное соединение.
// При успешной отправке поле SentAt обновляется в базе данных.
func Send(conn *websocket.Conn, n models.Notification) error {
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := conn.WriteJSON(n); err != nil {
		return err
	}
	if db != nil {
		now := time.Now()
		db.Model(&models.Notification{}).Where("id = ?", n.ID).Update("sent_at", now)
	}
	return nil
}

// Broadcast отправляет уведомление всем соединениям получателя.
func Broadcast(userID string, n models.Notification) {
	clients.Lock()
	defer clients.Unlock()
	for c := range clients.m[userID] {
		if err := Send(c, n); err != nil {
			c.Close()
			delete(clients.m[userID], c)
		}
	}
}

// AddOps подключает операторское соединение к потоку событий клиринга.
func AddOps(conn *websocket.Conn) {
	ops.Lock()
	defer ops.Unlock()
	ops.m[conn] = true
}

// RemoveOps отключает операторское соединение.
func RemoveOps(conn *websocket.Conn) {
	ops.Lock()
	defer ops.Unlock()
	delete(ops.m, conn)
}

// BroadcastEvent рассылает событие клиринга всем операторам.
func BroadcastEvent(v any) {
	ops.Lock()
	defer ops.Unlock()
	for c := range ops.m {
		_ = c.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := c.WriteJSON(v); err != nil {
			c.Close()
			delete(ops.m, c)
		}
	}
}
