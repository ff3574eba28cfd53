package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tripdesk-dev/tripdesk/internal/types"
)

var (
	tripClients   = make(map[string]map[*websocket.Conn]bool)
	tripClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh tells every client watching a trip to reload it. Fired
// after any mutation of the trip or its children.
func BroadcastRefresh(tripID string) {
	tripClientsMu.RLock()
	clients, exists := tripClients[tripID]
	if !exists || len(clients) == 0 {
		tripClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	tripClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Trip data updated",
			"trip_id": tripID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			tripClientsMu.Lock()
			if clients, exists := tripClients[tripID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(tripClients, tripID)
				}
			}
			tripClientsMu.Unlock()
			conn.Close()
		}
	}
}

// WebSocket keeps a connection open per trip so collaborating family members
// see each other's changes without polling.
func WebSocket(c *gin.Context) {
	tripID := c.Param("trip_id")

	if tripID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trip ID is required"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	tripClientsMu.Lock()
	if tripClients[tripID] == nil {
		tripClients[tripID] = make(map[*websocket.Conn]bool)
	}
	tripClients[tripID][conn] = true
	tripClientsMu.Unlock()

	defer func() {
		tripClientsMu.Lock()

		if clients, exists := tripClients[tripID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(tripClients, tripID)
			}
		}

		tripClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for trip %s", tripID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
		"trip_id": tripID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for trip %s: %v", tripID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for trip %s: %v", tripID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for trip %s: %v", tripID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for trip %s: %v", tripID, err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from client in trip %s: %s", tripID, string(message))
		case websocket.PongMessage:
			log.Printf("Received pong from trip %s", tripID)
		}
	}
}
