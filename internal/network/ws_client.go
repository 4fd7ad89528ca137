// Package network provides the client side of the outcome feed.
package network

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"kap/internal/protocol"

	"github.com/gorilla/websocket"
)

// DefaultRetryDelay is the pause between reconnection attempts
const DefaultRetryDelay = 5 * time.Second

// WSClient handles the WebSocket connection to a kap server
type WSClient struct {
	hostAddr string
	token    string
	send     chan protocol.Message
	done     chan struct{}
	closeOne sync.Once

	// RetryDelay is the pause between reconnection attempts
	RetryDelay time.Duration

	// Callbacks
	OnOutcome   func(protocol.OutcomePayload)
	OnStatus    func(protocol.StatusResponsePayload)
	OnConnected func()

	mu          sync.Mutex
	isConnected bool
}

// NewWSClient creates a new WebSocket client for hostAddr ("host:port")
func NewWSClient(hostAddr, token string) *WSClient {
	return &WSClient{
		hostAddr:   hostAddr,
		token:      token,
		send:       make(chan protocol.Message, 100),
		done:       make(chan struct{}),
		RetryDelay: DefaultRetryDelay,
	}
}

// Start begins the client loop (connect & process)
func (c *WSClient) Start() {
	go c.loop()
}

func (c *WSClient) loop() {
	for {
		c.connect()

		// If connect returns, it means we disconnected. Wait a bit and retry.
		select {
		case <-c.done:
			return
		case <-time.After(c.RetryDelay):
			log.Println("WS Client: Attempting reconnection...")
			continue
		}
	}
}

func (c *WSClient) connect() {
	u := url.URL{Scheme: "ws", Host: c.hostAddr, Path: "/ws"}
	log.Printf("WS Client: Connecting to %s", u.String())

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		log.Printf("WS Client: Connection failed: %v", err)
		return
	}
	defer conn.Close()

	c.mu.Lock()
	c.isConnected = true
	c.mu.Unlock()

	log.Println("WS Client: Connected to server")
	if c.OnConnected != nil {
		c.OnConnected()
	}

	// Ask for the current sequence list straight away
	c.SendStatusRequest()

	// specific done channel for this connection
	connDone := make(chan struct{})
	stopWriter := make(chan struct{})

	go func() {
		defer close(connDone)
		c.writePump(conn, stopWriter)
	}()

	// Closing the connection unblocks the read pump on Close
	go func() {
		select {
		case <-c.done:
			conn.Close()
		case <-connDone:
		}
	}()

	c.readPump(conn)

	// Cleanup
	c.mu.Lock()
	c.isConnected = false
	c.mu.Unlock()

	// Ensure write pump stops
	close(stopWriter)
	<-connDone
}

func (c *WSClient) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })
	// Server pings keep the connection alive
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(10*time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Client: Read error: %v", err)
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("WS Client: Invalid message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *WSClient) writePump(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second) // Ping ticker
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			jsonMsg, err := json.Marshal(msg)
			if err != nil {
				log.Printf("WS Client: Marshal error: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, jsonMsg); err != nil {
				log.Printf("WS Client: Write error: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return

		case <-c.done:
			return
		}
	}
}

func (c *WSClient) handleMessage(msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeOutcome:
		var payload protocol.OutcomePayload
		if err := protocol.DecodePayload(msg.Payload, &payload); err != nil {
			log.Printf("WS Client: Invalid outcome payload: %v", err)
			return
		}
		if c.OnOutcome != nil {
			c.OnOutcome(payload)
		}

	case protocol.TypeStatusResponse:
		var payload protocol.StatusResponsePayload
		if err := protocol.DecodePayload(msg.Payload, &payload); err != nil {
			log.Printf("WS Client: Invalid status payload: %v", err)
			return
		}
		if c.OnStatus != nil {
			c.OnStatus(payload)
		}
	}
}

// SendStatusRequest asks the server for the sequence list
func (c *WSClient) SendStatusRequest() {
	select {
	case c.send <- protocol.Message{Type: protocol.TypeStatusRequest}:
	default:
		log.Printf("WS Client: Send queue full, dropping status request")
	}
}

// IsConnected returns true if client is connected to the server
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Close stops the client
func (c *WSClient) Close() {
	c.closeOne.Do(func() {
		close(c.done)
	})
}
