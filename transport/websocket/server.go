package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	CurrentState(ctx context.Context, sessionID string) (entity.GameState, error)
	ApplyDrop(ctx context.Context, sessionID string, column int) (entity.GameState, error)
	NewGame(ctx context.Context, sessionID string) (entity.GameState, error)
	ResetScores(ctx context.Context, sessionID string) (entity.GameState, error)
}

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	upgrader    websocket.Upgrader

	handlers map[string]func(ctx context.Context, conn *connection, message *Message) error

	// sessionID -> live connections, several tabs may share one session
	connectionsMutex sync.RWMutex
	connections      map[string]map[*connection]struct{}
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers:    make(map[string]func(context.Context, *connection, *Message) error),
		connections: make(map[string]map[*connection]struct{}),
	}

	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameDrop] = server.handleGameDrop
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionResetScores] = server.handleResetScores

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves it until the client goes away.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	sessionID, cookie := pkg.SessionCookie(req)

	header := http.Header{}
	if cookie != nil {
		header.Add("Set-Cookie", cookie.String())
		log.Info("session cookie not found, new one created", "session", sessionID)
	}

	ws, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{ws: ws, sessionID: sessionID}
	that.register(conn)

	defer func() {
		that.unregister(conn)
		_ = ws.Close()
	}()

	log.Info("WebSocket connection established", "session", sessionID)

	if err = that.handleMessages(req.Context(), conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages", "session", conn.sessionID)

	for {
		var message Message
		if err := conn.ws.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Error("failed to unmarshal message", "error", err)
				continue
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err := conn.send(message.Action, Payload{Error: "unknown action"}); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if that.connections[conn.sessionID] == nil {
		that.connections[conn.sessionID] = make(map[*connection]struct{})
	}
	that.connections[conn.sessionID][conn] = struct{}{}
}

func (that *Server) unregister(conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	delete(that.connections[conn.sessionID], conn)
	if len(that.connections[conn.sessionID]) == 0 {
		delete(that.connections, conn.sessionID)
	}
}

// broadcast - sends the message to every connection of the session.
func (that *Server) broadcast(sessionID, action string, payload Payload) {
	that.connectionsMutex.RLock()
	conns := make([]*connection, 0, len(that.connections[sessionID]))
	for conn := range that.connections[sessionID] {
		conns = append(conns, conn)
	}
	that.connectionsMutex.RUnlock()

	for _, conn := range conns {
		if err := conn.send(action, payload); err != nil {
			that.logger.Error("failed to send message", "action", action, "session", sessionID, "error", err)
		}
	}
}
