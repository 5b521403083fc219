package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/services"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
)

// UnreadServer is the piece of the runtime the transport needs: one blocking
// drain loop per polling connection.
type UnreadServer interface {
	ServeUnread(ctx context.Context, userID string, group domain.GroupID, conn contract.Conn) error
}

type Server struct {
	log      *slog.Logger
	upgrader websocket.Upgrader
	auth     services.IAuthService
	groups   services.IGroupService
	messages services.IMessageService
	registry contract.IRegistry
	unread   UnreadServer

	httpServer *http.Server
}

func NewServer(
	log *slog.Logger,
	addr string,
	allowedOrigins []string,
	auth services.IAuthService,
	groups services.IGroupService,
	messages services.IMessageService,
	registry contract.IRegistry,
	unread UnreadServer,
) *Server {
	s := &Server{
		log:      log,
		upgrader: newUpgrader(allowedOrigins),
		auth:     auth,
		groups:   groups,
		messages: messages,
		registry: registry,
		unread:   unread,
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           corsMiddleware.Handler(s.Router()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// Non-browser clients send no Origin header, let them in.
			origin := r.Header.Get("Origin")
			return wildcard || origin == "" || allowed[origin]
		},
	}
}

// Router exposes every endpoint of the server; tests mount it on httptest.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Websocket channels
	router.HandleFunc("/send-message", s.handleSendMessage).Methods(http.MethodGet)
	router.HandleFunc("/get-unread-messages", s.handleUnreadMessages).Methods(http.MethodGet)

	// Accounts
	router.HandleFunc("/user", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	// Groups
	router.HandleFunc("/group", s.handleCreateGroup).Methods(http.MethodPost)
	router.HandleFunc("/group/{group_id}/join", s.handleJoinGroup).Methods(http.MethodPost)
	router.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet)

	// Messages
	router.HandleFunc("/message/{group_id}", s.handleHistory).Methods(http.MethodGet)
	router.HandleFunc("/message/{group_id}/first-unread-message", s.handleFirstUnread).Methods(http.MethodGet)
	router.HandleFunc("/message/{group_id}/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/message/{message_id}", s.handleEditMessage).Methods(http.MethodPut)
	router.HandleFunc("/message/{message_id}", s.handleDeleteMessage).Methods(http.MethodDelete)

	return router
}

// Start serves until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
