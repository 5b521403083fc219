package ws

import (
	"context"
	goerrors "errors"
	"net/http"
	"strings"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/errors"

	"github.com/gorilla/websocket"
)

// CloseForbidden is the application close code sent when a socket is refused:
// bad token, non-member, or a duplicate channel for the same user.
const CloseForbidden = 4403

// resolveChannelAuth authenticates the query-string token and checks group
// membership. Both websocket endpoints share this gate.
func (s *Server) resolveChannelAuth(r *http.Request) (domain.User, domain.GroupID, error) {
	user, err := s.auth.Authenticate(r.URL.Query().Get("token"))
	if err != nil {
		return domain.User{}, "", errors.ErrForbidden
	}
	group, err := s.groups.GetGroup(domain.GroupID(r.URL.Query().Get("group_id")))
	if err != nil {
		return domain.User{}, "", errors.ErrForbidden
	}
	if !group.IsMember(user.ID) {
		return domain.User{}, "", errors.ErrForbidden
	}
	return user, group.ID, nil
}

// reject closes an already-upgraded socket with the forbidden close code.
// The upgrade must happen before the auth check: a close frame is the only
// way to hand the client a status it can read from an open websocket.
func (s *Server) reject(conn *websocket.Conn, reason error) {
	payload := websocket.FormatCloseMessage(CloseForbidden, reason.Error())
	_ = conn.WriteMessage(websocket.CloseMessage, payload)
	_ = conn.Close()
}

// handleSendMessage serves GET /send-message. The socket is bidirectional:
// inbound text frames are ingested as messages of the group, outbound frames
// are raw-text live pushes written by the push worker through the registry.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	user, groupID, err := s.resolveChannelAuth(r)
	if err != nil {
		s.reject(conn, err)
		return
	}

	wsConn := NewWSConn(conn)
	if err := s.registry.Register(user.ID, contract.ChannelLive, wsConn); err != nil {
		s.reject(conn, err)
		return
	}
	defer func() {
		s.registry.Unregister(user.ID, contract.ChannelLive)
		_ = wsConn.Close()
	}()

	s.log.Info("Live channel opened", "user", user.Username, "group", groupID)
	s.readMessages(r.Context(), conn, user, groupID)
	s.log.Info("Live channel closed", "user", user.Username, "group", groupID)
}

// readMessages pumps inbound frames into ingestion until the peer hangs up.
func (s *Server) readMessages(ctx context.Context, conn *websocket.Conn, user domain.User, groupID domain.GroupID) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		text := strings.TrimSpace(string(payload))
		if text == "" {
			continue
		}
		if _, err := s.messages.Ingest(ctx, user.ID, groupID, text); err != nil {
			s.log.Warn("Message ingestion failed", "user", user.ID, "group", groupID, "error", err)
			if goerrors.Is(err, errors.ErrForbidden) {
				// Membership revoked mid-connection, the socket dies with it.
				return
			}
		}
	}
}

// handleUnreadMessages serves GET /get-unread-messages: the durable delivery
// channel. The drain loop owns the socket until the peer leaves; change
// events ride the same connection via the broadcaster.
func (s *Server) handleUnreadMessages(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	user, groupID, err := s.resolveChannelAuth(r)
	if err != nil {
		s.reject(conn, err)
		return
	}

	wsConn := NewWSConn(conn)
	if err := s.registry.Register(user.ID, contract.ChannelUnread, wsConn); err != nil {
		s.reject(conn, err)
		return
	}
	defer func() {
		s.registry.Unregister(user.ID, contract.ChannelUnread)
		_ = wsConn.Close()
	}()

	s.log.Info("Unread channel opened", "user", user.Username, "group", groupID)
	if err := s.unread.ServeUnread(r.Context(), user.ID, groupID, wsConn); err != nil {
		s.log.Debug("Unread channel ended", "user", user.ID, "error", err)
	}
	s.log.Info("Unread channel closed", "user", user.Username, "group", groupID)
}
