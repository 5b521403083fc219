package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"babelchat/domain"
	"babelchat/errors"
	"babelchat/search"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Language string `json:"language"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createGroupRequest struct {
	Name string `json:"name"`
}

type groupResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type editMessageRequest struct {
	NewText string `json:"new_text"`
}

type editedMessageResponse struct {
	NewText string `json:"new_text"`
}

type deletedMessageResponse struct {
	Text string `json:"text"`
}

type messageResponse struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	SenderName string  `json:"sender_name"`
	Datetime   string  `json:"datetime"`
	TextFr     *string `json:"text_fr"`
	TextEn     *string `json:"text_en"`
	TextVn     *string `json:"text_vn"`
}

type historyResponse struct {
	Messages []messageResponse `json:"messages"`
	Cursor   *string           `json:"cursor"`
}

type searchHitResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:         m.ID.String(),
		Text:       m.Text,
		SenderName: m.SenderName,
		Datetime:   m.CreatedAt.UTC().Format(time.RFC3339),
		TextFr:     m.TextFr,
		TextEn:     m.TextEn,
		TextVn:     m.TextVn,
	}
}

func toGroupResponse(g domain.Group) groupResponse {
	return groupResponse{ID: string(g.ID), Name: g.Name, Members: g.Members}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, errors.MapToHTTPStatus(err), map[string]string{"error": err.Error()})
}

// bearerUser authenticates the Authorization header for REST calls.
func (s *Server) bearerUser(r *http.Request) (domain.User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return domain.User{}, errors.ErrInvalidCredentials
	}
	return s.auth.Authenticate(token)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	token, err := s.auth.Register(req.Username, req.Password, req.Language)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	group, err := s.groups.CreateGroup(req.Name, user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	groupID := domain.GroupID(mux.Vars(r)["group_id"])
	if err := s.groups.Join(groupID, user.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	groups, err := s.groups.GroupsOf(user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(groups, func(g domain.Group, _ int) groupResponse {
		return toGroupResponse(g)
	}))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	groupID := domain.GroupID(mux.Vars(r)["group_id"])

	var cursor *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor = &raw
	}

	messages, next, err := s.messages.History(user.ID, groupID, cursor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, historyResponse{
		Messages: lo.Map(messages, func(m domain.Message, _ int) messageResponse {
			return toMessageResponse(m)
		}),
		Cursor: next,
	})
}

func (s *Server) handleFirstUnread(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	groupID := domain.GroupID(mux.Vars(r)["group_id"])

	message, err := s.messages.FirstUnread(user.ID, groupID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMessageResponse(message))
}

const defaultSearchLimit = 20

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	groupID := domain.GroupID(mux.Vars(r)["group_id"])

	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query"})
		return
	}
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	hits, err := s.messages.Search(r.Context(), user.ID, groupID, query, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(hits, func(hit search.Hit, _ int) searchHitResponse {
		return searchHitResponse{ID: hit.MessageID.String(), Text: hit.Text}
	}))
}

func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	messageID, err := uuid.Parse(mux.Vars(r)["message_id"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message id"})
		return
	}
	var req editMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewText == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	newText, err := s.messages.Edit(r.Context(), user.ID, messageID, req.NewText)
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Echo the text as stored: screening may have altered the submission.
	s.writeJSON(w, http.StatusOK, editedMessageResponse{NewText: newText})
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	user, err := s.bearerUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	messageID, err := uuid.Parse(mux.Vars(r)["message_id"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message id"})
		return
	}
	text, err := s.messages.Delete(r.Context(), user.ID, messageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deletedMessageResponse{Text: text})
}
