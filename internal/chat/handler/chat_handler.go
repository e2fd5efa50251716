// Package handler exposes the message routes over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gochat/internal/chat/models"
	"gochat/internal/chat/service"
	"gochat/internal/common"
)

// requests carry base64 images, so allow well above the decoded image limit
const maxRequestBody = 16 << 20

// OnlineLister reports which users currently hold a live connection.
type OnlineLister interface {
	OnlineUsers(ctx context.Context) []uint64
}

type ChatHandler struct {
	chatService service.ChatService
	online      OnlineLister
	log         *zap.Logger
}

func NewChatHandler(chatService service.ChatService, online OnlineLister, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, online: online, log: log}
}

// EditRequest is the body of PUT /messages/edit/{messageId}.
type EditRequest struct {
	NewText string `json:"newText"`
}

// RegisterRoutes mounts the message routes on r. limiter, when set, guards sends.
func (h *ChatHandler) RegisterRoutes(r *mux.Router, limiter *common.RateLimiter) {
	var send http.Handler = http.HandlerFunc(h.SendMessage)
	if limiter != nil {
		send = limiter.Middleware(send)
	}

	r.Handle("/messages/send/{id:[0-9]+}", send).Methods(http.MethodPost)
	r.HandleFunc("/messages/edit/{messageId}", h.EditMessage).Methods(http.MethodPut)
	r.HandleFunc("/messages/{id:[0-9]+}", h.GetMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/{messageId}", h.DeleteMessage).Methods(http.MethodDelete)
	r.HandleFunc("/online", h.OnlineUsers).Methods(http.MethodGet)
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}
	peerID, err := pathUserID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	msgs, err := h.chatService.GetConversation(r.Context(), callerID, peerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	common.WriteJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}
	receiverID, err := pathUserID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.SendRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := h.chatService.SendMessage(r.Context(), senderID, receiverID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, m)
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}

	m, err := h.chatService.DeleteMessage(r.Context(), callerID, mux.Vars(r)["messageId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, m)
}

func (h *ChatHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}

	var req EditRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := h.chatService.EditMessage(r.Context(), callerID, mux.Vars(r)["messageId"], req.NewText)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, m)
}

func (h *ChatHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	ids := h.online.OnlineUsers(r.Context())
	if ids == nil {
		ids = []uint64{}
	}
	common.WriteJSON(w, http.StatusOK, ids)
}

// fail writes the mapped error and logs anything that is not a known kind.
func (h *ChatHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := common.WriteError(w, err); status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

func pathUserID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, common.Invalid("invalid user id")
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.Invalid("request body too large")
		}
		return common.Invalid("invalid request body")
	}
	return nil
}
