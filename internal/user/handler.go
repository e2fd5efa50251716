package user

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gochat/internal/common"
	"gochat/internal/dbmysql"
)

// Handler wires the auth, sidebar and friend routes to UserService.
type Handler struct {
	userService UserService
	log         *zap.Logger
}

func NewHandler(userService UserService, log *zap.Logger) *Handler {
	return &Handler{userService: userService, log: log}
}

type RegisterRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string        `json:"token"`
	User    *dbmysql.User `json:"user"`
	Message string        `json:"message"`
}

type StatusResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", h.GetProfile).Methods(http.MethodGet)
	r.HandleFunc("/messages/users", h.SidebarUsers).Methods(http.MethodGet)
	r.HandleFunc("/friends", h.ListFriends).Methods(http.MethodGet)
	r.HandleFunc("/friends/send/{toUserId:[0-9]+}", h.SendFriendRequest).Methods(http.MethodPost)
	r.HandleFunc("/friends/accept/{fromUserId:[0-9]+}", h.AcceptFriendRequest).Methods(http.MethodPost)
	r.HandleFunc("/friends/requests", h.IncomingRequests).Methods(http.MethodGet)
	r.HandleFunc("/friends/requests/sent", h.OutgoingRequests).Methods(http.MethodGet)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, common.Invalid("invalid request body"))
		return
	}
	user, token, err := h.userService.RegisterUser(r.Context(), req.Handle, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user, Message: "Registration successful"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, common.Invalid("invalid request body"))
		return
	}
	user, token, err := h.userService.LoginUser(r.Context(), req.Handle, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, AuthResponse{Token: token, User: user, Message: "Login successful"})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}
	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) SidebarUsers(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, h.userService.ListSidebarUsers)
}

func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, h.userService.ListFriends)
}

func (h *Handler) IncomingRequests(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, h.userService.ListIncomingRequests)
}

func (h *Handler) OutgoingRequests(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, h.userService.ListOutgoingRequests)
}

func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}
	target, err := strconv.ParseUint(mux.Vars(r)["toUserId"], 10, 64)
	if err != nil {
		h.fail(w, r, common.Invalid("invalid user id"))
		return
	}
	if err := h.userService.SendFriendRequest(r.Context(), userID, target); err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, StatusResponse{Message: "Friend request sent", Success: true})
}

func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}
	requester, err := strconv.ParseUint(mux.Vars(r)["fromUserId"], 10, 64)
	if err != nil {
		h.fail(w, r, common.Invalid("invalid user id"))
		return
	}
	if err := h.userService.AcceptFriendRequest(r.Context(), userID, requester); err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, StatusResponse{Message: "Friend request accepted", Success: true})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, list func(context.Context, uint64) ([]*dbmysql.User, error)) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.Unauthenticated("user not authenticated"))
		return
	}
	users, err := list(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if users == nil {
		users = []*dbmysql.User{}
	}
	common.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := common.WriteError(w, err); status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
