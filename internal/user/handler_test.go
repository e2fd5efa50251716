package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gochat/internal/common"
	"gochat/internal/dbmysql"
)

func newTestRouter(t *testing.T) (*mux.Router, *MockUserService) {
	t.Helper()
	svc := NewMockUserService(gomock.NewController(t))
	r := mux.NewRouter()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r)
	return r, svc
}

func serve(r http.Handler, method, path, body string, uid uint64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if uid != 0 {
		req = req.WithContext(common.WithIdentity(req.Context(), uid, "alice"))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		setup  func(svc *MockUserService)
		status int
	}{
		{
			name: "created",
			body: `{"handle":"alice","email":"a@x.com","password":"pwgood"}`,
			setup: func(svc *MockUserService) {
				svc.EXPECT().RegisterUser(gomock.Any(), "alice", "a@x.com", "pwgood").
					Return(&dbmysql.User{UserID: 2, Handle: "alice", PasswordHash: "secret-hash"}, "tok", nil)
			},
			status: http.StatusCreated,
		},
		{
			name: "validation error",
			body: `{"handle":"!","password":""}`,
			setup: func(svc *MockUserService) {
				svc.EXPECT().RegisterUser(gomock.Any(), "!", "", "").
					Return(nil, "", common.Invalid("handle can only contain letters, numbers, and underscores"))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "internal error",
			body: `{"handle":"bob","password":"pwgood"}`,
			setup: func(svc *MockUserService) {
				svc.EXPECT().RegisterUser(gomock.Any(), "bob", "", "pwgood").
					Return(nil, "", errors.New("db connection lost"))
			},
			status: http.StatusInternalServerError,
		},
		{name: "bad json", body: `nope`, setup: func(*MockUserService) {}, status: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, svc := newTestRouter(t)
			tc.setup(svc)
			rec := serve(r, http.MethodPost, "/auth/register", tc.body, 0)
			require.Equal(t, tc.status, rec.Code)

			if tc.status == http.StatusCreated {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "tok", resp["token"])
				assert.NotContains(t, rec.Body.String(), "secret-hash")
			}
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "db connection lost")
			}
		})
	}
}

func TestHandler_Login(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().LoginUser(gomock.Any(), "alice", "wrong").
		Return(nil, "", common.Unauthenticated("Invalid handle or password"))
	svc.EXPECT().LoginUser(gomock.Any(), "alice", "right").
		Return(&dbmysql.User{UserID: 1, Handle: "alice"}, "tok", nil)

	rec := serve(r, http.MethodPost, "/auth/login", `{"handle":"alice","password":"wrong"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodPost, "/auth/login", `{"handle":"alice","password":"right"}`, 0)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Profile(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().GetProfile(gomock.Any(), uint64(1)).Return(&dbmysql.User{UserID: 1, Handle: "alice"}, nil)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/auth/me", "", 0).Code)

	rec := serve(r, http.MethodGet, "/auth/me", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	var u dbmysql.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "alice", u.Handle)
}

func TestHandler_Friends(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		setup  func(svc *MockUserService)
		status int
	}{
		{
			name: "send", method: http.MethodPost, path: "/friends/send/2",
			setup:  func(svc *MockUserService) { svc.EXPECT().SendFriendRequest(gomock.Any(), uint64(1), uint64(2)).Return(nil) },
			status: http.StatusOK,
		},
		{
			name: "send to self", method: http.MethodPost, path: "/friends/send/1",
			setup: func(svc *MockUserService) {
				svc.EXPECT().SendFriendRequest(gomock.Any(), uint64(1), uint64(1)).
					Return(common.Invalid("cannot send a friend request to yourself"))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "accept missing", method: http.MethodPost, path: "/friends/accept/5",
			setup: func(svc *MockUserService) {
				svc.EXPECT().AcceptFriendRequest(gomock.Any(), uint64(1), uint64(5)).
					Return(common.NotFound("Friend request not found"))
			},
			status: http.StatusNotFound,
		},
		{
			name: "list friends", method: http.MethodGet, path: "/friends",
			setup: func(svc *MockUserService) {
				svc.EXPECT().ListFriends(gomock.Any(), uint64(1)).Return([]*dbmysql.User{{UserID: 2}}, nil)
			},
			status: http.StatusOK,
		},
		{
			name: "incoming", method: http.MethodGet, path: "/friends/requests",
			setup:  func(svc *MockUserService) { svc.EXPECT().ListIncomingRequests(gomock.Any(), uint64(1)).Return(nil, nil) },
			status: http.StatusOK,
		},
		{
			name: "outgoing", method: http.MethodGet, path: "/friends/requests/sent",
			setup:  func(svc *MockUserService) { svc.EXPECT().ListOutgoingRequests(gomock.Any(), uint64(1)).Return(nil, nil) },
			status: http.StatusOK,
		},
		{
			name: "sidebar", method: http.MethodGet, path: "/messages/users",
			setup: func(svc *MockUserService) {
				svc.EXPECT().ListSidebarUsers(gomock.Any(), uint64(1)).Return([]*dbmysql.User{{UserID: 2}, {UserID: 3}}, nil)
			},
			status: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, svc := newTestRouter(t)
			tc.setup(svc)
			rec := serve(r, tc.method, tc.path, "", 1)
			assert.Equal(t, tc.status, rec.Code)
			if tc.method == http.MethodGet {
				var list []map[string]any
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list), "lists are always JSON arrays")
			}
		})
	}
}
