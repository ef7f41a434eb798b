package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, username, password string, role models.Role) (int64, error) {
	args := m.Called(ctx, username, password, role)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		body        string
		setupMock   func(m *MockService)
		wantStatus  int
		wantMessage string
	}{
		{
			name: "created",
			body: `{"username":"alice","password":"s3cret!"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "alice", "s3cret!", models.Role("")).Return(int64(42), nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantMessage: "user created",
		},
		{
			name: "created admin",
			body: `{"username":"root","password":"s3cret!","role":"admin"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "root", "s3cret!", models.RoleAdmin).Return(int64(1), nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantMessage: "user created",
		},
		{
			name:        "invalid json",
			body:        `not json`,
			setupMock:   func(_ *MockService) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
		{
			name:        "missing password",
			body:        `{"username":"alice"}`,
			setupMock:   func(_ *MockService) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "field Password is a required field",
		},
		{
			name:        "unknown role",
			body:        `{"username":"alice","password":"s3cret!","role":"root"}`,
			setupMock:   func(_ *MockService) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "field Role must be one of: user admin",
		},
		{
			name: "duplicate username",
			body: `{"username":"alice","password":"s3cret!"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "alice", "s3cret!", models.Role("")).Return(int64(0), apperr.ErrConflict).Once()
			},
			wantStatus:  http.StatusConflict,
			wantMessage: "conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMessage, got["message"])
			assert.Equal(t, float64(tt.wantStatus), got["code"])
			assert.Equal(t, tt.wantStatus == http.StatusOK, got["success"])
			svc.AssertExpectations(t)
		})
	}
}
