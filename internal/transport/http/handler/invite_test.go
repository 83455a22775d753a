package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sindoca/api/internal/domain"
)

// --- mock ---

type mockWorkspaceSvc struct{ mock.Mock }

func (m *mockWorkspaceSvc) Get(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if w, _ := args.Get(0).(*domain.Workspace); w != nil {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkspaceSvc) Update(ctx context.Context, workspaceID string, updates map[string]interface{}) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID, updates)
	if w, _ := args.Get(0).(*domain.Workspace); w != nil {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkspaceSvc) VerifyInvite(ctx context.Context, req *domain.InviteRequest) (*domain.InviteCredentials, error) {
	args := m.Called(ctx, req)
	if c, _ := args.Get(0).(*domain.InviteCredentials); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInviteVerifySuccess(t *testing.T) {
	svc := new(mockWorkspaceSvc)
	svc.On("VerifyInvite", mock.Anything, mock.MatchedBy(func(req *domain.InviteRequest) bool {
		return req.Answer == "eu gosto de banana com aveia"
	})).Return(&domain.InviteCredentials{Email: "partner@example.com", Password: "hunter2"}, nil)

	h := NewInviteHandler(svc)
	rec := postJSON(t, h.Verify, "/v1/invite", map[string]string{
		"answer": "eu gosto de banana com aveia",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data domain.InviteCredentials `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "partner@example.com", env.Data.Email)
	assert.Equal(t, "hunter2", env.Data.Password)
}

func TestInviteVerifyRejectionIsGeneric(t *testing.T) {
	svc := new(mockWorkspaceSvc)
	svc.On("VerifyInvite", mock.Anything, mock.Anything).
		Return(nil, domain.ErrUnauthorized)

	h := NewInviteHandler(svc)
	rec := postJSON(t, h.Verify, "/v1/invite", map[string]string{"answer": "abacaxi"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "wrong answer", env.Error)
}

func TestInviteVerifyMissingAnswer(t *testing.T) {
	svc := new(mockWorkspaceSvc)

	h := NewInviteHandler(svc)
	rec := postJSON(t, h.Verify, "/v1/invite", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "VerifyInvite", mock.Anything, mock.Anything)
}
