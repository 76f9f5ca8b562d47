package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"capicare-backend/internal/model"
	"capicare-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- service mocks ---

type mockReconcileService struct {
	ProcessFn func(ctx context.Context, payload map[string]any) (*service.Result, error)
}

func (m *mockReconcileService) Process(ctx context.Context, payload map[string]any) (*service.Result, error) {
	return m.ProcessFn(ctx, payload)
}

type mockAccessService struct {
	VerifyFn func(ctx context.Context, email string) (*service.AccessInfo, error)
}

func (m *mockAccessService) Verify(ctx context.Context, email string) (*service.AccessInfo, error) {
	return m.VerifyFn(ctx, email)
}

type mockAdminService struct {
	ListUsersFn     func(ctx context.Context) ([]*model.Purchase, error)
	DeleteUserFn    func(ctx context.Context, email string) (bool, error)
	ForceRegisterFn func(ctx context.Context, email, name, plan string, duration int) (*model.Purchase, error)
	SimulateFn      func(ctx context.Context, email, plan string) (*service.Result, error)
}

func (m *mockAdminService) ListUsers(ctx context.Context) ([]*model.Purchase, error) {
	return m.ListUsersFn(ctx)
}

func (m *mockAdminService) DeleteUser(ctx context.Context, email string) (bool, error) {
	return m.DeleteUserFn(ctx, email)
}

func (m *mockAdminService) ForceRegister(ctx context.Context, email, name, plan string, duration int) (*model.Purchase, error) {
	return m.ForceRegisterFn(ctx, email, name, plan, duration)
}

func (m *mockAdminService) SimulatePurchase(ctx context.Context, email, plan string) (*service.Result, error) {
	return m.SimulateFn(ctx, email, plan)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)
	require.NoError(t, h(c))
	return rr
}

// --- webhook handler ---

func TestWebhookReceiveApproved(t *testing.T) {
	mock := &mockReconcileService{
		ProcessFn: func(ctx context.Context, payload map[string]any) (*service.Result, error) {
			assert.Equal(t, "user@example.com", payload["email"])
			return &service.Result{
				Email:    "user@example.com",
				Approved: true,
				Plan:     "App CapiCare 60 Dias",
				Duration: 60,
			}, nil
		},
	}
	h := NewWebhookHandler(mock)

	rr := doJSON(t, h.Receive, http.MethodPost, "/api/webhook",
		`{"email":"user@example.com","status":"APPROVED","offer_name":"App CapiCare 60 Dias"}`)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
}

func TestWebhookReceiveNotApproved(t *testing.T) {
	mock := &mockReconcileService{
		ProcessFn: func(ctx context.Context, payload map[string]any) (*service.Result, error) {
			return &service.Result{Email: "user@example.com", Approved: false}, nil
		},
	}
	h := NewWebhookHandler(mock)

	rr := doJSON(t, h.Receive, http.MethodPost, "/api/webhook",
		`{"email":"user@example.com","status":"pending"}`)

	// acknowledged, still a 200
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "not approved")
}

func TestWebhookReceiveMissingEmail(t *testing.T) {
	mock := &mockReconcileService{
		ProcessFn: func(ctx context.Context, payload map[string]any) (*service.Result, error) {
			return nil, service.ErrEmailRequired
		},
	}
	h := NewWebhookHandler(mock)

	rr := doJSON(t, h.Receive, http.MethodPost, "/api/webhook", `{"status":"APPROVED"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhookReceiveAuditFailure(t *testing.T) {
	mock := &mockReconcileService{
		ProcessFn: func(ctx context.Context, payload map[string]any) (*service.Result, error) {
			return nil, service.ErrAuditWrite
		},
	}
	h := NewWebhookHandler(mock)

	rr := doJSON(t, h.Receive, http.MethodPost, "/api/webhook", `{"email":"user@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestWebhookReceiveAccessGrantFailure(t *testing.T) {
	mock := &mockReconcileService{
		ProcessFn: func(ctx context.Context, payload map[string]any) (*service.Result, error) {
			return &service.Result{Email: "user@example.com", Approved: true},
				service.ErrAccessGrant
		},
	}
	h := NewWebhookHandler(mock)

	rr := doJSON(t, h.Receive, http.MethodPost, "/api/webhook", `{"email":"user@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	// partial step detail still reported for replay diagnostics
	assert.Contains(t, rr.Body.String(), "user@example.com")
}

func TestWebhookReceiveInvalidJSON(t *testing.T) {
	h := NewWebhookHandler(&mockReconcileService{})

	rr := doJSON(t, h.Receive, http.MethodPost, "/api/webhook", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- access handler ---

func TestVerifyHandlerValid(t *testing.T) {
	expiration := time.Now().AddDate(0, 0, 30)
	mock := &mockAccessService{
		VerifyFn: func(ctx context.Context, email string) (*service.AccessInfo, error) {
			assert.Equal(t, "user@example.com", email)
			return &service.AccessInfo{
				Record: &model.Purchase{
					Email:          "user@example.com",
					Plan:           "App CapiCare 30 Dias",
					Duration:       30,
					ExpirationDate: expiration,
					Active:         true,
				},
				DaysRemaining: 30,
			}, nil
		},
	}
	h := NewAccessHandler(mock)

	rr := doJSON(t, h.Verify, http.MethodPost, "/api/verify-access", `{"email":"user@example.com"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			DaysRemaining int    `json:"daysRemaining"`
			Plan          string `json:"plan"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 30, resp.Data.DaysRemaining)
	assert.Equal(t, "App CapiCare 30 Dias", resp.Data.Plan)
}

func TestVerifyHandlerStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrAccessNotFound, http.StatusNotFound},
		{"expired", service.ErrAccessExpired, http.StatusForbidden},
		{"backend error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockAccessService{
				VerifyFn: func(ctx context.Context, email string) (*service.AccessInfo, error) {
					return nil, tc.err
				},
			}
			h := NewAccessHandler(mock)

			rr := doJSON(t, h.Verify, http.MethodPost, "/api/verify-access", `{"email":"user@example.com"}`)
			assert.Equal(t, tc.code, rr.Code)
		})
	}
}

func TestVerifyHandlerMissingEmail(t *testing.T) {
	h := NewAccessHandler(&mockAccessService{})

	rr := doJSON(t, h.Verify, http.MethodPost, "/api/verify-access", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- admin handler ---

func TestListUsersHandler(t *testing.T) {
	mock := &mockAdminService{
		ListUsersFn: func(ctx context.Context) ([]*model.Purchase, error) {
			return []*model.Purchase{
				{Email: "a@example.com"},
				{Email: "b@example.com"},
			}, nil
		},
	}
	h := NewAdminHandler(mock)

	rr := doJSON(t, h.ListUsers, http.MethodGet, "/api/debug-users", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		TotalUsers int `json:"totalUsers"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalUsers)
}

func TestDeleteUserHandler(t *testing.T) {
	mock := &mockAdminService{
		DeleteUserFn: func(ctx context.Context, email string) (bool, error) {
			return email == "present@example.com", nil
		},
	}
	h := NewAdminHandler(mock)

	rr := doJSON(t, h.DeleteUser, http.MethodDelete, "/api/debug-users", `{"email":"present@example.com"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h.DeleteUser, http.MethodDelete, "/api/debug-users", `{"email":"absent@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestForceRegisterHandler(t *testing.T) {
	mock := &mockAdminService{
		ForceRegisterFn: func(ctx context.Context, email, name, plan string, duration int) (*model.Purchase, error) {
			assert.Equal(t, "user@example.com", email)
			assert.Equal(t, 60, duration)
			return &model.Purchase{Email: email, Plan: plan, Duration: duration}, nil
		},
	}
	h := NewAdminHandler(mock)

	rr := doJSON(t, h.ForceRegister, http.MethodPost, "/api/force-register",
		`{"email":"user@example.com","name":"Maria","plan":"App CapiCare 60 Dias","duration":60}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSimulateHandler(t *testing.T) {
	mock := &mockAdminService{
		SimulateFn: func(ctx context.Context, email, plan string) (*service.Result, error) {
			return &service.Result{Email: email, Approved: true, Plan: plan}, nil
		},
	}
	h := NewAdminHandler(mock)

	rr := doJSON(t, h.Simulate, http.MethodPost, "/api/simulate-kirvano",
		`{"email":"user@example.com","plan":"App CapiCare 90 Dias"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h.Simulate, http.MethodPost, "/api/simulate-kirvano", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
