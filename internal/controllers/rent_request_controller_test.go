package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentopedia/rentals-service/internal/middleware"
	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/repositories"
	"github.com/rentopedia/rentals-service/internal/routes"
	"github.com/rentopedia/rentals-service/internal/services"
	"github.com/rentopedia/rentals-service/internal/utils"
)

var testSecret = []byte("test-secret")

/* ------------------------------------------------------------------
   in-memory PropertyRepository, enough to drive the HTTP stack
------------------------------------------------------------------ */

type memPropertyRepo struct {
	byID map[uuid.UUID]*models.Property
}

func newMemPropertyRepo() *memPropertyRepo {
	return &memPropertyRepo{byID: map[uuid.UUID]*models.Property{}}
}

func cloneProperty(p *models.Property) *models.Property {
	b, _ := json.Marshal(p)
	var out models.Property
	_ = json.Unmarshal(b, &out)
	return &out
}

func (r *memPropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.byID[p.ID] = cloneProperty(p)
	return nil
}

func (r *memPropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneProperty(p), nil
}

func (r *memPropertyRepo) ListAll(_ context.Context) ([]*models.Property, error) {
	out := []*models.Property{}
	for _, p := range r.byID {
		out = append(out, cloneProperty(p))
	}
	return out, nil
}

func (r *memPropertyRepo) ListByOwner(_ context.Context, username string) ([]*models.Property, error) {
	out := []*models.Property{}
	for _, p := range r.byID {
		if p.OwnerUserID == username {
			out = append(out, cloneProperty(p))
		}
	}
	return out, nil
}

func (r *memPropertyRepo) ListByRequester(_ context.Context, username string) ([]*models.Property, error) {
	out := []*models.Property{}
	for _, p := range r.byID {
		for _, req := range p.RentRequests {
			if req.Requester == username {
				out = append(out, cloneProperty(p))
				break
			}
		}
	}
	return out, nil
}

func (r *memPropertyRepo) ListWithRequestsByOwner(_ context.Context, username string) ([]*models.Property, error) {
	out := []*models.Property{}
	for _, p := range r.byID {
		if p.OwnerUserID == username && len(p.RentRequests) > 0 {
			out = append(out, cloneProperty(p))
		}
	}
	return out, nil
}

func (r *memPropertyRepo) Update(_ context.Context, p *models.Property) error {
	r.byID[p.ID] = cloneProperty(p)
	return nil
}

func (r *memPropertyRepo) UpdateIfVersion(_ context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	current, ok := r.byID[p.ID]
	if !ok || current.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	stored := cloneProperty(p)
	stored.RowVersion = expected + 1
	r.byID[p.ID] = stored
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *memPropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return repositories.WithRetry(ctx, 3, id.String(),
		func(ctx context.Context, _ string) (*models.Property, error) {
			p, ok := r.byID[id]
			if !ok {
				return nil, pgx.ErrNoRows
			}
			return cloneProperty(p), nil
		},
		r.UpdateIfVersion,
		mutate,
	)
}

func (r *memPropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *memPropertyRepo) DeleteByOwner(_ context.Context, username string) error {
	for id, p := range r.byID {
		if p.OwnerUserID == username {
			delete(r.byID, id)
		}
	}
	return nil
}

/* ------------------------------------------------------------------
   test harness: real router, middleware, service; fake storage
------------------------------------------------------------------ */

type rentRequestHarness struct {
	router *mux.Router
	repo   *memPropertyRepo
}

func newRentRequestHarness(t *testing.T) *rentRequestHarness {
	t.Helper()
	repo := newMemPropertyRepo()
	svc := services.NewRentRequestService(repo, nil)
	ctrl := NewRentRequestController(svc)

	auth := middleware.AuthMiddleware(testSecret)
	router := mux.NewRouter()
	router.Handle(routes.RentRequestsSent, auth(http.HandlerFunc(ctrl.ListSentHandler))).Methods(http.MethodGet)
	router.Handle(routes.RentRequestsReceived, auth(http.HandlerFunc(ctrl.ListReceivedHandler))).Methods(http.MethodGet)
	router.Handle(routes.RentRequestCreate, auth(http.HandlerFunc(ctrl.CreateHandler))).Methods(http.MethodPost)
	router.Handle(routes.RentRequestAccept, auth(http.HandlerFunc(ctrl.AcceptHandler))).Methods(http.MethodPost)
	router.Handle(routes.RentRequestReject, auth(http.HandlerFunc(ctrl.RejectHandler))).Methods(http.MethodPost)
	router.Handle(routes.RentRequestCancel, auth(http.HandlerFunc(ctrl.CancelHandler))).Methods(http.MethodPost)
	return &rentRequestHarness{router: router, repo: repo}
}

func (h *rentRequestHarness) seed(t *testing.T, owner, title string) *models.Property {
	t.Helper()
	p := &models.Property{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Title:       title,
		Status:      models.PropertyStatusAvailable,
		CreatedAt:   time.Now().UTC(),
	}
	p.SetRowVersion(1)
	require.NoError(t, h.repo.Create(context.Background(), p))
	return p
}

func (h *rentRequestHarness) do(t *testing.T, method, path, username string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if username != "" {
		token, err := middleware.IssueToken(testSecret, uuid.NewString(), username, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func createRequest(t *testing.T, h *rentRequestHarness, propertyID uuid.UUID, requester string, days int) uuid.UUID {
	t.Helper()
	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request", propertyID),
		requester, map[string]any{"days": days, "totalAmount": days * 100})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Request models.RentRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Request.ID
}

/* ------------------------------------------------------------------
   tests
------------------------------------------------------------------ */

func TestCreateRentRequestEndpoint(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")

	reqID := createRequest(t, h, prop.ID, "bob", 3)

	stored, err := h.repo.GetByID(context.Background(), prop.ID)
	require.NoError(t, err)
	require.Len(t, stored.RentRequests, 1)
	assert.Equal(t, reqID, stored.RentRequests[0].ID)
	assert.Equal(t, models.RentRequestStatusPending, stored.RentRequests[0].Status)
	assert.Equal(t, models.PropertyStatusAvailable, stored.Status)
}

func TestCreateRentRequestRequiresAuth(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request", prop.ID),
		"", map[string]any{"days": 3, "totalAmount": 300})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRentRequestValidation(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request", prop.ID),
		"bob", map[string]any{"days": 0, "totalAmount": 300})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeValidation, decodeError(t, rec).Code)
}

func TestCreateRentRequestUnknownProperty(t *testing.T) {
	h := newRentRequestHarness(t)

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request", uuid.New()),
		"bob", map[string]any{"days": 3, "totalAmount": 300})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, utils.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestAcceptEndpoint(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")
	reqID := createRequest(t, h, prop.ID, "bob", 3)

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request/%s/accept", prop.ID, reqID),
		"alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := h.repo.GetByID(context.Background(), prop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RentRequestStatusAccepted, stored.RentRequests[0].Status)
	assert.Equal(t, models.PropertyStatusNotAvailable, stored.Status)
}

func TestAcceptForbiddenForNonOwner(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")
	reqID := createRequest(t, h, prop.ID, "bob", 3)

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request/%s/accept", prop.ID, reqID),
		"mallory", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, utils.ErrCodeForbidden, decodeError(t, rec).Code)
}

func TestRejectAfterDecisionIsWrongStatus(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")
	reqID := createRequest(t, h, prop.ID, "bob", 3)

	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request/%s/accept", prop.ID, reqID),
		"alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request/%s/reject", prop.ID, reqID),
		"alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeWrongStatus, decodeError(t, rec).Code)
}

func TestCancelEndpoint(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")
	reqID := createRequest(t, h, prop.ID, "bob", 3)

	// only the requester may cancel
	rec := h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request/%s/cancel", prop.ID, reqID),
		"mallory", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request/%s/cancel", prop.ID, reqID),
		"bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := h.repo.GetByID(context.Background(), prop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RentRequestStatusCancelled, stored.RentRequests[0].Status)
	assert.Equal(t, models.PropertyStatusAvailable, stored.Status)
}

func TestDecideMalformedIDsAreNotFound(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")

	rec := h.do(t, http.MethodPost,
		"/api/property/not-a-uuid/rent-request/also-not-a-uuid/accept",
		"alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPost,
		fmt.Sprintf("/api/property/%s/rent-request/%s/accept", prop.ID, uuid.New()),
		"alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, utils.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestSentAndReceivedEndpoints(t *testing.T) {
	h := newRentRequestHarness(t)
	prop := h.seed(t, "alice", "Flat in Pune")
	createRequest(t, h, prop.ID, "bob", 3)
	createRequest(t, h, prop.ID, "carol", 2)

	rec := h.do(t, http.MethodGet, "/api/property/rent-requests/sent", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sent []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	require.Len(t, sent, 1)
	assert.Equal(t, "Flat in Pune", sent[0]["propertyTitle"])
	assert.Equal(t, "alice", sent[0]["ownerUsername"])

	rec = h.do(t, http.MethodGet, "/api/property/rent-requests/received", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var received []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &received))
	assert.Len(t, received, 2)

	// the static paths must not be shadowed by /{id} matchers
	rec = h.do(t, http.MethodGet, "/api/property/rent-requests/sent", "nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var empty []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.Empty(t, empty)
}
