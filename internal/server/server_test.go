package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arzan03/scholarship-server/internal/handlers"
	"github.com/arzan03/scholarship-server/internal/metrics"
	"github.com/arzan03/scholarship-server/internal/server"
	"github.com/arzan03/scholarship-server/internal/services"
	"github.com/arzan03/scholarship-server/internal/store"
	"github.com/arzan03/scholarship-server/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type testServer struct {
	app     *fiber.App
	store   *store.Store
	intents *testutil.FakeIntents
	objects *testutil.FakeObjects
}

func newTestServer(t *testing.T, readOnly bool) *testServer {
	t.Helper()
	st := testutil.NewMemStore()
	intents := &testutil.FakeIntents{Secret: "pi_secret"}
	objects := testutil.NewFakeObjects()

	h := handlers.New(st,
		services.NewTokenService("server-secret"),
		services.NewPaymentService(intents),
		services.NewImageService(objects, st.Listings),
		zap.NewNop())
	app := server.New(h, server.Options{
		CORSOrigins: []string{"http://localhost:5173"},
		ReadOnly:    readOnly,
		Metrics:     metrics.New(),
	})
	return &testServer{app: app, store: st, intents: intents, objects: objects}
}

func (s *testServer) mem(c store.Collection) *testutil.MemCollection {
	return c.(*testutil.MemCollection)
}

func (s *testServer) do(t *testing.T, method, path string, body any, header ...string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, false)
	status, body := s.do(t, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello from Scholarship Server..", string(body))
}

func TestTokenThenAdminListing(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, "POST", "/jwt", map[string]any{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, status, string(body))
	token := decode[map[string]string](t, body)["token"]
	require.NotEmpty(t, token)
	auth := []string{"Authorization", "Bearer " + token}

	// No user record yet.
	status, _ = s.do(t, "GET", "/users", nil, auth...)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, "PUT", "/user", map[string]any{"email": "a@x.com", "name": "A", "role": "applicant"})
	require.Equal(t, http.StatusOK, status)
	status, body = s.do(t, "GET", "/users", nil, auth...)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized access!!", decode[map[string]string](t, body)["message"])

	status, _ = s.do(t, "PATCH", "/users/update/a@x.com", map[string]any{"role": "admin"})
	require.Equal(t, http.StatusOK, status)
	status, body = s.do(t, "GET", "/users", nil, auth...)
	require.Equal(t, http.StatusOK, status)
	users := decode[[]map[string]any](t, body)
	require.Len(t, users, 1)
	assert.Equal(t, "a@x.com", users[0]["email"])

	status, body = s.do(t, "GET", "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized access", decode[map[string]string](t, body)["message"])
}

func TestIssueTokenRequiresEmail(t *testing.T) {
	s := newTestServer(t, false)
	status, _ := s.do(t, "POST", "/jwt", map[string]any{"name": "no email"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = s.do(t, "POST", "/jwt", map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSaveUserUpsert(t *testing.T) {
	s := newTestServer(t, false)
	users := s.mem(s.store.Users)

	status, body := s.do(t, "PUT", "/user", map[string]any{"email": "u@x.com", "name": "U", "role": "guest", "status": "Verified"})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, body)["upsertedCount"])

	// Repeating without a role request returns the stored user untouched.
	status, body = s.do(t, "PUT", "/user", map[string]any{"email": "u@x.com", "name": "Other", "status": "Verified"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "U", decode[map[string]any](t, body)["name"])
	require.Len(t, users.Docs(), 1)

	status, _ = s.do(t, "PUT", "/user", map[string]any{"email": "u@x.com", "name": "Other", "status": "Requested"})
	require.Equal(t, http.StatusOK, status)
	doc := users.Docs()[0]
	assert.Equal(t, "Requested", doc["status"])
	assert.Equal(t, "U", doc["name"])

	status, body = s.do(t, "GET", "/user/u@x.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Requested", decode[map[string]any](t, body)["status"])

	status, body = s.do(t, "GET", "/user/missing@x.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(body))
}

func TestListingLifecycle(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, "POST", "/scholarship", map[string]any{
		"universityName": "MIT",
		"host":           map[string]any{"email": "host@x.com"},
	})
	require.Equal(t, http.StatusOK, status)
	ack := decode[map[string]any](t, body)
	assert.Equal(t, true, ack["acknowledged"])
	id, ok := ack["insertedId"].(string)
	require.True(t, ok, "insertedId should be a hex string: %v", ack["insertedId"])

	s.do(t, "POST", "/scholarship", map[string]any{"universityName": "CMU", "host": map[string]any{"email": "other@x.com"}})

	status, body = s.do(t, "GET", "/university", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, body), 2)

	status, body = s.do(t, "GET", "/manage-scholarships/host@x.com", nil)
	require.Equal(t, http.StatusOK, status)
	mine := decode[[]map[string]any](t, body)
	require.Len(t, mine, 1)
	assert.Equal(t, "MIT", mine[0]["universityName"])

	status, _ = s.do(t, "PUT", "/scholarship/update/"+id, map[string]any{"_id": id, "universityName": "MIT (updated)"})
	require.Equal(t, http.StatusOK, status)
	status, body = s.do(t, "GET", "/university/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	listing := decode[map[string]any](t, body)
	assert.Equal(t, "MIT (updated)", listing["universityName"])
	assert.Equal(t, id, listing["_id"])

	// Updating an absent listing does not create it.
	missing := primitive.NewObjectID().Hex()
	status, body = s.do(t, "PUT", "/scholarship/update/"+missing, map[string]any{"universityName": "Ghost"})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, decode[map[string]any](t, body)["matchedCount"])
	assert.Len(t, s.mem(s.store.Listings).Docs(), 2)

	status, body = s.do(t, "DELETE", "/scholarship/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, body)["deletedCount"])

	status, body = s.do(t, "GET", "/university/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(body))
}

func TestDeleteMissingIsZeroCount(t *testing.T) {
	s := newTestServer(t, false)
	missing := primitive.NewObjectID().Hex()
	for _, path := range []string{"/apply/", "/reviews/", "/scholarship/", "/users/"} {
		status, body := s.do(t, "DELETE", path+missing, nil)
		require.Equal(t, http.StatusOK, status, path)
		ack := decode[map[string]any](t, body)
		assert.EqualValues(t, 0, ack["deletedCount"], path)
		assert.Equal(t, true, ack["acknowledged"], path)
	}
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	s := newTestServer(t, false)
	for _, req := range [][2]string{
		{"GET", "/university/not-an-id"},
		{"DELETE", "/reviews/123"},
		{"DELETE", "/users/zzz"},
	} {
		status, _ := s.do(t, req[0], req[1], nil)
		assert.Equal(t, http.StatusBadRequest, status, req[1])
	}
}

func TestReviewsAndApplications(t *testing.T) {
	s := newTestServer(t, false)

	s.do(t, "POST", "/review", map[string]any{"rating": 5, "review_user": map[string]any{"email": "r@x.com"}})
	s.do(t, "POST", "/review", map[string]any{"rating": 2, "review_user": map[string]any{"email": "other@x.com"}})
	status, body := s.do(t, "GET", "/reviews", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, body), 2)

	status, body = s.do(t, "GET", "/my-reviews/r@x.com", nil)
	require.Equal(t, http.StatusOK, status)
	mine := decode[[]map[string]any](t, body)
	require.Len(t, mine, 1)
	reviewID := mine[0]["_id"].(string)

	status, body = s.do(t, "DELETE", "/reviews/"+reviewID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, body)["deletedCount"])

	status, _ = s.do(t, "POST", "/apply", map[string]any{"degree": "Masters", "user": map[string]any{"email": "a@x.com"}})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, s.mem(s.store.Applications).Docs(), 1)

	status, body = s.do(t, "POST", "/payments", map[string]any{"transactionId": "pi_1", "user": map[string]any{"email": "a@x.com"}})
	require.Equal(t, http.StatusOK, status)
	paymentID := decode[map[string]any](t, body)["insertedId"].(string)

	status, body = s.do(t, "GET", "/my-apply/a@x.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, body), 1)

	status, body = s.do(t, "GET", "/payment", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, body), 1)

	status, body = s.do(t, "DELETE", "/apply/"+paymentID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, body)["deletedCount"])
}

func TestCreatePaymentIntent(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, "POST", "/create-payment-intent", map[string]any{"price": 120.5})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pi_secret", decode[map[string]string](t, body)["clientSecret"])
	require.Len(t, s.intents.Calls, 1)
	assert.EqualValues(t, 12050, s.intents.Calls[0].AmountCents)

	for _, price := range []any{0.005, 0, nil, "free", 1e20, "1e20"} {
		status, _ = s.do(t, "POST", "/create-payment-intent", map[string]any{"price": price})
		assert.Equal(t, http.StatusBadRequest, status, "price %v", price)
	}
	assert.Len(t, s.intents.Calls, 1)
}

func TestCreatePaymentIntentProviderFailure(t *testing.T) {
	s := newTestServer(t, false)
	s.intents.Err = errors.New("stripe down")
	status, body := s.do(t, "POST", "/create-payment-intent", map[string]any{"price": 10})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", decode[map[string]string](t, body)["message"])
}

func TestStoreFailureIsInternalError(t *testing.T) {
	s := newTestServer(t, false)
	s.mem(s.store.Reviews).Err = errors.New("socket closed")
	status, _ := s.do(t, "GET", "/reviews", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestListingImage(t *testing.T) {
	s := newTestServer(t, false)
	_, body := s.do(t, "POST", "/scholarship", map[string]any{"universityName": "MIT"})
	id := decode[map[string]any](t, body)["insertedId"].(string)

	status, _ := s.do(t, "GET", "/scholarship/"+id+"/image", nil)
	assert.Equal(t, http.StatusNotFound, status)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "campus.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/scholarship/"+id+"/image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, s.objects.Objects, 1)

	status, body = s.do(t, "GET", "/scholarship/"+id+"/image", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, decode[map[string]string](t, body)["url"], "listings/"+id+"/")
}

func TestReadOnlyServer(t *testing.T) {
	s := newTestServer(t, true)
	s.mem(s.store.Listings).InsertOne(context.Background(), bson.M{"universityName": "MIT"})

	status, body := s.do(t, "GET", "/university", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, body), 1)

	for _, req := range [][2]string{
		{"POST", "/scholarship"},
		{"PUT", "/user"},
		{"POST", "/create-payment-intent"},
	} {
		status, _ := s.do(t, req[0], req[1], map[string]any{"email": "a@x.com"})
		assert.Equal(t, http.StatusNotFound, status, req[1])
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, false)

	status, body := s.do(t, "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[map[string]string](t, body)
	assert.Equal(t, "ok", report["mongo"])
	assert.Equal(t, "ok", report["minio"])

	s.objects.PingErr = errors.New("unreachable")
	status, body = s.do(t, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unreachable", decode[map[string]string](t, body)["minio"])

	status, body = s.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "scholarship_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, false)
	req := httptest.NewRequest("OPTIONS", "/university", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
