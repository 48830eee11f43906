package routes_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"cyclesafe-be/controllers"
	"cyclesafe-be/middlewares"
	"cyclesafe-be/models"
	"cyclesafe-be/routes"
	"cyclesafe-be/services"
	authUtils "cyclesafe-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type memIncidents struct {
	mu   sync.Mutex
	byID map[string]models.Incident
}

func (s *memIncidents) Insert(_ context.Context, inc *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[inc.ID.Hex()] = *inc
	return nil
}

func (s *memIncidents) FindByID(_ context.Context, id string) (*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inc, ok := s.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &inc, nil
}

func (s *memIncidents) List(_ context.Context, q models.IncidentQuery) ([]*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Incident
	for _, inc := range s.byID {
		if inc.ActiveAt(q.AsOf) {
			out = append(out, &inc)
		}
	}
	slices.SortFunc(out, func(a, b *models.Incident) int { return b.ReportedAt.Compare(a.ReportedAt) })
	return out, nil
}

func (s *memIncidents) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type memRoutes struct {
	mu   sync.Mutex
	byID map[string]models.Route
}

func (s *memRoutes) Insert(_ context.Context, r *models.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[r.ID.Hex()] = *r
	return nil
}

func (s *memRoutes) FindOwned(_ context.Context, owner, id string) (*models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok || r.Owner != owner {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (s *memRoutes) ListByOwner(_ context.Context, owner string) ([]*models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Route
	for _, r := range s.byID {
		if r.Owner == owner {
			out = append(out, &r)
		}
	}
	return out, nil
}

func (s *memRoutes) DeleteOwned(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok || r.Owner != owner {
		return models.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func (s *memUsers) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return models.ErrConflict
	}
	s.byEmail[u.Email] = *u
	return nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byEmail {
		if u.ID.Hex() == id {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

type memProfiles struct {
	mu      sync.Mutex
	byOwner map[string]models.Profile
}

func (s *memProfiles) FindByOwner(_ context.Context, owner string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byOwner[owner]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (s *memProfiles) Save(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byOwner[p.Owner] = *p
	return nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (c *memCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], window, nil
}

type testApp struct {
	router    *gin.Engine
	now       time.Time
	tokens    *authUtils.TokenManager
	incidents *memIncidents
}

type appOption func(*routes.Options)

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()

	app := &testApp{
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		tokens:    authUtils.NewTokenManager("test-secret", time.Hour),
		incidents: &memIncidents{byID: map[string]models.Incident{}},
	}
	clock := services.Clock(func() time.Time { return app.now })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctl := routes.Controllers{
		Incidents: controllers.NewIncidentController(services.NewIncidentService(app.incidents, clock), logger),
		Routes:    controllers.NewRouteController(services.NewRouteService(&memRoutes{byID: map[string]models.Route{}}, clock), logger),
		Auth: controllers.NewAuthController(
			services.NewAuthService(&memUsers{byEmail: map[string]models.User{}}, app.tokens, clock),
			controllers.CookieConfig{MaxAge: time.Hour}, logger),
		Profiles: controllers.NewProfileController(services.NewProfileService(&memProfiles{byOwner: map[string]models.Profile{}}, clock), logger),
		Health:   controllers.NewHealthController(okPinger{}, logger),
	}

	options := routes.Options{
		Tokens:      app.tokens,
		CORSOrigins: []string{"http://localhost:3000"},
		MaxBodySize: 50 << 20,
		Logger:      logger,
	}
	for _, opt := range opts {
		opt(&options)
	}

	router, err := routes.NewRouter(ctl, options)
	require.NoError(t, err)
	app.router = router
	return app
}

func (a *testApp) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := a.tokens.Issue(userID)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(method, path, token, body string) *httptest.ResponseRecorder {
	return a.doWithHeader(method, path, token, body, nil)
}

func (a *testApp) doWithHeader(method, path, token, body string, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestIncidentExpiresFromListButStaysFetchable(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/incidents", "", `{"caption":"Pothole","longitude":-73.9,"latitude":40.7,"duration":60000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[struct {
		Message  string          `json:"message"`
		Incident models.Incident `json:"incident"`
	}](t, rec)
	assert.Equal(t, "Incident reported successfully", created.Message)
	assert.True(t, created.Incident.IsActive)
	id := created.Incident.ID.Hex()

	rec = app.do(http.MethodGet, "/api/incidents", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]models.Incident](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.Incident.ID, list[0].ID)

	app.now = app.now.Add(61 * time.Second)

	rec = app.do(http.MethodGet, "/api/incidents", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/incidents/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Incident](t, rec)
	assert.Equal(t, "Pothole", got.Caption)
	assert.False(t, got.IsActive)
}

func TestRouteIsInvisibleToOtherUsers(t *testing.T) {
	app := newTestApp(t)
	alice, bob := app.token(t, "alice"), app.token(t, "bob")

	rec := app.do(http.MethodPost, "/api/routes", alice, routeJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	route := decode[models.Route](t, rec)
	assert.Equal(t, "alice", route.Owner)

	rec = app.do(http.MethodGet, "/api/routes/"+route.ID.Hex(), bob, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodDelete, "/api/routes/"+route.ID.Hex(), bob, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/api/routes", bob, "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/routes", alice, "")
	assert.Len(t, decode[[]models.Route](t, rec), 1)
}

func TestRoutePayloadIsServedByteForByte(t *testing.T) {
	app := newTestApp(t)
	alice := app.token(t, "alice")

	body := `{
		"name": "Canal loop",
		"startLocation": "Home",
		"endLocation": "Office",
		"distance": 5230,
		"duration": 1260,
		"origin": {"placeName":"Home","point":{"longitude":-73.99,"latitude":40.73}},
		"destination": {"placeName":"Office","point":{"longitude":-73.98,"latitude":40.75}},
		"geometry": { "type": "LineString",
			"coordinates": [ [-73.99, 40.73], [-73.98, 40.75] ] },
		"steps": [ {"instruction": "Turn at A & B <St>", "distance": 120} ]
	}`
	wantGeometry := `{"type":"LineString","coordinates":[[-73.99,40.73],[-73.98,40.75]]}`
	wantSteps := `[{"instruction":"Turn at A & B <St>","distance":120}]`

	assertPayload := func(t *testing.T, raw []byte) {
		t.Helper()
		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &fields))
		assert.Equal(t, wantGeometry, string(fields["geometry"]))
		assert.Equal(t, wantSteps, string(fields["steps"]))
	}

	rec := app.do(http.MethodPost, "/api/routes", alice, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "A & B <St>")
	assert.NotContains(t, rec.Body.String(), `\u0026`)
	assertPayload(t, rec.Body.Bytes())
	id := decode[models.Route](t, rec).ID.Hex()

	rec = app.do(http.MethodGet, "/api/routes/"+id, alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A & B <St>")
	assertPayload(t, rec.Body.Bytes())

	rec = app.do(http.MethodGet, "/api/routes", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `\u003c`)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assertPayload(t, list[0])
}

func TestReportWithoutCaptionIsRejected(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/incidents", "", `{"longitude":-73.9,"latitude":40.7,"duration":60000}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[struct {
		Code   string              `json:"code"`
		Error  string              `json:"error"`
		Fields []models.FieldError `json:"fields"`
	}](t, rec)
	assert.Equal(t, "validation_error", body.Code)
	assert.Contains(t, body.Error, "caption")
	assert.Empty(t, app.incidents.byID)
}

func TestOwnerDeletesRoute(t *testing.T) {
	app := newTestApp(t)
	alice := app.token(t, "alice")

	rec := app.do(http.MethodPost, "/api/routes", alice, routeJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.Route](t, rec).ID.Hex()

	rec = app.do(http.MethodDelete, "/api/routes/"+id, alice, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/api/routes/"+id, alice, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/routes", "/api/routes/" + primitive.NewObjectID().Hex(), "/api/auth/me", "/api/users/me/profile"} {
		rec := app.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := app.do(http.MethodGet, "/api/routes", "forged.token.value", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupLoginMeProfile(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/auth/signup", "", `{"name":"Alice","email":"Alice@Example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(http.MethodPost, "/api/auth/signup", "", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"wrong1"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, rec)
	require.NotEmpty(t, session.Token)

	rec = app.do(http.MethodGet, "/api/auth/me", session.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.User.ID, decode[models.User](t, rec).ID)

	rec = app.do(http.MethodPut, "/api/users/me/profile", session.Token, `{"name":"Alice","email":"alice@example.com","location":"Brooklyn"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/api/users/me/profile", session.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[models.Profile](t, rec)
	assert.Equal(t, session.User.ID.Hex(), profile.Owner)
	assert.Equal(t, "Brooklyn", profile.Location)
}

func TestReportLimiter(t *testing.T) {
	counter := &memCounter{counts: map[string]int64{}}
	app := newTestApp(t, func(o *routes.Options) {
		o.ReportLimiter = middlewares.IncidentRateLimiter(counter, "incident_limit", 1, time.Hour, o.Logger)
	})

	body := `{"caption":"Glass","longitude":-73.9,"latitude":40.7,"duration":60000}`
	assert.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/api/incidents", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, app.do(http.MethodPost, "/api/incidents", "", body).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/incidents", "", "").Code)
}

func TestReportLimiterIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	counter := &memCounter{counts: map[string]int64{}}
	app := newTestApp(t, func(o *routes.Options) {
		o.ReportLimiter = middlewares.IncidentRateLimiter(counter, "incident_limit", 1, time.Hour, o.Logger)
	})

	body := `{"caption":"Glass","longitude":-73.9,"latitude":40.7,"duration":60000}`
	first := app.doWithHeader(http.MethodPost, "/api/incidents", "", body, http.Header{"X-Forwarded-For": {"203.0.113.7"}})
	second := app.doWithHeader(http.MethodPost, "/api/incidents", "", body, http.Header{"X-Forwarded-For": {"198.51.100.9"}})

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, map[string]int64{"incident_limit:192.0.2.1": 2}, counter.counts)
}

func TestReportLimiterHonoursTrustedProxy(t *testing.T) {
	counter := &memCounter{counts: map[string]int64{}}
	app := newTestApp(t, func(o *routes.Options) {
		o.TrustedProxies = []string{"192.0.2.1"}
		o.ReportLimiter = middlewares.IncidentRateLimiter(counter, "incident_limit", 1, time.Hour, o.Logger)
	})

	body := `{"caption":"Glass","longitude":-73.9,"latitude":40.7,"duration":60000}`
	first := app.doWithHeader(http.MethodPost, "/api/incidents", "", body, http.Header{"X-Forwarded-For": {"203.0.113.7"}})
	second := app.doWithHeader(http.MethodPost, "/api/incidents", "", body, http.Header{"X-Forwarded-For": {"198.51.100.9"}})

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Contains(t, counter.counts, "incident_limit:203.0.113.7")
	assert.Contains(t, counter.counts, "incident_limit:198.51.100.9")
}

func TestNewRouterRejectsBadTrustedProxy(t *testing.T) {
	_, err := routes.NewRouter(routes.Controllers{}, routes.Options{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}

func TestBodyLimit(t *testing.T) {
	app := newTestApp(t, func(o *routes.Options) { o.MaxBodySize = 64 })

	body := `{"caption":"` + strings.Repeat("x", 100) + `","longitude":-73.9,"latitude":40.7,"duration":60000}`
	rec := app.do(http.MethodPost, "/api/incidents", "", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, app.incidents.byID)
}

func TestPingAndRequestID(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/ping", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middlewares.RequestIDHeader))

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/healthz", "", "").Code)
}

const routeJSON = `{
	"name": "Commute",
	"startLocation": "Home",
	"endLocation": "Office",
	"distance": 5230,
	"duration": 1260,
	"geometry": {"type":"LineString","coordinates":[[-73.99,40.73],[-73.98,40.75]]},
	"steps": [{"instruction":"Head north","distance":120}],
	"origin": {"placeName":"Home","point":{"longitude":-73.99,"latitude":40.73}},
	"destination": {"placeName":"Office","point":{"longitude":-73.98,"latitude":40.75}}
}`
