package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientpulse/clientpulse/internal/analytics"
	"github.com/clientpulse/clientpulse/internal/config"
	db "github.com/clientpulse/clientpulse/internal/db/gorm"
	"github.com/clientpulse/clientpulse/internal/search"
	"github.com/clientpulse/clientpulse/pkg/models"
)

// fakeClients is an in-memory ClientStore.
type fakeClients struct {
	byID    map[string]*models.Client
	nextID  int
	listErr error
}

func newFakeClients() *fakeClients {
	return &fakeClients{byID: make(map[string]*models.Client)}
}

func (f *fakeClients) Create(ctx context.Context, in *models.ClientInput) (*models.Client, error) {
	email := models.NormalizeEmail(in.Email)
	for _, c := range f.byID {
		if c.Email == email {
			return nil, db.ErrDuplicateEmail
		}
	}
	f.nextID++
	c := &models.Client{
		ID:        fmt.Sprintf("client-%d", f.nextID),
		Name:      in.Name,
		Email:     email,
		Company:   in.Company,
		Phone:     in.Phone,
		Status:    models.ClientStatus(in.Status),
		Priority:  models.ClientPriority(in.Priority),
		Tags:      models.NormalizeTags(in.Tags),
		Notes:     in.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeClients) GetByID(ctx context.Context, id string) (*models.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

func (f *fakeClients) List(ctx context.Context, p db.ClientListParams) ([]*models.Client, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []*models.Client
	for _, c := range f.byID {
		if p.Status != "" && c.Status != p.Status {
			continue
		}
		if p.Priority != "" && c.Priority != p.Priority {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeClients) ListAll(ctx context.Context) ([]*models.Client, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Client
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClients) Update(ctx context.Context, id string, in *models.ClientInput) (*models.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c.Name = in.Name
	c.Email = models.NormalizeEmail(in.Email)
	c.Company = in.Company
	c.Status = models.ClientStatus(in.Status)
	c.Priority = models.ClientPriority(in.Priority)
	c.UpdatedAt = time.Now()
	return c, nil
}

func (f *fakeClients) SoftDelete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeClients) UpdateEngagement(ctx context.Context, id string, score int, lastContactAt *time.Time) error {
	c, ok := f.byID[id]
	if !ok {
		return db.ErrNotFound
	}
	c.EngagementScore = score
	return nil
}

func (f *fakeClients) ClientsNeedingScoreUpdate(ctx context.Context, threshold time.Duration, limit int) ([]string, error) {
	return nil, nil
}

// fakeInteractions is an in-memory InteractionStore.
type fakeInteractions struct {
	byID    map[string]*models.Interaction
	clients *fakeClients
	nextID  int
}

func newFakeInteractions(clients *fakeClients) *fakeInteractions {
	return &fakeInteractions{byID: make(map[string]*models.Interaction), clients: clients}
}

func (f *fakeInteractions) Create(ctx context.Context, in *models.Interaction) (*models.Interaction, error) {
	if _, ok := f.clients.byID[in.ClientID]; !ok {
		return nil, db.ErrNotFound
	}
	f.nextID++
	cp := *in
	cp.ID = fmt.Sprintf("interaction-%d", f.nextID)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = time.Now()
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeInteractions) GetByID(ctx context.Context, id string) (*models.Interaction, error) {
	in, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return in, nil
}

func (f *fakeInteractions) List(ctx context.Context, p db.InteractionListParams) ([]*models.Interaction, int64, error) {
	var out []*models.Interaction
	for _, in := range f.byID {
		if p.ClientID != "" && in.ClientID != p.ClientID {
			continue
		}
		if p.Type != "" && in.Type != p.Type {
			continue
		}
		if p.Outcome != nil && in.Outcome != *p.Outcome {
			continue
		}
		if p.Priority != "" && in.Priority != p.Priority {
			continue
		}
		out = append(out, in)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInteractions) ListByClient(ctx context.Context, clientID string) ([]*models.Interaction, error) {
	var out []*models.Interaction
	for _, in := range f.byID {
		if in.ClientID == clientID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInteractions) ListAll(ctx context.Context) ([]*models.Interaction, error) {
	var out []*models.Interaction
	for _, in := range f.byID {
		out = append(out, in)
	}
	return out, nil
}

func (f *fakeInteractions) Update(ctx context.Context, id string, in *models.Interaction) (*models.Interaction, error) {
	existing, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *in
	cp.ID = id
	cp.ClientID = existing.ClientID
	cp.UpdatedAt = time.Now()
	f.byID[id] = &cp
	return &cp, nil
}

func (f *fakeInteractions) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeInteractions) ListFollowUps(ctx context.Context, dueBefore time.Time) ([]*models.Interaction, error) {
	var out []*models.Interaction
	for _, in := range f.byID {
		if !in.FollowUpRequired || in.FollowUpAt.IsZero() {
			continue
		}
		if !dueBefore.IsZero() && in.FollowUpAt.After(dueBefore) {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (f *fakeInteractions) CompleteFollowUp(ctx context.Context, id string, outcome models.Outcome, notes string) (*models.Interaction, error) {
	in, ok := f.byID[id]
	if !ok || !in.FollowUpRequired {
		return nil, db.ErrNotFound
	}
	in.FollowUpRequired = false
	in.Outcome = outcome
	if notes != "" {
		in.FollowUpNotes = notes
	}
	return in, nil
}

// fakeQueue records score recompute requests.
type fakeQueue struct {
	enqueued []string
}

func (f *fakeQueue) Enqueue(clientID string) {
	f.enqueued = append(f.enqueued, clientID)
}

// fakeSearcher records the last search call.
type fakeSearcher struct {
	lastQuery   string
	lastFilters search.Filters
	result      *search.Result
}

func (f *fakeSearcher) Search(ctx context.Context, query string, filters search.Filters) (*search.Result, error) {
	f.lastQuery = query
	f.lastFilters = filters
	if f.result != nil {
		return f.result, nil
	}
	return &search.Result{Clients: []*models.Client{}, Interactions: []*models.Interaction{}}, nil
}

// testEnv wires a ready Service over the fakes, no database involved.
type testEnv struct {
	svc          *Service
	clients      *fakeClients
	interactions *fakeInteractions
	queue        *fakeQueue
	searcher     *fakeSearcher
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithToken(t, "")
}

func newTestEnvWithToken(t *testing.T, token string) *testEnv {
	t.Helper()

	clients := newFakeClients()
	interactions := newFakeInteractions(clients)
	queue := &fakeQueue{}
	searcher := &fakeSearcher{}

	svc := &Service{
		version:      "test",
		config:       config.Default(),
		clients:      clients,
		interactions: interactions,
		scores:       queue,
		searcher:     searcher,
		aggregator:   analytics.NewAggregator(),
		router:       chi.NewRouter(),
		auth:         NewTokenAuth(token),
		startTime:    time.Now(),
	}
	svc.setupMiddleware()
	svc.setupRoutes()
	svc.ready.Store(true)

	return &testEnv{svc: svc, clients: clients, interactions: interactions, queue: queue, searcher: searcher}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.svc.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func fieldErrors(t *testing.T, rec *httptest.ResponseRecorder) []models.FieldError {
	t.Helper()
	var envelope struct {
		Errors []models.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Errors
}

func errorFields(errs []models.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

const validClientBody = `{"name":"Acme","email":"ops@acme.example","company":"Acme Corp","status":"active","priority":"high"}`

func (e *testEnv) createClient(t *testing.T) *models.Client {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/clients", validClientBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[*models.Client](t, rec)
}

func TestCreateClient(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/clients", validClientBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	client := decodeData[*models.Client](t, rec)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "ops@acme.example", client.Email)
	assert.Equal(t, models.ClientStatusActive, client.Status)
}

func TestCreateClient_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/clients", `{"email":"bad"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields := errorFields(fieldErrors(t, rec))
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "company")
}

func TestCreateClient_BadJSON(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/clients", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateClient_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createClient(t)

	rec := env.do(t, http.MethodPost, "/api/clients", validClientBody)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{"email"}, errorFields(fieldErrors(t, rec)))
}

func TestGetClient_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/clients/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListClients_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/clients?status=bogus", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"status"}, errorFields(fieldErrors(t, rec)))
}

func TestListClients(t *testing.T) {
	env := newTestEnv(t)
	env.createClient(t)

	rec := env.do(t, http.MethodGet, "/api/clients?status=active&page=2&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeData[ClientListResponse](t, rec)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.Limit)
}

func TestUpdateAndDeleteClient(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)

	body := `{"name":"Acme v2","email":"ops@acme.example","company":"Acme Corp","status":"inactive","priority":"low"}`
	rec := env.do(t, http.MethodPut, "/api/clients/"+client.ID, body)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[*models.Client](t, rec)
	assert.Equal(t, "Acme v2", updated.Name)

	rec = env.do(t, http.MethodDelete, "/api/clients/"+client.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/clients/"+client.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func interactionBody(clientID string) string {
	return fmt.Sprintf(`{"clientId":%q,"type":"call","subject":"Check-in","priority":"5","outcome":"positive"}`, clientID)
}

func TestCreateInteraction_EnqueuesRecompute(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)

	rec := env.do(t, http.MethodPost, "/api/interactions", interactionBody(client.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeData[*models.Interaction](t, rec)
	assert.Equal(t, client.ID, created.ClientID)
	assert.Equal(t, models.PriorityHigh, created.Priority, "numeric 5 maps to high")
	assert.False(t, created.OccurredAt.IsZero(), "date defaults to now")

	assert.Equal(t, []string{client.ID}, env.queue.enqueued)
}

func TestCreateInteraction_UnknownClient(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/interactions", interactionBody("missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.queue.enqueued, "failed writes must not trigger recompute")
}

func TestCreateInteraction_Validation(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)

	body := fmt.Sprintf(`{"clientId":%q,"type":"fax","subject":"","followUpRequired":true}`, client.ID)
	rec := env.do(t, http.MethodPost, "/api/interactions", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields := errorFields(fieldErrors(t, rec))
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "subject")
	assert.Contains(t, fields, "followUpDate")
	assert.Empty(t, env.queue.enqueued)
}

func TestUpdateInteraction_KeepsOwnerAndEnqueues(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)

	rec := env.do(t, http.MethodPost, "/api/interactions", interactionBody(client.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[*models.Interaction](t, rec)
	env.queue.enqueued = nil

	// The body claims a different owner; it is ignored.
	body := `{"clientId":"someone-else","type":"email","subject":"Updated subject"}`
	rec = env.do(t, http.MethodPut, "/api/interactions/"+created.ID, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeData[*models.Interaction](t, rec)
	assert.Equal(t, client.ID, updated.ClientID)
	assert.Equal(t, "Updated subject", updated.Subject)
	assert.Equal(t, []string{client.ID}, env.queue.enqueued)
}

func TestUpdateInteraction_KeepsDateWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)

	occurred := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"clientId":%q,"type":"call","subject":"Kickoff","date":%q}`,
		client.ID, occurred.Format(time.RFC3339))
	rec := env.do(t, http.MethodPost, "/api/interactions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[*models.Interaction](t, rec)
	require.True(t, created.OccurredAt.Equal(occurred))

	// Updating without a date must not rewrite when the interaction happened.
	rec = env.do(t, http.MethodPut, "/api/interactions/"+created.ID, `{"type":"call","subject":"Kickoff notes"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[*models.Interaction](t, rec)
	assert.True(t, updated.OccurredAt.Equal(occurred), "occurred at %v, want %v", updated.OccurredAt, occurred)

	// An explicit date still wins.
	moved := occurred.Add(48 * time.Hour)
	body = fmt.Sprintf(`{"type":"call","subject":"Kickoff notes","date":%q}`, moved.Format(time.RFC3339))
	rec = env.do(t, http.MethodPut, "/api/interactions/"+created.ID, body)
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decodeData[*models.Interaction](t, rec)
	assert.True(t, updated.OccurredAt.Equal(moved))
}

func TestDeleteInteraction_EnqueuesRecompute(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)

	rec := env.do(t, http.MethodPost, "/api/interactions", interactionBody(client.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[*models.Interaction](t, rec)
	env.queue.enqueued = nil

	rec = env.do(t, http.MethodDelete, "/api/interactions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{client.ID}, env.queue.enqueued)
}

func TestListInteractions_NumericPriorityFilter(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)
	rec := env.do(t, http.MethodPost, "/api/interactions", interactionBody(client.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/interactions?priority=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeData[InteractionListResponse](t, rec)
	assert.Equal(t, int64(1), resp.Total, "numeric 4 matches high")

	rec = env.do(t, http.MethodGet, "/api/interactions?priority=banana", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFollowUps(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)

	due := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"clientId":%q,"type":"call","subject":"Needs follow-up","followUpRequired":true,"followUpDate":%q}`, client.ID, due)
	rec := env.do(t, http.MethodPost, "/api/interactions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[*models.Interaction](t, rec)
	env.queue.enqueued = nil

	rec = env.do(t, http.MethodGet, "/api/followups", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[FollowUpListResponse](t, rec)
	require.Equal(t, 1, list.Total)

	// Due tomorrow, so nothing is overdue yet.
	rec = env.do(t, http.MethodGet, "/api/followups?due=overdue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeData[FollowUpListResponse](t, rec).Total)

	rec = env.do(t, http.MethodGet, "/api/followups?due=whenever", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Complete it.
	rec = env.do(t, http.MethodPost, "/api/interactions/"+created.ID+"/complete-followup", `{"outcome":"follow_up_needed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "completion needs a terminal outcome")

	rec = env.do(t, http.MethodPost, "/api/interactions/"+created.ID+"/complete-followup", `{"outcome":"positive","notes":"renewed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decodeData[*models.Interaction](t, rec)
	assert.False(t, done.FollowUpRequired)
	assert.Equal(t, models.OutcomePositive, done.Outcome)
	assert.Equal(t, []string{client.ID}, env.queue.enqueued)

	rec = env.do(t, http.MethodGet, "/api/followups", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeData[FollowUpListResponse](t, rec).Total)
}

func TestAnalyticsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	client := env.createClient(t)
	rec := env.do(t, http.MethodPost, "/api/interactions", interactionBody(client.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/analytics/overview?days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decodeData[analytics.Overview](t, rec)
	assert.Equal(t, 1, overview.TotalClients)
	assert.Equal(t, 1, overview.NewClients)
	assert.Equal(t, 1, overview.TotalInteractions)

	rec = env.do(t, http.MethodGet, "/api/analytics/timeseries?days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	series := decodeData[[]analytics.TimePoint](t, rec)
	assert.Len(t, series, 8)

	rec = env.do(t, http.MethodGet, "/api/analytics/types", "")
	require.Equal(t, http.StatusOK, rec.Code)
	breakdown := decodeData[[]analytics.TypeBreakdown](t, rec)
	assert.Len(t, breakdown, len(models.InteractionTypes))

	rec = env.do(t, http.MethodGet, "/api/analytics/top-clients?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	top := decodeData[[]analytics.TopClient](t, rec)
	assert.Len(t, top, 1)

	rec = env.do(t, http.MethodGet, "/api/analytics/engagement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	buckets := decodeData[[]analytics.ScoreBucket](t, rec)
	assert.Len(t, buckets, 5)

	rec = env.do(t, http.MethodGet, "/api/analytics/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	dashboard := decodeData[analytics.Dashboard](t, rec)
	assert.Equal(t, 1, dashboard.Overview.TotalClients)
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/search?q=acme&type=call&status=active&dateFrom=2026-01-01&tags=vip,VIP", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "acme", env.searcher.lastQuery)
	assert.Equal(t, models.InteractionCall, env.searcher.lastFilters.Type)
	assert.Equal(t, models.ClientStatusActive, env.searcher.lastFilters.Status)
	assert.Equal(t, []string{"vip"}, env.searcher.lastFilters.Tags)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), env.searcher.lastFilters.DateFrom)
}

func TestSearchEndpoint_InvalidFilters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/search?q=acme&type=fax&dateTo=someday", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields := errorFields(fieldErrors(t, rec))
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "dateTo")
}
