package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Beamline-Tech/beamline/internal/broadcast"
	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/events"
	"github.com/Beamline-Tech/beamline/internal/http/api"
	"github.com/Beamline-Tech/beamline/internal/http/middleware"
	"github.com/Beamline-Tech/beamline/internal/model"
)

const testSecret = "test-secret"

// memStore backs the HTTP tests with an in-memory registry.
type memStore struct {
	users      map[string]model.User // by email
	tvs        map[string]model.TV
	content    map[string]model.Content
	broadcasts map[string]model.Broadcast
	activity   []model.Activity
	seq        int
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]model.User{},
		tvs:        map[string]model.TV{},
		content:    map[string]model.Content{},
		broadcasts: map[string]model.Broadcast{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) CreateUser(email, hashedPassword, firstName, lastName, role string) (model.User, error) {
	u := model.User{
		ID: m.nextID("u"), Email: email, Password: hashedPassword,
		FirstName: firstName, LastName: lastName, Role: role,
	}
	m.users[email] = u
	return u, nil
}

func (m *memStore) GetUserByEmail(email string) (model.User, error) {
	u, ok := m.users[email]
	if !ok {
		return model.User{}, errors.New("user not found")
	}
	return u, nil
}

func (m *memStore) GetUserByID(id string) (model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, errors.New("user not found")
}

func (m *memStore) CreateTV(name string, description *string, macAddress, createdBy string) (model.TV, error) {
	tv := model.TV{
		ID: m.nextID("tv"), Name: name, Description: description,
		MacAddress: macAddress, Status: model.TVStatusOffline, CreatedBy: createdBy,
	}
	m.tvs[tv.ID] = tv
	return tv, nil
}

func (m *memStore) GetTVByID(id string) (model.TV, error) {
	tv, ok := m.tvs[id]
	if !ok {
		return model.TV{}, errors.New("tv not found")
	}
	return tv, nil
}

func (m *memStore) ListTVs(search, status string) ([]model.TV, error) {
	out := []model.TV{}
	for _, tv := range m.tvs {
		if status != "" && tv.Status != status {
			continue
		}
		out = append(out, tv)
	}
	return out, nil
}

func (m *memStore) UpdateTV(id string, upd db.TVUpdate) (model.TV, error) {
	tv, ok := m.tvs[id]
	if !ok {
		return model.TV{}, errors.New("tv not found")
	}
	if upd.Name != nil {
		tv.Name = *upd.Name
	}
	if upd.Description != nil {
		tv.Description = upd.Description
	}
	if upd.MacAddress != nil {
		tv.MacAddress = *upd.MacAddress
	}
	m.tvs[id] = tv
	return tv, nil
}

func (m *memStore) SetTVStatus(id, status string) error {
	tv, ok := m.tvs[id]
	if !ok {
		return errors.New("tv not found")
	}
	tv.Status = status
	m.tvs[id] = tv
	return nil
}

func (m *memStore) DeleteTV(id string) error {
	delete(m.tvs, id)
	return nil
}

func (m *memStore) CreateContent(c model.Content) (model.Content, error) {
	c.ID = m.nextID("c")
	if c.Status == "" {
		c.Status = model.ContentStatusDraft
	}
	if c.Duration < 1 {
		c.Duration = model.DefaultDuration
	}
	m.content[c.ID] = c
	return c, nil
}

func (m *memStore) GetContentByID(id string) (model.Content, error) {
	c, ok := m.content[id]
	if !ok {
		return model.Content{}, errors.New("content not found")
	}
	return c, nil
}

func (m *memStore) ListContent(search, status string) ([]model.Content, error) {
	out := []model.Content{}
	for _, c := range m.content {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) UpdateContent(id string, upd db.ContentUpdate) (model.Content, error) {
	c, ok := m.content[id]
	if !ok {
		return model.Content{}, errors.New("content not found")
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.Duration != nil {
		c.Duration = *upd.Duration
	}
	if upd.SelectedTvs != nil {
		c.SelectedTvs = upd.SelectedTvs
	}
	m.content[id] = c
	return c, nil
}

func (m *memStore) DeleteContent(id string) error {
	delete(m.content, id)
	return nil
}

func (m *memStore) CreateBroadcast(contentID, tvID string) (model.Broadcast, error) {
	b := model.Broadcast{
		ID: m.nextID("b"), ContentID: contentID, TvID: tvID,
		Status: model.BroadcastStatusActive, StartedAt: time.Now().UTC(),
	}
	m.broadcasts[b.ID] = b
	return b, nil
}

func (m *memStore) GetBroadcastByID(id string) (model.Broadcast, error) {
	b, ok := m.broadcasts[id]
	if !ok {
		return model.Broadcast{}, errors.New("broadcast not found")
	}
	return b, nil
}

func (m *memStore) ListBroadcastsByTV(tvID string) ([]model.Broadcast, error) {
	out := []model.Broadcast{}
	for _, b := range m.broadcasts {
		if b.TvID == tvID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) SetBroadcastStatus(id, status string, stoppedAt *time.Time) (model.Broadcast, error) {
	b, ok := m.broadcasts[id]
	if !ok {
		return model.Broadcast{}, errors.New("broadcast not found")
	}
	b.Status = status
	b.StoppedAt = stoppedAt
	m.broadcasts[id] = b
	return b, nil
}

func (m *memStore) AppendActivity(category, message string) (model.Activity, error) {
	a := model.Activity{ID: m.nextID("a"), Category: category, Message: message, CreatedAt: time.Now().UTC()}
	m.activity = append(m.activity, a)
	return a, nil
}

func (m *memStore) RecentActivity(limit int) ([]model.Activity, error) {
	if limit > len(m.activity) {
		limit = len(m.activity)
	}
	out := make([]model.Activity, 0, limit)
	for i := len(m.activity) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.activity[i])
	}
	return out, nil
}

func (m *memStore) GetStats() (db.Stats, error) {
	stats := db.Stats{TotalTvs: len(m.tvs), Users: len(m.users)}
	for _, tv := range m.tvs {
		if tv.Status == model.TVStatusBroadcasting {
			stats.Broadcasting++
		}
	}
	for _, c := range m.content {
		if c.Status == model.ContentStatusActive {
			stats.ActiveContent++
		}
	}
	return stats, nil
}

var _ db.Store = (*memStore)(nil)

// nullBus drops every event; the HTTP tests only assert persistence and
// response shapes.
type nullBus struct{}

func (nullBus) Publish(topic string, e events.Event) {}

// onlineSet fakes the presence checker with a fixed set of connected ids.
type onlineSet map[string]bool

func (s onlineSet) Online(_ context.Context, id string) bool { return s[id] }

type testEnv struct {
	router *gin.Engine
	store  *memStore
	online onlineSet
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.MinCost)
	require.NoError(t, err)
	admin, err := store.CreateUser("admin@example.com", string(hashed), "Ada", "Admin", "admin")
	require.NoError(t, err)

	token, err := middleware.GenerateJWT(admin.ID, testSecret)
	require.NoError(t, err)

	publisher := events.NewPublisher(store, nullBus{})
	manager := broadcast.NewManager(store, nullBus{})
	online := onlineSet{}

	router := gin.New()
	api.MountGroup(router, api.GroupConfig{Prefix: "/api/admin"},
		AuthModule(testSecret, store),
	)
	api.MountGroup(router, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	},
		TvModule(store, publisher, online),
		ContentModule(store, publisher),
		BroadcastModule(store, manager),
		ActivityModule(store),
	)

	return &testEnv{router: router, store: store, online: online, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, payload any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"email": "admin@example.com", "password": "testpassword"}, false)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decodeInto(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	w = env.do(t, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"email": "admin@example.com", "password": "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"email": "new@example.com", "password": "longenough",
		"firstName": "New", "lastName": "User",
	}
	w := env.do(t, http.MethodPost, "/api/admin/auth/register", payload, false)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/auth/register", payload, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/tvs", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/tvs", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w2 := httptest.NewRecorder()
	env.router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestTvCRUD(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/tvs",
		map[string]string{"name": "Lobby", "macAddress": "aa:bb:cc:dd:ee:ff"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	var tv model.TV
	decodeInto(t, w, &tv)
	assert.Equal(t, model.TVStatusOffline, tv.Status)

	w = env.do(t, http.MethodPut, "/api/admin/tvs/"+tv.ID,
		map[string]string{"name": "Lobby Screen"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	decodeInto(t, w, &tv)
	assert.Equal(t, "Lobby Screen", tv.Name)

	w = env.do(t, http.MethodPut, "/api/admin/tvs/nope", map[string]string{"name": "x"}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/tvs/"+tv.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/admin/tvs/"+tv.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTvListCarriesOnlineFlag(t *testing.T) {
	env := newTestEnv(t)

	connected, err := env.store.CreateTV("Lobby", nil, "aa:bb:cc:dd:ee:01", "u-1")
	require.NoError(t, err)
	_, err = env.store.CreateTV("Cafeteria", nil, "aa:bb:cc:dd:ee:02", "u-1")
	require.NoError(t, err)
	env.online[connected.ID] = true

	w := env.do(t, http.MethodGet, "/api/admin/tvs", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []struct {
		ID     string `json:"id"`
		Online bool   `json:"online"`
	}
	decodeInto(t, w, &listed)
	require.Len(t, listed, 2)

	byID := map[string]bool{}
	for _, tv := range listed {
		byID[tv.ID] = tv.Online
	}
	assert.True(t, byID[connected.ID])
	assert.Len(t, byID, 2)
	for id, online := range byID {
		if id != connected.ID {
			assert.False(t, online)
		}
	}
}

func TestContentCreateAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/content",
		map[string]any{"title": "Promo", "duration": 0}, true)
	require.Equal(t, http.StatusOK, w.Code)

	var c model.Content
	decodeInto(t, w, &c)
	assert.Equal(t, model.ContentStatusDraft, c.Status)
	assert.Equal(t, model.DefaultDuration, c.Duration)
}

func TestBroadcastFlow(t *testing.T) {
	env := newTestEnv(t)

	tv, err := env.store.CreateTV("Lobby", nil, "aa:bb:cc:dd:ee:01", "u-1")
	require.NoError(t, err)
	content, err := env.store.CreateContent(model.Content{Title: "Promo"})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/admin/broadcast",
		map[string]any{"contentId": []string{content.ID}, "tvIds": []string{tv.ID}}, true)
	require.Equal(t, http.StatusOK, w.Code)

	var started struct {
		Broadcasts []model.Broadcast `json:"broadcasts"`
		Message    string            `json:"message"`
	}
	decodeInto(t, w, &started)
	require.Len(t, started.Broadcasts, 1)
	assert.Equal(t, "Broadcasting started successfully", started.Message)

	got, err := env.store.GetTVByID(tv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TVStatusBroadcasting, got.Status)

	// pause puts the device into maintenance
	w = env.do(t, http.MethodPost, "/api/admin/broadcast/pause-by-tv",
		map[string]string{"tvId": tv.ID}, true)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ = env.store.GetTVByID(tv.ID)
	assert.Equal(t, model.TVStatusMaintenance, got.Status)

	// resume brings it back
	w = env.do(t, http.MethodPost, "/api/admin/broadcast/resume-by-tv",
		map[string]string{"tvId": tv.ID}, true)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ = env.store.GetTVByID(tv.ID)
	assert.Equal(t, model.TVStatusBroadcasting, got.Status)

	w = env.do(t, http.MethodPost, "/api/admin/broadcast/stop",
		map[string]any{"broadcastIds": []string{started.Broadcasts[0].ID}}, true)
	require.Equal(t, http.StatusOK, w.Code)

	records, err := env.store.ListBroadcastsByTV(tv.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.BroadcastStatusStopped, records[0].Status)
}

func TestBroadcastStopRejectsUnknownIDs(t *testing.T) {
	env := newTestEnv(t)

	tv, err := env.store.CreateTV("Lobby", nil, "aa:bb:cc:dd:ee:03", "u-1")
	require.NoError(t, err)
	content, err := env.store.CreateContent(model.Content{Title: "Promo"})
	require.NoError(t, err)
	b, err := env.store.CreateBroadcast(content.ID, tv.ID)
	require.NoError(t, err)

	// one bad id rejects the whole batch before anything is touched
	w := env.do(t, http.MethodPost, "/api/admin/broadcast/stop",
		map[string]any{"broadcastIds": []string{b.ID, "nope"}}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	got, err := env.store.GetBroadcastByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BroadcastStatusActive, got.Status)
}

func TestBroadcastRejectsEmptySelections(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/broadcast",
		map[string]any{"contentId": []string{}, "tvIds": []string{"tv-1"}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/broadcast",
		map[string]any{"contentId": []string{"c-1"}, "tvIds": []string{}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityAndStats(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.AppendActivity(model.ActivityInfo, "first")
	require.NoError(t, err)
	_, err = env.store.AppendActivity(model.ActivityInfo, "second")
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/admin/activity?limit=1", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []model.Activity
	decodeInto(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].Message)

	w = env.do(t, http.MethodGet, "/api/admin/activity?limit=zero", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/stats", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var stats db.Stats
	decodeInto(t, w, &stats)
	assert.Equal(t, 1, stats.Users)
}
