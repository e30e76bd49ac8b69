package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/auth"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/loader"
	"github.com/atharvakonge/portfolio-admin/internal/middleware"
	"github.com/atharvakonge/portfolio-admin/internal/models"
	"github.com/atharvakonge/portfolio-admin/internal/web"
)

// fakeAPI answers with canned data and records what was sent
type fakeAPI struct {
	mu sync.Mutex

	loginErr       error
	statsErr       error
	usersErr       error
	impersonateErr error
	notifyErr      error
	users          []models.User
	stocks         []models.Stock

	searches      []string
	updates       map[string]models.StockUpdate
	notifications []models.NotificationRequest
	registered    []models.RegisterRequest
}

func newFakeAPI() *fakeAPI {
	alice, bob := "Alice", "Bob"
	return &fakeAPI{
		users: []models.User{
			{ID: 1, Email: "alice@x.com", FullName: &alice, PortfolioCount: 2, TotalValue: decimal.NewFromInt(1500)},
			{ID: 2, Email: "bob@x.com", FullName: &bob, PortfolioCount: 0},
		},
		stocks: []models.Stock{
			{Symbol: "TCS", LongName: "Tata Consultancy Services", CurrentPrice: decimalPtr(100)},
			{Symbol: "INFY", LongName: "Infosys", CurrentPrice: decimalPtr(1500)},
		},
		updates: map[string]models.StockUpdate{},
	}
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*models.AccessToken, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.AccessToken{AccessToken: "tok-" + username, TokenType: "bearer"}, nil
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	return nil
}

func (f *fakeAPI) Me(context.Context) (*models.AdminProfile, error) {
	return &models.AdminProfile{ID: 1, Email: "admin@x.com"}, nil
}

func (f *fakeAPI) Stats(context.Context) (*models.DashboardStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &models.DashboardStats{TotalUsers: 2, NewUsersToday: 1, TotalPortfolios: 2}, nil
}

func (f *fakeAPI) Growth(context.Context) ([]models.GrowthPoint, error) {
	return []models.GrowthPoint{{Date: "2024-01-01", Users: 3}}, nil
}

func (f *fakeAPI) Users(context.Context, apiclient.Page) ([]models.User, error) {
	return f.users, f.usersErr
}

func (f *fakeAPI) UserDetail(_ context.Context, id int) (*models.UserDetail, error) {
	return &models.UserDetail{User: f.users[0]}, nil
}

func (f *fakeAPI) Impersonate(_ context.Context, id int) (*models.AccessToken, error) {
	if f.impersonateErr != nil {
		return nil, f.impersonateErr
	}
	return &models.AccessToken{AccessToken: "imp-tok"}, nil
}

func (f *fakeAPI) Chats(context.Context, apiclient.Page) ([]models.ChatSummary, error) {
	return nil, nil
}

func (f *fakeAPI) Referrals(context.Context) (*models.ReferralStats, error) {
	return &models.ReferralStats{}, nil
}

func (f *fakeAPI) Analytics(context.Context) (*models.Analytics, error) {
	return &models.Analytics{}, nil
}

func (f *fakeAPI) Stocks(_ context.Context, page apiclient.Page) (*models.StockPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, page.Search)

	var items []models.Stock
	for _, s := range f.stocks {
		if strings.Contains(strings.ToLower(s.Symbol), strings.ToLower(page.Search)) {
			items = append(items, s)
		}
	}
	return &models.StockPage{Items: items, Total: len(items)}, nil
}

func (f *fakeAPI) UpdateStock(_ context.Context, symbol string, update models.StockUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[symbol] = update
	return nil
}

func (f *fakeAPI) RefreshStatus(context.Context) (*models.RefreshStatus, error) {
	return &models.RefreshStatus{TotalStocks: 2, Status: models.RefreshHealthy}, nil
}

func (f *fakeAPI) SendNotification(_ context.Context, req models.NotificationRequest) (*models.NotificationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return nil, f.notifyErr
	}
	f.notifications = append(f.notifications, req)
	return &models.NotificationResult{}, nil
}

func setupRouter(t *testing.T, api API) (*gin.Engine, *audit.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool := loader.NewPool(2)
	pool.Start()
	t.Cleanup(pool.Stop)

	journal := audit.NewMemory(10)
	h := New(api, pool, nil, journal, Options{
		UserAppURL:     "http://app.local",
		SearchDebounce: 10 * time.Millisecond,
		StatusInterval: time.Hour,
	})

	r := gin.New()
	r.Use(middleware.RouteGuard())
	require.NoError(t, web.Load(r))
	h.RegisterRoutes(r)
	return r, journal
}

func serve(r *gin.Engine, method, path string, form url.Values, signedIn bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if signedIn {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok"})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuard_AnonymousRedirectedToLogin(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = serve(r, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_SetsCookie(t *testing.T) {
	r, journal := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodPost, "/login", url.Values{"username": {"admin@x.com"}, "password": {"pw"}}, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			token = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	assert.Equal(t, "tok-admin@x.com", token)

	entries, err := journal.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionLogin, entries[0].Action)
	assert.True(t, entries[0].Success)
}

func TestLogin_Rejected(t *testing.T) {
	api := newFakeAPI()
	api.loginErr = &apiclient.Error{Message: "Login failed", StatusCode: http.StatusUnauthorized}
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/login", url.Values{"username": {"admin@x.com"}, "password": {"bad"}}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgLoginFailed)
	assert.Contains(t, w.Body.String(), `value="admin@x.com"`)
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginPage_SignedInGoesHome(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodGet, "/login", nil, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestDashboard(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodGet, "/", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Total Users")
	assert.Contains(t, w.Body.String(), "+1 today")
}

func TestDashboard_BackendDown(t *testing.T) {
	api := newFakeAPI()
	api.statsErr = &apiclient.Error{Message: "Failed to fetch dashboard stats", StatusCode: http.StatusInternalServerError}
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodGet, "/", nil, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Error loading dashboard: Failed to fetch dashboard stats. Ensure backend is running.")
}

func TestDashboard_ExpiredTokenShowsError(t *testing.T) {
	api := newFakeAPI()
	api.statsErr = &apiclient.Error{Message: "Failed to fetch dashboard stats", StatusCode: http.StatusUnauthorized}
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodGet, "/", nil, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Error loading dashboard: Failed to fetch dashboard stats. Ensure backend is running.")
	assert.Empty(t, w.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	r, journal := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodPost, "/logout", url.Values{}, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)

	entries, _ := journal.Recent(context.Background(), 1)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionLogout, entries[0].Action)
}

func TestUsers_SearchAndSort(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodGet, "/users?q=ALI", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@x.com")
	assert.NotContains(t, w.Body.String(), "bob@x.com")
	assert.Contains(t, w.Body.String(), "Showing 1 of 2 loaded users")

	w = serve(r, http.MethodGet, "/users?sort=total_value&dir=desc", nil, true)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "alice@x.com"), strings.Index(body, "bob@x.com"))
}

func TestUsers_BackendDown(t *testing.T) {
	api := newFakeAPI()
	api.usersErr = &apiclient.Error{Message: "Failed to fetch users"}
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodGet, "/users", nil, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Error loading users. Ensure backend is running.")
}

func TestListUsers_JSON(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodGet, "/api/users?q=bob", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"loaded":2`)
	assert.Contains(t, w.Body.String(), "bob@x.com")
	assert.NotContains(t, w.Body.String(), "alice@x.com")
}

func TestImpersonate_Redirects(t *testing.T) {
	r, journal := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodPost, "/users/7/impersonate", url.Values{}, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://app.local/login?impersonate_token=imp-tok", w.Header().Get("Location"))

	entries, _ := journal.Recent(context.Background(), 1)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionImpersonate, entries[0].Action)
	assert.Equal(t, "7", entries[0].Target)
}

func TestImpersonate_Failure(t *testing.T) {
	api := newFakeAPI()
	api.impersonateErr = &apiclient.Error{Message: "Failed to impersonate", StatusCode: http.StatusForbidden}
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/users/7/impersonate", url.Values{}, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgImpersonateFailed)
}

func TestSendNotification_InvalidIDsNotSent(t *testing.T) {
	api := newFakeAPI()
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/notifications", url.Values{
		"target":   {"specific"},
		"user_ids": {"1, 4, abc"},
		"title":    {"Hello title"},
		"body":     {"Hello body"},
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgBadUserIDs)
	assert.Contains(t, w.Body.String(), `value="Hello title"`)
	assert.Empty(t, api.notifications)
}

func TestSendNotification_Success(t *testing.T) {
	api := newFakeAPI()
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/notifications", url.Values{
		"target":   {"specific"},
		"user_ids": {"1, 4,, 15"},
		"title":    {"Hello title"},
		"body":     {"Hello body"},
	}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgNotificationSent)
	assert.NotContains(t, w.Body.String(), "Hello title")

	require.Len(t, api.notifications, 1)
	assert.False(t, api.notifications[0].SendToAll)
	assert.Equal(t, []int{1, 4, 15}, api.notifications[0].UserIDs)
}

func TestSendNotification_FailureKeepsFields(t *testing.T) {
	api := newFakeAPI()
	api.notifyErr = &apiclient.Error{Message: forms.MsgNotificationFailed, StatusCode: http.StatusInternalServerError}
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/notifications", url.Values{
		"target": {"all"},
		"title":  {"Hello title"},
		"body":   {"Hello body"},
	}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgNotificationFailed)
	assert.Contains(t, w.Body.String(), `value="Hello title"`)
}

func TestCreateAdmin(t *testing.T) {
	api := newFakeAPI()
	r, journal := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/settings/admins", url.Values{
		"full_name": {"Ops"},
		"email":     {"not-an-email"},
		"password":  {"secret-pw"},
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a valid email address.")
	assert.NotContains(t, w.Body.String(), "secret-pw")
	assert.Empty(t, api.registered)

	w = serve(r, http.MethodPost, "/settings/admins", url.Values{
		"full_name": {"Ops"},
		"email":     {"ops@x.com"},
		"password":  {"secret-pw"},
	}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgAdminCreated)
	require.Len(t, api.registered, 1)
	assert.Equal(t, "ops@x.com", api.registered[0].Email)

	entries, _ := journal.Recent(context.Background(), 10)
	require.NotEmpty(t, entries)
	assert.Equal(t, audit.ActionCreateAdmin, entries[0].Action)
}

func TestMasterData_Page(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodGet, "/master-data?result=saved", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tata Consultancy Services")
	assert.Contains(t, w.Body.String(), "Healthy")
	assert.Contains(t, w.Body.String(), forms.MsgStockUpdated)
}

func TestLoadMasterData_CancelledRequest(t *testing.T) {
	pool := loader.NewPool(1)
	pool.Start()
	defer pool.Stop()
	h := New(newFakeAPI(), pool, nil, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stocks, status, err := h.loadMasterData(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, stocks)
	assert.Nil(t, status)
}

func TestLoadMasterData_StoppedPool(t *testing.T) {
	pool := loader.NewPool(1)
	pool.Start()
	pool.Stop()
	h := New(newFakeAPI(), pool, nil, nil, Options{})

	stocks, _, err := h.loadMasterData(context.Background(), "")
	assert.ErrorIs(t, err, loader.ErrStopped)
	assert.Nil(t, stocks)
}

func TestUpdateStock_Form(t *testing.T) {
	api := newFakeAPI()
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/master-data/TCS", url.Values{"current_price": {"110"}, "q": {"tc"}}, true)
	assert.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/master-data", loc.Path)
	assert.Equal(t, "saved", loc.Query().Get("result"))
	assert.Equal(t, "tc", loc.Query().Get("q"))

	require.Contains(t, api.updates, "TCS")
	assert.True(t, api.updates["TCS"].CurrentPrice.Equal(decimal.NewFromInt(110)))
	assert.Nil(t, api.updates["TCS"].LongName)
}

func TestUpdateStock_BadPrice(t *testing.T) {
	api := newFakeAPI()
	r, _ := setupRouter(t, api)

	w := serve(r, http.MethodPost, "/master-data/TCS", url.Values{"current_price": {"-1"}}, true)
	assert.Equal(t, http.StatusFound, w.Code)
	loc, _ := url.Parse(w.Header().Get("Location"))
	assert.Equal(t, "failed", loc.Query().Get("result"))
	assert.Empty(t, api.updates)
}

func TestListStocks_Sorted(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())

	w := serve(r, http.MethodGet, "/api/stocks?sort=current_price&dir=desc", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "INFY"), strings.Index(body, "TCS"))
}

// readUntil returns the next server message of the given type
func readUntil(t *testing.T, conn *websocket.Conn, typ string, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == typ && (match == nil || match(msg)) {
			return msg
		}
	}
}

func TestMasterDataSocket_SearchAndEdit(t *testing.T) {
	api := newFakeAPI()
	r, _ := setupRouter(t, api)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/master-data"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Cookie": {auth.CookieName + "=tok"}})
	require.NoError(t, err)
	defer conn.Close()

	initial := readUntil(t, conn, msgStocks, nil)
	assert.Len(t, initial.Items, 2)

	status := readUntil(t, conn, msgStatus, nil)
	require.NotNil(t, status.Status)
	assert.Equal(t, models.RefreshHealthy, status.Status.Status)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: msgSearch, Query: "tc"}))
	found := readUntil(t, conn, msgStocks, func(m ServerMessage) bool { return m.Seq > initial.Seq })
	require.Len(t, found.Items, 1)
	assert.Equal(t, "TCS", found.Items[0].Symbol)

	price := decimal.NewFromInt(110)
	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type:   msgEdit,
		Symbol: "TCS",
		Update: models.StockUpdate{CurrentPrice: &price},
	}))
	patched := readUntil(t, conn, msgStocks, func(m ServerMessage) bool {
		return len(m.Items) == 1 && m.Items[0].CurrentPrice.Equal(price)
	})
	assert.Equal(t, found.Seq, patched.Seq)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []string{"", "tc"}, api.searches)
	assert.Contains(t, api.updates, "TCS")
}

func TestMasterDataSocket_InvalidEditNotSent(t *testing.T) {
	api := newFakeAPI()
	r, _ := setupRouter(t, api)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/master-data"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Cookie": {auth.CookieName + "=tok"}})
	require.NoError(t, err)
	defer conn.Close()

	readUntil(t, conn, msgStocks, nil)

	negative := decimal.NewFromInt(-5)
	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type:   msgEdit,
		Symbol: "TCS",
		Update: models.StockUpdate{CurrentPrice: &negative},
	}))
	msg := readUntil(t, conn, msgError, nil)
	assert.Equal(t, "TCS", msg.Symbol)
	assert.Equal(t, forms.MsgBadPrice, msg.Message)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: msgEdit, Symbol: "INFY"}))
	msg = readUntil(t, conn, msgError, nil)
	assert.Equal(t, "INFY", msg.Symbol)
	assert.Equal(t, forms.MsgNothingToUpdate, msg.Message)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.updates)
}

func TestMasterDataSocket_UnknownMessage(t *testing.T) {
	r, _ := setupRouter(t, newFakeAPI())
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/master-data"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "bogus"}))
	msg := readUntil(t, conn, msgError, nil)
	assert.Equal(t, "unknown message type", msg.Message)
}

func TestImpersonationURL(t *testing.T) {
	assert.Equal(t, "http://app/login?impersonate_token=a%2Bb", ImpersonationURL("http://app", "a+b"))
}
