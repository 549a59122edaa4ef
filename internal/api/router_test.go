package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecommerce-showcase/storefront/internal/api/handler"
	"github.com/ecommerce-showcase/storefront/internal/core/domain"
	"github.com/ecommerce-showcase/storefront/internal/core/ports"
	"github.com/ecommerce-showcase/storefront/internal/core/service"
	"github.com/ecommerce-showcase/storefront/internal/infrastructure/security"
)

// memUserRepo is a map-backed ports.UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.seq++
	cp := *u
	cp.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type memProductService struct{}

func (memProductService) ListProducts(context.Context) ([]*domain.Product, error) {
	return []*domain.Product{}, nil
}

func (memProductService) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (memProductService) CreateProduct(_ context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	return &domain.Product{ID: "p1", Name: in.Name, Price: *in.Price, Description: in.Description, Image: in.Image}, nil
}

func (memProductService) UpdateProduct(context.Context, string, ports.UpdateProductInput) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (memProductService) DeleteProduct(context.Context, string) error {
	return domain.ErrProductNotFound
}

type testServer struct {
	e      *echo.Echo
	repo   *memUserRepo
	tokens *security.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.New(io.Discard)
	repo := newMemUserRepo()
	tokens := security.NewTokenIssuer("router-secret", time.Hour)
	accounts := service.NewAccountService(repo, security.NewBcryptHasher(bcrypt.MinCost), tokens, nil, log)

	e := NewRouter(RouterConfig{
		Logger:      log,
		CORSOrigins: []string{"http://localhost:3000"},
		Accounts:    accounts,
		Products:    memProductService{},
		Tokens:      tokens,
		Checks: []handler.DependencyCheck{
			{Name: "mongodb", Ping: func(context.Context) error { return nil }},
		},
		Registry: prometheus.NewRegistry(),
	})
	return &testServer{e: e, repo: repo, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type authBody struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) authBody {
	t.Helper()
	var body authBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return body
}

// adminToken promotes a fresh account directly in the store and logs it in.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"root","password":"rootpw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register admin: %d %s", rec.Code, rec.Body.String())
	}
	id := decodeAuth(t, rec).User.ID
	if _, err := s.repo.UpdateRole(context.Background(), id, domain.RoleAdmin); err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	rec = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"root","password":"rootpw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login admin: %d %s", rec.Code, rec.Body.String())
	}
	return decodeAuth(t, rec).Token
}

func TestRouter_AliceScenario(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"alice","password":"s3cret!"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	registered := decodeAuth(t, rec)
	if registered.User.Role != domain.RoleUser || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("unexpected register body: %s", rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"s3cret!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	t2 := decodeAuth(t, rec).Token

	stored, _ := s.repo.FindByID(context.Background(), registered.User.ID)
	if stored.LastLoginAt == nil {
		t.Fatalf("lastLoginAt not set")
	}

	rec = s.do(t, http.MethodPut, "/api/users/"+registered.User.ID, t2, `{"role":"admin"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self promotion: expected 403, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/users/"+registered.User.ID, admin, `{"role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin promote: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	identity, err := s.tokens.Verify(t2)
	if err != nil {
		t.Fatalf("T2 should still verify: %v", err)
	}
	if identity.Role != domain.RoleUser {
		t.Fatalf("T2 should keep its issuance role, got %s", identity.Role)
	}
}

func TestRouter_RegisterDuplicateAndValidation(t *testing.T) {
	s := newTestServer(t)

	body := `{"username":"bob","password":"pw"}`
	if rec := s.do(t, http.MethodPost, "/api/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/auth/register", "", body); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"carol"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Fields) == 0 || resp.Fields[0].Field != "password" {
		t.Fatalf("expected password field error, got %+v", resp)
	}
}

func TestRouter_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"dave","password":"right"}`)

	wrong := s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"dave","password":"nope"}`)
	unknown := s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"nobody","password":"nope"}`)

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}
}

func TestRouter_Guards(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"erin","password":"pw"}`)
	user := decodeAuth(t, rec)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		code   int
	}{
		{"list users without token", http.MethodGet, "/api/users", "", "", http.StatusUnauthorized},
		{"list users with garbage token", http.MethodGet, "/api/users", "garbage", "", http.StatusUnauthorized},
		{"list users as user", http.MethodGet, "/api/users", user.Token, "", http.StatusForbidden},
		{"list users as admin", http.MethodGet, "/api/users", admin, "", http.StatusOK},
		{"get self as user", http.MethodGet, "/api/users/" + user.User.ID, user.Token, "", http.StatusOK},
		{"get unknown user", http.MethodGet, "/api/users/missing", user.Token, "", http.StatusNotFound},
		{"delete as user", http.MethodDelete, "/api/users/" + user.User.ID, user.Token, "", http.StatusForbidden},
		{"delete unknown as admin", http.MethodDelete, "/api/users/missing", admin, "", http.StatusNotFound},
		{"update invalid role", http.MethodPut, "/api/users/" + user.User.ID, admin, `{"role":"superuser"}`, http.StatusBadRequest},
		{"list products public", http.MethodGet, "/api/products", "", "", http.StatusOK},
		{"get unknown product", http.MethodGet, "/api/products/x", "", "", http.StatusNotFound},
		{"create product anonymous", http.MethodPost, "/api/products", "", `{"name":"Lamp"}`, http.StatusUnauthorized},
		{"create product as user", http.MethodPost, "/api/products", user.Token, `{"name":"Lamp"}`, http.StatusForbidden},
		{"create product without price", http.MethodPost, "/api/products", admin, `{"name":"Lamp","description":"d","image":"i"}`, http.StatusBadRequest},
		{"create product as admin", http.MethodPost, "/api/products", admin, `{"name":"Lamp","price":3,"description":"d","image":"i"}`, http.StatusCreated},
		{"delete as admin", http.MethodDelete, "/api/users/" + user.User.ID, admin, "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, tc.token, tc.body)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_ExpiredTokenRejected(t *testing.T) {
	s := newTestServer(t)
	expired := security.NewTokenIssuer("router-secret", time.Nanosecond)
	token, _, err := expired.Issue("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if rec := s.do(t, http.MethodGet, "/api/users", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_OperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("/health: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("/health/ready: expected 200, got %d", rec.Code)
	}

	s.do(t, http.MethodGet, "/api/products", "", "")
	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "storefront_http_requests_total") {
		t.Fatalf("http metrics missing from /metrics output")
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", "")
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestRouter_RegisterRejectsOverlongPassword(t *testing.T) {
	s := newTestServer(t)

	for name, password := range map[string]string{
		"73 ascii bytes":     strings.Repeat("a", 73),
		"80 bytes, 40 runes": strings.Repeat("é", 40),
	} {
		t.Run(name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"bob","password":"`+password+`"}`)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(resp.Fields) != 1 || resp.Fields[0].Field != "password" {
				t.Fatalf("expected a password field error, got %+v", resp)
			}
		})
	}

	if users, _ := s.repo.List(context.Background()); len(users) != 0 {
		t.Fatalf("rejected registrations must not be stored, got %d users", len(users))
	}
}

func TestRouter_PanicIsRecoveredAndLogged(t *testing.T) {
	var buf bytes.Buffer
	e := NewRouter(RouterConfig{
		Logger:   zerolog.New(&buf),
		Accounts: service.NewAccountService(newMemUserRepo(), security.NewBcryptHasher(bcrypt.MinCost), security.NewTokenIssuer("router-secret", time.Hour), nil, zerolog.Nop()),
		Products: memProductService{},
		Tokens:   security.NewTokenIssuer("router-secret", time.Hour),
		Registry: prometheus.NewRegistry(),
	})
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var requestLine map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry["message"] == "request" && entry["uri"] == "/boom" {
			requestLine = entry
			break
		}
	}
	if requestLine == nil {
		t.Fatalf("no request log line for the panicking route: %s", buf.String())
	}
	if requestLine["status"] != float64(http.StatusInternalServerError) {
		t.Fatalf("expected status 500 in request log, got %v", requestLine["status"])
	}
}
