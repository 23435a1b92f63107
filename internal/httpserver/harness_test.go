package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"storefront/internal/catalog"
	accountrepo "storefront/internal/repository/account"
	cartrepo "storefront/internal/repository/cart"
	orderrepo "storefront/internal/repository/order"
	profilerepo "storefront/internal/repository/profile"
	tokenrepo "storefront/internal/repository/token"
	"storefront/internal/service/identity"
	profilesvc "storefront/internal/service/profile"
	"storefront/internal/session"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type captureMailer struct {
	mu    sync.Mutex
	links []string
}

func (m *captureMailer) SendVerification(_ context.Context, _ string, link string) error {
	m.mu.Lock()
	m.links = append(m.links, link)
	m.mu.Unlock()
	return nil
}

// harness wires the real services over memory repositories.
type harness struct {
	t        *testing.T
	router   *gin.Engine
	identity *identity.Service
	accounts *accountrepo.Memory
	carts    *cartrepo.Memory
	orders   *orderrepo.Memory
	tokens   *tokenrepo.Memory
	sessions *session.Manager
	copies   *workingCopies
	mailer   *captureMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		t:        t,
		accounts: accountrepo.NewMemory(),
		carts:    cartrepo.NewMemory(),
		orders:   orderrepo.NewMemory(),
		tokens:   tokenrepo.NewMemory(),
		copies:   newWorkingCopies(),
		mailer:   &captureMailer{},
	}
	h.identity = identity.New(h.accounts, h.tokens, identity.Options{Mailer: h.mailer})
	h.sessions = session.NewManager(h.identity, h.carts, h.orders, nil)
	h.sessions.OnRelease = h.copies.drop
	h.sessions.Start()
	t.Cleanup(h.sessions.Close)

	router, err := buildRouter(logDiscard(), nil, Deps{
		Catalog:  catalog.New(catalog.DefaultMenu()),
		Identity: h.identity,
		Profiles: profilesvc.New(h.identity, profilerepo.NewMemory(), nil),
		Sessions: h.sessions,
	}, h.copies)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	h.router = router
	return h
}

func (h *harness) do(method, path, token, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// signUp registers and logs in a user, returning the access token.
func (h *harness) signUp(email string) string {
	h.t.Helper()
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"` + email + `","phone":"555","password":"secret1","confirmPassword":"secret1"}`
	if rec := h.do(http.MethodPost, "/auth/register", "", body); rec.Code != http.StatusCreated {
		h.t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	rec := h.do(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		h.t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(h.t, rec, &out)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func (h *harness) accountID(email string) string {
	h.t.Helper()
	acct, err := h.accounts.GetByEmail(context.Background(), email)
	if err != nil {
		h.t.Fatalf("get account %s: %v", email, err)
	}
	return acct.ID
}
