// Package fakebackend emulates the auth service and the siswa, sekolah, periode,
// pengumuman and wilayah routes over HTTP, all served by one router. It issues
// real signed tokens, keeps refresh sessions in a cookie and exposes switches
// to expire tokens, fail or hold refreshes.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-zonasi-client/accounts"
	"github.com/jrsteele09/go-zonasi-client/token/jwt"
	"github.com/jrsteele09/go-zonasi-client/users"
)

const (
	RefreshCookie   = "refresh_token"
	ProtectedPath   = "/api/me"
	defaultTokenTTL = 5 * time.Minute
	issuer          = "zonasi-fakebackend"
)

type account struct {
	user         *users.User
	passwordHash string
}

type Backend struct {
	router  *mux.Router
	creator *jwt.Creator
	verbose bool

	mu            sync.Mutex
	accounts      map[string]*account // by username
	students      map[int64][]accounts.StudentUser
	refreshTokens map[string]int64 // refresh cookie -> user id
	accessTokens  map[string]int64 // issued access token -> user id
	resetTokens   map[string]string
	nextID        int64
	refreshGate   chan struct{}
	data          *domainData

	logins       atomic.Int32
	refreshes    atomic.Int32
	logouts      atomic.Int32
	protected    atomic.Int32
	unauthorized atomic.Int32
	domainCalls  atomic.Int32
	failRefresh  atomic.Bool
	failLogout   atomic.Bool
}

// Option defines a function type to modify the Backend instance.
type Option func(*Backend)

// WithTokenTTL sets the lifetime of issued access tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(b *Backend) {
		b.creator = jwt.NewCreator([]byte(uuid.NewString()), issuer, d)
	}
}

// WithVerbose logs every request at debug level.
func WithVerbose() Option {
	return func(b *Backend) {
		b.verbose = true
	}
}

func New(options ...Option) *Backend {
	b := &Backend{
		router:        mux.NewRouter(),
		creator:       jwt.NewCreator([]byte(uuid.NewString()), issuer, defaultTokenTTL),
		accounts:      make(map[string]*account),
		students:      make(map[int64][]accounts.StudentUser),
		refreshTokens: make(map[string]int64),
		accessTokens:  make(map[string]int64),
		resetTokens:   make(map[string]string),
		nextID:        100,
		data:          seedDomain(),
	}
	for _, opt := range options {
		opt(b)
	}
	b.initRoutes()
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

func (b *Backend) initRoutes() {
	public := []func(http.HandlerFunc) http.HandlerFunc{b.loggingMiddleware}
	protected := []func(http.HandlerFunc) http.HandlerFunc{b.loggingMiddleware, b.requireBearer}

	r := b.router
	r.HandleFunc("/auth/login", ChainMiddleware(b.loginHandler(), public...)).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", ChainMiddleware(b.refreshHandler(), public...)).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", ChainMiddleware(b.logoutHandler(), public...)).Methods(http.MethodDelete)
	r.HandleFunc("/auth/verify-username", ChainMiddleware(b.verifyUsernameHandler(), public...)).Methods(http.MethodPost)
	r.HandleFunc("/auth/change-password", ChainMiddleware(b.changePasswordHandler(), public...)).Methods(http.MethodPut)

	r.HandleFunc("/auth/role", ChainMiddleware(b.rolesHandler(), protected...)).Methods(http.MethodGet)
	r.HandleFunc("/auth/users-admin", ChainMiddleware(b.listAdminsHandler(), protected...)).Methods(http.MethodGet)
	r.HandleFunc("/auth/users/update", ChainMiddleware(b.updateUserHandler(), protected...)).Methods(http.MethodPut)
	r.HandleFunc("/auth/users/{id:[0-9]+}", ChainMiddleware(b.listStudentsHandler(), protected...)).Methods(http.MethodGet)
	r.HandleFunc("/auth/users/{id:[0-9]+}", ChainMiddleware(b.deleteUserHandler(), protected...)).Methods(http.MethodDelete)
	r.HandleFunc("/auth/register-siswa", ChainMiddleware(b.registerStudentHandler(), protected...)).Methods(http.MethodPost)
	r.HandleFunc("/auth/register-admin", ChainMiddleware(b.registerAdminHandler(), protected...)).Methods(http.MethodPost)

	r.HandleFunc(ProtectedPath, ChainMiddleware(b.meHandler(), protected...)).Methods(http.MethodGet)
	b.initDomainRoutes(protected...)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Halaman tidak ditemukan")
	})
}

// AddAccount registers a user that can log in with password.
func (b *Backend) AddAccount(user *users.User, password string) error {
	hash, err := users.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", user.Username, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[user.Username] = &account{user: user, passwordHash: hash}
	return nil
}

// AddStudent lists a student account under a school.
func (b *Backend) AddStudent(sekolahID int64, s accounts.StudentUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.students[sekolahID] = append(b.students[sekolahID], s)
}

// ExpireAccessTokens invalidates every access token issued so far. Refresh sessions survive.
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessTokens = make(map[string]int64)
}

// HoldRefresh blocks refresh calls until the returned release function is called.
func (b *Backend) HoldRefresh() (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.refreshGate = gate
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.refreshGate = nil
			b.mu.Unlock()
			close(gate)
		})
	}
}

func (b *Backend) FailRefresh(fail bool) { b.failRefresh.Store(fail) }
func (b *Backend) FailLogout(fail bool)  { b.failLogout.Store(fail) }

func (b *Backend) LoginCalls() int        { return int(b.logins.Load()) }
func (b *Backend) RefreshCalls() int      { return int(b.refreshes.Load()) }
func (b *Backend) LogoutCalls() int       { return int(b.logouts.Load()) }
func (b *Backend) ProtectedCalls() int    { return int(b.protected.Load()) }
func (b *Backend) UnauthorizedCalls() int { return int(b.unauthorized.Load()) }

// ResetToken returns the password reset token last issued for username.
func (b *Backend) ResetToken(username string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for tok, u := range b.resetTokens {
		if u == username {
			return tok
		}
	}
	return ""
}

func (b *Backend) issueAccessToken(u *users.User) (string, error) {
	raw, err := b.creator.CreateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	b.accessTokens[raw] = u.ID
	b.mu.Unlock()
	return raw, nil
}

func (b *Backend) activeToken(raw string) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.accessTokens[raw]
	return id, ok
}

func (b *Backend) userByID(id int64) *users.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.user.ID == id {
			return a.user
		}
	}
	return nil
}

func (b *Backend) newID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"message": message}})
}

func writeValidation(w http.ResponseWriter, message string, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": message, "errors": fields})
}
