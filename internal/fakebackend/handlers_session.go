package fakebackend

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (b *Backend) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.logins.Add(1)

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}

		b.mu.Lock()
		acc, ok := b.accounts[req.Username]
		b.mu.Unlock()
		if !ok || !users.CheckPasswordHash(req.Password, acc.passwordHash) {
			writeError(w, http.StatusUnauthorized, "Username atau password salah")
			return
		}

		raw, err := b.issueAccessToken(acc.user)
		if err != nil {
			log.Err(err).Msg("Failed to issue access token")
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		refresh := uuid.NewString()
		b.mu.Lock()
		b.refreshTokens[refresh] = acc.user.ID
		b.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: refresh, Path: "/", HttpOnly: true})

		writeData(w, http.StatusOK, map[string]any{"user": acc.user, "access_token": raw})
	}
}

func (b *Backend) refreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.refreshes.Add(1)

		b.mu.Lock()
		gate := b.refreshGate
		b.mu.Unlock()
		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		if b.failRefresh.Load() {
			writeError(w, http.StatusUnauthorized, "Sesi telah berakhir")
			return
		}
		cookie, err := r.Cookie(RefreshCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Refresh token tidak ditemukan")
			return
		}
		b.mu.Lock()
		userID, ok := b.refreshTokens[cookie.Value]
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Refresh token tidak valid")
			return
		}
		user := b.userByID(userID)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "User tidak ditemukan")
			return
		}

		raw, err := b.issueAccessToken(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusOK, map[string]string{"access_token": raw})
	}
}

func (b *Backend) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.logouts.Add(1)
		if b.failLogout.Load() {
			writeError(w, http.StatusInternalServerError, "logout unavailable")
			return
		}
		if cookie, err := r.Cookie(RefreshCookie); err == nil {
			b.mu.Lock()
			delete(b.refreshTokens, cookie.Value)
			b.mu.Unlock()
		}
		http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (b *Backend) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.protected.Add(1)
		userID, _ := r.Context().Value(contextKeyUserID).(int64)
		user := b.userByID(userID)
		if user == nil {
			writeError(w, http.StatusNotFound, "User tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, user)
	}
}
