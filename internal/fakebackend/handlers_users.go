package fakebackend

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-zonasi-client/accounts"
	"github.com/jrsteele09/go-zonasi-client/users"
)

var roles = []accounts.Role{
	{RoleID: 1, RoleNama: users.RoleSiswa},
	{RoleID: 2, RoleNama: users.RoleAdminSD},
	{RoleID: 3, RoleNama: users.RoleAdminSMP},
	{RoleID: 4, RoleNama: users.RoleAdminDisdik},
}

func roleByID(id int64) (users.RoleType, bool) {
	for _, r := range roles {
		if r.RoleID == id {
			return r.RoleNama, true
		}
	}
	return "", false
}

func (b *Backend) rolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, roles)
	}
}

func (b *Backend) listStudentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sekolahID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		b.mu.Lock()
		all := append([]accounts.StudentUser(nil), b.students[sekolahID]...)
		b.mu.Unlock()
		page, meta := paginate(r, len(all))
		writeJSON(w, http.StatusOK, map[string]any{"data": all[page[0]:page[1]], "meta": meta})
	}
}

func (b *Backend) listAdminsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var admins []accounts.AdminUser
		b.mu.Lock()
		for _, a := range b.accounts {
			if a.user.Kind != users.KindSchoolAdmin {
				continue
			}
			admins = append(admins, accounts.AdminUser{
				UserID:      a.user.ID,
				Username:    a.user.Username,
				Role:        a.user.Role,
				SekolahID:   a.user.SchoolAdmin.SekolahID,
				SekolahNama: a.user.SchoolAdmin.SekolahNama,
				RoleID:      a.user.SchoolAdmin.RoleID,
			})
		}
		b.mu.Unlock()
		sort.Slice(admins, func(i, j int) bool { return admins[i].UserID < admins[j].UserID })

		page, meta := paginate(r, len(admins))
		writeJSON(w, http.StatusOK, map[string]any{"data": admins[page[0]:page[1]], "meta": meta})
	}
}

func (b *Backend) registerStudentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.RegisterStudentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			writeValidation(w, "Data tidak valid", map[string]string{"username": "required"})
			return
		}
		if b.usernameTaken(req.Username) {
			writeError(w, http.StatusConflict, "Username sudah digunakan")
			return
		}
		role, ok := roleByID(req.RoleID)
		if !ok {
			writeValidation(w, "Role tidak ditemukan", map[string]string{"role_id": "unknown"})
			return
		}

		id := b.newID()
		user := users.NewStudent(id, req.Username, role, users.Student{SiswaID: req.SiswaID, Nama: req.Username})
		if err := b.AddAccount(user, uuid.NewString()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusCreated, accounts.StudentUser{UserID: id, Username: req.Username, SiswaID: req.SiswaID, Nama: req.Username})
	}
}

func (b *Backend) registerAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.RegisterAdminRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			writeValidation(w, "Data tidak valid", map[string]string{"username": "required"})
			return
		}
		if b.usernameTaken(req.Username) {
			writeError(w, http.StatusConflict, "Username sudah digunakan")
			return
		}
		role, ok := roleByID(req.RoleID)
		if !ok {
			writeValidation(w, "Role tidak ditemukan", map[string]string{"role_id": "unknown"})
			return
		}

		id := b.newID()
		nama := "Sekolah " + strconv.FormatInt(req.SekolahID, 10)
		user := users.NewSchoolAdmin(id, req.Username, role, users.SchoolAdmin{SekolahID: req.SekolahID, SekolahNama: nama, RoleID: req.RoleID})
		if err := b.AddAccount(user, uuid.NewString()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusCreated, accounts.AdminUser{UserID: id, Username: req.Username, SekolahID: req.SekolahID, SekolahNama: nama, RoleID: req.RoleID})
	}
}

func (b *Backend) updateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			writeValidation(w, "Data tidak valid", map[string]string{"username": "required"})
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		for name, a := range b.accounts {
			if a.user.ID != req.UserID {
				continue
			}
			delete(b.accounts, name)
			a.user.Username = req.Username
			if req.SekolahID != nil && a.user.SchoolAdmin != nil {
				a.user.SchoolAdmin.SekolahID = *req.SekolahID
			}
			b.accounts[req.Username] = a
			writeData(w, http.StatusOK, accounts.UserRef{UserID: req.UserID})
			return
		}
		writeError(w, http.StatusNotFound, "User tidak ditemukan")
	}
}

func (b *Backend) deleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		for name, a := range b.accounts {
			if a.user.ID == id {
				delete(b.accounts, name)
				writeData(w, http.StatusOK, accounts.UserRef{UserID: id})
				return
			}
		}
		writeError(w, http.StatusNotFound, "User tidak ditemukan")
	}
}

func (b *Backend) verifyUsernameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.VerifyUsernameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		if !b.usernameTaken(req.Username) {
			writeError(w, http.StatusNotFound, "Username tidak ditemukan")
			return
		}
		b.mu.Lock()
		b.resetTokens[uuid.NewString()] = req.Username
		b.mu.Unlock()
		writeData(w, http.StatusOK, true)
	}
}

func (b *Backend) changePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := r.URL.Query().Get("token")
		var req accounts.ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Password) == "" {
			writeValidation(w, "Password wajib diisi", map[string]string{"password": "required"})
			return
		}

		b.mu.Lock()
		username, ok := b.resetTokens[tok]
		if ok {
			delete(b.resetTokens, tok)
		}
		acc := b.accounts[username]
		b.mu.Unlock()
		if !ok || acc == nil {
			writeError(w, http.StatusBadRequest, "Token reset tidak valid")
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		b.mu.Lock()
		acc.passwordHash = hash
		b.mu.Unlock()
		writeData(w, http.StatusOK, accounts.UserRef{UserID: acc.user.ID})
	}
}

func (b *Backend) usernameTaken(username string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.accounts[username]
	return ok
}

// paginate returns the [start,end) window for the page and limit query parameters.
func paginate(r *http.Request, total int) ([2]int, map[string]int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	totalPages := (total + limit - 1) / limit
	return [2]int{start, end}, map[string]int{"page": page, "limit": limit, "total": total, "totalPages": totalPages}
}
