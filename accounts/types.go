package accounts

import "github.com/jrsteele09/go-zonasi-client/users"

type Role struct {
	RoleID   int64          `json:"role_id"`
	RoleNama users.RoleType `json:"role_nama"`
}

// StudentUser is a student login account as listed per school.
type StudentUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	SiswaID  int64  `json:"siswa_id"`
	Nama     string `json:"nama"`
}

// AdminUser is a school admin login account.
type AdminUser struct {
	UserID      int64          `json:"user_id"`
	Username    string         `json:"username"`
	Role        users.RoleType `json:"role,omitempty"`
	SekolahID   int64          `json:"sekolah_id"`
	SekolahNama string         `json:"sekolah_nama"`
	RoleID      int64          `json:"role_id"`
}

type RegisterStudentRequest struct {
	Username string `json:"username"`
	RoleID   int64  `json:"role_id"`
	SiswaID  int64  `json:"siswa_id"`
}

type RegisterAdminRequest struct {
	Username  string `json:"username"`
	RoleID    int64  `json:"role_id"`
	SekolahID int64  `json:"sekolah_id"`
}

// UpdateUserRequest renames a user and optionally moves it to another school.
type UpdateUserRequest struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	SekolahID *int64 `json:"sekolah_id"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type VerifyUsernameRequest struct {
	Username string `json:"username"`
}

// UserRef is the {user_id} body returned by mutations.
type UserRef struct {
	UserID int64 `json:"user_id"`
}
