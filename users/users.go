package users

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jrsteele09/go-zonasi-client/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Kind discriminates the user variants returned by the auth service.
type Kind int

const (
	KindPlain       Kind = iota // No school or student binding (e.g. adminDisdik)
	KindStudent                 // Bound to a siswa record
	KindSchoolAdmin             // Bound to a sekolah
)

func (k Kind) String() string {
	switch k {
	case KindStudent:
		return "student"
	case KindSchoolAdmin:
		return "school_admin"
	default:
		return "plain"
	}
}

// RoleType is the role name carried on a user record.
type RoleType string

const (
	RoleSiswa       RoleType = "siswa"       // Student
	RoleAdminSD     RoleType = "adminSD"     // Primary-school admin
	RoleAdminSMP    RoleType = "adminSMP"    // Junior-high admin
	RoleAdminDisdik RoleType = "adminDisdik" // Education office admin
)

// Student holds the fields only a student user carries.
type Student struct {
	SiswaID int64
	Nama    string
}

// SchoolAdmin holds the fields only a school admin carries.
type SchoolAdmin struct {
	SekolahID   int64
	SekolahNama string
	RoleID      int64
}

// User is the authenticated user. Exactly one of Student/SchoolAdmin is set when Kind says so.
type User struct {
	Kind        Kind
	ID          int64
	Username    string
	Role        RoleType
	Student     *Student
	SchoolAdmin *SchoolAdmin
}

func NewPlain(id int64, username string, role RoleType) *User {
	return &User{Kind: KindPlain, ID: id, Username: username, Role: role}
}

func NewStudent(id int64, username string, role RoleType, s Student) *User {
	return &User{Kind: KindStudent, ID: id, Username: username, Role: role, Student: &s}
}

func NewSchoolAdmin(id int64, username string, role RoleType, a SchoolAdmin) *User {
	return &User{Kind: KindSchoolAdmin, ID: id, Username: username, Role: role, SchoolAdmin: &a}
}

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...RoleType) bool {
	if u == nil {
		return false
	}
	return slices.Contains(roles, u.Role)
}

// wireUser is the auth service representation, where the variant is implied by which ids are present.
type wireUser struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Role        RoleType `json:"role"`
	SiswaID     *int64   `json:"siswa_id,omitempty"`
	SiswaNama   *string  `json:"siswa_nama,omitempty"`
	SekolahID   *int64   `json:"sekolah_id,omitempty"`
	SekolahNama *string  `json:"sekolah_nama,omitempty"`
	RoleID      *int64   `json:"role_id,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to decode user: %w", err)
	}

	switch {
	case w.SiswaID != nil:
		*u = *NewStudent(w.UserID, w.Username, w.Role, Student{
			SiswaID: *w.SiswaID,
			Nama:    utils.Value(w.SiswaNama),
		})
	case w.SekolahID != nil:
		*u = *NewSchoolAdmin(w.UserID, w.Username, w.Role, SchoolAdmin{
			SekolahID:   *w.SekolahID,
			SekolahNama: utils.Value(w.SekolahNama),
			RoleID:      utils.Value(w.RoleID),
		})
	default:
		*u = *NewPlain(w.UserID, w.Username, w.Role)
	}
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	w := wireUser{UserID: u.ID, Username: u.Username, Role: u.Role}
	switch u.Kind {
	case KindStudent:
		if u.Student == nil {
			return nil, fmt.Errorf("student user %d has no student fields", u.ID)
		}
		w.SiswaID = utils.Ptr(u.Student.SiswaID)
		w.SiswaNama = utils.Ptr(u.Student.Nama)
	case KindSchoolAdmin:
		if u.SchoolAdmin == nil {
			return nil, fmt.Errorf("school admin user %d has no school fields", u.ID)
		}
		w.SekolahID = utils.Ptr(u.SchoolAdmin.SekolahID)
		w.SekolahNama = utils.Ptr(u.SchoolAdmin.SekolahNama)
		w.RoleID = utils.Ptr(u.SchoolAdmin.RoleID)
	}
	return json.Marshal(w)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
