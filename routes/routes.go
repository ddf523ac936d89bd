// Package routes holds the client's route metadata and the navigation guard
// that consults the session before a route is entered.
package routes

import (
	"strings"

	"github.com/jrsteele09/go-zonasi-client/users"
)

const (
	RouteLogin          = "Login"
	RouteForbidden      = "Forbidden"
	RouteNotFound       = "NotFound"
	RouteChangePassword = "Change-Password"
	RouteSetPassword    = "Set-Password"

	RouteDashboardSiswa       = "Dashboard-Siswa"
	RouteDashboardAdminSD     = "Dashboard-AdminSD"
	RouteDashboardAdminSMP    = "Dashboard-AdminSMP"
	RouteDashboardAdminDisdik = "Dashboard-AdminDisdik"
)

type Route struct {
	Name         string
	Path         string // ":param" segments match any value
	RequiresAuth bool
	Roles        []users.RoleType // empty allows every role
}

var (
	siswa       = []users.RoleType{users.RoleSiswa}
	adminSD     = []users.RoleType{users.RoleAdminSD}
	adminSMP    = []users.RoleType{users.RoleAdminSMP}
	adminDisdik = []users.RoleType{users.RoleAdminDisdik}
)

// Table lists every route in match order.
var Table = []Route{
	{Name: RouteDashboardSiswa, Path: "/siswa/dashboard", RequiresAuth: true, Roles: siswa},
	{Name: "Biodata-Siswa", Path: "/siswa/biodata", RequiresAuth: true, Roles: siswa},
	{Name: "Dokumen-Siswa", Path: "/siswa/dokumen", RequiresAuth: true, Roles: siswa},
	{Name: "Zonasi", Path: "/siswa/pendaftaran-zonasi", RequiresAuth: true, Roles: siswa},
	{Name: "Status-Pendaftaran", Path: "/siswa/status-pendaftaran", RequiresAuth: true, Roles: siswa},
	{Name: "Kuota-Pendaftar", Path: "/siswa/kuota-pendaftar", RequiresAuth: true, Roles: siswa},
	{Name: "Biodata-Siswa-Dinamis", Path: "/biodata-siswa/:id", RequiresAuth: true,
		Roles: []users.RoleType{users.RoleAdminSD, users.RoleAdminSMP, users.RoleAdminDisdik}},
	{Name: "Dokumen-Siswa-Dinamis", Path: "/dokumen-siswa/:id", RequiresAuth: true,
		Roles: []users.RoleType{users.RoleAdminSD, users.RoleAdminSMP}},

	{Name: RouteDashboardAdminSD, Path: "/admin-sd/dashboard", RequiresAuth: true, Roles: adminSD},
	{Name: "ProfilSekolah-AdminSD", Path: "/admin-sd/profil", RequiresAuth: true, Roles: adminSD},
	{Name: "Manajemen-user-Siswa", Path: "/admin-sd/manajemen-user", RequiresAuth: true, Roles: adminSD},
	{Name: "Biodata-Siswa-AdminSD", Path: "/admin-sd/biodata-siswa", RequiresAuth: true, Roles: adminSD},
	{Name: "Pendaftaran-Zonasi-Belum-Terdaftar", Path: "/admin-sd/pendaftaran-zonasi/belum-terdaftar", RequiresAuth: true, Roles: adminSD},
	{Name: "Pendaftaran-Zonasi-Sudah-Terdaftar", Path: "/admin-sd/pendaftaran-zonasi/sudah-terdaftar", RequiresAuth: true, Roles: adminSD},

	{Name: RouteDashboardAdminSMP, Path: "/admin-smp/dashboard", RequiresAuth: true, Roles: adminSMP},
	{Name: "Profil-AdminSMP", Path: "/admin-smp/profil", RequiresAuth: true, Roles: adminSMP},
	{Name: "SiswaTerdaftar-AdminSMP", Path: "/admin-smp/siswa-terdaftar", RequiresAuth: true, Roles: adminSMP},
	{Name: "Kelulusan-AdminSMP", Path: "/admin-smp/kelulusan", RequiresAuth: true, Roles: adminSMP},

	{Name: RouteDashboardAdminDisdik, Path: "/admin-disdik/dashboard", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenUserAdmin-AdminDisdik", Path: "/admin-disdik/manajemen-user-admin", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenPeriode-AdminDisdik", Path: "/admin-disdik/manajemen-periode", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenPeriodeJalur-AdminDisdik", Path: "/admin-disdik/manajemen-periode/:id", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenJadwal-AdminDisdik", Path: "/admin-disdik/manajemen-jadwal/:id", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenSekolah-AdminDisdik", Path: "/admin-disdik/manajemen-sekolah", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ProfilSekolah-AdminDisdik", Path: "/admin-disdik/profil-sekolah/:id", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenZonasi-AdminDisdik", Path: "/admin-disdik/manajemen-zonasi", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenKuota-AdminDisdik", Path: "/admin-disdik/manajemen-kuota", RequiresAuth: true, Roles: adminDisdik},
	{Name: "ManajemenSiswa-AdminDisdik", Path: "/admin-disdik/manajemen-siswa", RequiresAuth: true, Roles: adminDisdik},
	{Name: "PendaftaranZonasi-AdminDisdik", Path: "/admin-disdik/pendaftaran-zonasi", RequiresAuth: true, Roles: adminDisdik},

	{Name: RouteLogin, Path: "/login"},
	{Name: RouteChangePassword, Path: "/change-password"},
	{Name: RouteSetPassword, Path: "/set-password"},
	{Name: RouteForbidden, Path: "/access-denied"},
}

var notFound = Route{Name: RouteNotFound, Path: "/*"}

// LandingRoutes maps a role to the route a logged-in user is sent to from Login.
var LandingRoutes = map[users.RoleType]string{
	users.RoleSiswa:       RouteDashboardSiswa,
	users.RoleAdminSD:     RouteDashboardAdminSD,
	users.RoleAdminSMP:    RouteDashboardAdminSMP,
	users.RoleAdminDisdik: RouteDashboardAdminDisdik,
}

// Lookup finds a route by name.
func Lookup(name string) (Route, bool) {
	if name == RouteNotFound {
		return notFound, true
	}
	for _, r := range Table {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Match resolves a path to its route. "/" resolves to Login; anything unknown to NotFound.
func Match(path string) Route {
	path = "/" + strings.Trim(path, "/")
	if path == "/" {
		r, _ := Lookup(RouteLogin)
		return r
	}
	for _, r := range Table {
		if matchPath(r.Path, path) {
			return r
		}
	}
	return notFound
}

func matchPath(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
