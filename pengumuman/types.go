package pengumuman

type StatusKelulusan string

const (
	StatusPendaftaran StatusKelulusan = "PENDAFTARAN"
	StatusLulus       StatusKelulusan = "LULUS"
	StatusTidakLulus  StatusKelulusan = "TIDAK_LULUS"
)

type SetKelulusanRequest struct {
	SekolahID      int64 `json:"sekolah_id"`
	PeriodeJalurID int64 `json:"periode_jalur_id"`
}

type SetKelulusanResult struct {
	Count int `json:"count"`
}

// KuotaPendaftar compares the applicants of a school with its quota.
type KuotaPendaftar struct {
	SekolahID      int64  `json:"sekolah_id"`
	SekolahNama    string `json:"sekolah_nama"`
	NPSN           string `json:"npsn"`
	TotalPendaftar int    `json:"totalPendaftar"`
	Kuota          int    `json:"kuota"`
}

type Kelulusan struct {
	PendaftaranID   int64           `json:"pendaftaran_id"`
	SiswaID         int64           `json:"siswa_id"`
	Nama            string          `json:"nama"`
	NISN            string          `json:"nisn"`
	SekolahAsalID   int64           `json:"sekolah_asal_id"`
	SekolahAsalNama string          `json:"sekolah_asal_nama"`
	StatusKelulusan StatusKelulusan `json:"status_kelulusan"`
}

type DashboardSD struct {
	TotalSiswa               int `json:"total_siswa"`
	TotalUser                int `json:"total_user"`
	TotalTerdaftar           int `json:"total_terdaftar"`
	TotalLulus               int `json:"total_lulus"`
	TotalTerverifikasi       int `json:"total_terverifikasi"`
	TotalBelumTerverifikasi  int `json:"total_belum_terverifikasi"`
	TotalBiodataBelumLengkap int `json:"total_biodata_belum_lengkap"`
	TotalDokumenBelumLengkap int `json:"total_dokumen_belum_lengkap"`
}

type DashboardSMP struct {
	TotalSiswaTerdaftar     int `json:"total_siswa_terdaftar"`
	TotalTerverifikasi      int `json:"total_terverifikasi"`
	TotalBelumTerverifikasi int `json:"total_belum_terverifikasi"`
	TotalLulus              int `json:"total_lulus"`
}

type DashboardDinas struct {
	TotalSiswa              int `json:"total_siswa"`
	TotalSekolahSD          int `json:"total_sekolah_sd"`
	TotalSekolahSMP         int `json:"total_sekolah_smp"`
	TotalTerdaftar          int `json:"total_terdaftar"`
	TotalTerverifikasi      int `json:"total_terverifikasi"`
	TotalBelumTerverifikasi int `json:"total_belum_terverifikasi"`
	TotalLulus              int `json:"total_lulus"`
	TotalTidakLulus         int `json:"total_tidak_lulus"`
}

type PendaftarPerSekolah struct {
	SekolahID      int64  `json:"sekolah_id"`
	SekolahNama    string `json:"sekolah_nama"`
	TotalPendaftar int    `json:"total_pendaftar"`
}

// PendaftaranZonasi is an application ranked by distance within a periode.
type PendaftaranZonasi struct {
	PendaftaranID   int64   `json:"pendaftaran_id"`
	SekolahID       int64   `json:"sekolah_id"`
	SekolahNama     string  `json:"sekolah_nama"`
	SiswaID         int64   `json:"siswa_id"`
	SiswaNama       string  `json:"siswa_nama"`
	NISN            string  `json:"nisn"`
	SekolahAsalNama string  `json:"sekolah_asal_nama"`
	JarakLurus      float64 `json:"jarak_lurus"`
	JarakRute       float64 `json:"jarak_rute"`
	Status          string  `json:"status"`
	StatusKelulusan string  `json:"status_kelulusan"`
}

// LaporanFilter narrows the registration report. Zero fields are left out.
type LaporanFilter struct {
	PeriodeID       int64
	PeriodeJalurID  int64
	SekolahID       int64
	StatusKelulusan StatusKelulusan
}
