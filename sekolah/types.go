package sekolah

// Jenis selects the school level of a listing.
type Jenis string

const (
	JenisSD  Jenis = "sd"
	JenisSMP Jenis = "smp"
)

type Sekolah struct {
	SekolahID        int64   `json:"sekolah_id"`
	SekolahNama      string  `json:"sekolah_nama"`
	NPSN             *string `json:"npsn"`
	JenjangSekolahID int64   `json:"jenjang_sekolah_id"`
	BanjarID         *int64  `json:"banjar_id"`
	DesaID           int64   `json:"desa_id"`
	KecamatanID      int64   `json:"kecamatan_id"`
	KabupatenID      int64   `json:"kabupaten_id"`
	ProvinsiID       int64   `json:"provinsi_id"`
	JumlahKelas      int     `json:"jumlah_kelas"`
	TotalDayaTampung int     `json:"total_daya_tampung"`
	Lintang          float64 `json:"lintang"`
	Bujur            float64 `json:"bujur"`
}

// Summary is the row shape of school listings.
type Summary struct {
	SekolahID   int64   `json:"sekolah_id"`
	SekolahNama string  `json:"sekolah_nama"`
	NPSN        *string `json:"npsn"`
}

type Ref struct {
	SekolahID int64 `json:"sekolah_id"`
}

type KuotaEntry struct {
	KuotaSekolahID int64  `json:"kuota_sekolah_id"`
	KuotaID        int64  `json:"kuota_id"`
	JenisKuota     string `json:"jenis_kuota"`
	Kuota          int    `json:"kuota"`
}

// KuotaSekolah groups the quota lines of one school in a periode.
type KuotaSekolah struct {
	PeriodeID    int64        `json:"periode_id"`
	SekolahID    int64        `json:"sekolah_id"`
	SekolahNama  string       `json:"sekolah_nama"`
	NPSN         string       `json:"npsn"`
	KuotaSekolah []KuotaEntry `json:"kuota_sekolah"`
}

type KuotaUpdate struct {
	KuotaSekolahID int64 `json:"kuota_sekolah_id"`
	Kuota          int   `json:"kuota"`
}

// UpdateKuotaRequest replaces several quota lines of one school in a periode.
type UpdateKuotaRequest struct {
	PeriodeID    int64         `json:"periode_id"`
	KuotaSekolah []KuotaUpdate `json:"kuota_sekolah"`
}

// UpdatedKuota is the backend's echo of a single quota line update.
type UpdatedKuota struct {
	SekolahID      int64 `json:"sekolah_id"`
	KuotaSekolahID int64 `json:"kuota_sekolah_id"`
	Kuota          int   `json:"kuota"`
}

type Zonasi struct {
	ZonasiID    int64  `json:"zonasi_id"`
	SekolahID   int64  `json:"sekolah_id"`
	BanjarID    int64  `json:"banjar_id"`
	SekolahNama string `json:"sekolah_nama"`
	NPSN        string `json:"npsn"`
	BanjarNama  string `json:"banjar_nama"`
	DesaID      int64  `json:"desa_id"`
	DesaNama    string `json:"desa_nama"`
}

// ZonasiRequest assigns a banjar to the zone of a school.
type ZonasiRequest struct {
	SekolahID int64 `json:"sekolah_id"`
	BanjarID  int64 `json:"banjar_id"`
}

type ZonasiRef struct {
	ZonasiID int64 `json:"zonasi_id"`
}
