package siswa

type JenisKelamin string

const (
	LakiLaki  JenisKelamin = "L"
	Perempuan JenisKelamin = "P"
)

// Siswa is the full student biodata record.
type Siswa struct {
	SiswaID           int64        `json:"siswa_id"`
	UserID            *int64       `json:"user_id"`
	BanjarID          *int64       `json:"banjar_id"`
	DesaID            *int64       `json:"desa_id"`
	KecamatanID       *int64       `json:"kecamatan_id"`
	KabupatenID       *int64       `json:"kabupaten_id"`
	ProvinsiID        *int64       `json:"provinsi_id"`
	SekolahAsalID     *int64       `json:"sekolah_asal_id"`
	Nama              string       `json:"nama"`
	TempatLahir       string       `json:"tempat_lahir"`
	TanggalLahir      string       `json:"tanggal_lahir,omitempty"`
	JenisKelamin      JenisKelamin `json:"jenis_kelamin,omitempty"`
	NomorTelepon      string       `json:"nomor_telepon,omitempty"`
	AgamaID           *int64       `json:"agama_id"`
	NIK               string       `json:"nik"`
	NISN              string       `json:"nisn"`
	AlamatTinggal     string       `json:"alamat_tinggal"`
	AlamatKK          string       `json:"alamat_kk"`
	LuarTabanan       int          `json:"isluartabanan"`
	NamaIbu           string       `json:"nama_ibu"`
	PekerjaanIbuID    *int64       `json:"pekerjaan_ibu_id"`
	PenghasilanIbuID  *int64       `json:"penghasilan_ibu_id"`
	NamaAyah          string       `json:"nama_ayah"`
	PekerjaanAyahID   *int64       `json:"pekerjaan_ayah_id"`
	PenghasilanAyahID *int64       `json:"penghasilan_ayah_id"`
	NamaWali          string       `json:"nama_wali,omitempty"`
	PekerjaanWaliID   *int64       `json:"pekerjaan_wali_id"`
	PenghasilanWaliID *int64       `json:"penghasilan_wali_id"`
	KebutuhanKhusus   int          `json:"kebutuhan_khusus"`
	Lintang           float64      `json:"lintang"`
	Bujur             float64      `json:"bujur"`
}

// Summary is the row shape of per-school student listings.
type Summary struct {
	SiswaID int64  `json:"siswa_id"`
	Nama    string `json:"nama"`
	NISN    string `json:"nisn"`
}

// WithStatus is a listing row annotated with its registration progress for one periode jalur.
type WithStatus struct {
	Summary
	PendaftaranID     *int64 `json:"pendaftaran_id"`
	WilayahFull       bool   `json:"isWilayahFull"`
	DokumenFull       bool   `json:"isDokumenFull"`
	AllDokumenValid   bool   `json:"isAllDokumenValid"`
	TotalDokumenValid int    `json:"totalDokumenValid"`
	StatusDaftar      string `json:"statusDaftar"`
	BanjarID          int64  `json:"banjar_id"`
	TanggalLahir      string `json:"tanggal_lahir"`
}

type Status struct {
	SiswaID      int64   `json:"siswa_id"`
	WilayahFull  bool    `json:"isWilayahFull"`
	DokumenFull  bool    `json:"isDokumenFull"`
	DokumenValid bool    `json:"isDokumenValid"`
	Terdaftar    bool    `json:"isTerdaftar"`
	BanjarID     int64   `json:"banjar_id"`
	TanggalLahir string  `json:"tanggal_lahir"`
	Lintang      float64 `json:"lintang"`
	Bujur        float64 `json:"bujur"`
}

type Ref struct {
	SiswaID int64 `json:"siswa_id"`
}

type Agama struct {
	AgamaID   int64  `json:"agama_id"`
	NamaAgama string `json:"nama_agama"`
}

type Pekerjaan struct {
	PekerjaanID   int64  `json:"pekerjaan_id"`
	NamaPekerjaan string `json:"nama_pekerjaan"`
}

type Penghasilan struct {
	PenghasilanID int64  `json:"penghasilan_id"`
	Penghasilan   string `json:"penghasilan"`
}
