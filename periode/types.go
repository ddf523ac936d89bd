package periode

// MetodeRanking is how applicants of a jalur are ranked.
type MetodeRanking string

const (
	JarakLurus MetodeRanking = "JARAK_LURUS"
	JarakRute  MetodeRanking = "JARAK_RUTE"
)

type Periode struct {
	PeriodeID    int64  `json:"periode_id"`
	NamaPeriode  string `json:"nama_periode"`
	WaktuMulai   string `json:"waktu_mulai"`
	WaktuSelesai string `json:"waktu_selesai"`
}

type CreatePeriodeRequest struct {
	NamaPeriode  string `json:"nama_periode"`
	WaktuMulai   string `json:"waktu_mulai"`
	WaktuSelesai string `json:"waktu_selesai"`
}

type Ref struct {
	PeriodeID int64 `json:"periode_id"`
}

// Jalur is an admission track opened within a periode.
type Jalur struct {
	PeriodeJalurID int64          `json:"periode_jalur_id"`
	PeriodeID      int64          `json:"periode_id"`
	JalurID        int64          `json:"jalur_id"`
	JalurNama      string         `json:"jalur_nama"`
	WaktuMulai     string         `json:"waktu_mulai"`
	WaktuSelesai   string         `json:"waktu_selesai"`
	MetodeRanking  *MetodeRanking `json:"metode_ranking"`
}

type JalurRequest struct {
	PeriodeID     int64          `json:"periode_id,omitempty"`
	JalurID       int64          `json:"jalur_id"`
	WaktuMulai    string         `json:"waktu_mulai"`
	WaktuSelesai  string         `json:"waktu_selesai"`
	MetodeRanking *MetodeRanking `json:"metode_ranking"`
}

type JalurRef struct {
	PeriodeJalurID int64 `json:"periode_jalur_id"`
}

// JalurOption is an entry of the jalur lookup list.
type JalurOption struct {
	JalurID   int64  `json:"jalur_id"`
	JalurNama string `json:"jalur_nama"`
}

type Tahapan struct {
	TahapanID   int64  `json:"tahapan_id"`
	TahapanNama string `json:"tahapan_nama"`
}

// Jadwal is the schedule of one stage of a periode jalur.
type Jadwal struct {
	JadwalID       int64  `json:"jadwal_id"`
	PeriodeJalurID int64  `json:"periode_jalur_id"`
	TahapanID      int64  `json:"tahapan_id"`
	TahapanNama    string `json:"tahapan_nama"`
	IsClosed       int    `json:"is_closed"`
	WaktuMulai     string `json:"waktu_mulai"`
	WaktuSelesai   string `json:"waktu_selesai"`
}

func (j Jadwal) Closed() bool {
	return j.IsClosed != 0
}

type JadwalRequest struct {
	PeriodeJalurID int64  `json:"periode_jalur_id"`
	TahapanID      int64  `json:"tahapan_id"`
	WaktuMulai     string `json:"waktu_mulai"`
	WaktuSelesai   string `json:"waktu_selesai"`
}

type JadwalRef struct {
	JadwalID int64 `json:"jadwal_id"`
}
