package fakebackend

import (
	"github.com/jrsteele09/go-zonasi-client/internal/utils"
	"github.com/jrsteele09/go-zonasi-client/pengumuman"
	"github.com/jrsteele09/go-zonasi-client/periode"
	"github.com/jrsteele09/go-zonasi-client/sekolah"
	"github.com/jrsteele09/go-zonasi-client/siswa"
	"github.com/jrsteele09/go-zonasi-client/wilayah"
)

// Ids of the seeded reference data.
const (
	SeedSekolahSD    int64 = 3
	SeedSekolahSMP   int64 = 10
	SeedPeriode      int64 = 1
	SeedPeriodeJalur int64 = 1
	SeedDesa         int64 = 5102011
)

const (
	jenjangSD  int64 = 1
	jenjangSMP int64 = 2
)

type kuotaRow struct {
	PeriodeID int64
	SekolahID int64
	sekolah.KuotaEntry
}

type pendaftaran struct {
	ID             int64
	SiswaID        int64
	SekolahID      int64
	PeriodeJalurID int64
	JarakLurus     float64
	JarakRute      float64
	Terverifikasi  bool
	Status         pengumuman.StatusKelulusan
}

type region struct {
	id, parent int64
	nama       string
}

var (
	agama       = []siswa.Agama{{AgamaID: 1, NamaAgama: "Hindu"}, {AgamaID: 2, NamaAgama: "Islam"}, {AgamaID: 3, NamaAgama: "Kristen"}, {AgamaID: 4, NamaAgama: "Katolik"}, {AgamaID: 5, NamaAgama: "Buddha"}}
	pekerjaan   = []siswa.Pekerjaan{{PekerjaanID: 1, NamaPekerjaan: "Petani"}, {PekerjaanID: 2, NamaPekerjaan: "Wiraswasta"}, {PekerjaanID: 3, NamaPekerjaan: "PNS"}}
	penghasilan = []siswa.Penghasilan{{PenghasilanID: 1, Penghasilan: "< 1.000.000"}, {PenghasilanID: 2, Penghasilan: "1.000.000 - 3.000.000"}, {PenghasilanID: 3, Penghasilan: "> 3.000.000"}}

	jalurOptions = []periode.JalurOption{{JalurID: 1, JalurNama: "Zonasi"}, {JalurID: 2, JalurNama: "Afirmasi"}, {JalurID: 3, JalurNama: "Perpindahan Orang Tua"}, {JalurID: 4, JalurNama: "Prestasi"}}
	tahapan      = []periode.Tahapan{{TahapanID: 1, TahapanNama: "Pendaftaran"}, {TahapanID: 2, TahapanNama: "Verifikasi"}, {TahapanID: 3, TahapanNama: "Pengumuman"}, {TahapanID: 4, TahapanNama: "Daftar Ulang"}}

	provinsi  = []region{{51, 0, "Bali"}}
	kabupaten = []region{{5102, 51, "Tabanan"}, {5103, 51, "Badung"}}
	kecamatan = []region{{510201, 5102, "Tabanan"}, {510202, 5102, "Kediri"}, {510301, 5103, "Mengwi"}}
	desa      = []region{{5102011, 510201, "Dauh Peken"}, {5102012, 510201, "Delod Peken"}, {5102021, 510202, "Kediri"}, {5103011, 510301, "Mengwi"}}
	banjar    = []region{{1, 5102011, "Banjar Taman"}, {2, 5102011, "Banjar Sakenan"}, {3, 5102012, "Banjar Pande"}}
)

const tabanan int64 = 5102

// domainData holds the records behind the siswa, sekolah, periode and pengumuman routes.
type domainData struct {
	siswa        *table[siswa.Siswa]
	sekolah      *table[sekolah.Sekolah]
	kuota        *table[kuotaRow]
	zonasi       *table[sekolah.Zonasi]
	periode      *table[periode.Periode]
	periodeJalur *table[periode.Jalur]
	jadwal       *table[periode.Jadwal]
	pendaftaran  *table[pendaftaran]
}

func seedDomain() *domainData {
	d := &domainData{
		siswa:        newTable[siswa.Siswa](),
		sekolah:      newTable[sekolah.Sekolah](),
		kuota:        newTable[kuotaRow](),
		zonasi:       newTable[sekolah.Zonasi](),
		periode:      newTable[periode.Periode](),
		periodeJalur: newTable[periode.Jalur](),
		jadwal:       newTable[periode.Jadwal](),
		pendaftaran:  newTable[pendaftaran](),
	}

	for _, s := range []sekolah.Sekolah{
		newSekolah(1, "SD Negeri 1 Tabanan", "50100001", jenjangSD, 28),
		newSekolah(2, "SD Negeri 2 Tabanan", "50100002", jenjangSD, 28),
		newSekolah(SeedSekolahSD, "SD Negeri 3 Tabanan", "50100003", jenjangSD, 28),
		newSekolah(SeedSekolahSMP, "SMP Negeri 1 Tabanan", "50100010", jenjangSMP, 2),
		newSekolah(11, "SMP Negeri 2 Tabanan", "50100011", jenjangSMP, 32),
	} {
		d.sekolah.put(s.SekolahID, s)
	}

	for _, s := range []siswa.Siswa{
		newSiswa(1, "I Made Arya", "0012345601", SeedSekolahSD, utils.Ptr(int64(1))),
		newSiswa(2, "Ni Putu Ayu", "0012345602", SeedSekolahSD, utils.Ptr(int64(2))),
		newSiswa(3, "I Komang Adi", "0012345603", SeedSekolahSD, nil),
		newSiswa(4, "Ni Wayan Sari", "0012345604", 1, utils.Ptr(int64(3))),
	} {
		d.siswa.put(s.SiswaID, s)
	}

	d.periode.put(SeedPeriode, periode.Periode{PeriodeID: SeedPeriode, NamaPeriode: "PPDB 2025", WaktuMulai: "2025-06-01", WaktuSelesai: "2025-07-15"})
	lurus := periode.JarakLurus
	d.periodeJalur.put(SeedPeriodeJalur, periode.Jalur{
		PeriodeJalurID: SeedPeriodeJalur, PeriodeID: SeedPeriode, JalurID: 1, JalurNama: "Zonasi",
		WaktuMulai: "2025-06-01", WaktuSelesai: "2025-06-30", MetodeRanking: &lurus,
	})
	d.jadwal.put(1, periode.Jadwal{JadwalID: 1, PeriodeJalurID: SeedPeriodeJalur, TahapanID: 1, TahapanNama: "Pendaftaran", WaktuMulai: "2025-06-01", WaktuSelesai: "2025-06-10"})
	d.jadwal.put(2, periode.Jadwal{JadwalID: 2, PeriodeJalurID: SeedPeriodeJalur, TahapanID: 2, TahapanNama: "Verifikasi", WaktuMulai: "2025-06-11", WaktuSelesai: "2025-06-20"})

	d.kuota.put(1, kuotaRow{PeriodeID: SeedPeriode, SekolahID: SeedSekolahSMP, KuotaEntry: sekolah.KuotaEntry{KuotaSekolahID: 1, KuotaID: 1, JenisKuota: "ZONASI", Kuota: 2}})
	d.kuota.put(2, kuotaRow{PeriodeID: SeedPeriode, SekolahID: SeedSekolahSMP, KuotaEntry: sekolah.KuotaEntry{KuotaSekolahID: 2, KuotaID: 2, JenisKuota: "AFIRMASI", Kuota: 1}})

	d.zonasi.put(1, sekolah.Zonasi{ZonasiID: 1, SekolahID: SeedSekolahSMP, BanjarID: 1, SekolahNama: "SMP Negeri 1 Tabanan", NPSN: "50100010", BanjarNama: "Banjar Taman", DesaID: SeedDesa, DesaNama: "Dauh Peken"})

	d.pendaftaran.put(1, pendaftaran{ID: 1, SiswaID: 1, SekolahID: SeedSekolahSMP, PeriodeJalurID: SeedPeriodeJalur, JarakLurus: 0.8, JarakRute: 1.1, Terverifikasi: true, Status: pengumuman.StatusPendaftaran})
	d.pendaftaran.put(2, pendaftaran{ID: 2, SiswaID: 2, SekolahID: SeedSekolahSMP, PeriodeJalurID: SeedPeriodeJalur, JarakLurus: 1.5, JarakRute: 2.0, Terverifikasi: true, Status: pengumuman.StatusPendaftaran})
	d.pendaftaran.put(3, pendaftaran{ID: 3, SiswaID: 4, SekolahID: SeedSekolahSMP, PeriodeJalurID: SeedPeriodeJalur, JarakLurus: 3.2, JarakRute: 4.6, Status: pengumuman.StatusPendaftaran})
	return d
}

func newSekolah(id int64, nama, npsn string, jenjang int64, dayaTampung int) sekolah.Sekolah {
	return sekolah.Sekolah{
		SekolahID: id, SekolahNama: nama, NPSN: &npsn, JenjangSekolahID: jenjang,
		DesaID: SeedDesa, KecamatanID: 510201, KabupatenID: tabanan, ProvinsiID: 51,
		JumlahKelas: max(1, dayaTampung/28), TotalDayaTampung: dayaTampung,
		Lintang: -8.54, Bujur: 115.12,
	}
}

func newSiswa(id int64, nama, nisn string, sekolahAsal int64, banjarID *int64) siswa.Siswa {
	return siswa.Siswa{
		SiswaID: id, Nama: nama, NISN: nisn, SekolahAsalID: &sekolahAsal, BanjarID: banjarID,
		TempatLahir: "Tabanan", TanggalLahir: "2013-04-17", JenisKelamin: siswa.LakiLaki,
	}
}

func wilayahOf[T any](rows []region, parent int64, build func(region) T) []T {
	out := []T{}
	for _, r := range rows {
		if parent < 0 || r.parent == parent {
			out = append(out, build(r))
		}
	}
	return out
}

func toProvinsi(r region) wilayah.Provinsi   { return wilayah.Provinsi{ProvinsiID: r.id, ProvinsiNama: r.nama} }
func toKabupaten(r region) wilayah.Kabupaten { return wilayah.Kabupaten{KabupatenID: r.id, KabupatenNama: r.nama} }
func toKecamatan(r region) wilayah.Kecamatan { return wilayah.Kecamatan{KecamatanID: r.id, KecamatanNama: r.nama} }
func toDesa(r region) wilayah.Desa           { return wilayah.Desa{DesaID: r.id, DesaNama: r.nama} }
func toBanjar(r region) wilayah.Banjar       { return wilayah.Banjar{BanjarID: r.id, BanjarNama: r.nama} }
