package fakebackend

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-zonasi-client/internal/utils"
	"github.com/jrsteele09/go-zonasi-client/pengumuman"
	"github.com/jrsteele09/go-zonasi-client/periode"
	"github.com/jrsteele09/go-zonasi-client/sekolah"
	"github.com/jrsteele09/go-zonasi-client/siswa"
	"github.com/jrsteele09/go-zonasi-client/wilayah"
)

func (b *Backend) initDomainRoutes(protected ...func(http.HandlerFunc) http.HandlerFunc) {
	r := b.router
	handle := func(path string, h http.HandlerFunc, method string) {
		r.HandleFunc(path, ChainMiddleware(h, protected...)).Methods(method)
	}

	handle("/siswa/agama", b.lookupHandler(agama), http.MethodGet)
	handle("/siswa/pekerjaan", b.lookupHandler(pekerjaan), http.MethodGet)
	handle("/siswa/penghasilan", b.lookupHandler(penghasilan), http.MethodGet)
	handle("/siswa/sekolah/{id:[0-9]+}", b.siswaBySekolahHandler(), http.MethodGet)
	handle("/siswa/total/{id:[0-9]+}", b.siswaTotalHandler(), http.MethodGet)
	handle("/siswa/status/{id:[0-9]+}/{pj:[0-9]+}", b.siswaStatusHandler(), http.MethodGet)
	handle("/siswa/{pj:[0-9]+}/{id:[0-9]+}", b.siswaWithStatusHandler(), http.MethodGet)
	handle("/siswa/{id:[0-9]+}", b.getSiswaHandler(), http.MethodGet)
	handle("/siswa/{id:[0-9]+}", b.updateSiswaHandler(), http.MethodPut)
	handle("/siswa/{id:[0-9]+}", b.deleteSiswaHandler(), http.MethodDelete)

	handle("/sekolah/{jenis:sd|smp}", b.listSekolahHandler(), http.MethodGet)
	handle("/sekolah/kuota-sekolah/periode/{id:[0-9]+}", b.kuotaByPeriodeHandler(), http.MethodGet)
	handle("/sekolah/kuota-sekolah/{id:[0-9]+}", b.patchKuotaHandler(), http.MethodPatch)
	handle("/sekolah/kuota-sekolah/{id:[0-9]+}", b.replaceKuotaHandler(), http.MethodPut)
	handle("/sekolah/zonasi", b.createZonasiHandler(), http.MethodPost)
	handle("/sekolah/zonasi", b.listZonasiHandler(), http.MethodGet)
	handle("/sekolah/zonasi/{id:[0-9]+}", b.updateZonasiHandler(), http.MethodPut)
	handle("/sekolah/zonasi/{id:[0-9]+}", b.deleteZonasiHandler(), http.MethodDelete)
	handle("/sekolah/{id:[0-9]+}", b.getSekolahHandler(), http.MethodGet)
	handle("/sekolah/{id:[0-9]+}", b.updateSekolahHandler(), http.MethodPut)
	handle("/sekolah/{id:[0-9]+}", b.deleteSekolahHandler(), http.MethodDelete)

	handle("/periode/periode", b.createPeriodeHandler(), http.MethodPost)
	handle("/periode/periode", b.listPeriodeHandler(), http.MethodGet)
	handle("/periode/periode/{id:[0-9]+}", b.updatePeriodeHandler(), http.MethodPut)
	handle("/periode/periode/{id:[0-9]+}", b.deletePeriodeHandler(), http.MethodDelete)
	handle("/periode/periode-jalur", b.createJalurHandler(), http.MethodPost)
	handle("/periode/periode-jalur/{id:[0-9]+}", b.listJalurHandler(), http.MethodGet)
	handle("/periode/periode-jalur/{id:[0-9]+}", b.updateJalurHandler(), http.MethodPut)
	handle("/periode/periode-jalur/{id:[0-9]+}", b.deleteJalurHandler(), http.MethodDelete)
	handle("/periode/jadwal", b.createJadwalHandler(), http.MethodPost)
	handle("/periode/jadwal/status/{id:[0-9]+}", b.jadwalStatusHandler(), http.MethodPatch)
	handle("/periode/jadwal/{id:[0-9]+}", b.listJadwalHandler(), http.MethodGet)
	handle("/periode/jadwal/{id:[0-9]+}", b.updateJadwalHandler(), http.MethodPut)
	handle("/periode/jadwal/{id:[0-9]+}", b.deleteJadwalHandler(), http.MethodDelete)
	handle("/periode/jalur", b.lookupHandler(jalurOptions), http.MethodGet)
	handle("/periode/tahapan", b.lookupHandler(tahapan), http.MethodGet)

	handle("/pengumuman/set-kelulusan", b.setKelulusanHandler(), http.MethodPost)
	handle("/pengumuman/kuota-pendaftar", b.kuotaPendaftarHandler(), http.MethodGet)
	handle("/pengumuman/kelulusan/{id:[0-9]+}", b.kelulusanHandler(), http.MethodGet)
	handle("/pengumuman/dashboard-sd/{id:[0-9]+}", b.dashboardSDHandler(), http.MethodGet)
	handle("/pengumuman/dashboard-smp/{id:[0-9]+}", b.dashboardSMPHandler(), http.MethodGet)
	handle("/pengumuman/dashboard-dinas/{pj:[0-9]+}", b.dashboardDinasHandler(), http.MethodGet)
	handle("/pengumuman/pendaftar-per-sekolah/{pj:[0-9]+}", b.pendaftarPerSekolahHandler(), http.MethodGet)
	handle("/pengumuman/zonasi/{id:[0-9]+}", b.pendaftaranZonasiHandler(), http.MethodGet)
	handle("/pengumuman/laporan-pendaftaran", b.laporanHandler(), http.MethodGet)

	handle("/wilayah/provinsi", b.lookupHandler(wilayahOf(provinsi, -1, toProvinsi)), http.MethodGet)
	handle("/wilayah/kabupaten/{id:[0-9]+}", b.served(regionHandler(kabupaten, toKabupaten)), http.MethodGet)
	handle("/wilayah/kecamatan/{id:[0-9]+}", b.served(regionHandler(kecamatan, toKecamatan)), http.MethodGet)
	handle("/wilayah/desa/tabanan", b.desaTabananHandler(), http.MethodGet)
	handle("/wilayah/desa/{id:[0-9]+}", b.served(regionHandler(desa, toDesa)), http.MethodGet)
	handle("/wilayah/banjar/{id:[0-9]+}", b.served(regionHandler(banjar, toBanjar)), http.MethodGet)
}

// AddSiswa stores a student biodata record, replacing any with the same id.
func (b *Backend) AddSiswa(s siswa.Siswa) {
	b.data.siswa.put(s.SiswaID, s)
}

// AddPendaftaran registers a student at a school for a periode jalur and returns its id.
func (b *Backend) AddPendaftaran(siswaID, sekolahID, periodeJalurID int64, jarak float64) int64 {
	p := b.data.pendaftaran.insert(func(id int64) pendaftaran {
		return pendaftaran{ID: id, SiswaID: siswaID, SekolahID: sekolahID, PeriodeJalurID: periodeJalurID, JarakLurus: jarak, JarakRute: jarak, Status: pengumuman.StatusPendaftaran}
	})
	return p.ID
}

// DomainCalls counts requests that reached a siswa, sekolah, periode, pengumuman or wilayah handler.
func (b *Backend) DomainCalls() int { return int(b.domainCalls.Load()) }

func (b *Backend) served(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.domainCalls.Add(1)
		h(w, r)
	}
}

func (b *Backend) lookupHandler(rows any) http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, rows)
	})
}

func regionHandler[T any](rows []region, build func(region) T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, wilayahOf(rows, pathID(r, "id"), build))
	}
}

func (b *Backend) desaTabananHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		out := []wilayah.Desa{}
		for _, k := range kecamatan {
			if k.parent == tabanan {
				out = append(out, wilayahOf(desa, k.id, toDesa)...)
			}
		}
		writeData(w, http.StatusOK, out)
	})
}

func (b *Backend) getSiswaHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		s, ok := b.data.siswa.get(pathID(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Siswa tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, s)
	})
}

func (b *Backend) updateSiswaHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		var req siswa.Siswa
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Nama) == "" {
			writeValidation(w, "Data siswa tidak valid", map[string]string{"nama": "required"})
			return
		}
		if _, ok := b.data.siswa.get(id); !ok {
			writeError(w, http.StatusNotFound, "Siswa tidak ditemukan")
			return
		}
		req.SiswaID = id
		b.data.siswa.put(id, req)
		writeData(w, http.StatusOK, req)
	})
}

func (b *Backend) deleteSiswaHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		if !b.data.siswa.remove(id) {
			writeError(w, http.StatusNotFound, "Siswa tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, siswa.Ref{SiswaID: id})
	})
}

func (b *Backend) siswaOf(sekolahID int64, nama string) []siswa.Siswa {
	nama = strings.ToLower(nama)
	return b.data.siswa.list(func(s siswa.Siswa) bool {
		return s.SekolahAsalID != nil && *s.SekolahAsalID == sekolahID && strings.Contains(strings.ToLower(s.Nama), nama)
	})
}

func (b *Backend) siswaBySekolahHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var rows []siswa.Summary
		for _, s := range b.siswaOf(pathID(r, "id"), r.URL.Query().Get("nama")) {
			rows = append(rows, siswa.Summary{SiswaID: s.SiswaID, Nama: s.Nama, NISN: s.NISN})
		}
		writePage(w, r, rows)
	})
}

func (b *Backend) siswaTotalHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, len(b.siswaOf(pathID(r, "id"), "")))
	})
}

func (b *Backend) registrationOf(siswaID, periodeJalurID int64) (pendaftaran, bool) {
	rows := b.data.pendaftaran.list(func(p pendaftaran) bool {
		return p.SiswaID == siswaID && p.PeriodeJalurID == periodeJalurID
	})
	if len(rows) == 0 {
		return pendaftaran{}, false
	}
	return rows[0], true
}

func (b *Backend) statusOf(s siswa.Siswa, periodeJalurID int64) siswa.Status {
	p, registered := b.registrationOf(s.SiswaID, periodeJalurID)
	st := siswa.Status{
		SiswaID:      s.SiswaID,
		WilayahFull:  s.BanjarID != nil,
		DokumenFull:  registered && p.Terverifikasi,
		DokumenValid: registered && p.Terverifikasi,
		Terdaftar:    registered,
		TanggalLahir: s.TanggalLahir,
		Lintang:      s.Lintang,
		Bujur:        s.Bujur,
	}
	if s.BanjarID != nil {
		st.BanjarID = *s.BanjarID
	}
	return st
}

func (b *Backend) siswaStatusHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		s, ok := b.data.siswa.get(pathID(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Siswa tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, b.statusOf(s, pathID(r, "pj")))
	})
}

func (b *Backend) siswaWithStatusHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		pj := pathID(r, "pj")
		var rows []siswa.WithStatus
		for _, s := range b.siswaOf(pathID(r, "id"), "") {
			st := b.statusOf(s, pj)
			row := siswa.WithStatus{
				Summary:         siswa.Summary{SiswaID: s.SiswaID, Nama: s.Nama, NISN: s.NISN},
				WilayahFull:     st.WilayahFull,
				DokumenFull:     st.DokumenFull,
				AllDokumenValid: st.DokumenValid,
				StatusDaftar:    "BELUM_DAFTAR",
				BanjarID:        st.BanjarID,
				TanggalLahir:    s.TanggalLahir,
			}
			if p, ok := b.registrationOf(s.SiswaID, pj); ok {
				row.PendaftaranID = utils.Ptr(p.ID)
				row.StatusDaftar = string(p.Status)
			}
			rows = append(rows, row)
		}
		writePage(w, r, rows)
	})
}

func (b *Backend) getSekolahHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		s, ok := b.data.sekolah.get(pathID(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Sekolah tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, s)
	})
}

func (b *Backend) updateSekolahHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		var req sekolah.Sekolah
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.SekolahNama) == "" {
			writeValidation(w, "Data sekolah tidak valid", map[string]string{"sekolah_nama": "required"})
			return
		}
		if _, ok := b.data.sekolah.get(id); !ok {
			writeError(w, http.StatusNotFound, "Sekolah tidak ditemukan")
			return
		}
		req.SekolahID = id
		b.data.sekolah.put(id, req)
		writeData(w, http.StatusOK, sekolah.Ref{SekolahID: id})
	})
}

func (b *Backend) deleteSekolahHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		if !b.data.sekolah.remove(id) {
			writeError(w, http.StatusNotFound, "Sekolah tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, sekolah.Ref{SekolahID: id})
	})
}

func (b *Backend) listSekolahHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		jenjang := jenjangSD
		if mux.Vars(r)["jenis"] == string(sekolah.JenisSMP) {
			jenjang = jenjangSMP
		}
		var rows []sekolah.Summary
		for _, s := range b.data.sekolah.list(func(s sekolah.Sekolah) bool { return s.JenjangSekolahID == jenjang }) {
			rows = append(rows, sekolah.Summary{SekolahID: s.SekolahID, SekolahNama: s.SekolahNama, NPSN: s.NPSN})
		}
		writePage(w, r, rows)
	})
}

func (b *Backend) kuotaByPeriodeHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		periodeID := pathID(r, "id")
		grouped := map[int64]*sekolah.KuotaSekolah{}
		var order []int64
		for _, k := range b.data.kuota.list(func(k kuotaRow) bool { return k.PeriodeID == periodeID }) {
			g, ok := grouped[k.SekolahID]
			if !ok {
				s, _ := b.data.sekolah.get(k.SekolahID)
				g = &sekolah.KuotaSekolah{PeriodeID: periodeID, SekolahID: k.SekolahID, SekolahNama: s.SekolahNama, NPSN: deref(s.NPSN)}
				grouped[k.SekolahID] = g
				order = append(order, k.SekolahID)
			}
			g.KuotaSekolah = append(g.KuotaSekolah, k.KuotaEntry)
		}
		rows := make([]sekolah.KuotaSekolah, 0, len(order))
		for _, id := range order {
			rows = append(rows, *grouped[id])
		}
		writePage(w, r, rows)
	})
}

func (b *Backend) patchKuotaHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Kuota *int `json:"kuota"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Kuota == nil || *req.Kuota < 0 {
			writeValidation(w, "Kuota tidak valid", map[string]string{"kuota": "must be zero or more"})
			return
		}
		k, ok := b.data.kuota.update(pathID(r, "id"), func(k *kuotaRow) { k.Kuota = *req.Kuota })
		if !ok {
			writeError(w, http.StatusNotFound, "Kuota sekolah tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, sekolah.UpdatedKuota{SekolahID: k.SekolahID, KuotaSekolahID: k.KuotaSekolahID, Kuota: k.Kuota})
	})
}

func (b *Backend) replaceKuotaHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		sekolahID := pathID(r, "id")
		var req sekolah.UpdateKuotaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PeriodeID == 0 {
			writeValidation(w, "Data kuota tidak valid", map[string]string{"periode_id": "required"})
			return
		}
		for _, u := range req.KuotaSekolah {
			k, ok := b.data.kuota.get(u.KuotaSekolahID)
			if !ok || k.SekolahID != sekolahID || k.PeriodeID != req.PeriodeID {
				writeValidation(w, "Kuota sekolah tidak ditemukan", map[string]string{"kuota_sekolah_id": strconv.FormatInt(u.KuotaSekolahID, 10)})
				return
			}
		}
		for _, u := range req.KuotaSekolah {
			b.data.kuota.update(u.KuotaSekolahID, func(k *kuotaRow) { k.Kuota = u.Kuota })
		}
		writeData(w, http.StatusOK, map[string]any{"periode_id": req.PeriodeID, "sekolah_id": sekolahID, "kuota_sekolah": req.KuotaSekolah})
	})
}

// zonasiFor resolves the names of a zone assignment, or reports which field is unknown.
func (b *Backend) zonasiFor(id int64, req sekolah.ZonasiRequest) (sekolah.Zonasi, string) {
	s, ok := b.data.sekolah.get(req.SekolahID)
	if !ok {
		return sekolah.Zonasi{}, "sekolah_id"
	}
	i := slices.IndexFunc(banjar, func(r region) bool { return r.id == req.BanjarID })
	if i < 0 {
		return sekolah.Zonasi{}, "banjar_id"
	}
	z := sekolah.Zonasi{
		ZonasiID: id, SekolahID: s.SekolahID, BanjarID: req.BanjarID, SekolahNama: s.SekolahNama,
		NPSN: deref(s.NPSN), BanjarNama: banjar[i].nama, DesaID: banjar[i].parent,
	}
	if j := slices.IndexFunc(desa, func(r region) bool { return r.id == z.DesaID }); j >= 0 {
		z.DesaNama = desa[j].nama
	}
	return z, ""
}

func (b *Backend) createZonasiHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req sekolah.ZonasiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		if _, field := b.zonasiFor(0, req); field != "" {
			writeValidation(w, "Data zonasi tidak valid", map[string]string{field: "unknown"})
			return
		}
		z := b.data.zonasi.insert(func(id int64) sekolah.Zonasi {
			z, _ := b.zonasiFor(id, req)
			return z
		})
		writeData(w, http.StatusCreated, z)
	})
}

func (b *Backend) listZonasiHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		sekolahID, _ := strconv.ParseInt(r.URL.Query().Get("sekolah_id"), 10, 64)
		writePage(w, r, b.data.zonasi.list(func(z sekolah.Zonasi) bool {
			return sekolahID == 0 || z.SekolahID == sekolahID
		}))
	})
}

func (b *Backend) updateZonasiHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		var req sekolah.ZonasiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		if _, ok := b.data.zonasi.get(id); !ok {
			writeError(w, http.StatusNotFound, "Zonasi tidak ditemukan")
			return
		}
		z, field := b.zonasiFor(id, req)
		if field != "" {
			writeValidation(w, "Data zonasi tidak valid", map[string]string{field: "unknown"})
			return
		}
		b.data.zonasi.put(id, z)
		writeData(w, http.StatusOK, z)
	})
}

func (b *Backend) deleteZonasiHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		if !b.data.zonasi.remove(id) {
			writeError(w, http.StatusNotFound, "Zonasi tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, sekolah.ZonasiRef{ZonasiID: id})
	})
}

func (b *Backend) createPeriodeHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req periode.CreatePeriodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NamaPeriode == "" {
			writeValidation(w, "Data periode tidak valid", map[string]string{"nama_periode": "required"})
			return
		}
		p := b.data.periode.insert(func(id int64) periode.Periode {
			return periode.Periode{PeriodeID: id, NamaPeriode: req.NamaPeriode, WaktuMulai: req.WaktuMulai, WaktuSelesai: req.WaktuSelesai}
		})
		writeData(w, http.StatusCreated, p)
	})
}

func (b *Backend) listPeriodeHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		writePage(w, r, b.data.periode.list(nil))
	})
}

func (b *Backend) updatePeriodeHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req periode.CreatePeriodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NamaPeriode == "" {
			writeValidation(w, "Data periode tidak valid", map[string]string{"nama_periode": "required"})
			return
		}
		p, ok := b.data.periode.update(pathID(r, "id"), func(p *periode.Periode) {
			p.NamaPeriode, p.WaktuMulai, p.WaktuSelesai = req.NamaPeriode, req.WaktuMulai, req.WaktuSelesai
		})
		if !ok {
			writeError(w, http.StatusNotFound, "Periode tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, p)
	})
}

func (b *Backend) deletePeriodeHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		if !b.data.periode.remove(id) {
			writeError(w, http.StatusNotFound, "Periode tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, periode.Ref{PeriodeID: id})
	})
}

func jalurNama(jalurID int64) (string, bool) {
	i := slices.IndexFunc(jalurOptions, func(j periode.JalurOption) bool { return j.JalurID == jalurID })
	if i < 0 {
		return "", false
	}
	return jalurOptions[i].JalurNama, true
}

func (b *Backend) createJalurHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req periode.JalurRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		if _, ok := b.data.periode.get(req.PeriodeID); !ok {
			writeValidation(w, "Periode tidak ditemukan", map[string]string{"periode_id": "unknown"})
			return
		}
		nama, ok := jalurNama(req.JalurID)
		if !ok {
			writeValidation(w, "Jalur tidak ditemukan", map[string]string{"jalur_id": "unknown"})
			return
		}
		j := b.data.periodeJalur.insert(func(id int64) periode.Jalur {
			return periode.Jalur{
				PeriodeJalurID: id, PeriodeID: req.PeriodeID, JalurID: req.JalurID, JalurNama: nama,
				WaktuMulai: req.WaktuMulai, WaktuSelesai: req.WaktuSelesai, MetodeRanking: req.MetodeRanking,
			}
		})
		writeData(w, http.StatusCreated, j)
	})
}

func (b *Backend) listJalurHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		periodeID := pathID(r, "id")
		writeData(w, http.StatusOK, b.data.periodeJalur.list(func(j periode.Jalur) bool { return j.PeriodeID == periodeID }))
	})
}

func (b *Backend) updateJalurHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req periode.JalurRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		if req.PeriodeID != 0 {
			writeValidation(w, "Periode tidak dapat diubah", map[string]string{"periode_id": "not allowed"})
			return
		}
		nama, ok := jalurNama(req.JalurID)
		if !ok {
			writeValidation(w, "Jalur tidak ditemukan", map[string]string{"jalur_id": "unknown"})
			return
		}
		j, ok := b.data.periodeJalur.update(pathID(r, "id"), func(j *periode.Jalur) {
			j.JalurID, j.JalurNama, j.MetodeRanking = req.JalurID, nama, req.MetodeRanking
			j.WaktuMulai, j.WaktuSelesai = req.WaktuMulai, req.WaktuSelesai
		})
		if !ok {
			writeError(w, http.StatusNotFound, "Periode jalur tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, j)
	})
}

func (b *Backend) deleteJalurHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		if !b.data.periodeJalur.remove(id) {
			writeError(w, http.StatusNotFound, "Periode jalur tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, periode.JalurRef{PeriodeJalurID: id})
	})
}

func tahapanNama(tahapanID int64) (string, bool) {
	i := slices.IndexFunc(tahapan, func(t periode.Tahapan) bool { return t.TahapanID == tahapanID })
	if i < 0 {
		return "", false
	}
	return tahapan[i].TahapanNama, true
}

func (b *Backend) createJadwalHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req periode.JadwalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		if _, ok := b.data.periodeJalur.get(req.PeriodeJalurID); !ok {
			writeValidation(w, "Periode jalur tidak ditemukan", map[string]string{"periode_jalur_id": "unknown"})
			return
		}
		nama, ok := tahapanNama(req.TahapanID)
		if !ok {
			writeValidation(w, "Tahapan tidak ditemukan", map[string]string{"tahapan_id": "unknown"})
			return
		}
		j := b.data.jadwal.insert(func(id int64) periode.Jadwal {
			return periode.Jadwal{
				JadwalID: id, PeriodeJalurID: req.PeriodeJalurID, TahapanID: req.TahapanID, TahapanNama: nama,
				WaktuMulai: req.WaktuMulai, WaktuSelesai: req.WaktuSelesai,
			}
		})
		writeData(w, http.StatusCreated, j)
	})
}

func (b *Backend) listJadwalHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		pj := pathID(r, "id")
		writeData(w, http.StatusOK, b.data.jadwal.list(func(j periode.Jadwal) bool { return j.PeriodeJalurID == pj }))
	})
}

func (b *Backend) updateJadwalHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req periode.JadwalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		nama, ok := tahapanNama(req.TahapanID)
		if !ok {
			writeValidation(w, "Tahapan tidak ditemukan", map[string]string{"tahapan_id": "unknown"})
			return
		}
		j, ok := b.data.jadwal.update(pathID(r, "id"), func(j *periode.Jadwal) {
			j.TahapanID, j.TahapanNama = req.TahapanID, nama
			j.WaktuMulai, j.WaktuSelesai = req.WaktuMulai, req.WaktuSelesai
		})
		if !ok {
			writeError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, j)
	})
}

func (b *Backend) deleteJadwalHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		if !b.data.jadwal.remove(id) {
			writeError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, periode.JadwalRef{JadwalID: id})
	})
}

func (b *Backend) jadwalStatusHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IsClosed *int `json:"is_closed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsClosed == nil || (*req.IsClosed != 0 && *req.IsClosed != 1) {
			writeValidation(w, "Status jadwal tidak valid", map[string]string{"is_closed": "must be 0 or 1"})
			return
		}
		j, ok := b.data.jadwal.update(pathID(r, "id"), func(j *periode.Jadwal) { j.IsClosed = *req.IsClosed })
		if !ok {
			writeError(w, http.StatusNotFound, "Jadwal tidak ditemukan")
			return
		}
		writeData(w, http.StatusOK, j)
	})
}

func (b *Backend) registrations(keep func(pendaftaran) bool) []pendaftaran {
	return b.data.pendaftaran.list(keep)
}

// setKelulusanHandler accepts the closest applicants up to the school's capacity.
func (b *Backend) setKelulusanHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		var req pengumuman.SetKelulusanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Request tidak valid")
			return
		}
		s, ok := b.data.sekolah.get(req.SekolahID)
		if !ok {
			writeError(w, http.StatusNotFound, "Sekolah tidak ditemukan")
			return
		}
		rows := b.registrations(func(p pendaftaran) bool {
			return p.SekolahID == req.SekolahID && p.PeriodeJalurID == req.PeriodeJalurID
		})
		slices.SortStableFunc(rows, func(a, c pendaftaran) int { return cmp.Compare(a.JarakLurus, c.JarakLurus) })
		for i, p := range rows {
			status := pengumuman.StatusTidakLulus
			if i < s.TotalDayaTampung {
				status = pengumuman.StatusLulus
			}
			b.data.pendaftaran.update(p.ID, func(p *pendaftaran) { p.Status = status })
		}
		writeData(w, http.StatusOK, pengumuman.SetKelulusanResult{Count: len(rows)})
	})
}

func (b *Backend) kuotaPendaftarHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		periodeID, _ := strconv.ParseInt(r.URL.Query().Get("periode_id"), 10, 64)
		pj, _ := strconv.ParseInt(r.URL.Query().Get("periode_jalur_id"), 10, 64)
		var rows []pengumuman.KuotaPendaftar
		for _, s := range b.data.sekolah.list(func(s sekolah.Sekolah) bool { return s.JenjangSekolahID == jenjangSMP }) {
			row := pengumuman.KuotaPendaftar{SekolahID: s.SekolahID, SekolahNama: s.SekolahNama, NPSN: deref(s.NPSN)}
			row.TotalPendaftar = len(b.registrations(func(p pendaftaran) bool { return p.SekolahID == s.SekolahID && p.PeriodeJalurID == pj }))
			for _, k := range b.data.kuota.list(func(k kuotaRow) bool { return k.SekolahID == s.SekolahID && k.PeriodeID == periodeID }) {
				row.Kuota += k.Kuota
			}
			rows = append(rows, row)
		}
		writePage(w, r, rows)
	})
}

func (b *Backend) kelulusanHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		sekolahID := pathID(r, "id")
		pj, _ := strconv.ParseInt(r.URL.Query().Get("periode_jalur_id"), 10, 64)
		var rows []pengumuman.Kelulusan
		for _, p := range b.registrations(func(p pendaftaran) bool { return p.SekolahID == sekolahID && p.PeriodeJalurID == pj }) {
			s, _ := b.data.siswa.get(p.SiswaID)
			row := pengumuman.Kelulusan{PendaftaranID: p.ID, SiswaID: p.SiswaID, Nama: s.Nama, NISN: s.NISN, StatusKelulusan: p.Status}
			if s.SekolahAsalID != nil {
				asal, _ := b.data.sekolah.get(*s.SekolahAsalID)
				row.SekolahAsalID, row.SekolahAsalNama = asal.SekolahID, asal.SekolahNama
			}
			rows = append(rows, row)
		}
		writePage(w, r, rows)
	})
}

func (b *Backend) dashboardSDHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		sekolahID := pathID(r, "id")
		pj, _ := strconv.ParseInt(r.URL.Query().Get("periode_jalur_id"), 10, 64)
		var d pengumuman.DashboardSD
		b.mu.Lock()
		d.TotalUser = len(b.students[sekolahID])
		b.mu.Unlock()
		for _, s := range b.siswaOf(sekolahID, "") {
			d.TotalSiswa++
			if s.BanjarID == nil {
				d.TotalBiodataBelumLengkap++
			}
			p, ok := b.registrationOf(s.SiswaID, pj)
			if !ok {
				d.TotalDokumenBelumLengkap++
				continue
			}
			d.TotalTerdaftar++
			if p.Terverifikasi {
				d.TotalTerverifikasi++
			} else {
				d.TotalBelumTerverifikasi++
			}
			if p.Status == pengumuman.StatusLulus {
				d.TotalLulus++
			}
		}
		writeData(w, http.StatusOK, d)
	})
}

func (b *Backend) dashboardSMPHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		sekolahID := pathID(r, "id")
		pj, _ := strconv.ParseInt(r.URL.Query().Get("periode_jalur_id"), 10, 64)
		var d pengumuman.DashboardSMP
		for _, p := range b.registrations(func(p pendaftaran) bool { return p.SekolahID == sekolahID && p.PeriodeJalurID == pj }) {
			d.TotalSiswaTerdaftar++
			if p.Terverifikasi {
				d.TotalTerverifikasi++
			} else {
				d.TotalBelumTerverifikasi++
			}
			if p.Status == pengumuman.StatusLulus {
				d.TotalLulus++
			}
		}
		writeData(w, http.StatusOK, d)
	})
}

func (b *Backend) dashboardDinasHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		pj := pathID(r, "pj")
		d := pengumuman.DashboardDinas{TotalSiswa: len(b.data.siswa.list(nil))}
		for _, s := range b.data.sekolah.list(nil) {
			switch s.JenjangSekolahID {
			case jenjangSD:
				d.TotalSekolahSD++
			case jenjangSMP:
				d.TotalSekolahSMP++
			}
		}
		for _, p := range b.registrations(func(p pendaftaran) bool { return p.PeriodeJalurID == pj }) {
			d.TotalTerdaftar++
			if p.Terverifikasi {
				d.TotalTerverifikasi++
			} else {
				d.TotalBelumTerverifikasi++
			}
			switch p.Status {
			case pengumuman.StatusLulus:
				d.TotalLulus++
			case pengumuman.StatusTidakLulus:
				d.TotalTidakLulus++
			}
		}
		writeData(w, http.StatusOK, d)
	})
}

func (b *Backend) pendaftarPerSekolahHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		pj := pathID(r, "pj")
		rows := []pengumuman.PendaftarPerSekolah{}
		for _, s := range b.data.sekolah.list(nil) {
			n := len(b.registrations(func(p pendaftaran) bool { return p.SekolahID == s.SekolahID && p.PeriodeJalurID == pj }))
			if n > 0 {
				rows = append(rows, pengumuman.PendaftarPerSekolah{SekolahID: s.SekolahID, SekolahNama: s.SekolahNama, TotalPendaftar: n})
			}
		}
		writeData(w, http.StatusOK, rows)
	})
}

func (b *Backend) pendaftaranZonasiHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		periodeID := pathID(r, "id")
		var rows []pengumuman.PendaftaranZonasi
		for _, p := range b.registrations(func(p pendaftaran) bool {
			j, ok := b.data.periodeJalur.get(p.PeriodeJalurID)
			return ok && j.PeriodeID == periodeID
		}) {
			rows = append(rows, b.zonasiRow(p))
		}
		slices.SortStableFunc(rows, func(a, c pengumuman.PendaftaranZonasi) int { return cmp.Compare(a.JarakLurus, c.JarakLurus) })
		writePage(w, r, rows)
	})
}

func (b *Backend) zonasiRow(p pendaftaran) pengumuman.PendaftaranZonasi {
	s, _ := b.data.siswa.get(p.SiswaID)
	tujuan, _ := b.data.sekolah.get(p.SekolahID)
	row := pengumuman.PendaftaranZonasi{
		PendaftaranID: p.ID, SekolahID: p.SekolahID, SekolahNama: tujuan.SekolahNama,
		SiswaID: p.SiswaID, SiswaNama: s.Nama, NISN: s.NISN,
		JarakLurus: p.JarakLurus, JarakRute: p.JarakRute, Status: "BELUM_TERVERIFIKASI", StatusKelulusan: string(p.Status),
	}
	if p.Terverifikasi {
		row.Status = "TERVERIFIKASI"
	}
	if s.SekolahAsalID != nil {
		asal, _ := b.data.sekolah.get(*s.SekolahAsalID)
		row.SekolahAsalNama = asal.SekolahNama
	}
	return row
}

// laporanHandler serves the report as CSV under the spreadsheet media type.
func (b *Backend) laporanHandler() http.HandlerFunc {
	return b.served(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		pj, _ := strconv.ParseInt(q.Get("periode_jalur_id"), 10, 64)
		sekolahID, _ := strconv.ParseInt(q.Get("sekolah_id"), 10, 64)
		status := pengumuman.StatusKelulusan(q.Get("status_kelulusan"))

		var sb strings.Builder
		sb.WriteString("pendaftaran_id,siswa_nama,nisn,sekolah_nama,status_kelulusan\n")
		for _, p := range b.registrations(func(p pendaftaran) bool {
			return (pj == 0 || p.PeriodeJalurID == pj) && (sekolahID == 0 || p.SekolahID == sekolahID) && (status == "" || p.Status == status)
		}) {
			row := b.zonasiRow(p)
			fmt.Fprintf(&sb, "%d,%s,%s,%s,%s\n", row.PendaftaranID, row.SiswaNama, row.NISN, row.SekolahNama, row.StatusKelulusan)
		}
		w.Header().Set("Content-Type", pengumuman.SpreadsheetContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sb.String()))
	})
}

func pathID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	return id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// writePage writes one page of rows with its pagination meta.
func writePage[T any](w http.ResponseWriter, r *http.Request, rows []T) {
	if rows == nil {
		rows = []T{}
	}
	page, meta := paginate(r, len(rows))
	writeJSON(w, http.StatusOK, map[string]any{"data": rows[page[0]:page[1]], "meta": meta})
}
