package wilayah

type Provinsi struct {
	ProvinsiID   int64  `json:"provinsi_id"`
	ProvinsiNama string `json:"provinsi_nama"`
}

type Kabupaten struct {
	KabupatenID   int64  `json:"kabupaten_id"`
	KabupatenNama string `json:"kabupaten_nama"`
}

type Kecamatan struct {
	KecamatanID   int64  `json:"kecamatan_id"`
	KecamatanNama string `json:"kecamatan_nama"`
}

type Desa struct {
	DesaID   int64  `json:"desa_id"`
	DesaNama string `json:"desa_nama"`
}

// Banjar is the neighbourhood unit zones are built from.
type Banjar struct {
	BanjarID   int64  `json:"banjar_id"`
	BanjarNama string `json:"banjar_nama"`
}
