package config

import (
	"sort"
	"strings"
)

// ServiceName identifies one of the backend services the client talks to.
type ServiceName string

const (
	ServiceAuth        ServiceName = "auth"
	ServiceSiswa       ServiceName = "siswa"
	ServiceWilayah     ServiceName = "wilayah"
	ServiceSekolah     ServiceName = "sekolah"
	ServiceDokumen     ServiceName = "dokumen"
	ServicePendaftaran ServiceName = "pendaftaran"
	ServicePeriode     ServiceName = "periode"
	ServicePengumuman  ServiceName = "pengumuman"
)

// AllServices lists every known backend service.
var AllServices = []ServiceName{
	ServiceAuth,
	ServiceSiswa,
	ServiceWilayah,
	ServiceSekolah,
	ServiceDokumen,
	ServicePendaftaran,
	ServicePeriode,
	ServicePengumuman,
}

var defaultServiceURLs = ServiceURLs{
	ServiceAuth:        "https://auth-service-371797359815.asia-southeast2.run.app",
	ServiceSiswa:       "https://siswa-service-371797359815.asia-southeast2.run.app",
	ServiceWilayah:     "https://wilayah-service-371797359815.asia-southeast2.run.app",
	ServiceSekolah:     "https://sekolah-service-371797359815.asia-southeast2.run.app",
	ServiceDokumen:     "https://dokumen-service-371797359815.asia-southeast2.run.app",
	ServicePendaftaran: "https://pendaftaran-service-371797359815.asia-southeast2.run.app",
	ServicePeriode:     "https://periode-service-371797359815.asia-southeast2.run.app",
	ServicePengumuman:  "https://pengumuman-service-371797359815.asia-southeast2.run.app",
}

type ServicesConfig interface {
	GetServiceURLs() ServiceURLs
}

// ServiceURLs maps a service to its base URL.
type ServiceURLs map[ServiceName]string

func (s ServiceURLs) Lookup(name ServiceName) (string, bool) {
	u, ok := s[name]
	return u, ok && u != ""
}

func (s ServiceURLs) String() string {
	var entries []string
	for k, v := range s {
		entries = append(entries, string(k)+"="+v)
	}
	sort.Strings(entries)
	return strings.Join(entries, ", ")
}

// EnvVarName is the variable overriding a service URL, e.g. AUTH_SERVICE.
func (n ServiceName) EnvVarName() string {
	return strings.ToUpper(string(n)) + "_SERVICE"
}

type Services struct {
	file *FileConfig
}

var _ ServicesConfig = Services{}

// GetServiceURLs resolves every known service: env var, then config file, then default.
func (s Services) GetServiceURLs() ServiceURLs {
	urls := make(ServiceURLs, len(AllServices))
	for _, name := range AllServices {
		def := defaultServiceURLs[name]
		if s.file != nil {
			if u, ok := s.file.Services[string(name)]; ok && u != "" {
				def = u
			}
		}
		urls[name] = strings.TrimRight(GetEnv(name.EnvVarName(), def), "/")
	}
	return urls
}
