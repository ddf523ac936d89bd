package config

import "time"

type HTTPConfig interface {
	GetRequestTimeout() time.Duration
	GetRequestsPerSecond() float64
	GetRequestBurst() int
}

type HTTP struct {
	file *FileConfig
}

var _ HTTPConfig = HTTP{}

func (h HTTP) GetRequestTimeout() time.Duration {
	return GetDurationEnv("REQUEST_TIMEOUT", h.file.duration(h.file.http().RequestTimeout, 30*time.Second))
}

// GetRequestsPerSecond limits outgoing requests per service client. Zero disables limiting.
func (h HTTP) GetRequestsPerSecond() float64 {
	return GetFloatEnv("REQUESTS_PER_SECOND", h.file.http().RequestsPerSecond)
}

func (h HTTP) GetRequestBurst() int {
	def := h.file.http().RequestBurst
	if def <= 0 {
		def = 10
	}
	return GetIntEnv("REQUEST_BURST", def)
}
