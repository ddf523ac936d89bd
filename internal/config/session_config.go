package config

import "time"

type SessionConfig interface {
	GetRefreshLeadTime() time.Duration
	GetRefreshTimeout() time.Duration
}

type Session struct {
	file *FileConfig
}

var _ SessionConfig = Session{}

// GetRefreshLeadTime is how long before expiry the proactive refresh fires.
func (s Session) GetRefreshLeadTime() time.Duration {
	return GetDurationEnv("REFRESH_LEAD_TIME", s.file.duration(s.file.session().RefreshLeadTime, 60*time.Second))
}

// GetRefreshTimeout bounds a single call to the refresh endpoint.
func (s Session) GetRefreshTimeout() time.Duration {
	return GetDurationEnv("REFRESH_TIMEOUT", s.file.duration(s.file.session().RefreshTimeout, 15*time.Second))
}
