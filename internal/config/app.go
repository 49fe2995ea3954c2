package config

import "time"

const (
	defaultDebounceMillis      = 500
	defaultTableYears          = 10
	defaultWriteTimeoutSeconds = 10
	defaultTimezone            = "Asia/Tokyo"
)

type AppConfig struct {
	DebounceMillis      int64  `yaml:"debounce-millis"`
	Timezone            string `yaml:"timezone"`
	DefaultTableYears   int    `yaml:"table-years"`
	WriteTimeoutSeconds int64  `yaml:"write-timeout-seconds"`
}

func (s *AppConfig) fillDefaults() {
	if s.DebounceMillis <= 0 {
		s.DebounceMillis = defaultDebounceMillis
	}
	if s.Timezone == "" {
		s.Timezone = defaultTimezone
	}
	if s.DefaultTableYears <= 0 {
		s.DefaultTableYears = defaultTableYears
	}
	if s.WriteTimeoutSeconds <= 0 {
		s.WriteTimeoutSeconds = defaultWriteTimeoutSeconds
	}
}

func (s *AppConfig) DebounceDelay() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

func (s *AppConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// Location falls back to UTC when the zone database has no entry for the configured name.
func (s *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *AppConfig) TableYears() int {
	return s.DefaultTableYears
}
