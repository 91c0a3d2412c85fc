package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override settings. Values from the process
// environment take precedence over values from a .env file.
const (
	EnvAPIBase     = "MGNIFY_API_BASE"
	EnvUserAgent   = "MGNIFY_USER_AGENT"
	EnvHTTPTimeout = "MGNIFY_HTTP_TIMEOUT"
	EnvPageSize    = "MGNIFY_PAGE_SIZE"
	EnvWorkers     = "MGNIFY_WORKERS"
)

var envKeys = []string{ //nolint:gochecknoglobals
	EnvAPIBase,
	EnvUserAgent,
	EnvHTTPTimeout,
	EnvPageSize,
	EnvWorkers,
}

// ApplyEnv overrides settings from the given .env file (if non-empty and
// readable) and then from the process environment.
//
// A missing .env file is not an error; a malformed numeric value is.
func (s *Settings) ApplyEnv(dotEnvPath string) error {
	vals := make(map[string]string)

	if dotEnvPath != "" {
		if env, err := godotenv.Read(dotEnvPath); err == nil {
			for _, key := range envKeys {
				if v, ok := env[key]; ok {
					vals[key] = v
				}
			}
		}
	}

	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			vals[key] = v
		}
	}

	return s.apply(vals)
}

func (s *Settings) apply(vals map[string]string) error {
	if v, ok := vals[EnvAPIBase]; ok && v != "" {
		s.APIBase = v
	}

	if v, ok := vals[EnvUserAgent]; ok && v != "" {
		s.UserAgent = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvHTTPTimeout, &s.HTTPTimeoutSec},
		{EnvPageSize, &s.PageSize},
		{EnvWorkers, &s.MaxConcurrentAnalyses},
	}

	for _, i := range ints {
		v, ok := vals[i.key]
		if !ok || v == "" {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", i.key, v)
		}

		*i.dst = n
	}

	return nil
}

// Validate checks that numeric settings are usable.
func (s *Settings) Validate() error {
	switch {
	case s.APIBase == "":
		return fmt.Errorf("api_base must not be empty")
	case s.PageSize <= 0:
		return fmt.Errorf("page_size must be positive, got %d", s.PageSize)
	case s.PageDelayMillis < 0:
		return fmt.Errorf("page_delay_ms must not be negative, got %d", s.PageDelayMillis)
	case s.MaxConcurrentPages <= 0:
		return fmt.Errorf("max_concurrent_pages must be positive, got %d", s.MaxConcurrentPages)
	case s.MaxConcurrentAnalyses <= 0:
		return fmt.Errorf("max_concurrent_analyses must be positive, got %d", s.MaxConcurrentAnalyses)
	}

	return nil
}
