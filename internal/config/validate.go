package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for values that would prevent the daemon
// from operating correctly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("config: log_dir is required")
	}

	parsed, err := url.Parse(c.Fetch.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: fetch base_url %q is not a valid URL", c.Fetch.BaseURL)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("config: logging format %q is not supported", c.Logging.Format)
	}

	return nil
}
