package config

import "strings"

// normalize expands paths and fills zero values with defaults so downstream
// code never sees empty required fields.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(valueOr(c.Paths.DataDir, defaultDataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}
	c.Paths.APIBind = valueOr(c.Paths.APIBind, defaultAPIBind)

	c.Fetch.BaseURL = strings.TrimRight(valueOr(c.Fetch.BaseURL, defaultCatalogBaseURL), "/")
	c.Fetch.AllowedHost = valueOr(c.Fetch.AllowedHost, defaultAllowedHost)
	c.Fetch.UserAgent = valueOr(c.Fetch.UserAgent, defaultUserAgent)
	if c.Fetch.MetadataTimeout <= 0 {
		c.Fetch.MetadataTimeout = defaultMetadataTimeout
	}
	if c.Fetch.DownloadTimeout <= 0 {
		c.Fetch.DownloadTimeout = defaultDownloadTimeout
	}
	if c.Fetch.PolitenessDelay < 0 {
		c.Fetch.PolitenessDelay = defaultPolitenessDelayMS
	}
	if c.Fetch.MaxPagesPerJob <= 0 {
		c.Fetch.MaxPagesPerJob = defaultMaxPagesPerJob
	}
	if c.Fetch.MaxRangesPerBatch <= 0 {
		c.Fetch.MaxRangesPerBatch = defaultMaxRangesPerBatch
	}

	c.Archive.ImageExt = strings.ToLower(valueOr(c.Archive.ImageExt, defaultImageExt))
	if !strings.HasPrefix(c.Archive.ImageExt, ".") {
		c.Archive.ImageExt = "." + c.Archive.ImageExt
	}
	c.Archive.PDFBinary = valueOr(c.Archive.PDFBinary, defaultPDFBinary)

	if c.Workflow.BatchPollInterval <= 0 {
		c.Workflow.BatchPollInterval = defaultBatchPollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}

	if c.Sweeper.TTLHours <= 0 {
		c.Sweeper.TTLHours = defaultSweeperTTLHours
	}
	if c.Sweeper.Interval <= 0 {
		c.Sweeper.Interval = defaultSweeperInterval
	}

	c.Logging.Format = valueOr(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = valueOr(c.Logging.Level, defaultLogLevel)

	return nil
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
