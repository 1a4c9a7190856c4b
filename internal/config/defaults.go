package config

const (
	defaultDataDir            = "~/.local/share/archivist"
	defaultLogDir             = "~/.local/share/archivist/logs"
	defaultAPIBind            = "127.0.0.1:7498"
	defaultCatalogBaseURL     = "https://catalog.archives.gov"
	defaultAllowedHost        = "catalog.archives.gov"
	defaultUserAgent          = "Mozilla/5.0 (compatible; archivist/1.0)"
	defaultMetadataTimeout    = 30
	defaultDownloadTimeout    = 120
	defaultPolitenessDelayMS  = 100
	defaultMaxPagesPerJob     = 800
	defaultMaxRangesPerBatch  = 10
	defaultImageExt           = ".jpg"
	defaultPDFBinary          = "img2pdf"
	defaultBatchPollInterval  = 2
	defaultErrorRetryInterval = 5
	defaultSweeperTTLHours    = 24
	defaultSweeperInterval    = 60
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Fetch: Fetch{
			BaseURL:           defaultCatalogBaseURL,
			AllowedHost:       defaultAllowedHost,
			UserAgent:         defaultUserAgent,
			MetadataTimeout:   defaultMetadataTimeout,
			DownloadTimeout:   defaultDownloadTimeout,
			PolitenessDelay:   defaultPolitenessDelayMS,
			MaxPagesPerJob:    defaultMaxPagesPerJob,
			MaxRangesPerBatch: defaultMaxRangesPerBatch,
		},
		Archive: Archive{
			ImageExt:  defaultImageExt,
			PDFBinary: defaultPDFBinary,
		},
		Workflow: Workflow{
			BatchPollInterval:  defaultBatchPollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Sweeper: Sweeper{
			Enabled:  true,
			TTLHours: defaultSweeperTTLHours,
			Interval: defaultSweeperInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
