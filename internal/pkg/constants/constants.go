package constants

const (
	ViperEnvPrefix = "COVIDSTAT"

	ViperHTTPAddr            = "http.addr"
	ViperHTTPShutdownTimeout = "http.shutdown_timeout"
	ViperHTTPAllowOrigins    = "http.allow_origins"

	ViperSourceSpreadsheetURL = "source.spreadsheet_url"
	ViperSourceGeoJSONPath    = "source.geojson_path"
	ViperSourceFeatureIDKey   = "source.feature_id_key"
	ViperSourceMetadataSheet  = "source.metadata_sheet"
	ViperSourceTimeout        = "source.timeout"
	ViperSourceRetries        = "source.retries"
	ViperSourceRetryInterval  = "source.retry_interval"

	ViperDashboardDefaultRegion = "dashboard.default_region"
	ViperDashboardStyle         = "dashboard.style"
	ViperDashboardMapName       = "dashboard.map_name"
	ViperDashboardAssetsHost    = "dashboard.assets_host"

	ViperLogLevel = "log.level"
)

const (
	DefaultRegion  = "Stockholm"
	DefaultMapName = "sweden"

	// FHM publishes the workbook here; the last sheet carries the publication note.
	DefaultSpreadsheetURL = "https://www.arcgis.com/sharing/rest/content/items/b5e7488e117749c19881cce45db13f7e/data"
)
