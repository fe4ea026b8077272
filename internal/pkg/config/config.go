package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/spf13/viper"
	"strings"
	"time"
)

type Config struct {
	HTTP      HTTP      `mapstructure:"http"`
	Source    Source    `mapstructure:"source"`
	Dashboard Dashboard `mapstructure:"dashboard"`
	Log       Log       `mapstructure:"log"`
}

type HTTP struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

type Source struct {
	SpreadsheetURL string `mapstructure:"spreadsheet_url" validate:"required"`
	GeoJSONPath    string `mapstructure:"geojson_path" validate:"required"`
	FeatureIDKey   string `mapstructure:"feature_id_key" validate:"required"`
	// MetadataSheet is matched as a prefix: FHM suffixes the sheet name with the publication date.
	MetadataSheet string        `mapstructure:"metadata_sheet" validate:"required"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Retries       uint64        `mapstructure:"retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval" validate:"gte=0"`
}

type Dashboard struct {
	DefaultRegion string `mapstructure:"default_region" validate:"required"`
	Style         string `mapstructure:"style" validate:"required"`
	MapName       string `mapstructure:"map_name" validate:"required,alphanum"`
	AssetsHost    string `mapstructure:"assets_host" validate:"required,url"`
}

type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperHTTPAddr, ":8050")
	v.SetDefault(constants.ViperHTTPShutdownTimeout, 10*time.Second)
	v.SetDefault(constants.ViperHTTPAllowOrigins, []string{"*"})

	v.SetDefault(constants.ViperSourceSpreadsheetURL, constants.DefaultSpreadsheetURL)
	v.SetDefault(constants.ViperSourceGeoJSONPath, "data/sweden.geojson")
	v.SetDefault(constants.ViperSourceFeatureIDKey, "name_short")
	v.SetDefault(constants.ViperSourceMetadataSheet, "FOHM")
	v.SetDefault(constants.ViperSourceTimeout, time.Minute)
	v.SetDefault(constants.ViperSourceRetries, 0)
	v.SetDefault(constants.ViperSourceRetryInterval, 2*time.Second)

	v.SetDefault(constants.ViperDashboardDefaultRegion, constants.DefaultRegion)
	v.SetDefault(constants.ViperDashboardStyle, StyleClassic)
	v.SetDefault(constants.ViperDashboardMapName, constants.DefaultMapName)
	v.SetDefault(constants.ViperDashboardAssetsHost, "https://go-echarts.github.io/go-echarts-assets/assets/")

	v.SetDefault(constants.ViperLogLevel, "info")
}

// Load reads the optional config file at path, applies COVIDSTAT_* env overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.ViperEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("viper.ReadInConfig, path-%s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("validator.Struct: %w", err)
	}

	if _, err := StyleByName(c.Dashboard.Style); err != nil {
		return err
	}

	return nil
}
