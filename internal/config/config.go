package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/spf13/viper"

	"geosquare/internal/assets"
)

// Config holds all application configuration.
type Config struct {
	Map    MapConfig    `mapstructure:"map"`
	Assets AssetsConfig `mapstructure:"assets"`
	Log    LogConfig    `mapstructure:"log"`
}

type MapConfig struct {
	AccessToken string `mapstructure:"access_token"`
	// TokenHosts are the mapping backend hosts the access token is sent to.
	TokenHosts []string `mapstructure:"token_hosts"`
	CenterLon  float64  `mapstructure:"center_lon"`
	CenterLat  float64  `mapstructure:"center_lat"`
	Zoom       float64  `mapstructure:"zoom"`
}

func (m MapConfig) Center() orb.Point {
	return orb.Point{m.CenterLon, m.CenterLat}
}

type AssetsConfig struct {
	MapCSSURL  string        `mapstructure:"map_css_url"`
	DrawCSSURL string        `mapstructure:"draw_css_url"`
	MapJSURL   string        `mapstructure:"map_js_url"`
	DrawJSURL  string        `mapstructure:"draw_js_url"`
	CacheDir   string        `mapstructure:"cache_dir"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Set returns the asset set the bootstrapper loads.
func (a AssetsConfig) Set() assets.Set {
	return assets.NewSet(a.MapCSSURL, a.DrawCSSURL, a.MapJSURL, a.DrawJSURL)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "geosquare")
}

// Load reads configuration from file and environment variables. An empty
// path searches for config.yaml in . and ./configs and tolerates its absence.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("map.access_token", "")
	v.SetDefault("map.token_hosts", []string{})
	v.SetDefault("map.center_lon", 23.3219)
	v.SetDefault("map.center_lat", 42.6977)
	v.SetDefault("map.zoom", 6)
	v.SetDefault("assets.map_css_url", assets.DefaultMapStylesheetURL)
	v.SetDefault("assets.draw_css_url", assets.DefaultDrawStylesheetURL)
	v.SetDefault("assets.map_js_url", assets.DefaultMapScriptURL)
	v.SetDefault("assets.draw_js_url", assets.DefaultDrawScriptURL)
	v.SetDefault("assets.cache_dir", defaultCacheDir())
	v.SetDefault("assets.timeout", "15s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		_ = v.ReadInConfig() // OK if missing
	}

	// Environment variables: GEOSQUARE_MAP_ACCESS_TOKEN → map.access_token
	v.SetEnvPrefix("GEOSQUARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		errs = append(errs, fmt.Sprintf("map.center_lon must be -180..180, got %g", c.Map.CenterLon))
	}
	if c.Map.CenterLat < -85 || c.Map.CenterLat > 85 {
		errs = append(errs, fmt.Sprintf("map.center_lat must be -85..85, got %g", c.Map.CenterLat))
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		errs = append(errs, fmt.Sprintf("map.zoom must be 0-22, got %g", c.Map.Zoom))
	}
	for key, url := range map[string]string{
		"assets.map_css_url":  c.Assets.MapCSSURL,
		"assets.draw_css_url": c.Assets.DrawCSSURL,
		"assets.map_js_url":   c.Assets.MapJSURL,
		"assets.draw_js_url":  c.Assets.DrawJSURL,
	} {
		if url == "" {
			errs = append(errs, key+" is required")
		}
	}
	if c.Assets.Timeout <= 0 {
		errs = append(errs, "assets.timeout must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
