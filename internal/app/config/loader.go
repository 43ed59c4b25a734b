package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"LOG_LEVEL":                  "info",
	"HTTP_PORT":                  8080,
	"HTTP_TIMEOUT":               5 * time.Minute,
	"HTTP_CORS_ORIGINS":          "http://localhost:8444",
	"REDIS_ADDR":                 "localhost:6379",
	"REDIS_TIMEOUT":              5 * time.Second,
	"CRAWLER_MAX_ATTEMPTS":       2,
	"CRAWLER_MAX_MONTH_ADVANCES": 12,
	"CRAWLER_RESULTS_TIMEOUT":    60 * time.Second,
	"CRAWLER_WAIT_TIMEOUT":       4 * time.Minute,
	"BROWSER_HEADLESS":           true,
	"PROXY_TIMEOUT":              10 * time.Second,
	"AIR_CANADA_RATE_LIMIT":      6,
	"SEARCH_CACHE_EXPIRATION":    15 * time.Minute,
	"SEARCH_LOCK_TIMEOUT":        5 * time.Minute,
}

// MustInitConfig loads the configuration and panics when it cannot be decoded.
func MustInitConfig(configFile string) Config {
	cfg, err := Load(configFile)
	if err != nil {
		slog.Error("cannot unmarshal config", slog.String("error", err.Error()))
		panic(err)
	}

	return cfg
}

// Load reads configFile as a .env file when it exists and lets environment
// variables override it. Every key is bound through the mapstructure tags of
// Config, so a key works from the environment without being in the file.
func Load(configFile string) (Config, error) {
	var (
		vpr = viper.New()
		cfg Config
	)

	for key, value := range defaults {
		vpr.SetDefault(key, value)
	}

	vpr.AutomaticEnv()

	vpr.SetConfigFile(configFile)
	vpr.SetConfigType("env")

	if err := vpr.ReadInConfig(); err != nil {
		slog.Warn("config file not found or cannot be read, using environment variables",
			slog.String("file", configFile),
			slog.String("error", err.Error()))
	} else {
		slog.Info("config file loaded", slog.String("file", configFile))
	}

	bindEnv(vpr, reflect.TypeOf(Config{}))

	if err := vpr.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// bindEnv walks the struct and binds every tagged field to its variable.
// Struct and slice-of-struct fields may be given as JSON.
func bindEnv(vpr *viper.Viper, t reflect.Type) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		name, opts, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}

		if name == "" {
			if field.Type.Kind() == reflect.Struct && (field.Anonymous || strings.Contains(opts, "squash")) {
				bindEnv(vpr, field.Type)
			}
			continue
		}

		_ = vpr.BindEnv(name)

		if !isStructLike(field.Type) {
			continue
		}

		raw, ok := vpr.Get(name).(string)
		if !ok || raw == "" {
			continue
		}

		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			slog.Warn("config value is not valid JSON", slog.String("key", name))
			continue
		}
		vpr.Set(name, decoded)
	}
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
