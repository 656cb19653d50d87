package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
)

type (
	Config struct {
		HTTP
		Global
		Database
		OpenLibrary
		Search
		Catalog
		Metrics
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	OpenLibrary struct {
		BaseURL       string
		CoversBaseURL string
		Timeout       time.Duration
		RatePerMinute int
		CacheTTL      time.Duration
		Lang          string
	}
	Search struct {
		ResultCeiling  int
		MinQueryLength int
		MaxPageSize    int
	}
	Catalog struct {
		GenreFallback catalog.FallbackPolicy
	}
	Metrics struct {
		RetentionDays   int    // Days to keep API metric rows (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
		CleanupEnabled  bool
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func genreFallback(v *viper.Viper) catalog.FallbackPolicy {
	if v.GetString("CATALOG_GENRE_FALLBACK") == "general" {
		return catalog.FallbackGeneral
	}
	return catalog.FallbackReject
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Open Library defaults
	v.SetDefault("openlibrary_base_url", "https://openlibrary.org")
	v.SetDefault("openlibrary_covers_base_url", "https://covers.openlibrary.org/b")
	v.SetDefault("openlibrary_timeout", "5s")
	v.SetDefault("openlibrary_rate_per_minute", 100)
	v.SetDefault("openlibrary_cache_ttl", "1h")
	v.SetDefault("openlibrary_lang", "en")

	// Search aggregation defaults
	v.SetDefault("search_result_ceiling", 15)
	v.SetDefault("search_min_query_length", 2)
	v.SetDefault("search_max_page_size", 10)

	// Catalog defaults
	v.SetDefault("catalog_genre_fallback", "reject") // or "general"

	// Metrics retention defaults
	v.SetDefault("metrics_retention_days", 30)
	v.SetDefault("metrics_cleanup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("metrics_cleanup_enabled", true)

	// Task queue defaults. Release must outlast the longest queue timeout.
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:       v.GetString("OPENLIBRARY_BASE_URL"),
			CoversBaseURL: v.GetString("OPENLIBRARY_COVERS_BASE_URL"),
			Timeout:       v.GetDuration("OPENLIBRARY_TIMEOUT"),
			RatePerMinute: v.GetInt("OPENLIBRARY_RATE_PER_MINUTE"),
			CacheTTL:      v.GetDuration("OPENLIBRARY_CACHE_TTL"),
			Lang:          v.GetString("OPENLIBRARY_LANG"),
		},
		Search: Search{
			ResultCeiling:  v.GetInt("SEARCH_RESULT_CEILING"),
			MinQueryLength: v.GetInt("SEARCH_MIN_QUERY_LENGTH"),
			MaxPageSize:    v.GetInt("SEARCH_MAX_PAGE_SIZE"),
		},
		Catalog: Catalog{
			GenreFallback: genreFallback(v),
		},
		Metrics: Metrics{
			RetentionDays:   v.GetInt("METRICS_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("METRICS_CLEANUP_SCHEDULE"),
			CleanupEnabled:  v.GetBool("METRICS_CLEANUP_ENABLED"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
