package shared

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	JotformBase string
	JotformForm string
	JotformKey  string
	JotformRPS  int
	BatchSize   int
	FetchMax    int
	Workers     int

	BatchDir  string
	AssetsDir string

	GeoKey    string
	StreetKey string
	GoogleRPS float64

	StorageURL    string
	StorageBucket string

	DedupOnError string
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/apt?parseTime=true&charset=utf8mb4&loc=UTC")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 900)
	v.SetDefault("JOTFORM_BASE_URL", "https://api.jotform.com")
	v.SetDefault("JOTFORM_ID", "")
	v.SetDefault("JOTFORM_API", "")
	v.SetDefault("JOTFORM_RPS", 5)
	v.SetDefault("FETCH_BATCH_SIZE", 20)
	v.SetDefault("FETCH_MAX", 300)
	v.SetDefault("FETCH_WORKERS", 1)
	v.SetDefault("BATCH_DIR", "data/batch")
	v.SetDefault("ASSETS_DIR", "data/assets")
	v.SetDefault("GOOGLE_GEO_API", "")
	v.SetDefault("GOOGLE_STREET_API", "")
	v.SetDefault("GOOGLE_RPS", 0.5)
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("STORAGE_URL", "")
	v.SetDefault("STORAGE_BUCKET", "apt-images")
	v.SetDefault("DEDUP_ON_ERROR", "proceed")
}

// Load reads ./.env when present, then the environment.
func Load() (Config, error) { return LoadFile(".env") }

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error; environment variables always win over the file.
func LoadFile(envFile string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, eris.Wrapf(err, "config: read %s", envFile)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, eris.Wrapf(err, "config: stat %s", envFile)
		}
	}

	c := Config{
		AppEnv:        v.GetString("APP_ENV"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		MetricsAddr:   v.GetString("METRICS_ADDR"),
		MySQLDSN:      v.GetString("MYSQL_DSN"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPass:     v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		CacheTTL:      time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		JotformBase:   v.GetString("JOTFORM_BASE_URL"),
		JotformForm:   v.GetString("JOTFORM_ID"),
		JotformKey:    v.GetString("JOTFORM_API"),
		JotformRPS:    v.GetInt("JOTFORM_RPS"),
		BatchSize:     v.GetInt("FETCH_BATCH_SIZE"),
		FetchMax:      v.GetInt("FETCH_MAX"),
		Workers:       v.GetInt("FETCH_WORKERS"),
		BatchDir:      v.GetString("BATCH_DIR"),
		AssetsDir:     v.GetString("ASSETS_DIR"),
		GeoKey:        v.GetString("GOOGLE_GEO_API"),
		StreetKey:     v.GetString("GOOGLE_STREET_API"),
		GoogleRPS:     v.GetFloat64("GOOGLE_RPS"),
		StorageURL:    strings.TrimRight(v.GetString("STORAGE_URL"), "/"),
		StorageBucket: v.GetString("STORAGE_BUCKET"),
		DedupOnError:  strings.ToLower(v.GetString("DEDUP_ON_ERROR")),
	}
	if c.StorageURL == "" {
		if sb := strings.TrimRight(v.GetString("SUPABASE_URL"), "/"); sb != "" {
			c.StorageURL = sb + "/storage/v1"
		}
	}
	if c.DedupOnError != "proceed" && c.DedupOnError != "skip" {
		return Config{}, eris.Errorf("config: DEDUP_ON_ERROR must be proceed or skip, got %q", c.DedupOnError)
	}
	if c.GoogleRPS <= 0 {
		return Config{}, eris.Errorf("config: GOOGLE_RPS must be positive, got %v", c.GoogleRPS)
	}
	return c, nil
}

// Warn logs settings a binary can start without but will likely regret.
func (c Config) Warn() {
	if c.StorageURL == "" {
		log.Warn().Msg("STORAGE_URL and SUPABASE_URL are empty; image URLs will be relative")
	}
	if c.GeoKey == "" {
		log.Warn().Msg("GOOGLE_GEO_API is empty")
	}
	if c.StreetKey == "" {
		log.Warn().Msg("GOOGLE_STREET_API is empty")
	}
}
