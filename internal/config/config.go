package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Remote    RemoteConfig    `yaml:"remote"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Upload    UploadConfig    `yaml:"upload"`
}

type AppConfig struct {
	AppName     string `yaml:"name"`
	Environment string `yaml:"env"`
	HTTPPort    string `yaml:"http_port"`
	LogLevel    string `yaml:"log_level"`
}

type DatabaseConfig struct {
	DBHost     string `yaml:"host"`
	DBPort     string `yaml:"port"`
	DBName     string `yaml:"name"`
	DBUser     string `yaml:"user"`
	DBPassword string `yaml:"password"`
	DBSSLMode  string `yaml:"ssl_mode"`
	// SessionIdle is how long a persisted workspace stays in memory after
	// its last use.
	SessionIdle time.Duration `yaml:"session_idle"`
}

// Enabled reports whether workspace snapshots should be persisted.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != ""
}

type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type JWTConfig struct {
	// Secret is shared with the remote screening backend. Empty skips local
	// validation; bearer tokens are then forwarded to the remote unverified.
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type RemoteConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

type DashboardConfig struct {
	TopThreshold int           `yaml:"top_threshold"`
	TopLimit     int           `yaml:"top_limit"`
	HintTTL      time.Duration `yaml:"hint_ttl"`
}

type UploadConfig struct {
	MaxResumeBytes int64 `yaml:"max_resume_bytes"`
	MaxAudioBytes  int64 `yaml:"max_audio_bytes"`
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func defaults() Config {
	return Config{
		App:      AppConfig{LogLevel: "info"},
		Database: DatabaseConfig{SessionIdle: 30 * time.Minute},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  600 * time.Second,
		},
		Remote: RemoteConfig{
			Timeout:   30 * time.Second,
			RateLimit: 5,
			Burst:     10,
		},
		Dashboard: DashboardConfig{
			TopThreshold: 75,
			TopLimit:     5,
			HintTTL:      5 * time.Minute,
		},
		Upload: UploadConfig{
			MaxResumeBytes: 10 << 20,
			MaxAudioBytes:  50 << 20,
		},
	}
}

// Load reads .env (if present), then the optional YAML file named by
// CONFIG_FILE, then the process environment. Later sources win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	var missing, invalid []string
	opt := func(key, current string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return current
	}
	req := func(key, current string) string {
		v := opt(key, current)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	optInt := func(key string, current int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return current
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return current
		}
		return v
	}
	optInt64 := func(key string, current int64) int64 {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return current
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			invalid = append(invalid, key)
			return current
		}
		return v
	}
	optFloat := func(key string, current float64) float64 {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return current
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return current
		}
		return v
	}
	optDuration := func(key string, current time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return current
		}
		d, err := parseDuration(raw)
		if err != nil {
			invalid = append(invalid, key)
			return current
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME", cfg.App.AppName),
		Environment: req("APP_ENV", cfg.App.Environment),
		HTTPPort:    req("HTTP_PORT", cfg.App.HTTPPort),
		LogLevel:    opt("LOG_LEVEL", cfg.App.LogLevel),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", cfg.Database.DBHost),
		DBPort:     opt("DB_PORT", cfg.Database.DBPort),
		DBName:     opt("DB_NAME", cfg.Database.DBName),
		DBUser:     opt("DB_USER", cfg.Database.DBUser),
		DBPassword: opt("DB_PASSWORD", cfg.Database.DBPassword),
		DBSSLMode:  opt("DB_SSL_MODE", cfg.Database.DBSSLMode),

		SessionIdle: optDuration("DB_SESSION_IDLE", cfg.Database.SessionIdle),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", cfg.Redis.Host),
		Port:     opt("REDIS_PORT", cfg.Redis.Port),
		Password: opt("REDIS_PASSWORD", cfg.Redis.Password),
		DB:       optInt("REDIS_DB", cfg.Redis.DB),
		TTL:      optDuration("REDIS_TTL", cfg.Redis.TTL),
	}

	cfg.JWT = JWTConfig{
		Secret: opt("JWT_SECRET", cfg.JWT.Secret),
		Issuer: opt("JWT_ISSUER", cfg.JWT.Issuer),
	}

	cfg.Remote = RemoteConfig{
		BaseURL:   strings.TrimRight(opt("REMOTE_BASE_URL", cfg.Remote.BaseURL), "/"),
		Timeout:   optDuration("REMOTE_TIMEOUT", cfg.Remote.Timeout),
		RateLimit: optFloat("REMOTE_RATE_LIMIT", cfg.Remote.RateLimit),
		Burst:     optInt("REMOTE_BURST", cfg.Remote.Burst),
	}

	cfg.Dashboard = DashboardConfig{
		TopThreshold: optInt("DASHBOARD_TOP_THRESHOLD", cfg.Dashboard.TopThreshold),
		TopLimit:     optInt("DASHBOARD_TOP_LIMIT", cfg.Dashboard.TopLimit),
		HintTTL:      optDuration("DASHBOARD_HINT_TTL", cfg.Dashboard.HintTTL),
	}

	cfg.Upload = UploadConfig{
		MaxResumeBytes: optInt64("UPLOAD_MAX_RESUME_BYTES", cfg.Upload.MaxResumeBytes),
		MaxAudioBytes:  optInt64("UPLOAD_MAX_AUDIO_BYTES", cfg.Upload.MaxAudioBytes),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// parseDuration accepts Go durations ("30s") and bare seconds ("30").
func parseDuration(raw string) (time.Duration, error) {
	if v, err := strconv.Atoi(raw); err == nil {
		if v <= 0 {
			return 0, errInvalidEnv
		}
		return time.Duration(v) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, errInvalidEnv
	}
	return d, nil
}
