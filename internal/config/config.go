package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the demo client configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	ServerURL  string `mapstructure:"server_url"`
	APIKey     string `mapstructure:"api_key"`
	SuccessURL string `mapstructure:"success_url"`
	ErrorURL   string `mapstructure:"error_url"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	UploadDir        string `mapstructure:"upload_dir"`
	DownloadDir      string `mapstructure:"download_dir"`
	TemplateFile     string `mapstructure:"template_file"`
	TemplateID       int    `mapstructure:"template_id"`
	DocumentLocation string `mapstructure:"document_location"`
	DocumentReason   string `mapstructure:"document_reason"`

	PlacementEnabled bool `mapstructure:"placement_enabled"`
	PlacementPage    int  `mapstructure:"placement_page"`
	PlacementX       int  `mapstructure:"placement_x"`
	PlacementY       int  `mapstructure:"placement_y"`
	PlacementW       int  `mapstructure:"placement_w"`
	PlacementH       int  `mapstructure:"placement_h"`

	HandySigParameter string `mapstructure:"handysig_parameter"`
	OpenBrowser       bool   `mapstructure:"open_browser"`

	StorageType       string        `mapstructure:"storage_type"`
	BBoltPath         string        `mapstructure:"bbolt_path"`
	RedisAddr         string        `mapstructure:"redis_addr"`
	RedisDB           int           `mapstructure:"redis_db"`
	StorageTTLSeconds int64         `mapstructure:"storage_ttl_seconds"`
	StorageTTL        time.Duration `mapstructure:"-"`

	SinkType       string `mapstructure:"sink_type"`
	S3Bucket       string `mapstructure:"s3_bucket"`
	S3Region       string `mapstructure:"s3_region"`
	S3Prefix       string `mapstructure:"s3_prefix"`
	S3Endpoint     string `mapstructure:"s3_endpoint"`
	S3AccessKey    string `mapstructure:"s3_access_key"`
	S3SecretKey    string `mapstructure:"s3_secret_key"`
	MinIOEndpoint  string `mapstructure:"minio_endpoint"`
	MinIOAccessKey string `mapstructure:"minio_access_key"`
	MinIOSecretKey string `mapstructure:"minio_secret_key"`
	MinIOBucket    string `mapstructure:"minio_bucket"`
	MinIOUseSSL    bool   `mapstructure:"minio_use_ssl"`
	MinIOPrefix    string `mapstructure:"minio_prefix"`

	NotifiersFile   string `mapstructure:"notifiers_file"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "sigbox-demo")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	// Required keys get empty defaults so AutomaticEnv picks them up on Unmarshal.
	v.SetDefault("server_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("success_url", "")
	v.SetDefault("error_url", "")

	v.SetDefault("http_timeout_seconds", 30)

	v.SetDefault("upload_dir", "./uploadDocuments")
	v.SetDefault("download_dir", "./signedDocuments")
	v.SetDefault("template_file", "./TemplateBeispiel.xml")
	v.SetDefault("template_id", 0)
	v.SetDefault("document_location", "SigServer")
	v.SetDefault("document_reason", "Signature test")

	v.SetDefault("placement_enabled", true)
	v.SetDefault("placement_page", 1)
	v.SetDefault("placement_x", 50)
	v.SetDefault("placement_y", 50)
	v.SetDefault("placement_w", 296)
	v.SetDefault("placement_h", 180)

	v.SetDefault("handysig_parameter", "")
	v.SetDefault("open_browser", true)

	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/sessions.db")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))

	v.SetDefault("sink_type", "local")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "")
	v.SetDefault("s3_prefix", "")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("minio_endpoint", "")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "signed-documents")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_prefix", "")

	v.SetDefault("notifiers_file", "")
	v.SetDefault("metrics_textfile", "")
}

func (c *Config) normalize() error {
	c.ServerURL = strings.TrimSpace(c.ServerURL)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.SuccessURL = strings.TrimSpace(c.SuccessURL)
	c.ErrorURL = strings.TrimSpace(c.ErrorURL)
	c.StorageType = strings.ToLower(strings.TrimSpace(c.StorageType))
	c.SinkType = strings.ToLower(strings.TrimSpace(c.SinkType))

	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second

	if c.PlacementEnabled && (c.PlacementPage < 0 || c.PlacementW < 0 || c.PlacementH < 0) {
		return fmt.Errorf("invalid placement (page, w and h must not be negative)")
	}
	return nil
}

// Validate checks the settings needed to talk to a Signaturbox server.
// The messages are meant to be shown to the person running the demo.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerURL == "" {
		errs = append(errs, errors.New("please set SERVER_URL to the URL of your Signature-Box"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("please set API_KEY for your Signature-Box; if you do not have an API-Key please contact the A-Trust Sales Team (sales@a-trust.at)"))
	}
	if c.SuccessURL == "" {
		errs = append(errs, errors.New("please set SUCCESS_URL (where the user is redirected after a successful signature)"))
	}
	if c.ErrorURL == "" {
		errs = append(errs, errors.New("please set ERROR_URL (where the user is redirected after a failed signature)"))
	}
	return errors.Join(errs...)
}
