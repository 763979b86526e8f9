package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env         Env
	Minio       MinioConfig
	Upload      UploadConfig
	Transcoder  TranscoderConfig
	Remediation RemediationConfig
	NATS        NATSConfig
	Database    DatabaseConfig
	Server      ServerConfig
}

type Env struct {
	Env      string `envconfig:"ENV" default:"DEV"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Level is the slog level named by LOG_LEVEL, info when it is unknown
func (e Env) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(e.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	MaxRequestSize  int64         `envconfig:"SERVER_MAX_REQUEST_SIZE" default:"2147483648"` // 2GB
	RequestTimeout  time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"30m"`
	MultipartMemory int64         `envconfig:"SERVER_MULTIPART_MEMORY" default:"33554432"` // 32MB
	MetricsPort     string        `envconfig:"SERVER_METRICS_PORT" default:"2112"`          // remediation worker only
}

type MinioConfig struct {
	Endpoint      string `envconfig:"MINIO_ENDPOINT" required:"true"`
	AccessKey     string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey     string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	VideoBucket   string `envconfig:"MINIO_VIDEO_BUCKET" default:"lesson-videos"`
	AssetBucket   string `envconfig:"MINIO_ASSET_BUCKET" default:"lesson-assets"`
	PublicBaseURL string `envconfig:"MINIO_PUBLIC_BASE_URL"`
	UseSSL        bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	VideoBucket       string `ignored:"true"`
	AssetBucket       string `ignored:"true"`
	MaxVideoSize      int64  `envconfig:"UPLOAD_MAX_VIDEO_SIZE" default:"2147483648"`     // 2GB
	MaxThumbnailSize  int64  `envconfig:"UPLOAD_MAX_THUMBNAIL_SIZE" default:"10485760"`   // 10MB
	MaxAttachmentSize int64  `envconfig:"UPLOAD_MAX_ATTACHMENT_SIZE" default:"104857600"` // 100MB
	MaxAttachments    int    `envconfig:"UPLOAD_MAX_ATTACHMENTS" default:"10"`
	SniffBytes        int64  `envconfig:"UPLOAD_SNIFF_BYTES" default:"2048"`
}

type TranscoderConfig struct {
	FFmpegPath    string        `envconfig:"TRANSCODER_FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath   string        `envconfig:"TRANSCODER_FFPROBE_PATH" default:"ffprobe"`
	WorkDir       string        `envconfig:"TRANSCODER_WORK_DIR"`
	Preset        string        `envconfig:"TRANSCODER_PRESET" default:"fast"`
	CRF           int           `envconfig:"TRANSCODER_CRF" default:"23"`
	AudioBitrate  string        `envconfig:"TRANSCODER_AUDIO_BITRATE" default:"128k"`
	MaxDuration   time.Duration `envconfig:"TRANSCODER_MAX_DURATION" default:"20m"`
	MaxConcurrent int64         `envconfig:"TRANSCODER_MAX_CONCURRENT" default:"2"`
}

type RemediationConfig struct {
	VideoBucket string        `ignored:"true"`
	JobTimeout  time.Duration `envconfig:"REMEDIATION_JOB_TIMEOUT" default:"30m"`
}

type NATSConfig struct {
	URL          string        `envconfig:"NATS_URL" required:"true"`
	StreamName   string        `envconfig:"NATS_STREAM_NAME" required:"true"`
	ConsumerName string        `envconfig:"NATS_CONSUMER_NAME" required:"true"`
	Subject      string        `envconfig:"NATS_SUBJECT" required:"true"`
	AckWait      time.Duration `envconfig:"NATS_ACK_WAIT" default:"30m"`
	MaxDeliver   int           `envconfig:"NATS_MAX_DELIVER" default:"5"`
	RetryDelay   time.Duration `envconfig:"NATS_RETRY_DELAY" default:"10s"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// Load reads the configuration from the environment.
// The remediation worker does not need the HTTP server settings but shares the same loader.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	cfg.Upload.VideoBucket = cfg.Minio.VideoBucket
	cfg.Upload.AssetBucket = cfg.Minio.AssetBucket
	cfg.Remediation.VideoBucket = cfg.Minio.VideoBucket

	return &cfg, nil
}
