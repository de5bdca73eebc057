package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	DatabaseName string `envconfig:"DATABASE_NAME" default:"facegate"`

	// Face provider
	FaceProvider  string  `envconfig:"FACE_PROVIDER" default:"deepface"`
	DeepFaceURL   string  `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	FaceThreshold float64 `envconfig:"FACE_THRESHOLD" default:"0.6"`

	// OTP challenges
	OTPTTL time.Duration `envconfig:"OTP_TTL" default:"10m"`

	// Stale unverified account sweep
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
	SweepWindow   time.Duration `envconfig:"SWEEP_WINDOW" default:"1h"`

	// SMTP
	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`

	// Photo storage
	PhotoBackend   string `envconfig:"PHOTO_BACKEND" default:"local"`
	PhotoDir       string `envconfig:"PHOTO_DIR" default:"./uploads"`
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"facegate-photos"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	// Session
	SessionCookie string `envconfig:"SESSION_COOKIE" default:"facegate_session"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
