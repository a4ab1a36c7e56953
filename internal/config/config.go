package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	PGSQL      PGSQL      `yaml:"pgsql" env-required:"true"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Redis      Redis      `yaml:"redis"`
	S3         S3         `yaml:"s3"`
	Renderer   Renderer   `yaml:"renderer"`
	WishButton WishButton `yaml:"wish_button"`
}

type HTTPServer struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
}

type PGSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"wondertales_db"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// S3 holds object-store credentials. AccessKeyID may be left empty; the
// listing endpoint then serves metadata straight from the database.
type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"s3.amazonaws.com"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	BucketName      string `yaml:"bucket_name" env:"S3_BUCKET_NAME" env-default:"wondertales-media"`
	UseSSL          bool   `yaml:"use_ssl" env:"S3_USE_SSL" env-default:"true"`
}

type Renderer struct {
	BaseURL string `yaml:"base_url" env:"RENDERER_BASE_URL"`
	APIKey  string `yaml:"api_key" env:"RENDERER_API_KEY"`
}

// WishButton carries the background-music recovery settings. The defaults
// match the theme asset that shipped with the original template.
type WishButton struct {
	FallbackMusicAssetID     string `yaml:"fallback_music_asset_id" env:"WB_FALLBACK_MUSIC_ASSET_ID" env-default:"a8f3e2d1-5c47-4b9a-8e21-6d9f0c3b7a54"`
	FallbackMusicURL         string `yaml:"fallback_music_url" env:"WB_FALLBACK_MUSIC_URL" env-default:"https://wondertales-media.s3.amazonaws.com/assets/audio/wish-button-theme.mp3"`
	FallbackMusicDescription string `yaml:"fallback_music_description" env:"WB_FALLBACK_MUSIC_DESC" env-default:"Wish Button theme music"`
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return &cfg
}
