package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/maheshrc27/autoposter/pkg/utils"
)

const encryptedPrefix = "enc:"

type Paths struct {
	ProjectRoot string
	JSONDir     string
	PublicDir   string
	ImagesDir   string
	TempsDir    string
}

type Files struct {
	UnprocessedPosts string
	ProcessedPosts   string
	Posts            string
	AppData          string
}

type Store struct {
	Driver      string
	PostgresURI string
}

type OpenAI struct {
	APIKey                 string
	ContentModel           string
	LightContentModel      string
	ImageModel             string
	ImageSize              string
	AllowImageGeneration   bool
	AllowContentGeneration bool
}

type Limits struct {
	XContent      int
	MetaContent   int
	DefaultPhrase int
}

type Image struct {
	FontPath          string
	FontSize          float64
	LineSpacing       int
	Width             int
	WatermarkName     string
	ShowWatermarkName bool
}

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type Upload struct {
	Allow    bool
	Provider string
	Folder   string
	R2       R2
	MinIO    MinIO
}

type X struct {
	APIURL       string
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

type Instagram struct {
	APIURL      string
	AccessToken string
	AccountID   string
}

type Facebook struct {
	APIURL      string
	AccessToken string
	PageID      string
}

type Telegram struct {
	APIURL   string
	BotToken string
	ChatID   string
}

type WhatsApp struct {
	APIURL        string
	AccessToken   string
	PhoneNumberID string
	NotifyTo      string
}

type Schedule struct {
	PostingTimes []string
	Timezone     string
}

type Config struct {
	Port                string
	PublicBaseURL       string
	PersonalAccessToken string
	SecretKey           string
	RedisURI            string
	AllowPosting        bool
	Paths               Paths
	Files               Files
	Store               Store
	OpenAI              OpenAI
	Limits              Limits
	Image               Image
	Upload              Upload
	X                   X
	Instagram           Instagram
	Facebook            Facebook
	Telegram            Telegram
	WhatsApp            WhatsApp
	Schedule            Schedule
}

func LoadConfig() *Config {
	secretKey := getEnv("SECRET_KEY", "")
	secret := func(key string) string {
		return getSecret(key, secretKey)
	}

	root := getEnv("PROJECT_ROOT", ".")
	publicDir := getEnv("PUBLIC_DIR", filepath.Join(root, "public"))
	uploadsDir := filepath.Join(publicDir, "uploads")

	return &Config{
		Port:                getEnv("PORT", "8000"),
		PublicBaseURL:       strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:8000"), "/"),
		PersonalAccessToken: secret("PERSONAL_ACCESS_TOKEN"),
		SecretKey:           secretKey,
		RedisURI:            getEnv("REDIS_URI", ""),
		AllowPosting:        getEnvBool("ALLOW_POSTING", false),
		Paths: Paths{
			ProjectRoot: root,
			JSONDir:     getEnv("JSON_DIR", filepath.Join(root, "json")),
			PublicDir:   publicDir,
			ImagesDir:   getEnv("IMAGES_DIR", filepath.Join(uploadsDir, "images")),
			TempsDir:    getEnv("TEMPS_DIR", filepath.Join(uploadsDir, "temps")),
		},
		Files: Files{
			UnprocessedPosts: getEnv("UNPROCESSED_POSTS_JSON_FILE", "unprocessed_posts.json"),
			ProcessedPosts:   getEnv("PROCESSED_POSTS_JSON_FILE", "processed_posts.json"),
			Posts:            getEnv("POSTS_JSON_FILE", "posts.json"),
			AppData:          getEnv("APP_DATA_JSON_FILE", "app_data.json"),
		},
		Store: Store{
			Driver:      getEnv("STORE_DRIVER", "file"),
			PostgresURI: secret("POSTGRES_URI"),
		},
		OpenAI: OpenAI{
			APIKey:                 secret("OPENAI_API_KEY"),
			ContentModel:           getEnv("OPENAI_CONTENT_MODEL", "gpt-4o"),
			LightContentModel:      getEnv("OPENAI_CONTENT_MODEL_2", "gpt-4o-mini"),
			ImageModel:             getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
			ImageSize:              getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
			AllowImageGeneration:   getEnvBool("ALLOW_OPENAI_IMAGE_GENERATION", false),
			AllowContentGeneration: getEnvBool("ALLOW_OPENAI_CONTENT_GENERATION", true),
		},
		Limits: Limits{
			XContent:      getEnvInt("X_CONTENT_LIMIT", 280),
			MetaContent:   getEnvInt("META_CONTENT_LIMIT", 1000),
			DefaultPhrase: getEnvInt("DEFAULT_PHRASE_LIMIT", 250),
		},
		Image: Image{
			FontPath:          getEnv("FONT_PATH", ""),
			FontSize:          float64(getEnvInt("FONT_SIZE", 36)),
			LineSpacing:       getEnvInt("LINE_SPACING", 10),
			Width:             getEnvInt("IMAGE_WIDTH", 1024),
			WatermarkName:     getEnv("WATERMARK_NAME", ""),
			ShowWatermarkName: getEnvBool("SHOW_WATERMARK_NAME", true),
		},
		Upload: Upload{
			Allow:    getEnvBool("ALLOW_REMOTE_UPLOAD", false),
			Provider: strings.ToLower(getEnv("REMOTE_UPLOAD_PROVIDER", "r2")),
			Folder:   getEnv("REMOTE_UPLOAD_FOLDER", "uploads"),
			R2: R2{
				AccountID:  getEnv("R2_ACCOUNT_ID", ""),
				AccessKey:  secret("R2_ACCESS_KEY"),
				SecretKey:  secret("R2_SECRET_KEY"),
				BucketName: getEnv("R2_BUCKET_NAME", ""),
				PublicURL:  strings.TrimSuffix(getEnv("R2_PUBLIC_URL", ""), "/"),
			},
			MinIO: MinIO{
				Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey:  secret("MINIO_ACCESS_KEY"),
				SecretKey:  secret("MINIO_SECRET_KEY"),
				BucketName: getEnv("MINIO_BUCKET_NAME", "images"),
				UseSSL:     getEnvBool("MINIO_USE_SSL", false),
				Region:     getEnv("MINIO_REGION", "us-east-1"),
				PublicURL:  strings.TrimSuffix(getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"), "/"),
			},
		},
		X: X{
			APIURL:       strings.TrimSuffix(getEnv("X_API", "https://api.x.com"), "/"),
			ClientID:     getEnv("X_CLIENT_ID", ""),
			ClientSecret: secret("X_CLIENT_SECRET"),
			AccessToken:  secret("X_ACCESS_TOKEN"),
			RefreshToken: secret("X_REFRESH_TOKEN"),
		},
		Instagram: Instagram{
			APIURL:      strings.TrimSuffix(getEnv("INSTAGRAM_API", "https://graph.instagram.com/v21.0"), "/"),
			AccessToken: strings.TrimSpace(secret("IG_ACCESS_TOKEN")),
			AccountID:   getEnv("IG_ACCOUNT_ID", ""),
		},
		Facebook: Facebook{
			APIURL:      strings.TrimSuffix(getEnv("FACEBOOK_API", "https://graph.facebook.com/v18.0"), "/"),
			AccessToken: strings.TrimSpace(secret("META_ACCESS_TOKEN")),
			PageID:      getEnv("FB_PAGE_ID", ""),
		},
		Telegram: Telegram{
			APIURL:   getEnv("TELEGRAM_API", "https://api.telegram.org/bot"),
			BotToken: secret("TELEGRAM_BOT_TOKEN"),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		WhatsApp: WhatsApp{
			APIURL:        strings.TrimSuffix(getEnv("WHATSAPP_API", "https://graph.facebook.com/v18.0"), "/"),
			AccessToken:   secret("WHATSAPP_ACCESS_TOKEN"),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			NotifyTo:      getEnv("WHATSAPP_NOTIFY_TO", ""),
		},
		Schedule: Schedule{
			PostingTimes: splitList(getEnv("POSTING_TIMES", "09:30,12:30,16:00")),
			Timezone:     getEnv("POSTING_TIMEZONE", "America/Bogota"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getSecret returns the env value, decrypting it with secretKey when it
// carries the "enc:" prefix.
func getSecret(key, secretKey string) string {
	value := getEnv(key, "")
	if !strings.HasPrefix(value, encryptedPrefix) {
		return value
	}

	plain, err := utils.Decrypt(strings.TrimPrefix(value, encryptedPrefix), []byte(secretKey))
	if err != nil {
		slog.Info("unable to decrypt secret", "key", key, "error", err)
		return ""
	}
	return plain
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
