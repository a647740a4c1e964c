package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SpamPolicy holds the spam guard thresholds. Values are configuration, not
// constants, so product can tune them without a deploy of new logic.
type SpamPolicy struct {
	MaxReviewsPerWindow int
	MaxRepliesPerWindow int
	RateWindow          time.Duration
	NearDuplicateWindow time.Duration
	DuplicatePrefixLen  int

	// Content heuristics carried over from the moderation team's blunt but
	// serviceable personal-attack detector.
	AttackKeywords  []string
	PersonalPronoun []string
	MaxPronounCount int
	ShortContentLen int
}

// ImagePolicy holds upload validation rules.
type ImagePolicy struct {
	AllowedExtensions []string
	MaxSizeBytes      int64
	MaxPerProperty    int
}

type Config struct {
	Port               string
	DBConnectionString string
	RedisURL           string

	AccessTokenSecret  string
	RefreshTokenSecret string
	EmailTokenSecret   string

	SendgridAPIKey string
	FromEmail      string
	ContactEmail   string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	Spam  SpamPolicy
	Image ImagePolicy

	MinReviewContentLen   int
	MinReplyContentLen    int
	MinResponseContentLen int
	VerificationCodeTTL   time.Duration
}

var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:               getEnv("PORT", "8080"),
		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),
		RedisURL:           getEnv("REDIS_URL", "localhost:6379"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "devsecret"),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "devsecret"),
		EmailTokenSecret:   getEnv("EMAIL_TOKEN_SECRET", "devsecret"),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", "no-reply@propertyreviews.local"),
		ContactEmail:   getEnv("CONTACT_EMAIL", "support@propertyreviews.local"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "properties"),

		Spam: SpamPolicy{
			MaxReviewsPerWindow: getEnvInt("SPAM_MAX_REVIEWS_PER_HOUR", 3),
			MaxRepliesPerWindow: getEnvInt("SPAM_MAX_REPLIES_PER_HOUR", 5),
			RateWindow:          time.Hour,
			NearDuplicateWindow: 24 * time.Hour,
			DuplicatePrefixLen:  getEnvInt("SPAM_DUPLICATE_PREFIX_LEN", 50),
			AttackKeywords: []string{
				"stupid", "idiot", "moron", "loser", "jerk", "asshole", "bastard",
				"hate you", "you are", "you're a", "you suck", "kill yourself",
				"you should die", "you deserve", "fuck you", "damn you",
			},
			PersonalPronoun: []string{"you", "your", "you're", "you've", "you'll"},
			MaxPronounCount: getEnvInt("SPAM_MAX_PRONOUN_COUNT", 5),
			ShortContentLen: getEnvInt("SPAM_SHORT_CONTENT_LEN", 200),
		},
		Image: ImagePolicy{
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
			MaxSizeBytes:      getEnvInt64("MAX_IMAGE_SIZE", 50*1024*1024),
			MaxPerProperty:    6,
		},

		MinReviewContentLen:   50,
		MinReplyContentLen:    10,
		MinResponseContentLen: 20,
		VerificationCodeTTL:   30 * time.Minute,
	}

	if AppConfig.AccessTokenSecret == "devsecret" {
		log.Println("Warning: Using default ACCESS_TOKEN_SECRET. Update it in your environment.")
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return parsed
}
