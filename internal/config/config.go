package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// QuestionCount is the number of fixed survey questions (Q1..Q12).
const QuestionCount = 12

// TokenLabel is the form question whose answer carries the respondent's
// capability token. It is prefilled by the bot and must never collide with a
// survey question label.
const TokenLabel = "ユーザーID"

// DefaultQuestionLabels are the GHQ-12 question texts as they appear on the
// Google Form. The webhook matches submitted answers against these labels;
// anything else on the form is ignored.
var DefaultQuestionLabels = [QuestionCount]string{
	"Q1. 心配事のために睡眠時間が減ったことはありますか？",
	"Q2. いつも緊張していますか？",
	"Q3. ものごとに集中できますか？",
	"Q4. 何か有益な役割を果たしていると思いますか？",
	"Q5. 自分の問題について立ち向かうことができますか？",
	"Q6. 物事について決断できると思いますか？",
	"Q7. いろんな問題を解決できなくて困りますか？",
	"Q8. 全般的にまあ満足していますか？",
	"Q9. 日常生活を楽しむことができますか？",
	"Q10. 不幸せで憂うつと感じますか？",
	"Q11. 自信をなくしますか？",
	"Q12. 自分は役にたたない人間だと感じることがありますか？",
}

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string
	JWTSecret  string

	WebhookToken           string
	LineChannelSecret      string
	LineChannelAccessToken string

	FormBaseURL string
	FormEntryID string
	AppBaseURL  string

	// Location is the canonical display zone: all date bucketing and
	// timestamp formatting happens in this zone regardless of server locale.
	Location *time.Location

	TokenLabel     string
	QuestionLabels [QuestionCount]string
	// QuestionSlots maps a question label to its 1-based slot, built and
	// validated once at startup.
	QuestionSlots map[string]int
}

func Load() *Config {
	tz := getEnv("DISPLAY_TIMEZONE", "Asia/Tokyo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("invalid DISPLAY_TIMEZONE %q: %v", tz, err)
	}

	slots, err := BuildQuestionSlots(DefaultQuestionLabels, TokenLabel)
	if err != nil {
		log.Fatalf("invalid question table: %v", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "wellbeing"),
		ServerPort: getEnv("SERVER_PORT", "8000"),
		JWTSecret:  getEnv("JWT_SECRET", "super-secret-key-change-me"),

		WebhookToken:           getEnv("WEBHOOK_TOKEN", "SHARED_SECRET_123"),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),

		FormBaseURL: getEnv("FORM_BASE_URL", ""),
		FormEntryID: getEnv("FORM_ENTRY_ID", ""),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:8000"),

		Location:       loc,
		TokenLabel:     TokenLabel,
		QuestionLabels: DefaultQuestionLabels,
		QuestionSlots:  slots,
	}
}

// BuildQuestionSlots validates the label table: twelve distinct non-empty
// labels, none of them equal to the token label.
func BuildQuestionSlots(labels [QuestionCount]string, tokenLabel string) (map[string]int, error) {
	slots := make(map[string]int, QuestionCount)
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("question %d has an empty label", i+1)
		}
		if label == tokenLabel {
			return nil, fmt.Errorf("question %d collides with the token label", i+1)
		}
		if _, dup := slots[label]; dup {
			return nil, fmt.Errorf("duplicate question label %q", label)
		}
		slots[label] = i + 1
	}
	return slots, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
