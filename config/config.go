package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Redis        Redis
	GeminiApiKey string
	Proctor      Proctor
	Telephony    Telephony
	Calendar     Calendar
	Payment      Payment
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Proctor holds the presence-monitor policy. The distance threshold and the
// violation limit are deployment policy, not fixed law.
type Proctor struct {
	DistanceThreshold float64
	ViolationLimit    int
	SampleIntervalSec int
}

type Telephony struct {
	AccountSID  string
	APIKey      string
	APISecret   string
	PhoneNumber string
	BaseURL     string
}

type Calendar struct {
	CalendarID      string
	CredentialsFile string
}

type Payment struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("PROCTOR_DISTANCE_THRESHOLD", 0.6)
	viper.SetDefault("PROCTOR_VIOLATION_LIMIT", 3)
	viper.SetDefault("PROCTOR_SAMPLE_INTERVAL_SEC", 3)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	config.Proctor.DistanceThreshold = viper.GetFloat64("PROCTOR_DISTANCE_THRESHOLD")
	config.Proctor.ViolationLimit = viper.GetInt("PROCTOR_VIOLATION_LIMIT")
	config.Proctor.SampleIntervalSec = viper.GetInt("PROCTOR_SAMPLE_INTERVAL_SEC")

	config.Telephony.AccountSID = viper.GetString("TWILIO_ACCOUNT_SID")
	config.Telephony.APIKey = viper.GetString("TWILIO_API_KEY")
	config.Telephony.APISecret = viper.GetString("TWILIO_API_SECRET")
	config.Telephony.PhoneNumber = viper.GetString("TWILIO_PHONE_NUMBER")
	config.Telephony.BaseURL = viper.GetString("TWILIO_BASE_URL")

	config.Calendar.CalendarID = viper.GetString("GOOGLE_CALENDAR_ID")
	config.Calendar.CredentialsFile = viper.GetString("GOOGLE_SERVICE_ACCOUNT_PATH")

	config.Payment.KeyID = viper.GetString("RAZORPAY_KEY_ID")
	config.Payment.KeySecret = viper.GetString("RAZORPAY_KEY_SECRET")
	config.Payment.BaseURL = viper.GetString("RAZORPAY_BASE_URL")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
