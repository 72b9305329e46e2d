package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// envPaths are searched in order; the first existing file is loaded.
var envPaths = []string{".env", "../.env", "../../.env"}

type Config struct {
	Env  string
	Port string

	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	CORS     CORSConfig
	Calendar CalendarConfig
}

type DatabaseConfig struct {
	// URL selects postgres when set; otherwise the sqlite file at Path is used.
	URL  string
	Path string
}

type AuthConfig struct {
	JWTSecret     string
	MasterSecret  string
	AdminUsername string
	AdminPassword string
	BcryptCost    int
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// CalendarConfig controls the iCalendar export.
type CalendarConfig struct {
	Name     string
	Timezone string
	Location string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", "8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_PATH", "night_schedule.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("API_MASTER_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("BCRYPT_COST", 14)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CALENDAR_NAME", "Night Shifts")
	v.SetDefault("CALENDAR_TIMEZONE", "America/Chicago")
	v.SetDefault("CALENDAR_LOCATION", "")

	cfg := &Config{
		Env:  v.GetString("ENV"),
		Port: v.GetString("PORT"),
		Database: DatabaseConfig{
			URL:  v.GetString("DATABASE_URL"),
			Path: v.GetString("DATA_PATH"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			MasterSecret:  v.GetString("API_MASTER_SECRET"),
			AdminUsername: v.GetString("ADMIN_USERNAME"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
			BcryptCost:    v.GetInt("BCRYPT_COST"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Calendar: CalendarConfig{
			Name:     v.GetString("CALENDAR_NAME"),
			Timezone: v.GetString("CALENDAR_TIMEZONE"),
			Location: v.GetString("CALENDAR_LOCATION"),
		},
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
