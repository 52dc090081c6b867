package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		AppName          string
		SecretKey        string
		DefaultFromEmail mail.Address
		AlertEmail       string
		SendgridApiKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		JWTExpirationDelta time.Duration
		LoginRateBurst     int
		LoginRatePerMin    int
		LockoutThreshold   int
	}

	DatabaseConfig struct {
		Path string
	}
)

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "TeacherPortal")
	v.SetDefault("secretKey", "x)wq3-ter(bhn$+84=kz&ypxj5(j!v)#*d7(#hg2k^$fenm9qro")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("alertEmail", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("loginRateBurst", 10)
	v.SetDefault("loginRatePerMin", 5)
	v.SetDefault("lockoutThreshold", 5)
	v.SetDefault("databasePath", "teacher_portal.db")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		Env:              env,
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		AlertEmail:       v.GetString("alertEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			LoginRateBurst:     v.GetInt("loginRateBurst"),
			LoginRatePerMin:    v.GetInt("loginRatePerMin"),
			LockoutThreshold:   v.GetInt("lockoutThreshold"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("databasePath"),
		},
	}
}
