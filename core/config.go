package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		AppName  string
		Build    string

		RollbarToken string

		SessionFile string

		Client ClientConfig
	}

	ClientConfig struct {
		BaseURL        string
		RequestTimeout time.Duration
		UploadTimeout  time.Duration
	}
)

// NewConfig loads the configuration from the environment, with an optional
// config/.env.<env> file on top of the in-code defaults.
func NewConfig() (*Config, error) {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Soma")
	conf.SetDefault("build", "dev")
	conf.SetDefault("baseURL", "http://localhost:8000/api")
	conf.SetDefault("requestTimeout", 15*time.Second)
	conf.SetDefault("uploadTimeout", 5*time.Minute)
	conf.SetDefault("sessionFile", defaultSessionFile())
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
		SessionFile:  conf.GetString("sessionFile"),
		Client: ClientConfig{
			BaseURL:        conf.GetString("baseURL"),
			RequestTimeout: conf.GetDuration("requestTimeout"),
			UploadTimeout:  conf.GetDuration("uploadTimeout"),
		},
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.AppName, "appName"),
		vala.StringNotEmpty(c.Client.BaseURL, "baseURL"),
		vala.StringNotEmpty(c.SessionFile, "sessionFile"),
	).Check()
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "soma", "session.json")
}
