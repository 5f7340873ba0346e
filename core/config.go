package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database engines
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"  // modernc.org/sqlite
	EngineSQLite3  = "sqlite3" // mattn/go-sqlite3 (cgo)
	EngineMemory   = "memory"
)

type (
	ServerConfig struct {
		Host            string
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Path          string // sqlite engines only
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		WorkDir      string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

// IsSQLite reports whether the configured engine is one of the sqlite drivers.
func (dbc DatabaseConfig) IsSQLite() bool {
	return dbc.Engine == EngineSQLite || dbc.Engine == EngineSQLite3
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Classplan")
	conf.SetDefault("build", "develop")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverDebugHost", "localhost:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("databaseEngine", EngineSQLite)
	conf.SetDefault("databaseName", "classplan")
	conf.SetDefault("databasePath", "classplan.db")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseUser", "")
	conf.SetDefault("databasePassword", "")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseDisableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
		WorkDir:      wd,
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			Addr:            conf.GetString("serverAddr"),
			DebugHost:       conf.GetString("serverDebugHost"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(conf.GetString("databaseEngine")),
			Name:          conf.GetString("databaseName"),
			Path:          conf.GetString("databasePath"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
	}
}
