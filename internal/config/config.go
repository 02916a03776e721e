package config

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	Postgres   PostgresConfig   `yaml:"postgres"`   // Postgres holds the database configuration
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the REST API server configuration
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the metrics and health server configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`      // Host is the database server address.
	Port     string `yaml:"port"`      // Port is the database server port.
	User     string `yaml:"user"`      // User is the database user.
	Password string `yaml:"password"`  // Password is the database user's password.
	Dbname   string `yaml:"db_name"`   // Dbname is the name of the database.
	MinConns int32  `yaml:"min_conns"` // MinConns is the minimum number of pooled connections.
}

// HTTPConfig struct holds the configuration of the REST API server.
type HTTPConfig struct {
	Host            string        `yaml:"host"`             // Host is the address the API listens on.
	Port            string        `yaml:"port"`             // Port is the port the API listens on.
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // RequestTimeout bounds a single request.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // ShutdownTimeout bounds graceful shutdown.
}

// MonitoringConfig struct holds the configuration of the metrics and health server.
type MonitoringConfig struct {
	Port int `yaml:"port"` // Port is the port for /metrics and /healthz.
}

// Addr returns the HTTP bind address.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// envBindings maps configuration keys to the environment variables overriding them.
var envBindings = map[string]string{
	"env":                   "PALLAS_ENV",
	"postgres.host":         "DB_HOST",
	"postgres.port":         "DB_PORT",
	"postgres.user":         "DB_USERNAME",
	"postgres.password":     "DB_PASSWORD",
	"postgres.db_name":      "DB_NAME",
	"postgres.min_conns":    "DB_MIN_CONNS",
	"http.host":             "HTTP_HOST",
	"http.port":             "HTTP_PORT",
	"http.request_timeout":  "HTTP_REQUEST_TIMEOUT",
	"http.shutdown_timeout": "HTTP_SHUTDOWN_TIMEOUT",
	"monitoring.port":       "MONITORING_PORT",
}

// MustLoad loads the configuration from an optional YAML file and the environment
// and returns a Config struct. Environment variables take precedence over the file.
func MustLoad() *Config {
	// a missing .env file is fine, the variables may come from the environment
	_ = godotenv.Load()

	vpr := viper.New()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	for key, env := range envBindings {
		if err := vpr.BindEnv(key, env); err != nil {
			panic("config error: " + err.Error())
		}
	}

	defMinConns := 3
	defMonitoringPort := 8080

	vpr.SetDefault("env", "local")
	vpr.SetDefault("postgres.host", "localhost")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("postgres.min_conns", defMinConns)
	vpr.SetDefault("http.host", "0.0.0.0")
	vpr.SetDefault("http.port", "8000")
	vpr.SetDefault("http.request_timeout", "10s")
	vpr.SetDefault("http.shutdown_timeout", "5s")
	vpr.SetDefault("monitoring.port", defMonitoringPort)

	minConns, err := strconv.ParseInt(vpr.GetString("postgres.min_conns"), 10, 32)
	if err != nil {
		panic("failed to parse postgres min connections from configuration")
	}

	monitoringPort, err := strconv.Atoi(vpr.GetString("monitoring.port"))
	if err != nil {
		panic("failed to parse monitoring port from configuration")
	}

	return &Config{
		Env: vpr.GetString("env"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
			MinConns: int32(minConns),
		},
		HTTP: HTTPConfig{
			Host:            vpr.GetString("http.host"),
			Port:            vpr.GetString("http.port"),
			RequestTimeout:  mustDuration(vpr, "http.request_timeout", "request timeout"),
			ShutdownTimeout: mustDuration(vpr, "http.shutdown_timeout", "shutdown timeout"),
		},
		Monitoring: MonitoringConfig{
			Port: monitoringPort,
		},
	}
}

func mustDuration(vpr *viper.Viper, key, name string) time.Duration {
	value, err := time.ParseDuration(vpr.GetString(key))
	if err != nil {
		panic("failed to parse " + name + " from configuration")
	}

	return value
}
