package config_test

import (
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/pallas/internal/config"
	"github.com/stretchr/testify/assert"
)

const configYAML = `
env: development
postgres:
  host: fileHost
  port: "6543"
  user: fileUser
  password: filePass
  db_name: fileName
  min_conns: 5
http:
  host: 127.0.0.1
  port: "9000"
  request_timeout: 3s
  shutdown_timeout: 7s
monitoring:
  port: 9100
`

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PALLAS_ENV", "local")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")
	t.Setenv("HTTP_PORT", "8001")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "1m")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "testHost", cfg.Postgres.Host)
	assert.Equal(t, "12345", cfg.Postgres.Port)
	assert.Equal(t, "admin", cfg.Postgres.User)
	assert.Equal(t, "adminpass", cfg.Postgres.Password)
	assert.Equal(t, "testName", cfg.Postgres.Dbname)
	assert.Equal(t, int32(3), cfg.Postgres.MinConns)
	assert.Equal(t, "0.0.0.0:8001", cfg.HTTP.Addr())
	assert.Equal(t, time.Minute, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 8080, cfg.Monitoring.Port)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer filet.CleanUp(t)

	file := filet.TmpFile(t, "", configYAML)
	t.Setenv("CONFIG_PATH", file.Name()+".yaml")

	assert.PanicsWithValue(t, "config file does not exist: "+file.Name()+".yaml", func() {
		config.MustLoad()
	})
}

func Test_MustLoadFromYAMLFile(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	file := filet.File(t, dir+"/config.yaml", configYAML)
	t.Setenv("CONFIG_PATH", file.Name())
	t.Setenv("DB_PASSWORD", "envPass")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "fileHost", cfg.Postgres.Host)
	assert.Equal(t, "6543", cfg.Postgres.Port)
	assert.Equal(t, "fileUser", cfg.Postgres.User)
	assert.Equal(t, "envPass", cfg.Postgres.Password)
	assert.Equal(t, "fileName", cfg.Postgres.Dbname)
	assert.Equal(t, int32(5), cfg.Postgres.MinConns)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr())
	assert.Equal(t, 3*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 7*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 9100, cfg.Monitoring.Port)
}

func TestMustLoad_RequestTimeoutError(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "error_value")

	assert.PanicsWithValue(t, "failed to parse request timeout from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_MonitoringPortError(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("MONITORING_PORT", "port")

	assert.PanicsWithValue(t, "failed to parse monitoring port from configuration", func() {
		config.MustLoad()
	})
}
