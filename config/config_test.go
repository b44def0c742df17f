package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.UserServicePort)
	assert.Equal(t, "8081", cfg.ReportServicePort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "report-notifications", cfg.RabbitMQNotifyQueue)
	assert.Equal(t, "reports", cfg.ESReportsIndex)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("USER_SERVICE_PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("MAIL_SEND_ENABLED", "false")

	cfg := Load()
	assert.Equal(t, "9090", cfg.UserServicePort)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "soon")
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("MAIL_SEND_ENABLED", "sometimes")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.True(t, cfg.MailSendEnabled)
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "app", DBSSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/app?sslmode=require", c.PostgresDSN())
}

func TestSplitCSV(t *testing.T) {
	c := &Config{
		CORSAllowedOrigins: " https://a.dev, https://b.dev ,,",
		ElasticsearchAddrs: "http://es1:9200",
	}
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, c.CORSOrigins())
	assert.Equal(t, []string{"http://es1:9200"}, c.ESAddrs())
}
