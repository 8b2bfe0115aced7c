package config

import (
	"testing"

	"github.com/couchcryptid/weather-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/raw_weather.csv", cfg.InputPath)
	assert.Equal(t, "data/cleaned_weather.csv", cfg.CleanedPath)
	assert.Equal(t, "plots", cfg.PlotsDir)
	assert.Equal(t, domain.DefaultColumnSet(), cfg.Columns)
	assert.Equal(t, domain.PolicyFail, cfg.MissingColumnPolicy)
	assert.Equal(t, 1024, cfg.PlotWidth)
	assert.Equal(t, 600, cfg.PlotHeight)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.PublishEnabled())
	assert.Equal(t, "weather-monthly-summaries", cfg.KafkaSummaryTopic)
	assert.Empty(t, cfg.PushgatewayURL)
	assert.Empty(t, cfg.MetricsTextfile)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WEATHER_INPUT_PATH", "in/obs.csv")
	t.Setenv("WEATHER_CLEANED_PATH", "out/clean.csv")
	t.Setenv("WEATHER_PLOTS_DIR", "out/plots")
	t.Setenv("TEMP_COLUMN", "t_c")
	t.Setenv("RAIN_COLUMN", "precip")
	t.Setenv("HUMIDITY_COLUMN", "rh")
	t.Setenv("MISSING_COLUMN_POLICY", "SKIP")
	t.Setenv("PLOT_WIDTH", "800")
	t.Setenv("PLOT_HEIGHT", "400")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SUMMARY_TOPIC", "custom-summaries")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/weather.prom")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "in/obs.csv", cfg.InputPath)
	assert.Equal(t, "out/clean.csv", cfg.CleanedPath)
	assert.Equal(t, "out/plots", cfg.PlotsDir)
	assert.Equal(t, domain.ColumnSet{Temperature: "t_c", Rainfall: "precip", Humidity: "rh"}, cfg.Columns)
	assert.Equal(t, domain.PolicySkip, cfg.MissingColumnPolicy)
	assert.Equal(t, 800, cfg.PlotWidth)
	assert.Equal(t, 400, cfg.PlotHeight)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PublishEnabled())
	assert.Equal(t, "custom-summaries", cfg.KafkaSummaryTopic)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
	assert.Equal(t, "/var/lib/node_exporter/weather.prom", cfg.MetricsTextfile)
}

func TestLoad_InvalidPolicy(t *testing.T) {
	t.Setenv("MISSING_COLUMN_POLICY", "ignore")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING_COLUMN_POLICY")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_InvalidPlotWidth(t *testing.T) {
	t.Setenv("PLOT_WIDTH", "wide")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLOT_WIDTH")
}

func TestLoad_PlotHeightTooSmall(t *testing.T) {
	t.Setenv("PLOT_HEIGHT", "10")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLOT_HEIGHT")
}

func TestLoad_InvalidPushgatewayURL(t *testing.T) {
	t.Setenv("PUSHGATEWAY_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUSHGATEWAY_URL")
}

func TestLoad_DuplicateColumnNames(t *testing.T) {
	t.Setenv("RAIN_COLUMN", "temp")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column")
}

func TestLoad_BlankBrokersDisablePublishing(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_AcceptsWarningLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARNING")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.LogLevel)
}
