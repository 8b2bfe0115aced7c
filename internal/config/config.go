package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/weather-analysis/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Config holds all pipeline settings, populated from environment variables.
// The defaults reproduce the fixed layout: data/raw_weather.csv in,
// data/cleaned_weather.csv and plots/*.png out.
type Config struct {
	InputPath   string `validate:"required"`
	CleanedPath string `validate:"required"`
	PlotsDir    string `validate:"required"`

	Columns             domain.ColumnSet
	MissingColumnPolicy domain.MissingColumnPolicy `validate:"oneof=fail skip"`

	PlotWidth  int `validate:"min=200,max=8000"`
	PlotHeight int `validate:"min=150,max=8000"`

	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=json text"`

	// Optional monthly summary publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers      []string
	KafkaSummaryTopic string `validate:"required_with=KafkaBrokers"`

	// Optional end-of-run metrics export.
	PushgatewayURL  string `validate:"omitempty,url"`
	MetricsTextfile string
}

// PublishEnabled reports whether monthly summaries go to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

var validate = validator.New()

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	width, err := parsePositiveInt("PLOT_WIDTH", "1024")
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveInt("PLOT_HEIGHT", "600")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:   sharedcfg.EnvOrDefault("WEATHER_INPUT_PATH", "data/raw_weather.csv"),
		CleanedPath: sharedcfg.EnvOrDefault("WEATHER_CLEANED_PATH", "data/cleaned_weather.csv"),
		PlotsDir:    sharedcfg.EnvOrDefault("WEATHER_PLOTS_DIR", "plots"),
		Columns: domain.ColumnSet{
			Temperature: sharedcfg.EnvOrDefault("TEMP_COLUMN", "temp"),
			Rainfall:    sharedcfg.EnvOrDefault("RAIN_COLUMN", "rain"),
			Humidity:    sharedcfg.EnvOrDefault("HUMIDITY_COLUMN", "humidity"),
		},
		MissingColumnPolicy: domain.MissingColumnPolicy(strings.ToLower(sharedcfg.EnvOrDefault("MISSING_COLUMN_POLICY", string(domain.PolicyFail)))),
		PlotWidth:           width,
		PlotHeight:          height,
		LogLevel:            strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "text")),
		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")),
		KafkaSummaryTopic:   sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "weather-monthly-summaries"),
		PushgatewayURL:      sharedcfg.EnvOrDefault("PUSHGATEWAY_URL", ""),
		MetricsTextfile:     sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, describeValidation(err)
	}
	if err := cfg.Columns.Validate(); err != nil {
		return nil, fmt.Errorf("invalid column configuration: %w", err)
	}

	return cfg, nil
}

// envNames maps struct fields to the variables that set them, for error messages.
var envNames = map[string]string{
	"InputPath":           "WEATHER_INPUT_PATH",
	"CleanedPath":         "WEATHER_CLEANED_PATH",
	"PlotsDir":            "WEATHER_PLOTS_DIR",
	"MissingColumnPolicy": "MISSING_COLUMN_POLICY",
	"PlotWidth":           "PLOT_WIDTH",
	"PlotHeight":          "PLOT_HEIGHT",
	"LogLevel":            "LOG_LEVEL",
	"LogFormat":           "LOG_FORMAT",
	"KafkaSummaryTopic":   "KAFKA_SUMMARY_TOPIC",
	"PushgatewayURL":      "PUSHGATEWAY_URL",
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "required", "required_with":
			msgs = append(msgs, name+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("invalid %s %q: must be one of %s", name, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("invalid %s %v: must be between allowed bounds (%s %s)", name, fe.Value(), fe.Tag(), fe.Param()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("invalid %s %q: must be a URL", name, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid %s", name))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func parsePositiveInt(key, def string) (int, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}
