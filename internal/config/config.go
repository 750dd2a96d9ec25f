// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration - обертка над time.Duration для разбора значений вида "30m" из YAML
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %v", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std возвращает стандартный time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Server struct {
	Addr         string   `yaml:"addr"`
	Mode         string   `yaml:"mode"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
}

type Logger struct {
	Level string `yaml:"level"`
	Sink  string `yaml:"sink"`
}

type Database struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SMTP struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	BCC      []string `yaml:"bcc"`
}

type Sentry struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type Telegram struct {
	Token        string `yaml:"token"`
	AlertChannel string `yaml:"alert_channel"`
}

type Workflow struct {
	// Timezone - единый организационный часовой пояс, в котором считаются
	// "сегодня" и "сейчас" для всех проверок (например "Asia/Kolkata")
	Timezone          string   `yaml:"timezone"`
	AutoAcceptWindow  Duration `yaml:"auto_accept_window"`
	SweepLockTTL      Duration `yaml:"sweep_lock_ttl"`
	BookingDetailBase string   `yaml:"booking_detail_base"`
}

type AppConfig struct {
	Server   Server   `yaml:"server"`
	Logger   Logger   `yaml:"log"`
	Primary  Database `yaml:"primary_db"`
	RC       Database `yaml:"rc_db"`
	CRM      Database `yaml:"crm_db"`
	Kafka    Kafka    `yaml:"kafka"`
	Redis    Redis    `yaml:"redis"`
	SMTP     SMTP     `yaml:"smtp"`
	Sentry   Sentry   `yaml:"sentry"`
	Telegram Telegram `yaml:"telegram"`
	Workflow Workflow `yaml:"workflow"`
}

func NewConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var appConfig AppConfig
	if err := yaml.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	appConfig.applyDefaults()

	return &appConfig, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Workflow.Timezone == "" {
		c.Workflow.Timezone = "Asia/Kolkata"
	}
	if c.Workflow.AutoAcceptWindow == 0 {
		c.Workflow.AutoAcceptWindow = Duration(30 * time.Minute)
	}
	if c.Workflow.SweepLockTTL == 0 {
		c.Workflow.SweepLockTTL = Duration(5 * time.Minute)
	}
}
