package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/DanRulev/vocadrill/internal/confidence"
	"github.com/DanRulev/vocadrill/internal/experiment"
	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/priority"
	"github.com/DanRulev/vocadrill/internal/progress"
	"github.com/DanRulev/vocadrill/internal/requeue"
	"github.com/DanRulev/vocadrill/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	BotToken   string           `mapstructure:"bot_token"`
	DB         DBConfig         `mapstructure:"db" validate:"required"`
	Env        string           `mapstructure:"env" validate:"oneof=development production staging"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Requeue    requeue.Config   `mapstructure:"requeue"`
	Experiment ExperimentConfig `mapstructure:"experiment"`
	Model      ModelConfig      `mapstructure:"model"`
	Deck       []models.Item    `mapstructure:"deck" validate:"dive"`
}

type AppConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1"`
}

type DBConfig struct {
	Driver string  `mapstructure:"driver" validate:"oneof=postgres sqlite3 memory"`
	Path   string  `mapstructure:"path" validate:"required_if=Driver sqlite3"`
	Conn   *DBConn `mapstructure:"conn"`
	Cfg    DBCfg   `mapstructure:"cfg"`
}

type DBConn struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	SSL      string `mapstructure:"ssl" validate:"oneof=disable require verify-full"`
}

type DBCfg struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1,max=1000"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0,max=100"`
	ConnMaxLifeTime time.Duration `mapstructure:"conn_max_life_time" validate:"min=0"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"min=0"`
}

type SchedulerConfig struct {
	Priority   priority.Config            `mapstructure:"priority"`
	Variants   map[string]priority.Config `mapstructure:"variants" validate:"dive"`
	Classifier progress.ClassifierConfig  `mapstructure:"classifier"`
}

type ExperimentConfig struct {
	Variants           []string                    `mapstructure:"variants" validate:"dive,required"`
	Vibration          experiment.VibrationConfig  `mapstructure:"vibration"`
	Divergence         experiment.DivergenceConfig `mapstructure:"divergence"`
	SessionLogCapacity int                         `mapstructure:"session_log_capacity" validate:"min=0"`
}

type ModelConfig struct {
	Enabled         bool                   `mapstructure:"enabled"`
	Learning        confidence.ModelConfig `mapstructure:"learning"`
	PersistInterval time.Duration          `mapstructure:"persist_interval" validate:"min=0"`
	MaxBytes        int                    `mapstructure:"max_bytes" validate:"min=0"`
}

func Init() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	v.AutomaticEnv()

	configName := os.Getenv("CONFIG_NAME")
	if configName == "" {
		configName = "default"
	}

	v.AddConfigPath("configs")
	v.SetConfigName(configName)

	envs := map[string]string{
		"env":              "ENV",
		"bot_token":        "BOT_TOKEN",
		"db.driver":        "DB_DRIVER",
		"db.path":          "DB_PATH",
		"db.conn.host":     "DB_HOST",
		"db.conn.port":     "DB_PORT",
		"db.conn.user":     "DB_USER",
		"db.conn.password": "DB_PASSWORD",
		"db.conn.name":     "DB_NAME",
		"db.conn.ssl":      "DB_SSL",
		"model.enabled":    "MODEL_ENABLED",
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Config{}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	if cfg.DB.Driver == "postgres" && cfg.DB.Conn == nil {
		return nil, errors.New("validation failed: db.conn is required for postgres")
	}

	return &cfg, nil
}
