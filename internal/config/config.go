package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Origens de dados suportadas
const (
	DataSourceAPI      = "api"
	DataSourcePostgres = "postgres"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Backend       Backend       `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	View          View          `mapstructure:",squash"`
	Theme         Theme         `mapstructure:",squash"`
	Session       Session       `mapstructure:",squash"`
	BackendHealth BackendHealth `mapstructure:",squash"`
	SecretKey     string        `mapstructure:"secret_key" validate:"required,min=16"`
}

type App struct {
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port" validate:"required,numeric"`
}

// Backend descreve de onde o painel busca os dados
type Backend struct {
	DataSource string        `mapstructure:"data_source" validate:"oneof=api postgres"`
	URL        string        `mapstructure:"backend_url"`
	Timeout    time.Duration `mapstructure:"backend_timeout" validate:"gte=0"`
	RateLimit  float64       `mapstructure:"backend_rate_limit" validate:"gte=0"`
	RateBurst  int           `mapstructure:"backend_rate_burst" validate:"gte=0"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type View struct {
	RenderTimeout      time.Duration `mapstructure:"render_timeout" validate:"gte=0"`
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout" validate:"gte=0"`
	RankingPolicy      string        `mapstructure:"ranking_policy" validate:"oneof=source sorted"`
	OperatorsPageLimit int           `mapstructure:"operators_page_limit" validate:"min=1,max=100"`
}

type Theme struct {
	File string `mapstructure:"theme_file" validate:"required"`
}

type Session struct {
	TTL       time.Duration `mapstructure:"session_ttl" validate:"required"`
	SweepCron string        `mapstructure:"session_sweep_cron" validate:"required"`
	Max       int           `mapstructure:"session_max" validate:"gte=0"`
}

type BackendHealth struct {
	CronSchedule string `mapstructure:"backend_health_cron"`
	Enabled      bool   `mapstructure:"backend_health_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", "8080")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_ENV", "")

	viper.SetDefault("DATA_SOURCE", DataSourceAPI)
	viper.SetDefault("BACKEND_URL", "http://localhost:8000")
	viper.SetDefault("BACKEND_TIMEOUT", "10s")
	viper.SetDefault("BACKEND_RATE_LIMIT", 20) // requisições por segundo, 0 desliga
	viper.SetDefault("BACKEND_RATE_BURST", 10)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ans?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("RENDER_TIMEOUT", "2s")
	viper.SetDefault("FETCH_TIMEOUT", "30s")
	viper.SetDefault("RANKING_POLICY", "source")
	viper.SetDefault("OPERATORS_PAGE_LIMIT", 20)

	viper.SetDefault("THEME_FILE", "./data/preferencias.yaml")

	viper.SetDefault("SECRET_KEY", "painel-operadoras-dev-secret") // ONLY LOCAL
	viper.SetDefault("SESSION_TTL", "30m")
	viper.SetDefault("SESSION_SWEEP_CRON", "*/5 * * * *") // A cada 5 minutos
	viper.SetDefault("SESSION_MAX", 1000)

	viper.SetDefault("BACKEND_HEALTH_CRON", "* * * * *") // A cada minuto
	viper.SetDefault("BACKEND_HEALTH_ENABLED", true)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate aplica as regras das tags e as regras que dependem de mais de um campo
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuração inválida: %w", err)
	}

	switch c.Backend.DataSource {
	case DataSourceAPI:
		u, err := url.Parse(c.Backend.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("configuração inválida: BACKEND_URL deve ser uma URL http(s), recebido %q", c.Backend.URL)
		}
	case DataSourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("configuração inválida: DATABASE_URL é obrigatória com DATA_SOURCE=postgres")
		}
	}

	if c.Backend.RateLimit > 0 && c.Backend.RateBurst < 1 {
		return fmt.Errorf("configuração inválida: BACKEND_RATE_BURST deve ser ao menos 1 com limite de taxa ativo")
	}

	if c.BackendHealth.Enabled && c.BackendHealth.CronSchedule == "" {
		return fmt.Errorf("configuração inválida: BACKEND_HEALTH_CRON é obrigatória com a verificação ativa")
	}

	return nil
}

// IsDevelopment indica ambiente local
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "" || c.App.Env == "development" || c.App.Env == "dev"
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
