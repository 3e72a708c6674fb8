package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	ML       MLConfig       `yaml:"ml"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	CORS     CORSConfig     `yaml:"cors"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-default:""`
}

type RedisConfig struct {
	// URL is a redis connection string. Empty means the in-process store.
	URL string `yaml:"url" env:"REDIS_URL" env-default:""`
}

type AuthConfig struct {
	Secret string `yaml:"secret" env:"AUTH_SECRET" env-default:""`
	// Optional lets unauthenticated requests through as a fixed local
	// identity. Never enable it outside local development.
	Optional bool `yaml:"optional" env:"AUTH_OPTIONAL" env-default:"false"`
}

type MLConfig struct {
	URL string `yaml:"url" env:"ML_SERVICE_URL" env-default:""`
}

type OAuthConfig struct {
	RedirectBase       string            `yaml:"redirect_base" env:"OAUTH_REDIRECT_BASE" env-default:""`
	FrontendSuccessURL string            `yaml:"frontend_success_url" env:"OAUTH_FRONTEND_SUCCESS_URL" env-default:""`
	GitHub             OAuthClientConfig `yaml:"github"`
	GitLab             OAuthClientConfig `yaml:"gitlab"`
	Bitbucket          OAuthClientConfig `yaml:"bitbucket"`
}

type OAuthClientConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.ML.URL == "" {
		c.ML.URL = "http://localhost:8001"
	}
	if c.OAuth.RedirectBase == "" {
		c.OAuth.RedirectBase = "http://localhost:8080"
	}
	if c.OAuth.FrontendSuccessURL == "" {
		c.OAuth.FrontendSuccessURL = "http://localhost:3000/settings/integrations"
	}
	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"http://localhost:3000"}
	}
}

// OAuthSecrets come from the environment only so they never end up in a
// checked-in yaml file.
func (c *Config) LoadOAuthSecrets() {
	load := func(dst *OAuthClientConfig, idVar, secretVar string) {
		if dst.ClientID == "" {
			dst.ClientID = os.Getenv(idVar)
		}
		if dst.ClientSecret == "" {
			dst.ClientSecret = os.Getenv(secretVar)
		}
	}
	load(&c.OAuth.GitHub, "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET")
	load(&c.OAuth.GitLab, "GITLAB_CLIENT_ID", "GITLAB_CLIENT_SECRET")
	load(&c.OAuth.Bitbucket, "BITBUCKET_CLIENT_ID", "BITBUCKET_CLIENT_SECRET")
}
