package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/catalog-service/pkg/kafka"
	"github.com/Astemirdum/catalog-service/pkg/logger"
	"github.com/Astemirdum/catalog-service/pkg/postgres"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRemote   = "remote"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"CATALOG_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"CATALOG_HTTP_PORT" default:"8081"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Storage struct {
	Driver string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	// Seed loads the demo books into an empty store on start.
	Seed bool `yaml:"seed" envconfig:"STORAGE_SEED" default:"true"`
}

// Remote is the books backend used by the remote storage driver.
type Remote struct {
	BaseURL  string        `yaml:"baseUrl" envconfig:"REMOTE_BASE_URL" default:"http://localhost:8081/api"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"REMOTE_TIMEOUT" default:"30s"`
	Email    string        `yaml:"email" envconfig:"REMOTE_EMAIL"`
	Password string        `yaml:"password" envconfig:"REMOTE_PASSWORD" json:"-"`
}

type Auth struct {
	JWTKey   string        `envconfig:"JWT_KEY" default:"catalog-demo-key" json:"-"`
	TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	// Delay before an auth result is reported.
	Delay time.Duration `envconfig:"AUTH_DELAY" default:"0s"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Storage  Storage      `yaml:"storage"`
	Database postgres.DB  `yaml:"db"`
	Remote   Remote       `yaml:"remote"`
	Auth     Auth         `yaml:"auth"`
	Kafka    kafka.Config `yaml:"kafka"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		if config.Storage.Driver == "" {
			config.Storage.Driver = DriverMemory
		}
		cfg = &config
	})

	return cfg
}
