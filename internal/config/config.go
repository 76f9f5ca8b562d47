package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	// DatabaseURL toggles the relational backend. When empty the service
	// runs in fallback-only mode against the local JSON store.
	DatabaseURL string `env:"DATABASE_URL"`

	Storage Storage `envPrefix:"STORAGE_"`
	Plan    Plan    `envPrefix:"PLAN_"`
}

type Storage struct {
	DataDir  string `env:"DATA_DIR" envDefault:"data"`
	FileName string `env:"FILE_NAME" envDefault:"users.json"`
}

type Plan struct {
	DefaultName string `env:"DEFAULT_NAME" envDefault:"App CapiCare 30 Dias"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
