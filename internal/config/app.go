package config

type Server struct {
	Addr     string `env:"APP_ADDR" envDefault:":8080"`
	BasePath string `env:"APP_BASE_PATH"`
	// CorsOrigins lists allowed origins, any origin is allowed when empty.
	CorsOrigins []string `env:"APP_CORS_ORIGINS" envSeparator:","`
}

func NewServer() (*Server, error) {
	var s Server
	if err := ParseEnv(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
