package common

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Credentials are the backend login secrets. They never live in config.yaml.
type Credentials struct {
	Email    string `env:"DERMACHAT_EMAIL"`
	Password string `env:"DERMACHAT_PASSWORD"`
}

// IsEmpty is true when no login should be attempted.
func (c Credentials) IsEmpty() bool {
	return c.Email == "" || c.Password == ""
}

// LoadCredentials loads the optional dotenv files into the process environment (existing variables win), then
// reads the credentials from it.
func LoadCredentials(dotenvPaths ...string) (Credentials, error) {
	for _, path := range dotenvPaths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, err
		}
	}
	var credentials Credentials
	err := env.Parse(&credentials)
	if err != nil {
		return Credentials{}, err
	}
	return credentials, nil
}
