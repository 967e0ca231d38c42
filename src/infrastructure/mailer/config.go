package mailer

import (
	"fmt"
	"os"
	"time"

	"go-mailing-api/src/infrastructure/utils"

	"gopkg.in/yaml.v2"
)

const (
	BackendSMTP    = "smtp"
	BackendConsole = "console"
)

// Config describes the outgoing mail server
type Config struct {
	Backend  string        `yaml:"backend"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	From     string        `yaml:"from"`
	UseSSL   bool          `yaml:"use-ssl"`
	Timeout  time.Duration `yaml:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Backend: BackendSMTP,
		Host:    "localhost",
		Port:    587,
		From:    "noreply@localhost",
		Timeout: 10 * time.Second,
	}
}

// LoadConfig starts from the defaults, applies the YAML file named by MAIL_CONFIG_FILE
// when set, then the MAIL_* environment variables.
func LoadConfig() (Config, error) {
	config := DefaultConfig()

	if path := utils.GetEnv("MAIL_CONFIG_FILE", ""); path != "" {
		if err := config.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	config.Backend = utils.GetEnv("MAIL_BACKEND", config.Backend)
	config.Host = utils.GetEnv("MAIL_HOST", config.Host)
	config.Port = utils.GetEnvAsInt("MAIL_PORT", config.Port)
	config.Username = utils.GetEnv("MAIL_USERNAME", config.Username)
	config.Password = utils.GetEnv("MAIL_PASSWORD", config.Password)
	config.From = utils.GetEnv("MAIL_FROM", config.From)
	config.UseSSL = utils.GetEnvAsBool("MAIL_USE_SSL", config.UseSSL)
	config.Timeout = utils.GetEnvAsDuration("MAIL_TIMEOUT", config.Timeout)

	return config, config.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading mail config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing mail config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendConsole:
		return nil
	case BackendSMTP:
		if c.Host == "" {
			return fmt.Errorf("mail host is required for the smtp backend")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid mail port %d", c.Port)
		}
		if c.From == "" {
			return fmt.Errorf("mail from address is required")
		}
		return nil
	}
	return fmt.Errorf("unknown mail backend %q", c.Backend)
}
