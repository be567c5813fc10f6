package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultRESTScheme     = "http"
	DefaultWSScheme       = "ws"
	DefaultHost           = "localhost"
	DefaultPort           = 8080
	DefaultApp            = "KalamburyPro"
	DefaultLoginPath      = "rest/login"
	DefaultChatPath       = "chat"
	DefaultDrawPath       = "draw"
	DefaultTokenFile      = ".kalambury/token.json"
	DefaultViewerAddr     = "localhost:8081"
	DefaultContainerWidth = 520
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes where the game backend lives and how the client runs
type Config struct {
	RESTScheme string `json:"rest_scheme" validate:"required,oneof=http https"`
	WSScheme   string `json:"ws_scheme" validate:"required,oneof=ws wss"`
	Host       string `json:"host" validate:"required,hostname|ip"`
	Port       int    `json:"port" validate:"required,min=1,max=65535"`
	App        string `json:"app" validate:"required"`

	LoginPath string `json:"login_path" validate:"required"`
	ChatPath  string `json:"chat_path" validate:"required"`
	DrawPath  string `json:"draw_path" validate:"required"`

	TokenFile      string  `json:"token_file" validate:"required"`
	ViewerAddr     string  `json:"viewer_addr" validate:"omitempty,hostname_port"`
	ContainerWidth float64 `json:"container_width" validate:"gt=20"`
	Username       string  `json:"username,omitempty"`
}

var validate = validator.New()

// Default returns the configuration of a local development backend
func Default() *Config {
	return &Config{
		RESTScheme:     DefaultRESTScheme,
		WSScheme:       DefaultWSScheme,
		Host:           DefaultHost,
		Port:           DefaultPort,
		App:            DefaultApp,
		LoginPath:      DefaultLoginPath,
		ChatPath:       DefaultChatPath,
		DrawPath:       DefaultDrawPath,
		TokenFile:      DefaultTokenFile,
		ViewerAddr:     DefaultViewerAddr,
		ContainerWidth: DefaultContainerWidth,
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, verr := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", verr.Field(), verr.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoginURL returns the REST login endpoint
func (c *Config) LoginURL() string {
	return c.buildURL(c.RESTScheme, c.LoginPath)
}

// ChatURL returns the chat channel endpoint
func (c *Config) ChatURL() string {
	return c.buildURL(c.WSScheme, c.ChatPath)
}

// DrawURL returns the drawing channel endpoint
func (c *Config) DrawURL() string {
	return c.buildURL(c.WSScheme, c.DrawPath)
}

func (c *Config) buildURL(scheme, path string) string {
	return fmt.Sprintf("%s://%s:%d/%s/%s", scheme, c.Host, c.Port, c.App, strings.TrimPrefix(path, "/"))
}
