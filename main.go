// Command kalambury is a terminal client for the Kalambury drawing game.
//
// It supports these subcommands:
//  1. "login" – exchanges credentials for a token and stores it
//  2. "logout" – drops the stored token
//  3. "play" – joins the game, reads chat lines from the terminal and serves
//     a loopback viewer API with live browser pages
//  4. "mcp" – runs an MCP stdio server driving a running "play" process
//  5. "profile" – shows, writes and validates the JSON configuration profile
//
// Global flags point the client at a backend and are also read from
// KALAMBURY_* environment variables and an optional .env file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/kalambury/game/config"
	"github.com/wricardo/kalambury/game/service"
	"github.com/wricardo/kalambury/game/session"
	"github.com/wricardo/kalambury/transport/mcp"
	"github.com/wricardo/kalambury/transport/rest"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Kalambury Client"
)

const defaultProfile = ".kalambury/profile.json"

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newCommand builds the command tree
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "kalambury",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "profile",
				Value:   defaultProfile,
				Usage:   "JSON configuration profile",
				Sources: cli.EnvVars("KALAMBURY_PROFILE"),
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "game backend host",
				Sources: cli.EnvVars("KALAMBURY_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "game backend port",
				Sources: cli.EnvVars("KALAMBURY_PORT"),
			},
			&cli.StringFlag{
				Name:    "app",
				Usage:   "application path on the backend",
				Sources: cli.EnvVars("KALAMBURY_APP"),
			},
			&cli.BoolFlag{
				Name:    "secure",
				Usage:   "use https and wss",
				Sources: cli.EnvVars("KALAMBURY_SECURE"),
			},
			&cli.StringFlag{
				Name:    "token-file",
				Usage:   "where the session token is kept",
				Sources: cli.EnvVars("KALAMBURY_TOKEN_FILE"),
			},
			&cli.StringFlag{
				Name:    "viewer-addr",
				Usage:   "listen address of the viewer API",
				Sources: cli.EnvVars("KALAMBURY_VIEWER_ADDR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("KALAMBURY_DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			playCommand(),
			mcpCommand(),
			profileCommand(),
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Sources: cli.EnvVars("KALAMBURY_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Sources: cli.EnvVars("KALAMBURY_PASSWORD"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			game, err := newGameClient(cfg)
			if err != nil {
				return err
			}

			result, err := game.client.Login(ctx, cmd.String("username"), cmd.String("password"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "Logged in as %s at %s\n", result.Username, game.login.URL())
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "drop the stored session token",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			game, err := newGameClient(cfg)
			if err != nil {
				return err
			}
			if err := game.client.Logout(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "Removed token from %s\n", game.tokens.Path())
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server against a running play process",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "viewer API base URL (defaults to the viewer address)",
				Sources: cli.EnvVars("KALAMBURY_API"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			baseURL := cmd.String("api")
			if baseURL == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				baseURL = "http://" + cfg.ViewerAddr
			}

			log.Printf("MCP stdio server ready (viewer API %s)", baseURL)
			return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
		},
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "manage the configuration profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the effective configuration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					data, err := json.MarshalIndent(cfg, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.Root().Writer, string(data))
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "write the effective configuration to the profile",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					manager := config.NewManager(cmd.String("profile"))
					if err := manager.Save(cfg); err != nil {
						return err
					}
					fmt.Fprintf(cmd.Root().Writer, "Wrote %s\n", manager.Path())
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "check that the profile exists and is valid",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					manager := config.NewManager(cmd.String("profile"))
					if _, err := manager.LoadRequired(); err != nil {
						return err
					}
					fmt.Fprintf(cmd.Root().Writer, "✓ %s is valid\n", manager.Path())
					return nil
				},
			},
		},
	}
}

// loadConfig merges the profile, then any flag or environment overrides
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.NewManager(cmd.String("profile")).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("app") {
		cfg.App = cmd.String("app")
	}
	if cmd.Bool("secure") {
		cfg.RESTScheme, cfg.WSScheme = "https", "wss"
	}
	if cmd.IsSet("token-file") {
		cfg.TokenFile = cmd.String("token-file")
	}
	if cmd.IsSet("viewer-addr") {
		cfg.ViewerAddr = cmd.String("viewer-addr")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// gameClient is a client together with the pieces the commands report on
type gameClient struct {
	client  *service.Client
	tracker *service.RouteTracker
	tokens  *session.FileTokenStore
	login   *rest.LoginClient
}

// newGameClient wires a session, the token file, the login endpoint and a
// route tracker
func newGameClient(cfg *config.Config) (*gameClient, error) {
	sess, err := session.New(session.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if _, err := sess.Resize(cfg.ContainerWidth); err != nil {
		log.Printf("Warning: keeping default canvas size: %v", err)
	}

	tokens, err := session.NewFileTokenStore(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	login := rest.NewLoginClient(cfg.LoginURL(), nil)
	tracker := service.NewRouteTracker(service.RouteLogin)
	client := service.NewClient(sess, service.Options{
		Config:    cfg,
		Tokens:    tokens,
		Login:     login,
		Navigator: tracker,
	})
	return &gameClient{client: client, tracker: tracker, tokens: tokens, login: login}, nil
}
