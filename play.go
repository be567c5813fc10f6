package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/kalambury/api"
	"github.com/wricardo/kalambury/game/service"
	"github.com/wricardo/kalambury/transport/websocket"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "join the game from the terminal and serve the viewer pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "log in before joining",
				Sources: cli.EnvVars("KALAMBURY_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Sources: cli.EnvVars("KALAMBURY_PASSWORD"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the viewer API through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runPlay,
	}
}

// runPlay joins the game and blocks until the terminal closes or a signal arrives
func runPlay(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	game, err := newGameClient(cfg)
	if err != nil {
		return err
	}
	client, tracker := game.client, game.tracker

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Viewer hub mirrors every render update to the browser pages
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	viewer := websocket.NewViewer(hub)
	sess := client.Session()
	sess.AddObserver(viewer)
	sess.AddObserver(newTerminalObserver(os.Stdout))
	hub.OnConnect(func() *websocket.Event {
		return &websocket.Event{Event: websocket.EventState, Data: client.State()}
	})
	tracker.OnNavigate(func(route service.Route) {
		viewer.Navigated(string(route))
		if route == service.RouteLogin {
			fmt.Fprintln(os.Stdout, "Back at the login page. Use /login <username> <password> to play again.")
		}
	})

	apiServer := api.NewServer(client, hub)
	httpServer := &http.Server{
		Addr:         cfg.ViewerAddr,
		Handler:      apiServer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Viewer API listening on http://%s/", cfg.ViewerAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Viewer API failed: %v", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveTunnel(ctx, cmd, apiServer)
		}()
	}

	if username := cmd.String("username"); username != "" {
		if _, err := client.Login(ctx, username, cmd.String("password")); err != nil {
			log.Printf("Login failed: %v", err)
		}
	}

	if err := client.Start(ctx); err != nil {
		if !errors.Is(err, service.ErrNotLoggedIn) {
			log.Printf("Failed to join the game: %v", err)
		}
		fmt.Fprintf(os.Stdout, "Not playing yet. Log in at http://%s/ or with /login <username> <password>.\n", cfg.ViewerAddr)
	}

	// Terminal input ends the run on EOF or /quit
	terminalDone := make(chan error, 1)
	go func() {
		terminalDone <- runTerminal(ctx, os.Stdin, os.Stdout, client)
	}()

	select {
	case <-ctx.Done():
		log.Println("Received signal. Shutting down...")
	case err := <-terminalDone:
		if err != nil {
			log.Printf("Terminal error: %v", err)
		}
	}
	stop()

	client.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Viewer API shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Client stopped")
	return nil
}

// serveTunnel publishes the viewer API until ctx is cancelled
func serveTunnel(ctx context.Context, cmd *cli.Command, apiServer *api.Server) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	apiServer.SetPublicURL(tun.URL())
	log.Printf("🚀 Ngrok tunnel established: %s", tun.URL())
	log.Printf("  Game page (ngrok): %s/%s", tun.URL(), service.RouteGame)

	if err := http.Serve(tun, apiServer); err != nil && err != http.ErrServerClosed {
		if ctx.Err() == nil {
			log.Printf("Ngrok server error: %v", err)
		}
	}
	log.Println("Ngrok tunnel closed")
}
