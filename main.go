// Command hallway starts the Hallway presence server.
//
// The server terminates the real-time presence protocol over WebSocket and
// exposes a small operational HTTP surface next to it. Space geometry and
// token verification come either from the platform services (-spaces-url,
// -auth-url) or, in local mode, from a directory of space JSON files plus
// a static token map read from the DEV_TOKENS environment variable.
//
// Flags control host/port, the spaces directory, platform service URLs,
// debug logging, version output, and optional ngrok tunneling for easy
// external access during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/hallwaylabs/hallway/api"
	"github.com/hallwaylabs/hallway/logging"
	"github.com/hallwaylabs/hallway/platform"
	"github.com/hallwaylabs/hallway/space/config"
	"github.com/hallwaylabs/hallway/space/room"
	"github.com/hallwaylabs/hallway/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Hallway Presence Server"
)

// Configuration flags control how the server starts and where it finds its
// collaborators.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	spacesDir    = flag.String("spaces-dir", getSpacesDirDefault(), "Directory containing space JSON files (local mode)")
	authURL      = flag.String("auth-url", os.Getenv("AUTH_URL"), "Platform auth service base URL (empty: static DEV_TOKENS verifier)")
	spacesURL    = flag.String("spaces-url", os.Getenv("SPACES_URL"), "Platform map service base URL (empty: local spaces directory)")
	logFile      = flag.String("log-file", "hallway.log", "Log file path")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getSpacesDirDefault returns the default spaces directory. It first honors
// the SPACES_DIR environment variable, then falls back to "spaces".
func getSpacesDirDefault() string {
	if dir := os.Getenv("SPACES_DIR"); dir != "" {
		return dir
	}
	return "spaces"
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	logger := logging.New(*logFile, *debug)
	defer logger.Sync()

	logger.Infof("Starting %s v%s", AppName, Version)

	server, err := buildServer(logger)
	if err != nil {
		logger.Fatalf("Failed to initialize server: %v", err)
	}

	runHTTPServer(logger, server)
}

// buildServer wires the loader, verifier, registry, hub, and gateway into
// the HTTP handler.
func buildServer(logger *zap.SugaredLogger) (*api.Server, error) {
	var loader platform.SpaceLoader
	var lister api.SpaceLister
	if *spacesURL != "" {
		logger.Infof("Loading spaces from platform map service at %s", *spacesURL)
		loader = platform.NewHTTPSpaceLoader(*spacesURL)
	} else {
		logger.Infof("Loading spaces from local directory %s", *spacesDir)
		manager, err := config.NewManager(*spacesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create space manager: %w", err)
		}
		loader = manager
		lister = manager
	}

	var verifier platform.TokenVerifier
	if *authURL != "" {
		logger.Infof("Verifying tokens against auth service at %s", *authURL)
		verifier = platform.NewHTTPVerifier(*authURL)
	} else {
		tokens := parseDevTokens(os.Getenv("DEV_TOKENS"))
		if len(tokens) == 0 {
			logger.Warn("No -auth-url and no DEV_TOKENS set; every join will fail auth")
		} else {
			logger.Infof("Using static verifier with %d dev tokens", len(tokens))
		}
		verifier = platform.NewStaticVerifier(tokens)
	}

	metrics := room.NewMetrics()
	registry := room.NewRegistry(loader, logger, metrics)
	hub := websocket.NewHub(logger, metrics)
	gateway := websocket.NewGateway(registry, verifier, hub, logger)

	return api.NewServer(registry, gateway, lister), nil
}

// parseDevTokens parses "token=user,token2=user2" into a map.
func parseDevTokens(raw string) map[string]string {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		token, user, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || token == "" || user == "" {
			continue
		}
		tokens[token] = user
	}
	return tokens
}

// runHTTPServer starts the HTTP server and blocks until shutdown. If ngrok
// is enabled (via flag or environment), it also provisions a public tunnel
// serving the same handler.
func runHTTPServer(logger *zap.SugaredLogger, handler http.Handler) {
	addr := fmt.Sprintf("%s:%d", *host, *port)

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: it would sever long-lived WebSocket connections.
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Infof("HTTP server listening on %s", addr)
		logger.Infof("WebSocket: ws://%s/ws", addr)
		logger.Infof("Status: http://%s/api/status", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if ngrokShouldRun() {
		go runNgrokTunnel(ctx, logger, handler)
	}

	sig := <-stop
	logger.Infof("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}
	logger.Info("Server stopped")
}

// ngrokShouldRun reports whether the tunnel is enabled by flag or env.
func ngrokShouldRun() bool {
	if *ngrokEnabled {
		return true
	}
	env := os.Getenv("NGROK_ENABLED")
	return env == "true" || env == "1"
}

// runNgrokTunnel provisions an ngrok endpoint and serves the handler
// through it until ctx is cancelled.
func runNgrokTunnel(ctx context.Context, logger *zap.SugaredLogger, handler http.Handler) {
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		logger.Warn("Ngrok enabled but no auth token provided (use -ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}
	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Infof("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Errorf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer tun.Close()

	logger.Infof("Ngrok tunnel established: %s", tun.URL())
	logger.Infof("WebSocket (ngrok): %s/ws", tun.URL())

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		logger.Errorf("Ngrok server error: %v", err)
	}
}
