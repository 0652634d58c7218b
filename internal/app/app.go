package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tabbitapp/tabbit/internal/auth"
	"github.com/tabbitapp/tabbit/internal/config"
	"github.com/tabbitapp/tabbit/internal/draw"
	"github.com/tabbitapp/tabbit/internal/handlers"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/repository"
	"github.com/tabbitapp/tabbit/internal/services"
	"github.com/tabbitapp/tabbit/internal/websocket"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	server   *http.Server
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg config.Settings, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Draw defaults applied to newly created tournaments
	defaults := draw.Config{
		Sides:                 cfg.Draw.Sides,
		PanelSize:             cfg.Draw.PanelSize,
		AvoidInstitutionClash: cfg.Draw.AvoidInstitutionClash,
		ByePolicy:             draw.ByePolicy(cfg.Draw.ByePolicy),
		Method:                draw.Method(cfg.Draw.PairingMethod),
	}

	// Initialize services
	settingsService := services.NewSettingsService(log, repo)
	tournamentService := services.NewTournamentService(log, repo, defaults)
	registrationService := services.NewRegistrationService(log, repo, settingsService)
	roundService := services.NewRoundService(log, repo)
	drawService := services.NewDrawService(log, repo)
	ballotService := services.NewBallotService(log, repo)
	standingsService := services.NewStandingsService(log, repo)

	// Live update hub for draw screens and ballot-entry clients
	hub := websocket.New(log)
	hub.Start()
	roundService.SetBroadcaster(hub)
	drawService.SetBroadcaster(hub)
	ballotService.SetBroadcaster(hub)

	h := handlers.New(
		tournamentService,
		registrationService,
		roundService,
		drawService,
		ballotService,
		standingsService,
		settingsService,
		adminAuth,
		hub,
		log,
	)

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases app resources
func (a *App) Close() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server and blocks until it stops. A server stopped
// through Shutdown returns nil.
func (a *App) Run(addr string) error {
	// Ballot-entry QR codes encode URLs under the base URL, so it must be
	// reachable from judges' phones on the venue network
	ip := getPreferredIP(realNetworkProvider{})
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		port = "8090"
	}
	baseURL := fmt.Sprintf("http://%s:%s", ip, port)
	a.setDefaultBaseURL(baseURL + "/api/v1")

	a.log.Info("Server starting", "addr", addr, "url", baseURL)
	a.server = &http.Server{Addr: addr, Handler: a.Router()}
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight requests
// up to the context deadline.
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, "base_url")

	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.repo.SetSetting(ctx, "base_url", baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
