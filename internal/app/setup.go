// Package app wires the catalog service together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grocerydesk/catalog/internal/auth"
	"github.com/grocerydesk/catalog/internal/config"
	"github.com/grocerydesk/catalog/internal/service"
	"github.com/grocerydesk/catalog/internal/store"
	grpcImpl "github.com/grocerydesk/catalog/internal/transport/grpc"
	"github.com/grocerydesk/catalog/internal/transport/rest"
	catalogv1 "github.com/grocerydesk/catalog/pkg/api/catalog/v1"
	pkgauth "github.com/grocerydesk/catalog/pkg/auth"
	"github.com/grocerydesk/catalog/pkg/messaging"
	"github.com/grocerydesk/catalog/pkg/server"
	"github.com/grocerydesk/catalog/pkg/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	AuthService    *auth.Service
	Verifier       pkgauth.Verifier
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
}

// SetupDependencies builds the services. A nil dbPool selects the in-memory stores.
// A nil publisher drops stock-change events.
func SetupDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool,
	publisher messaging.Publisher, gatherer prometheus.Gatherer, logger *slog.Logger) (*Dependencies, error) {
	var products store.ProductStore
	var users auth.UserStore
	if dbPool != nil {
		products = store.NewPgStore(dbPool)
		users = auth.NewPgUserStore(dbPool)
	} else {
		logger.Warn("Using in-memory storage, data is lost on restart")
		products = store.NewInMemoryStore()
		users = auth.NewInMemoryUserStore()
	}
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}

	tokens := pkgauth.NewHMACTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	verifiers := pkgauth.ChainVerifier{tokens}
	if cfg.IdP.Enabled() {
		jwks, err := pkgauth.NewJWKSVerifier(ctx, cfg.IdP)
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS verifier: %w", err)
		}
		verifiers = append(verifiers, jwks)
	}

	return &Dependencies{
		ProductService: service.NewService(products, publisher, logger),
		AuthService:    auth.NewService(users, tokens, logger),
		Verifier:       verifiers,
		Gatherer:       gatherer,
		Logger:         logger,
	}, nil
}

// SetupHttpHandler builds the router with every HTTP route of the service.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger)

	var gate []func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		gate = append(gate, web.BearerAuth(deps.Verifier, deps.Logger))
	}
	rest.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux, gate...)
	auth.NewHandler(deps.AuthService, deps.Logger).RegisterRoutes(mux)

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		mountMetrics(mux, cfg.Metrics.Path, deps.Gatherer)
	}
	return mux
}

func mountMetrics(mux chi.Router, path string, gatherer prometheus.Gatherer) {
	mux.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// SetupHttpServer creates the traced HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}, config.ServiceName, SetupHttpHandler(deps, cfg))
}

// SetupGrpcServer creates the gRPC server exposing the catalog read API.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(reflectionEnabled, func(s *grpc.Server) {
		catalogv1.RegisterProductCatalogServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
	})
}
