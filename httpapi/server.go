package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oasforge/oasforge/resolver"
)

// Server is the HTTP front end. Construct it with NewServer and either mount
// Router into an existing server or call Run.
type Server struct {
	cfg     Config
	engine  *gin.Engine
	res     *resolver.Resolver
	fetcher resolver.Fetcher
	logger  resolver.Logger
	metrics *metrics
}

// NewServer wires the engine packages behind the HTTP routes.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "1.0.0"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = resolver.NopLogger{}
	}

	fetcher := resolver.NewHTTPFetcherWithTimeout(cfg.FetchTimeout)
	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  cfg.Logger,
		metrics: newMetrics(),
		res: resolver.New(
			resolver.WithFetcher(fetcher),
			resolver.WithLogger(cfg.Logger),
		),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Permissive CORS: the service is a stateless document transformer with
	// no cookies or sessions.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "API-Version"}
	corsConfig.ExposeHeaders = []string{"API-Version", "Content-Disposition"}
	engine.Use(cors.New(corsConfig))

	engine.Use(APIVersionMiddleware(cfg.APIVersion))
	engine.Use(s.metrics.middleware())

	v1 := engine.Group("/v1")
	v1.GET("/dereference", s.dereferenceGET)
	v1.POST("/dereference", s.dereferencePOST)
	v1.GET("/convert", s.convertGET)
	v1.POST("/convert", s.convertPOST)
	v1.POST("/arazzo/visualize", s.arazzoVisualize)
	v1.GET("/health", s.health)
	engine.GET("/metrics", s.metrics.handler())

	s.engine = engine
	return s
}

// Router returns the configured handler, useful for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("http server listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type apiVersionWriter struct {
	gin.ResponseWriter
	version string
}

func (w *apiVersionWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		w.Header().Set("API-Version", w.version)
	}
	w.ResponseWriter.WriteHeader(code)
}

// APIVersionMiddleware stamps successful responses with the API version.
func APIVersionMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &apiVersionWriter{c.Writer, version}
		c.Next()
	}
}
