// Package httpapi serves the key generation and code verification endpoints.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"gtotp/pkg/authenticator"
	"gtotp/pkg/config"
	"gtotp/pkg/i18n"
	"gtotp/pkg/logging"
)

const maxBodyBytes = 64 << 10

// NewHandler wires the routes, middleware and CORS policy around auth.
func NewHandler(auth *authenticator.Authenticator, cfg config.Server) (http.Handler, error) {
	v, err := newRequestValidator(map[string]string{
		"key":    i18n.MsgEmptyKey,
		"secret": i18n.MsgEmptySecret,
		"code":   i18n.MsgEmptyCode,
	})
	if err != nil {
		return nil, err
	}
	h := &handlers{auth: auth, validate: v}

	r := NewRouter(withRecover, withRequestID, withAccessLog, limitBody(maxBodyBytes))
	r.GET("/health", h.health)
	r.POST("/api/auth/generate", h.generate)
	r.POST("/api/auth/verify", h.verify)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{HeaderRequestID},
	}).Handler(r), nil
}

type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

func NewServer(auth *authenticator.Authenticator, cfg config.Server) (*Server, error) {
	h, err := NewHandler(auth, cfg)
	if err != nil {
		return nil, err
	}
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run listens on the configured address and blocks until ctx is cancelled
// or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Infof("%s", i18n.Msgf(i18n.MsgCliServerListening, ln.Addr().String()))
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		timeout := s.shutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := s.srv.Shutdown(shutdownCtx)
		logging.Infof("%s", i18n.Msgf(i18n.MsgCliServerStopped))
		return err
	})
	return g.Wait()
}
