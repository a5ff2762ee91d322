package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/advistors/esu-bridge/graph"
	"github.com/advistors/esu-bridge/internal/config"
	"github.com/advistors/esu-bridge/signup"
	"github.com/advistors/esu-bridge/state"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	codec     *state.Codec
	dialog    *graph.Client
	signup    *signup.Service
	allowList config.AllowedOrigins
}

func New(cfg config.Config) *Server {
	return NewWithAPI(cfg, graph.NewClient(cfg))
}

// NewWithAPI wires the server against an explicit Graph API implementation.
// Tests use it to substitute a fake for the external calls.
func NewWithAPI(cfg config.Config, api signup.GraphAPI) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		codec:     state.NewCodec(cfg.GetStateSecret()),
		dialog:    graph.NewClient(cfg),
		signup:    signup.NewService(api, cfg),
		allowList: cfg.GetAllowedTenantOrigins(),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}
