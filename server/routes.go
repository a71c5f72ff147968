package server

import (
	"github.com/kbukum/longreader/observability"
	"github.com/kbukum/longreader/server/endpoint"
)

const (
	HealthPath  = "/health"
	LivezPath   = "/livez"
	VersionPath = "/version"
)

// Routes lists every path the server mounts. Request metrics label by these.
var Routes = []string{SpeechPath, HealthPath, LivezPath, VersionPath}

// RegisterDefaultEndpoints registers /health, /livez and /version.
func (s *Server) RegisterDefaultEndpoints(serviceName, version string, checkers ...observability.HealthChecker) {
	s.engine.GET(HealthPath, endpoint.Health(serviceName, version, checkers...))
	s.engine.GET(LivezPath, endpoint.Liveness(serviceName))
	s.engine.GET(VersionPath, endpoint.Version())
}
