package server

import (
	"fmt"
	"strings"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayRequestLimitInfo()
	s.displayCORSInfo()
}

func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  POST /api/analyze - Generate an interview diagnostic report")
	fmt.Println("  GET  /health      - Health check")
	fmt.Println("  GET  /stats       - Server statistics")
	if handler := s.om.PrometheusHandler(); handler != nil {
		prom := s.AppConfig.Observability.Prometheus
		fmt.Printf("  GET  %s (port %s) - Prometheus metrics\n", prom.Endpoint, prom.Port)
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
	fmt.Printf("Text budget per subject: %d characters\n", s.AppConfig.App.MaxTextChars)
	fmt.Printf("Analysis timeout: %s\n", s.AppConfig.App.RequestTimeout)
}

func (s *Server) displayCORSInfo() {
	origins := s.AppConfig.Server.CORS.AllowedOrigins
	if len(origins) == 0 {
		fmt.Println("CORS allowed origins: * (default)")
		return
	}
	fmt.Printf("CORS allowed origins: %s\n", strings.Join(origins, ", "))
}
