package server

import (
	"fmt"
	"os"
)

// displayServerInfo prints the endpoint list and protection settings to
// stderr before the server starts.
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
	s.displayStorageInfo()
}

func (s *Server) displayEndpoints() {
	fmt.Fprintf(os.Stderr, "fastresume server listening on http://%s\n", s.addr())
	fmt.Fprintln(os.Stderr, "Available endpoints:")
	for _, line := range []string{
		"  GET    /health                - Health check",
		"  GET    /stats                 - Server statistics",
		"  POST   /analyze               - Score a resume against a job description",
		"  POST   /predict               - Predict career paths",
		"  POST   /strategy              - Career strategy for a target role",
		"  POST   /layout/compose        - Paginate a layout document",
		"  POST   /layout/delete-page    - Delete a resume page",
		"  POST   /layout/move           - Move an entry to a page",
		"  POST   /layout/settings       - Update page settings",
		"  GET    /history/{kind}        - List history records",
		"  POST   /history/{kind}        - Store a history record",
		"  DELETE /history/{kind}        - Clear history",
		"  DELETE /history/{kind}/{id}   - Delete one record",
	} {
		fmt.Fprintln(os.Stderr, line)
	}
}

func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Fprintf(os.Stderr, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Fprintln(os.Stderr, "Include 'X-API-Key: <your-key>' header in requests to protected endpoints")
	} else {
		fmt.Fprintln(os.Stderr, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(os.Stderr, "WARNING: API endpoints are publicly accessible!")
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(os.Stderr, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(os.Stderr, "Request size limit: DISABLED")
	}
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(os.Stderr, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(os.Stderr, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(os.Stderr, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(os.Stderr, "Rate limiting: DISABLED")
	}
}

func (s *Server) displayStorageInfo() {
	if s.History == nil {
		fmt.Fprintln(os.Stderr, "History: DISABLED")
		return
	}
	fmt.Fprintln(os.Stderr, "History: ENABLED (SQLite)")
}
