package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists exact origins, e.g. "https://shop.example.com".
	// A "*" entry allows every origin; outside development that should be a
	// deliberate choice, not a default.
	AllowedOrigins []string

	// AllowedMethods defaults to the storefront's verb set when empty.
	AllowedMethods []string

	// AllowedHeaders defaults to the headers the storefront API accepts.
	AllowedHeaders []string

	// ExposedHeaders lists response headers the browser may read.
	ExposedHeaders []string

	// MaxAge is the preflight cache lifetime in seconds. Defaults to 3600.
	MaxAge int

	// AllowCredentials enables cookie/auth-header sharing.
	AllowCredentials bool

	// Environment enables the wildcard implicitly when "development".
	Environment string
}

// DefaultCORSConfig returns the development configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID"},
		ExposedHeaders: []string{"X-Correlation-ID"},
		MaxAge:         3600,
		Environment:    "development",
	}
}

// corsHeaders is the precomputed header set shared by every request.
type corsHeaders struct {
	methods  string
	headers  string
	exposed  string
	maxAge   string
	wildcard bool
	origins  map[string]struct{}
	creds    bool
}

func newCORSHeaders(cfg CORSConfig) corsHeaders {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID"}
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	h := corsHeaders{
		methods:  strings.Join(cfg.AllowedMethods, ", "),
		headers:  strings.Join(cfg.AllowedHeaders, ", "),
		exposed:  strings.Join(cfg.ExposedHeaders, ", "),
		maxAge:   strconv.Itoa(cfg.MaxAge),
		wildcard: cfg.Environment == "development",
		origins:  make(map[string]struct{}, len(cfg.AllowedOrigins)),
		creds:    cfg.AllowCredentials,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			h.wildcard = true
		}
		h.origins[o] = struct{}{}
	}
	return h
}

// CORS handles cross-origin headers for the storefront frontend, including
// preflight short-circuiting.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	h := newCORSHeaders(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case h.wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "":
				if _, ok := h.origins[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", h.methods)
			w.Header().Set("Access-Control-Allow-Headers", h.headers)
			if h.exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", h.exposed)
			}
			w.Header().Set("Access-Control-Max-Age", h.maxAge)
			if h.creds {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
