package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"urlmapper/internal/models"
)

// URLService defines the interface for the core mapping business logic.
type URLService interface {
	// ShortenURL returns the mapping for the target URL, creating one
	// when the URL has never been shortened before.
	ShortenURL(ctx context.Context, targetURL string) (*models.URLMapping, error)

	// ResolveCode retrieves the mapping for a code and records the visit.
	ResolveCode(ctx context.Context, code string) (*models.URLMapping, error)

	// GetURLStats retrieves the mapping for a code without recording a visit.
	GetURLStats(ctx context.Context, code string) (*models.URLMapping, error)
}

// getValidate initializes a validator for incoming request payloads.
// Tag names are taken from json tags, and the target_url rule enforces
// the shape a shortenable URL must have.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("target_url", validTargetURL); err != nil {
		panic(err)
	}

	return validate
}

func validTargetURL(fl validator.FieldLevel) bool {
	v := fl.Field().String()

	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return false
	}

	return !strings.ContainsAny(v, " \t\r\n")
}

// NewRouter initializes the HTTP router with all routes and middleware
// configured. baseURL is used to build the short_url in shorten responses.
func NewRouter(logger *httplog.Logger, svc URLService, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	validate := getValidate()

	r.Get("/ping", handlePing)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/shorten", handleShortenURL(svc, validate, baseURL))
	r.Get("/_stats/{code}", handleGetURLStats(svc))

	// Registered last; chi still routes static paths above before
	// the catch-all code parameter.
	r.Get("/{code}", handleRedirect(svc))

	return r
}
