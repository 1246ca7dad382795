package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"urlmapper/internal/database"
	"urlmapper/internal/service"
	"urlmapper/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

type shortenRequest struct {
	URL string `json:"url" validate:"required,max=2048,target_url"`
}

type shortenResponse struct {
	Code     string `json:"code"`
	ShortURL string `json:"short_url"`
}

type statsResponse struct {
	Code   string `json:"code"`
	Target string `json:"target"`
	Visits int64  `json:"visits"`
}

func shortURL(baseURL, code string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(baseURL, "/"), code)
}

func handleShortenURL(svc URLService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const op = "api.http.handleShortenURL"

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.MalformedRequestBodyResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		m, err := svc.ShortenURL(r.Context(), req.URL)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			if errors.Is(err, service.ErrCodeSpaceExhausted) {
				render.JSON(w, r, response.CodeExhaustedResponse)
				return
			}
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, shortenResponse{
			Code:     m.Code,
			ShortURL: shortURL(baseURL, m.Code),
		})
	}
}

func handleRedirect(svc URLService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		m, err := svc.ResolveCode(r.Context(), code)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.URLNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		http.Redirect(w, r, m.TargetURL, http.StatusTemporaryRedirect)
	}
}

func handleGetURLStats(svc URLService) http.HandlerFunc {
	const op = "api.http.handleGetURLStats"

	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		m, err := svc.GetURLStats(r.Context(), code)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.URLNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, statsResponse{
			Code:   m.Code,
			Target: m.TargetURL,
			Visits: m.Visits,
		})
	}
}
