package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/marcus-crane/whatsong/config"
	"github.com/marcus-crane/whatsong/playback"
	"github.com/marcus-crane/whatsong/shared"
)

// Reports are tiny so anything bigger than this is not one
const maxReportBytes = 16 * 1024

type currentResponse struct {
	Event playback.Event `json:"event"`
	playback.Position
	Link string `json:"link"`
}

type previousResponse struct {
	Event playback.Event `json:"event"`
	Link  string         `json:"link"`
}

type healthResponse struct {
	Status string `json:"status"`
	Events int64  `json:"events"`
}

func renderJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}

func renderJSONMessage(w http.ResponseWriter, message string) {
	renderJSON(w, http.StatusOK, map[string]string{"message": message})
}

func Register(mux *http.ServeMux, ps playback.System, stream http.Handler, cfg config.Config) http.Handler {

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		renderJSONMessage(w, fmt.Sprintf("whatsong keeps track of what is playing. API version %d", shared.CurrentAPIVersion))
	})

	mux.HandleFunc("POST /"+shared.SOURCE_YOUTUBE, func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxReportBytes)

		var report playback.Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				renderJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload_too_large", Message: err.Error()})
				return
			}
			renderJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed_request", Message: err.Error()})
			return
		}

		if _, err := ps.Insert(r.Context(), report); err != nil {
			renderError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /current", func(w http.ResponseWriter, r *http.Request) {
		event, err := ps.Current(r.Context())
		if err != nil {
			renderError(w, r, err)
			return
		}
		position := playback.ResolveOffset(event, time.Now())
		response := currentResponse{Event: event, Position: position, Link: event.Link(0)}
		if position.Playing() {
			response.Link = event.Link(position.Offset)
		}
		renderJSON(w, http.StatusOK, response)
	})

	mux.HandleFunc("GET /previous", func(w http.ResponseWriter, r *http.Request) {
		event, err := ps.Previous(r.Context())
		if err != nil {
			renderError(w, r, err)
			return
		}
		renderJSON(w, http.StatusOK, previousResponse{Event: event, Link: event.Link(0)})
	})

	mux.HandleFunc("GET /list/"+shared.SOURCE_YOUTUBE, func(w http.ResponseWriter, r *http.Request) {
		events, err := ps.All(r.Context())
		if err != nil {
			renderError(w, r, err)
			return
		}
		body, err := json.Marshal(events)
		if err != nil {
			renderError(w, r, err)
			return
		}
		// The log only grows so the hash changes whenever anything is added
		etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(body))
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		count, err := ps.Count(r.Context())
		if err != nil {
			slog.Error("Health check failed", slog.Any("error", err))
			renderJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
		renderJSON(w, http.StatusOK, healthResponse{Status: "ok", Events: count})
	})

	mux.Handle("GET /events", stream)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Origins(),
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "If-None-Match"},
		ExposedHeaders: []string{"ETag", "X-Request-ID"},
	})

	return withRequestLogging(c.Handler(mux))
}
