package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/marcus-crane/whatsong/shared"
)

type errorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Expected *int   `json:"expected,omitempty"`
	Got      *int   `json:"got,omitempty"`
	URL      string `json:"url,omitempty"`
}

func statusFor(kind shared.Kind) int {
	switch kind {
	case shared.KindUnsupportedVersion, shared.KindInvalidSourceURL, shared.KindInvalidMetadata:
		return http.StatusNotAcceptable
	case shared.KindMetadataUnavailable:
		return http.StatusBadGateway
	case shared.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	kind := shared.KindOf(err)
	status := statusFor(kind)

	response := errorResponse{Error: kind.String(), Message: err.Error()}
	var serr *shared.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case shared.KindUnsupportedVersion:
			response.Expected = &serr.Expected
			response.Got = &serr.Got
		case shared.KindInvalidSourceURL:
			response.URL = serr.URL
		}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Request failed",
			slog.String("request_id", w.Header().Get(requestIDHeader)),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		// Don't leak storage internals to callers
		if kind == shared.KindStorage || kind == shared.KindUnknown {
			response.Message = "internal error"
		}
	}

	renderJSON(w, status, response)
}
