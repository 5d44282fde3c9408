// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"wanderplan/internal/adapters/pdf"
	"wanderplan/internal/app"
	"wanderplan/internal/domain"
)

const (
	headerSource       = "X-Itinerary-Source"
	headerGenerationID = "X-Generation-ID"
	maxBodyBytes       = 1 << 20
)

// Generator is the pipeline entry point the handlers drive.
type Generator interface {
	Generate(ctx context.Context, req domain.TripRequest) (app.Result, error)
}

type Handlers struct{ Planner Generator }

// problem is an RFC 7807 document; Error mirrors Detail for clients that only read "error".
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/itineraries", h.generate)
	s.mux.Post("/api/generate-itinerary", h.generate)
	s.mux.Post("/v1/itineraries/pdf", h.renderPDF)
	s.mux.MethodNotAllowed(methodNotAllowed)
	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no such route")
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	msg := detail
	if msg == "" {
		msg = title
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Error: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allow := http.MethodPost
	if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
		allow = http.MethodGet
	}
	w.Header().Set("Allow", allow)
	writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", fmt.Sprintf("use %s", allow))
}

// decodeBody reads exactly one JSON value from a size-capped body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON object")
	}
	return nil
}

func (h *Handlers) generate(w http.ResponseWriter, r *http.Request) {
	var req domain.TripRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	res, err := h.Planner.Generate(r.Context(), req)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeProblem(w, http.StatusBadRequest, "Invalid trip request", ve.Reason)
			return
		}
		log.Error().Err(err).Msg("itinerary generation failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "itinerary generation failed")
		return
	}

	w.Header().Set(headerSource, string(res.Source))
	w.Header().Set(headerGenerationID, res.ID)
	writeJSON(w, http.StatusOK, res.Itinerary)
}

func (h *Handlers) renderPDF(w http.ResponseWriter, r *http.Request) {
	var it domain.Itinerary
	if err := decodeBody(w, r, &it); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(it.Destination) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid itinerary", "destination is required")
		return
	}

	body, err := pdf.Render(it)
	if err != nil {
		log.Error().Err(err).Msg("pdf render failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.pdf"`, slug(it.Destination)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write pdf body")
	}
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "trip"
	}
	return out
}
