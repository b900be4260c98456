package handlers

import (
	"net/http"

	"github.com/turtacn/dockprep/internal/application/derivative"
	domainDrv "github.com/turtacn/dockprep/internal/domain/derivative"
	"github.com/turtacn/dockprep/internal/domain/substituent"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
)

// DerivativeHandler serves template expansion over HTTP.  Nothing it does
// writes artifacts; persistence stays with the CLI and batch jobs.
type DerivativeHandler struct {
	svc          derivative.Service
	maxExpansion int64
	maxBodySize  int64
	logger       logging.Logger
}

// NewDerivativeHandler creates a DerivativeHandler.  maxExpansion caps the
// derivatives a single response may carry; maxBodySize caps request bodies.
func NewDerivativeHandler(svc derivative.Service, maxExpansion, maxBodySize int64, logger logging.Logger) *DerivativeHandler {
	return &DerivativeHandler{
		svc:          svc,
		maxExpansion: maxExpansion,
		maxBodySize:  maxBodySize,
		logger:       logger.Named("http.derivative"),
	}
}

// TemplateRequest is the body of the count and classify endpoints.
type TemplateRequest struct {
	Template string `json:"template"`
}

// ExpandRequest is the body of POST /v1/derivatives/expand.
type ExpandRequest struct {
	Template string `json:"template"`
	Limit    int64  `json:"limit,omitempty"`
}

// ClassifyResponse describes the placeholder layout of a template.
type ClassifyResponse struct {
	Template      string            `json:"template"`
	Pattern       domainDrv.Pattern `json:"pattern"`
	Occurrences   int               `json:"occurrences"`
	InteriorSites int               `json:"interior_sites"`
	Segments      []string          `json:"segments"`
}

// SubstituentsResponse lists the substituent table.
type SubstituentsResponse struct {
	Digest  string              `json:"digest"`
	Entries []substituent.Entry `json:"entries"`
}

// FormsResponse lists the forms a position draws from.
type FormsResponse struct {
	Digest   string   `json:"digest"`
	Position string   `json:"position"`
	Forms    []string `json:"forms"`
}

// Expand handles POST /v1/derivatives/expand.
func (h *DerivativeHandler) Expand(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if err := decodeJSON(r, h.maxBodySize, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	limit := req.Limit
	if h.maxExpansion > 0 && (limit <= 0 || limit > h.maxExpansion) {
		limit = h.maxExpansion
	}
	res, err := h.svc.Expand(r.Context(), &derivative.ExpandInput{Template: req.Template, Limit: limit})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	h.logger.Debug("template expanded",
		logging.String("pattern", res.Pattern.String()),
		logging.Int("count", res.Count),
		logging.Bool("cached", res.Cached))
	writeJSON(w, http.StatusOK, res)
}

// Count handles POST /v1/derivatives/count.
func (h *DerivativeHandler) Count(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := decodeJSON(r, h.maxBodySize, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	res, err := h.svc.Count(r.Context(), req.Template)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Classify handles POST /v1/templates/classify.
func (h *DerivativeHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := decodeJSON(r, h.maxBodySize, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	c := h.svc.Classify(req.Template)
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Template:      req.Template,
		Pattern:       c.Pattern,
		Occurrences:   c.Occurrences,
		InteriorSites: c.InteriorSites(),
		Segments:      c.Segments,
	})
}

// Substituents handles GET /v1/substituents[?position=leading|interior].
func (h *DerivativeHandler) Substituents(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.Substituents(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	if p := r.URL.Query().Get("position"); p != "" {
		pos, err := substituent.ParsePosition(p)
		if err != nil {
			writeAppError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, FormsResponse{
			Digest:   table.Digest(),
			Position: pos.String(),
			Forms:    table.Forms(pos),
		})
		return
	}
	writeJSON(w, http.StatusOK, SubstituentsResponse{Digest: table.Digest(), Entries: table.Entries()})
}

//Personal.AI order the ending
