package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dgallion1/hq/internal/metrics"
	"github.com/dgallion1/hq/internal/query"
	"github.com/dgallion1/hq/internal/source"
	"github.com/go-chi/chi/v5/middleware"
)

// queryRequest names exactly one selector and exactly one document source.
type queryRequest struct {
	CSS      *string `json:"css,omitempty"`
	XPath    *string `json:"xpath,omitempty"`
	Document *string `json:"document,omitempty"`
	URL      string  `json:"url,omitempty"`
	Format   string  `json:"format,omitempty"`
}

type queryResponse struct {
	Kind    string   `json:"kind"`
	Results []string `json:"results"`
	Output  string   `json:"output"`
	Count   int      `json:"count"`
}

func (req queryRequest) selector() (query.Selector, bool) {
	switch {
	case req.CSS != nil && req.XPath != nil:
		return query.Selector{}, false
	case req.CSS != nil:
		return query.CSS(*req.CSS), true
	case req.XPath != nil:
		return query.XPath(*req.XPath), true
	default:
		return query.Selector{}, false
	}
}

func (req queryRequest) docSource() (source.Source, bool) {
	var src source.Source
	switch {
	case req.Document != nil && req.URL != "":
		return src, false
	case req.Document != nil:
		src = source.Text(*req.Document)
	case req.URL != "":
		src = source.URL(req.URL)
	default:
		return src, false
	}
	return src, true
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for the JSON envelope.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes+1024*1024)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sel, ok := req.selector()
	if !ok {
		jsonError(w, "exactly one of css or xpath is required", http.StatusBadRequest)
		return
	}
	src, ok := req.docSource()
	if !ok {
		jsonError(w, "exactly one of document or url is required", http.StatusBadRequest)
		return
	}
	format, err := source.ParseFormat(req.Format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	src.Format = format

	start := time.Now()
	results, err := s.run(r, sel, src)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ObserveQuery(sel.Kind.String(), status, elapsed, len(results))
	if s.stats != nil {
		s.stats.Record(elapsed, err != nil)
	}

	if err != nil {
		code := statusForError(err)
		s.log.Warn("query failed",
			"kind", sel.Kind.String(),
			"selector", sel.Raw,
			"status", code,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		jsonError(w, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{
		Kind:    sel.Kind.String(),
		Results: results,
		Output:  query.Join(results),
		Count:   len(results),
	})
}

func (s *Server) run(r *http.Request, sel query.Selector, src source.Source) ([]string, error) {
	doc, err := s.resolver.Resolve(r.Context(), src)
	if err != nil {
		return nil, err
	}
	return query.Collect(sel, doc)
}

// statusForError maps query and source failures onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, query.ErrSelectorSyntax),
		errors.Is(err, query.ErrEvaluation),
		errors.Is(err, query.ErrDocumentParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, source.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, source.ErrUnsupportedSource),
		errors.Is(err, source.ErrUnknownFormat),
		errors.Is(err, query.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
