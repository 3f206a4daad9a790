package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vango-dev/searchroute/internal/errors"
	"github.com/vango-dev/searchroute/pkg/routepath"
	"github.com/vango-dev/searchroute/pkg/routestate"
	"github.com/vango-dev/searchroute/pkg/routing"
	"github.com/vango-dev/searchroute/pkg/statemap"
)

// maxBodySize caps POST /api/route bodies.
const maxBodySize = 64 * 1024

// RouteResponse is the body of a successful route lookup.
type RouteResponse struct {
	URL        string                `json:"url"`
	RouteState routestate.RouteState `json:"routeState"`
	UIState    *statemap.UiState     `json:"uiState,omitempty"`
	Title      string                `json:"title"`
}

// RouteRequest is the body of POST /api/route.
type RouteRequest struct {
	Href    string           `json:"href"`
	UIState statemap.UiState `json:"uiState"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error *errors.Error `json:"error"`
}

func newRequestError(code string) *errors.Error {
	return errors.New(code)
}

// handleSearch reads the state of a search page from its URL. The request
// path is cleaned first; a path that changes is served (or redirected) as
// its cleaned form.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	pathname, err := cleanRequestPath(r)
	if err != nil {
		s.writeError(w, r, newRequestError("E102").Wrap(err).WithDetail(err.Error()))
		return
	}

	loc := requestLocation(r, s.trustedProxies)
	requested := loc.Href
	if pathname != loc.Pathname {
		if loc, err = loc.Resolve(pathname + loc.Search); err != nil {
			s.writeError(w, r, newRequestError("E102").Wrap(err).WithDetail(err.Error()))
			return
		}
		if !s.router.Anchor().Matches(loc.Pathname) {
			s.writeError(w, r, newRequestError("E100").
				WithDetail(loc.Pathname+" is not below /"+s.router.Anchor().Name()))
			return
		}
	}

	rs := s.router.ParseURL(loc)
	s.metrics.RecordURLParse()

	canonical := s.router.CreateURL(rs, loc)
	s.metrics.RecordURLBuild()

	if s.config.CanonicalRedirect && canonical != requested {
		s.metrics.RecordRedirect()
		s.logger.Debug("canonical redirect", "from", r.URL.RequestURI(), "to", canonical)
		http.Redirect(w, r, canonical, http.StatusMovedPermanently)
		return
	}

	ui := statemap.RouteToState(rs)
	s.writeJSON(w, http.StatusOK, RouteResponse{
		URL:        canonical,
		RouteState: rs,
		UIState:    &ui,
		Title:      s.router.WindowTitle(rs),
	})
}

// handleRoute returns the URL for a widget state.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, newRequestError("E103").Wrap(err).WithDetail(err.Error()))
		return
	}

	loc, err := routing.ParseLocation(req.Href)
	if err != nil {
		s.writeError(w, r, newRequestError("E101").Wrap(err).
			WithDetail(err.Error()).
			WithSuggestion(`Send the page's absolute URL, e.g. "https://shop.example/search/"`))
		return
	}

	rs := statemap.StateToRoute(req.UIState)
	url := s.router.CreateURL(rs, loc)
	s.metrics.RecordURLBuild()

	s.writeJSON(w, http.StatusOK, RouteResponse{
		URL:        url,
		RouteState: rs,
		Title:      s.router.WindowTitle(rs),
	})
}

// cleanRequestPath returns the cleaned escaped path of r.
func cleanRequestPath(r *http.Request) (string, error) {
	// EscapedPath re-encodes a backslash, so look at the decoded form.
	if strings.ContainsRune(r.URL.Path, '\\') {
		return "", routepath.ErrBackslash
	}
	pathname, _, err := routepath.Clean(r.URL.EscapedPath())
	return pathname, err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err *errors.Error) {
	status := err.HTTPStatus()
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "code", err.Code, "error", err.Wrapped)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", err.Code, "detail", err.Detail)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err})
}
