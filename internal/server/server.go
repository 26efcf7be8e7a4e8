// Package server exposes a preview.Document over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/preview"
	"github.com/matzehuels/pageview/pkg/view"
)

// Server is the HTTP preview server.
type Server struct {
	router chi.Router
	doc    *preview.Document
	log    *log.Logger
}

// New creates and configures the server.
func New(doc *preview.Document, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{doc: doc, log: logger}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/render", s.handleRender)
	r.Get("/state", s.handleState)

	r.Post("/scroll", s.handleScroll)
	r.Post("/resize", s.handleResize)
	r.Post("/zoom", s.handleZoom)
	r.Post("/page/{n}", s.handlePage)
	r.Post("/mode/{mode}", s.handleMode)
	r.Post("/cursor", s.handleCursor)
	r.Delete("/cursor", s.handleClearCursor)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "document": s.doc.ID()})
}

// handleRender runs a render pass and returns the document SVG. With
// ?wait=1 the response is held until canvas pages have been committed.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	f, svg, err := s.doc.RenderSVG(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("wait") == "1" {
		s.doc.WaitCanvas()
		f, svg = s.doc.Current()
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Pageview-Pages", strconv.Itoa(f.PageCount))
	w.Header().Set("X-Pageview-Window", f.Window.String())
	w.Write([]byte(svg))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toState(s.doc.Snapshot()))
}

type scrollRequest struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if !decode(w, r, &req) {
		return
	}
	snap := s.doc.Snapshot()
	s.doc.Scroll(view.Rect{
		Left:   -req.Left,
		Top:    -req.Top,
		Width:  snap.DOM.Width,
		Height: snap.DOM.Height,
	})
	w.WriteHeader(http.StatusNoContent)
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if !decode(w, r, &req) {
		return
	}
	for name, v := range map[string]float64{"width": req.Width, "height": req.Height} {
		if err := errors.ValidateDimension(name, v); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	dom := s.doc.Snapshot().DOM
	dom.Width, dom.Height = req.Width, req.Height
	res := s.doc.Resize(r.Context(), dom)
	writeJSON(w, http.StatusOK, map[string]any{
		"scale":  res.Scale,
		"width":  res.Width,
		"height": res.Height,
	})
}

type zoomRequest struct {
	Ratio float64 `json:"ratio"`
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.doc.Zoom(req.Ratio); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "page must be an integer"))
		return
	}
	if err := s.doc.SetPage(n); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	m, err := view.ParseMode(chi.URLParam(r, "mode"))
	if err == nil {
		err = s.doc.SetMode(m)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	var c view.Cursor
	if !decode(w, r, &c) {
		return
	}
	if c.Page < 0 {
		s.fail(w, r, errors.New(errors.ErrCodePageOutOfRange, "cursor page %d is negative", c.Page))
		return
	}
	s.doc.SetCursor(&c)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCursor(w http.ResponseWriter, r *http.Request) {
	s.doc.SetCursor(nil)
	w.WriteHeader(http.StatusNoContent)
}

// fail maps err to a JSON error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.IsClientError(err) {
		status = http.StatusBadRequest
	} else {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON body: " + err.Error(),
			"code":  string(errors.ErrCodeInvalidInput),
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
