// Package api serves a map library over HTTP.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/mapdb/internal/library"
	"github.com/samcharles93/mapdb/internal/logger"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

// Options configures a Server. Zero limiter fields get the defaults of
// 40 requests per 15 seconds per client.
type Options struct {
	Links      sspm.Links
	TrustProxy bool

	FilterEvery time.Duration
	FilterBurst int
}

const (
	defaultFilterWindow = 15 * time.Second
	defaultFilterBurst  = 40
)

// Server holds a library snapshot and its precomputed catalog.
type Server struct {
	lib     *library.Library
	links   sspm.Links
	log     logger.Logger
	catalog []byte
	limiter *clientLimiter
	trust   bool
}

// NewServer precomputes the /api/all payload.
func NewServer(lib *library.Library, opts Options, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Discard()
	}
	catalog, err := lib.CatalogJSON(opts.Links)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}

	burst := opts.FilterBurst
	if burst <= 0 {
		burst = defaultFilterBurst
	}
	every := opts.FilterEvery
	if every <= 0 {
		every = defaultFilterWindow / time.Duration(burst)
	}
	return &Server{
		lib:     lib,
		links:   opts.Links,
		log:     log.With("component", "api"),
		catalog: catalog,
		limiter: newClientLimiter(rate.Every(every), burst),
		trust:   opts.TrustProxy,
	}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.Use(requestID)

	e.GET("/api", s.handleHelp)
	e.GET("/api/all", s.handleAll)
	e.GET("/api/filter/difficulty", s.handleFilterDifficulty, s.rateLimit)
	e.GET("/api/map/:id", s.handleMap)
	e.GET("/api/download/:id", s.handleDownload)
	e.GET("/api/audio/:id", s.handleAudio)
	e.GET("/api/cover/:id", s.handleCover)
	e.GET("/api/txt/:id", s.handleText)
	e.Any("/*", s.handleNotFound)
}

const helpText = `mapdb API

GET /api/all                              every map as a JSON array
GET /api/filter/difficulty?filter=0,1     maps with the listed difficulties
                                          (-1 N/A, 0 EASY, 1 MEDIUM, 2 HARD, 3 LOGIC?, 4 助)
GET /api/map/:id                          one map
GET /api/download/:id                     the .sspm file
GET /api/audio/:id                        embedded audio
GET /api/cover/:id                        cover image
GET /api/txt/:id                          notes in text map format
`

func (s *Server) handleHelp(c *echo.Context) error {
	return c.String(http.StatusOK, helpText)
}

func (s *Server) handleAll(c *echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, s.catalog)
}

func (s *Server) handleFilterDifficulty(c *echo.Context) error {
	want, err := parseDifficulties(c.QueryParam("filter"))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return writeJSON(c, http.StatusOK, s.lib.FilterDifficulty(s.links, want...))
}

// parseDifficulties reads a comma separated list of difficulty numbers.
func parseDifficulties(raw string) ([]sspm.Difficulty, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, newInvalidRequest("filter is required, e.g. ?filter=0,1")
	}
	parts := strings.Split(raw, ",")
	out := make([]sspm.Difficulty, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, newInvalidRequest(fmt.Sprintf("filter: %q is not a difficulty number", p))
		}
		out = append(out, sspm.Difficulty(n))
	}
	return out, nil
}

func (s *Server) handleMap(c *echo.Context) error {
	e, err := s.lib.Get(c.Param("id"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	return writeJSON(c, http.StatusOK, e.Doc.Clean(s.links))
}

func (s *Server) handleDownload(c *echo.Context) error {
	e, err := s.lib.Get(c.Param("id"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	f, err := e.Open()
	if err != nil {
		return s.writeLookupError(c, err)
	}
	defer func() { _ = f.Close() }()

	name := e.Doc.ID + ".sspm"
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "application/octet-stream")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	h.Set("ETag", `"`+e.Fingerprint+`"`)
	http.ServeContent(c.Response(), c.Request(), name, e.ModTime, f)
	return nil
}

func (s *Server) handleAudio(c *echo.Context) error {
	e, err := s.lib.Get(c.Param("id"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	audio, err := e.Audio()
	if err != nil {
		return s.writeLookupError(c, err)
	}
	return c.Blob(http.StatusOK, e.Doc.MusicFormat.ContentType(), audio)
}

func (s *Server) handleCover(c *echo.Context) error {
	e, err := s.lib.Get(c.Param("id"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	cover, err := e.Cover()
	if err != nil {
		return s.writeLookupError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", cover)
}

func (s *Server) handleText(c *echo.Context) error {
	e, err := s.lib.Get(c.Param("id"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	text, err := e.Text()
	if err != nil {
		return s.writeLookupError(c, err)
	}
	return c.String(http.StatusOK, text)
}

func (s *Server) handleNotFound(c *echo.Context) error {
	return writeNotFound(c, "no route for "+c.Request().URL.Path)
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}
