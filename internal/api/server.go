// Package api serves session descriptions over HTTP.
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/zamaudio/ptformat/internal/logger"
	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

// DefaultMaxBodyBytes caps uploaded sessions.
const DefaultMaxBodyBytes = 256 << 20

type Config struct {
	Registry     *ptf.Registry
	Parse        ptf.Options
	MaxBodyBytes int64
	StoreSize    int
	Logger       logger.Logger
}

type Server struct {
	reg     *ptf.Registry
	opts    ptf.Options
	maxBody int64
	store   *ReportStore
	log     logger.Logger
}

func NewServer(cfg Config) *Server {
	s := &Server{
		reg:     cfg.Registry,
		opts:    cfg.Parse,
		maxBody: cfg.MaxBodyBytes,
		store:   NewReportStore(cfg.StoreSize),
		log:     cfg.Logger,
	}
	if s.reg == nil {
		s.reg = ptf.DefaultRegistry()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/content-types", s.handleContentTypes)
	e.POST("/v1/describe", s.handleDescribe)
	e.GET("/v1/reports/:id", s.handleGetReport)
	e.DELETE("/v1/reports/:id", s.handleDeleteReport)
}

// ContentTypeInfo describes one registry entry.
type ContentTypeInfo struct {
	Value       uint16 `json:"value"`
	Hex         string `json:"hex"`
	Decoding    string `json:"decoding"`
	Description string `json:"description"`
	Fields      int    `json:"fields,omitempty"`
}

type DeleteReportResp struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleContentTypes(c *echo.Context) error {
	codes := s.reg.ContentTypes()
	out := make([]ContentTypeInfo, 0, len(codes))
	for _, ct := range codes {
		e, _ := s.reg.Lookup(ct)
		info := ContentTypeInfo{
			Value:       uint16(ct),
			Hex:         ct.Hex(),
			Decoding:    e.Mode().String(),
			Description: e.Description,
		}
		for _, f := range e.Layout {
			if !f.Omit {
				info.Fields++
			}
		}
		out = append(out, info)
	}
	return writeJSON(c, http.StatusOK, map[string]any{"content_types": out})
}

type describeParams struct {
	opts    ptf.Options
	fullHex bool
	name    string
}

func (s *Server) describeParams(c *echo.Context) (describeParams, error) {
	p := describeParams{opts: s.opts, name: c.QueryParam("name")}
	for _, flag := range []struct {
		key string
		dst *bool
	}{
		{"strict", &p.opts.Strict},
		{"unxor", &p.opts.Descramble},
		{"fullhex", &p.fullHex},
	} {
		raw := c.QueryParam(flag.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return p, newInvalidRequest(fmt.Sprintf("query parameter %s: %q is not a boolean", flag.key, raw))
		}
		*flag.dst = v
	}
	if raw := c.QueryParam("max_depth"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return p, newInvalidRequest(fmt.Sprintf("query parameter max_depth: %q is not a positive integer", raw))
		}
		p.opts.MaxDepth = v
	}
	return p, nil
}

func (s *Server) handleDescribe(c *echo.Context) error {
	params, err := s.describeParams(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, s.maxBody+1))
	if err != nil {
		return writeBadRequest(c, "read body: "+err.Error())
	}
	if len(body) == 0 {
		return writeBadRequest(c, "request body is empty")
	}
	if int64(len(body)) > s.maxBody {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error",
			fmt.Sprintf("session larger than %d bytes", s.maxBody))
	}

	f, err := ptf.Load(body, params.opts)
	if err != nil {
		s.log.Debug("rejected upload", "bytes", len(body), "error", err)
		return writeUnprocessable(c, err.Error())
	}
	report := render.BuildReport(render.Source{
		Name:        params.name,
		Tree:        f.Tree,
		Descrambled: f.Descrambled,
	}, render.Options{Registry: s.reg, FullHex: params.fullHex})
	s.store.Put(report)
	s.log.Info("described session",
		"id", report.ID,
		"bytes", len(body),
		"blocks", report.Stats.Total,
		"anomalies", len(report.Anomalies),
	)
	return writeJSON(c, http.StatusOK, report)
}

func (s *Server) handleGetReport(c *echo.Context) error {
	id := c.Param("id")
	r, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "report not found: "+id)
	}
	return writeJSON(c, http.StatusOK, r)
}

func (s *Server) handleDeleteReport(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "report not found: "+id)
	}
	return writeJSON(c, http.StatusOK, DeleteReportResp{ID: id, Deleted: true})
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.JSONBlob(status, b)
}
