package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/crypto/sha3"

	"github.com/nao1215/reportdeck/internal/app"
	"github.com/nao1215/reportdeck/internal/catalog"
	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/nao1215/reportdeck/internal/model"
	"github.com/nao1215/reportdeck/internal/render"
)

// Cookie names.
const (
	LangCookie  = "reportdeck_lang"
	ThemeCookie = "reportdeck_theme"
)

// cookieMaxAge keeps preferences for a year.
const cookieMaxAge = 365 * 24 * 60 * 60

// Server serves one Controller.
type Server struct {
	app          *fiber.App
	ctrl         *app.Controller
	logger       *slog.Logger
	defaultLang  string
	defaultTheme model.Theme
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaults sets the language and theme used when a request carries
// neither a query parameter nor a cookie.
func WithDefaults(lang string, theme model.Theme) Option {
	return func(s *Server) {
		s.defaultLang = i18n.Resolve(lang)
		s.defaultTheme = model.ParseTheme(string(theme))
	}
}

// New creates a Server and registers its routes.
func New(ctrl *app.Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:         ctrl,
		defaultLang:  i18n.DefaultLanguage,
		defaultTheme: model.ThemeLight,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "reportdeck",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(fiberrecover.New())
	s.app.Use(s.logRequests)
	s.app.Use(compress.New())

	s.app.Get("/", s.handlePage)
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/export/:format", s.handleExport)

	api := s.app.Group("/api")
	api.Get("/reports", s.handleReports)
	api.Post("/reload", s.handleReload)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for open requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// handleError writes errors as plain text.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).SendString(err.Error())
}

// handlePage renders the HTML page.
func (s *Server) handlePage(c *fiber.Ctx) error {
	spec, err := parseSpec(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	lang, theme := s.preferences(c)
	snap := s.ctrl.Snapshot()
	view := s.ctrl.ViewOf(snap, spec, lang, theme)

	var buf bytes.Buffer
	if _, err := render.NewHTMLWriter(&buf).Write(view); err != nil {
		return err
	}
	if snap.Err != nil {
		c.Status(fiber.StatusServiceUnavailable)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// handleReports returns the JSON view.
func (s *Server) handleReports(c *fiber.Ctx) error {
	spec, err := parseSpec(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	lang, theme := s.preferences(c)
	snap := s.ctrl.Snapshot()
	view := s.ctrl.ViewOf(snap, spec, lang, theme)

	if snap.Err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(view)
	}

	body, err := s.app.Config().JSONEncoder(view)
	if err != nil {
		return err
	}
	tag := etag(body)
	c.Set(fiber.HeaderETag, tag)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	if matchesETag(c.Get(fiber.HeaderIfNoneMatch), tag) {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Type("json", "utf-8")
	return c.Send(body)
}

// handleExport writes the view in the format named by the path.
func (s *Server) handleExport(c *fiber.Ctx) error {
	format, err := render.ParseFormat(c.Params("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	spec, err := parseSpec(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	lang, theme := s.preferences(c)
	snap := s.ctrl.Snapshot()
	view := s.ctrl.ViewOf(snap, spec, lang, theme)

	var buf bytes.Buffer
	if _, err := render.NewWriter(format, &buf, false).Write(view); err != nil {
		return err
	}
	if snap.Err != nil {
		c.Status(fiber.StatusServiceUnavailable)
	}

	switch format {
	case render.FormatHTML:
		c.Type("html", "utf-8")
	case render.FormatJSON:
		c.Type("json", "utf-8")
	case render.FormatMarkdown:
		c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	default:
		c.Type("txt", "utf-8")
	}
	return c.Send(buf.Bytes())
}

// reloadResponse is the body of POST /api/reload.
type reloadResponse struct {
	Generation  uint64   `json:"generation"`
	Reports     int      `json:"reports"`
	Skipped     []string `json:"skipped"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// handleReload reloads the catalog.
func (s *Server) handleReload(c *fiber.Ctx) error {
	snap, err := s.ctrl.Reload(c.UserContext())
	resp := reloadResponse{
		Generation:  snap.Generation,
		Reports:     len(snap.Records),
		Skipped:     skippedNames(snap.Skipped),
		Fingerprint: snap.Fingerprint,
	}
	if err != nil {
		resp.Error = "reports could not be loaded"
		s.logger.Warn("reload failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status     string    `json:"status"`
	Generation uint64    `json:"generation"`
	Reports    int       `json:"reports"`
	Skipped    int       `json:"skipped"`
	LoadedAt   time.Time `json:"loadedAt,omitzero"`
}

// handleHealth reports the catalog status.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	snap := s.ctrl.Snapshot()
	resp := healthResponse{
		Status:     "ok",
		Generation: snap.Generation,
		Reports:    len(snap.Records),
		Skipped:    len(snap.Skipped),
		LoadedAt:   snap.LoadedAt,
	}

	switch {
	case snap.Err != nil:
		resp.Status = "error"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	case !snap.Ready():
		resp.Status = "loading"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// preferences resolves lang and theme from the query, then cookies, then
// the server defaults. Query values are stored in cookies.
func (s *Server) preferences(c *fiber.Ctx) (string, model.Theme) {
	lang := s.defaultLang
	if q := c.Query("lang"); q != "" {
		lang = i18n.Resolve(q)
		s.setCookie(c, LangCookie, lang)
	} else if v := c.Cookies(LangCookie); v != "" {
		lang = i18n.Resolve(v)
	}

	theme := s.defaultTheme
	if q := c.Query("theme"); q != "" {
		theme = model.ParseTheme(q)
		s.setCookie(c, ThemeCookie, theme.String())
	} else if v := c.Cookies(ThemeCookie); v != "" {
		theme = model.ParseTheme(v)
	}

	return lang, theme
}

func (s *Server) setCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// parseSpec builds a FilterSpec from q, source, category and window.
func parseSpec(c *fiber.Ctx) (model.FilterSpec, error) {
	spec := model.NewFilterSpec()
	spec.Term = strings.TrimSpace(c.Query("q"))
	spec.Sources = queryValues(c, "source")
	spec.Categories = queryValues(c, "category")

	window, err := model.ParseWindow(c.Query("window"))
	if err != nil {
		return spec, err
	}
	spec.Window = window
	return spec, nil
}

// queryValues returns every non-empty value of a repeated parameter.
func queryValues(c *fiber.Ctx, key string) []string {
	var values []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		if v := strings.TrimSpace(string(raw)); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// etag identifies one rendered body. Relative dates and the recency
// window move with the clock, so only the body itself is stable.
func etag(body []byte) string {
	sum := sha3.Sum256(body)
	return `W/"` + hex.EncodeToString(sum[:16]) + `"`
}

// matchesETag reports whether an If-None-Match header lists tag.
func matchesETag(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag || "W/"+candidate == tag {
			return true
		}
	}
	return false
}

func skippedNames(skipped []catalog.Skipped) []string {
	names := make([]string, 0, len(skipped))
	for _, s := range skipped {
		names = append(names, s.Name)
	}
	return names
}
