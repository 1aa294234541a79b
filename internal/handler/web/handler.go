package web

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/feature"
	"MarketGate/internal/session"
	"MarketGate/internal/usecase"
	xhttp "MarketGate/pkg/http"
	xlogger "MarketGate/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the session-gated web surface: login, authenticate,
// logout and the landing page.
type Handler struct {
	auth     *usecase.Authenticator
	sessions *session.Store
	registry *feature.Registry
	logger   *xlogger.Logger
}

// NewHandler creates the web handler.
func NewHandler(auth *usecase.Authenticator, sessions *session.Store, registry *feature.Registry, logger *xlogger.Logger) *Handler {
	return &Handler{
		auth:     auth,
		sessions: sessions,
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes attaches routes and the template renderer.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	renderer, err := xhttp.NewTemplateRenderer(templateFS, "templates/*.html")
	if err != nil {
		// Templates are embedded; a parse failure is a build defect.
		panic(err)
	}
	e.Renderer = renderer

	e.GET("/login", h.Login)
	e.GET("/authenticate", h.Authenticate)
	e.GET("/logout", h.Logout)
	e.GET("/", h.Index, h.requireAuth)
	e.GET("/healthz", h.Health)
}

// requireAuth redirects unauthenticated requests to the login view.
func (h *Handler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.sessions.Current(c).Authenticated {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// Login renders the login view.
func (h *Handler) Login(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", map[string]interface{}{
		"Notices": h.sessions.Notices(c),
	})
}

// Authenticate runs the orchestrator and redirects to the landing page.
// Every outcome authenticates; binding problems just mean no explicit
// simulation flag.
func (h *Handler) Authenticate(c echo.Context) error {
	req := &models.AuthRequest{}
	if verrs := xhttp.ReadAndValidateRequest(c, req); verrs != nil {
		h.logger.Warn("authenticate request bind failed", xlogger.Any("errors", verrs))
		req.Mock = false
	}

	out := h.auth.Authenticate(c.Request().Context(), req.Mock)

	if err := h.sessions.Save(c, out.Session); err != nil {
		h.logger.Error("session save failed", xlogger.Error(err))
	}
	if err := h.sessions.Flash(c, out.Notice); err != nil {
		h.logger.Error("notice flash failed", xlogger.Error(err))
	}

	return c.Redirect(http.StatusFound, "/")
}

// Logout stops streaming, clears the session and redirects to login.
func (h *Handler) Logout(c echo.Context) error {
	notice := h.auth.Logout()

	if err := h.sessions.Clear(c); err != nil {
		h.logger.Error("session clear failed", xlogger.Error(err))
	}
	if err := h.sessions.Flash(c, notice); err != nil {
		h.logger.Error("notice flash failed", xlogger.Error(err))
	}

	return c.Redirect(http.StatusFound, "/login")
}

// Index renders the landing page with the feature flags.
func (h *Handler) Index(c echo.Context) error {
	sess := h.sessions.Current(c)
	return c.Render(http.StatusOK, "index.html", map[string]interface{}{
		"Notices":               h.sessions.Notices(c),
		"MockMode":              sess.MockMode,
		"MarketData":            h.registry.Enabled(feature.MarketData),
		"MarketDataInitialized": h.registry.Initialized(feature.MarketData),
	})
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
