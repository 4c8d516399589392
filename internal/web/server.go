// Package web serves the single-page frontend shell: one HTML document per
// client-side route, gated by the same credential the API accepts.
package web

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/api/middleware"
	"github.com/prepinter/prepinter/internal/core/ports"
)

// TokenCookie holds the credential issued by the login endpoint.
const TokenCookie = "prepinter_token"

//go:embed templates/shell.html
var templatesFS embed.FS

type Config struct {
	// DistDir is the frontend build output; bundles live under DistDir/assets.
	DistDir  string
	APIURL   string
	Verifier ports.IdentityVerifier
	Log      zerolog.Logger
}

type shellData struct {
	Title     string
	Path      string
	Bundle    string
	BundleURL string
	APIURL    string
}

type templateRenderer struct {
	tmpl *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// NewServer builds the shell's echo instance.
func NewServer(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{
		tmpl: template.Must(template.ParseFS(templatesFS, "templates/shell.html")),
	}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			cfg.Log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("shell request")
			return nil
		},
	}))

	e.Static("/assets", filepath.Join(cfg.DistDir, "assets"))

	gate := requireIdentity(cfg.Verifier, cfg.Log)
	for _, p := range Pages {
		h := renderPage(p, cfg.APIURL)
		if p.Protected {
			e.GET(p.Path, h, gate)
			continue
		}
		e.GET(p.Path, h)
	}

	return e
}

func renderPage(p Page, apiURL string) echo.HandlerFunc {
	data := shellData{
		Title:     p.Title,
		Path:      p.Path,
		Bundle:    p.Bundle,
		BundleURL: "/assets/" + p.Bundle + ".js",
		APIURL:    apiURL,
	}
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return c.Render(http.StatusOK, "shell.html", data)
	}
}

// requireIdentity redirects to the sign-in page unless the request carries a
// credential the verifier accepts. The page is never rendered otherwise.
func requireIdentity(verifier ports.IdentityVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := credential(c)
			if token != "" {
				identity, err := verifier.Verify(c.Request().Context(), token)
				if err == nil {
					middleware.WithIdentity(c, identity)
					return next(c)
				}
				log.Debug().Err(err).Str("path", c.Path()).Msg("shell credential rejected")
			}
			return c.Redirect(http.StatusFound, SignInPath+"?next="+url.QueryEscape(c.Request().URL.Path))
		}
	}
}

// credential prefers the cookie set by the frontend and falls back to a
// bearer header.
func credential(c echo.Context) string {
	if ck, err := c.Cookie(TokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if token, ok := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
		return token
	}
	return ""
}
