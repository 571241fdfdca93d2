// Package site serves the portfolio page and its live channel.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sumitbaghel/portfolio/internal/content"
	"github.com/sumitbaghel/portfolio/internal/grid"
	"github.com/sumitbaghel/portfolio/internal/nav"
	"github.com/sumitbaghel/portfolio/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Anchors are the element ids index.html renders. The "about" nav entry has
// no element of its own.
var Anchors = []string{"hero", "projects", "skills", "education", "experience", "contact"}

// checkSections makes sure every navigable section has an element to
// scroll to, so a content override cannot add a dead nav entry.
func checkSections(p *content.Portfolio) error {
	anchors := make(map[string]bool, len(Anchors))
	for _, a := range Anchors {
		anchors[a] = true
	}
	for _, sec := range p.Sections {
		if !anchors[nav.Resolve(sec.ID)] {
			return fmt.Errorf("section %q has no element on the page", sec.ID)
		}
	}
	return nil
}

// Config is what the site needs from the process configuration.
type Config struct {
	ResumePath string
}

// Server holds the handlers' dependencies.
type Server struct {
	cfg      Config
	content  *content.Portfolio
	renderer *content.Renderer
	grid     *grid.Grid
	sessions *session.Manager
	log      *zap.Logger
	salt     string
}

// New returns a Server for the given content and sessions.
func New(cfg Config, p *content.Portfolio, g *grid.Grid, sessions *session.Manager, log *zap.Logger) (*Server, error) {
	if err := checkSections(p); err != nil {
		return nil, err
	}
	salt, err := newSalt()
	if err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return &Server{
		cfg:      cfg,
		content:  p,
		renderer: content.NewRenderer(),
		grid:     g,
		sessions: sessions,
		log:      log,
		salt:     salt,
	}, nil
}

func (s *Server) templates() (*template.Template, error) {
	funcs := template.FuncMap{
		"markdown": s.renderer.MustRender,
		"add":      func(a, b int) int { return a + b },
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// Routes builds the gin engine.
func (s *Server) Routes() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log, s.salt))

	tmpl, err := s.templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.handleIndex)
	r.GET("/resume", s.handleResume)
	r.GET("/ws", s.handleWebSocket)
	r.POST("/contact", s.handleContact)
	r.POST("/contact/dismiss", s.handleDismiss)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
	})
	return r, nil
}
