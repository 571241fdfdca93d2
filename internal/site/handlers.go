package site

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sumitbaghel/portfolio/internal/contact"
	"github.com/sumitbaghel/portfolio/internal/content"
	"github.com/sumitbaghel/portfolio/internal/grid"
	"github.com/sumitbaghel/portfolio/internal/session"
)

// ResumeFilename is the name the resume download is saved under.
const ResumeFilename = "resume.pdf"

type edgeView struct {
	From, To       int
	X1, Y1, X2, Y2 float64
}

func (s *Server) edgeViews() []edgeView {
	edges := s.grid.Edges()
	out := make([]edgeView, 0, len(edges))
	for _, e := range edges {
		a, _ := s.grid.Node(e.From)
		b, _ := s.grid.Node(e.To)
		out = append(out, edgeView{
			From: e.From, To: e.To,
			X1: a.Point.X, Y1: a.Point.Y,
			X2: b.Point.X, Y2: b.Point.Y,
		})
	}
	return out
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := s.sessions.Create()
	p := s.content
	c.HTML(http.StatusOK, "index.html", gin.H{
		"session":    sess.ID(),
		"personal":   p.Personal,
		"links":      p.Links,
		"sections":   p.Sections,
		"roles":      p.Roles,
		"firstRole":  firstRole(p.Roles),
		"featured":   p.FeaturedProjects(),
		"others":     p.OtherProjects(),
		"skills":     p.Skills,
		"education":  p.Education,
		"experience": p.Experience,
		"stats":      p.Stats,
		"nodes":      s.grid.Nodes(),
		"edges":      s.edgeViews(),
		"radius":     grid.ActivationRadius,
	})
}

func firstRole(roles []content.Role) content.Role {
	if len(roles) == 0 {
		return content.Role{}
	}
	return roles[0]
}

func (s *Server) handleResume(c *gin.Context) {
	path := filepath.Clean(s.cfg.ResumePath)
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "resume not available")
		return
	}
	c.FileAttachment(path, ResumeFilename)
}

func (s *Server) controller(c *gin.Context) (*session.Controller, bool) {
	sess, err := s.sessions.Get(c.PostForm("session"))
	if err != nil {
		c.HTML(http.StatusGone, "contact-error.html", gin.H{
			"error": "This page has expired. Please reload and try again.",
		})
		return nil, false
	}
	return sess, true
}

func (s *Server) handleContact(c *gin.Context) {
	sess, ok := s.controller(c)
	if !ok {
		return
	}

	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "contact-error.html", gin.H{"error": "Invalid form submission."})
		return
	}

	err := sess.Submit(c.Request.Context(), form)
	switch {
	case errors.Is(err, contact.ErrSubmitting):
		c.Status(http.StatusConflict)
		return
	case errors.Is(err, contact.ErrClosed):
		c.HTML(http.StatusGone, "contact-error.html", gin.H{
			"error": "This page has expired. Please reload and try again.",
		})
		return
	case err != nil:
		c.Error(err)
		alerts := sess.TakeAlerts()
		if len(alerts) > 0 {
			trigger, _ := json.Marshal(map[string]string{"contact-alert": alerts[0]})
			c.Header("HX-Trigger", string(trigger))
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contact.AlertMessage})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
		"name":    form.Name,
	})
}

func (s *Server) handleDismiss(c *gin.Context) {
	sess, err := s.sessions.Get(c.PostForm("session"))
	if err != nil {
		s.log.Debug("dismiss for unknown session", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}
	sess.Dismiss()
	c.Status(http.StatusOK)
}
