// Package content loads the portfolio's static data table and renders its
// long-form prose.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/sumitbaghel/portfolio/internal/viewport"
)

//go:embed data/portfolio.yaml
var embedded []byte

type Personal struct {
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	Image    string `yaml:"image"`
	Bio      string `yaml:"bio"`
}

type Links struct {
	GitHub   string `yaml:"github"`
	LinkedIn string `yaml:"linkedin"`
}

// Role is one of the headlines the hero rotates through.
type Role struct {
	Text  string `yaml:"text" json:"text"`
	Icon  string `yaml:"icon" json:"icon"`
	Color string `yaml:"color" json:"color"`
}

type Education struct {
	Level       string   `yaml:"level"`
	Institution string   `yaml:"institution"`
	Course      string   `yaml:"course"`
	Duration    string   `yaml:"duration"`
	Grade       string   `yaml:"grade"`
	Highlights  []string `yaml:"highlights"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Level int    `yaml:"level"`
}

type SkillCategory struct {
	Title  string  `yaml:"title"`
	Color  string  `yaml:"color"`
	Skills []Skill `yaml:"skills"`
}

type Project struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Image        string   `yaml:"image"`
	Technologies []string `yaml:"technologies"`
	LiveURL      string   `yaml:"live_url"`
	GitHubURL    string   `yaml:"github_url"`
	Featured     bool     `yaml:"featured"`
}

type Experience struct {
	Company     string `yaml:"company"`
	Position    string `yaml:"position"`
	Duration    string `yaml:"duration"`
	Description string `yaml:"description"`
}

type Stat struct {
	Number string `yaml:"number"`
	Label  string `yaml:"label"`
}

// Portfolio is the whole data table.
type Portfolio struct {
	Personal   Personal           `yaml:"personal"`
	Links      Links              `yaml:"links"`
	Sections   []viewport.Section `yaml:"sections"`
	Roles      []Role             `yaml:"roles"`
	Education  []Education        `yaml:"education"`
	Skills     []SkillCategory    `yaml:"skills"`
	Projects   []Project          `yaml:"projects"`
	Experience []Experience       `yaml:"experience"`
	Stats      []Stat             `yaml:"stats"`
}

// Load reads the table from path, or the embedded table when path is empty.
func Load(path string) (*Portfolio, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading content %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates a YAML table.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that there is at least one section and that section ids
// are unique, since they double as anchor targets.
func (p *Portfolio) Validate() error {
	if len(p.Sections) == 0 {
		return errors.New("content: no sections")
	}
	seen := make(map[string]bool, len(p.Sections))
	for _, s := range p.Sections {
		if s.ID == "" {
			return fmt.Errorf("content: section %q has no id", s.Label)
		}
		if seen[s.ID] {
			return fmt.Errorf("content: duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// FeaturedProjects returns the projects flagged as featured, in table order.
func (p *Portfolio) FeaturedProjects() []Project {
	var out []Project
	for _, pr := range p.Projects {
		if pr.Featured {
			out = append(out, pr)
		}
	}
	return out
}

// OtherProjects returns the projects not flagged as featured, in table order.
func (p *Portfolio) OtherProjects() []Project {
	var out []Project
	for _, pr := range p.Projects {
		if !pr.Featured {
			out = append(out, pr)
		}
	}
	return out
}

// Renderer turns markdown prose into sanitized HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts src to HTML safe for direct inclusion in a template.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// MustRender is Render for template use; conversion errors render as the
// escaped source.
func (r *Renderer) MustRender(src string) template.HTML {
	h, err := r.Render(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return h
}
