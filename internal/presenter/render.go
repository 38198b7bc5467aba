package presenter

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Renderer turns cards and messages into text
type Renderer interface {
	RenderCards(cards []Card) string
	RenderMessage(kind MessageKind, text string) string
}

// Pane is a Container holding the latest rendering
type Pane struct {
	renderer Renderer

	mu      sync.Mutex
	content string
	renders int
}

// NewPane creates an empty pane
func NewPane(renderer Renderer) *Pane {
	return &Pane{renderer: renderer}
}

// ShowCards implements Container
func (p *Pane) ShowCards(cards []Card) {
	p.set(p.renderer.RenderCards(cards))
}

// ShowMessage implements Container
func (p *Pane) ShowMessage(kind MessageKind, text string) {
	p.set(p.renderer.RenderMessage(kind, text))
}

func (p *Pane) set(content string) {
	p.mu.Lock()
	p.content = content
	p.renders++
	p.mu.Unlock()
}

// Content returns the latest rendering
func (p *Pane) Content() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

// Renders counts how often the pane was replaced
func (p *Pane) Renders() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renders
}

var cardTemplate = template.Must(template.New("cards").Parse(`
{{- define "card" -}}
<div class="{{.Kind}}-card">
<div class="flight-header"><div class="flight-number">{{.Title}}</div>
{{- if .Status}}<div class="status-badge status-{{.Status}}">{{.Status}}</div>{{end -}}
</div>
{{- if .Route}}
<div class="flight-route">
<div class="route-point"><div class="airport-code">{{.Route.From.Code}}</div><div class="airport-name">{{.Route.From.Name}}</div></div>
<div class="route-arrow">&rarr;</div>
<div class="route-point"><div class="airport-code">{{.Route.To.Code}}</div><div class="airport-name">{{.Route.To.Name}}</div></div>
</div>
{{- end}}
<div class="flight-details">
{{- range .Fields}}
<div class="detail-item"><div class="detail-label">{{.Label}}</div><div class="detail-value">{{.Value}}</div></div>
{{- end}}
</div>
</div>
{{- end -}}
{{- range .}}{{template "card" .}}
{{end -}}
`))

// HTMLRenderer renders escaped markup using the browser client's classes
type HTMLRenderer struct{}

// RenderCards implements Renderer
func (HTMLRenderer) RenderCards(cards []Card) string {
	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, cards); err != nil {
		return ""
	}
	return buf.String()
}

// RenderMessage implements Renderer
func (HTMLRenderer) RenderMessage(kind MessageKind, text string) string {
	class := "no-results"
	if kind == MessageError {
		class = "error-message"
	}
	return `<div class="` + class + `">` + template.HTMLEscapeString(text) + `</div>`
}

// Terminal palette
var (
	colorPrimary = lipgloss.Color("#101F38")
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#6b7789")
	colorDanger  = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
)

// TerminalRenderer draws cards as bordered boxes
type TerminalRenderer struct {
	card   lipgloss.Style
	title  lipgloss.Style
	label  lipgloss.Style
	empty  lipgloss.Style
	errMsg lipgloss.Style
}

// NewTerminalRenderer creates a renderer with the default palette
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1).
			Width(48),
		title:  lipgloss.NewStyle().Bold(true),
		label:  lipgloss.NewStyle().Foreground(colorMuted).Width(11),
		empty:  lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		errMsg: lipgloss.NewStyle().Foreground(colorDanger).Bold(true),
	}
}

func statusStyle(status string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch status {
	case "active", "landed":
		return style.Foreground(colorAccent)
	case "cancelled", "incident":
		return style.Foreground(colorDanger)
	case "diverted":
		return style.Foreground(colorWarning)
	default:
		return style.Foreground(colorMuted)
	}
}

// RenderCards implements Renderer
func (r *TerminalRenderer) RenderCards(cards []Card) string {
	boxes := make([]string, len(cards))
	for i, c := range cards {
		boxes[i] = r.renderCard(c)
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func (r *TerminalRenderer) renderCard(c Card) string {
	var sb strings.Builder

	sb.WriteString(r.title.Render(c.Title))
	if c.Status != "" {
		sb.WriteString("  ")
		sb.WriteString(statusStyle(c.Status).Render(c.Status))
	}
	if c.Route != nil {
		sb.WriteString("\n")
		sb.WriteString(c.Route.From.Code + " → " + c.Route.To.Code)
		sb.WriteString("\n")
		sb.WriteString(r.label.Render("") + c.Route.From.Name + " → " + c.Route.To.Name)
	}
	for _, f := range c.Fields {
		sb.WriteString("\n")
		sb.WriteString(r.label.Render(f.Label) + f.Value)
	}

	return r.card.Render(sb.String())
}

// RenderMessage implements Renderer
func (r *TerminalRenderer) RenderMessage(kind MessageKind, text string) string {
	if kind == MessageError {
		return r.errMsg.Render(text)
	}
	return r.empty.Render(text)
}
