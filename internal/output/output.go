package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")
)

// Printer writes styled lines to w. Colors are dropped when w is not a
// terminal.
type Printer struct {
	w io.Writer

	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	primary lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		err:     r.NewStyle().Foreground(colorError).Bold(true),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Foreground(colorMuted),
		primary: r.NewStyle().Foreground(colorPrimary).Bold(true),
	}
}

func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprint(p.w, p.success.Render("✓ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprint(p.w, p.warning.Render("⚠ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprint(p.w, p.err.Render("✗ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprint(p.w, p.info.Render("ℹ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Primary(format string, args ...any) {
	fmt.Fprintln(p.w, p.primary.Render(fmt.Sprintf(format, args...)))
}

// Prompt writes text without a trailing newline.
func (p *Printer) Prompt(text string) {
	fmt.Fprint(p.w, p.primary.Render(text))
}

func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.primary.Render(title))
	fmt.Fprintln(p.w, p.muted.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// Table renders rows under headers. An empty row set prints emptyMsg instead.
func (p *Printer) Table(headers []string, rows [][]string, emptyMsg string) {
	if len(rows) == 0 {
		p.Muted("%s", emptyMsg)
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(p.w, t.Render())
}

// StatusIcon returns a colored marker for a listing status.
func (p *Printer) StatusIcon(status string) string {
	switch status {
	case "ACTIVE":
		return p.success.Render("●")
	case "SOLD_OUT":
		return p.warning.Render("○")
	case "DELETED":
		return p.err.Render("✗")
	default:
		return p.muted.Render("•")
	}
}
