// Package output renders pipeline progress and results for the
// terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/project-aether/aether/internal/debate"
	"github.com/project-aether/aether/internal/judge"
	"github.com/project-aether/aether/internal/pipeline"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	stageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	proStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	conStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Printer writes styled progress lines. The zero value writes to
// stdout.
type Printer struct {
	W io.Writer
}

func (p Printer) w() io.Writer {
	if p.W != nil {
		return p.W
	}
	return os.Stdout
}

// Banner prints the run header.
func (p Printer) Banner(title string) {
	fmt.Fprintf(p.w(), "\n%s\n\n", bannerStyle.Render("=== "+title+" ==="))
}

// Stage prints a stage transition line.
func (p Printer) Stage(stage pipeline.Stage, progress string) {
	fmt.Fprintf(p.w(), "%s %s\n", stageStyle.Render("["+string(stage)+"]"), progress)
}

// Turn prints one completed debate turn.
func (p Printer) Turn(turn debate.Turn) {
	style := conStyle
	if turn.Side == debate.Pro {
		style = proStyle
	}
	fmt.Fprintf(p.w(), "%s %s: %s\n",
		dimStyle.Render(fmt.Sprintf("[Round %d]", turn.Round)),
		style.Render(turn.AgentID),
		turn.Argument,
	)
}

// Verdict prints one factor's verdict.
func (p Printer) Verdict(factor string, v judge.Verdict) {
	style := failStyle
	if v.Stance == judge.Positive {
		style = okStyle
	}
	fmt.Fprintf(p.w(), "%s %s %s\n", style.Render(string(v.Stance)),
		dimStyle.Render(fmt.Sprintf("(%d/10)", v.Confidence)), factor)
}

// Summary prints the aggregate recommendation.
func (p Printer) Summary(report *pipeline.Report) {
	style := failStyle
	switch report.Recommendation {
	case pipeline.RecommendationProceed:
		style = okStyle
	case pipeline.RecommendationInconclusive:
		style = stageStyle
	}
	fmt.Fprintf(p.w(), "\nVerdicts: %d positive, %d negative\n", report.Positive, report.Negative)
	fmt.Fprintf(p.w(), "Recommendation: %s\n", style.Render(string(report.Recommendation)))
}
