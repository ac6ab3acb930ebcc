package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/schema"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// FormatTurn renders one turn response as markdown for the chat view.
func FormatTurn(resp *domain.TurnResponse, wizard *schema.Wizard) string {
	var b strings.Builder
	b.WriteString(resp.Message)
	b.WriteString("\n")

	for _, action := range resp.Actions {
		marker := "✓"
		if action.Status == domain.ActionWarning {
			marker = "!"
		}
		fmt.Fprintf(&b, "\n> %s %s", marker, action.Description)
	}

	if step, ok := wizard.Step(resp.NavigateToStep); ok {
		fmt.Fprintf(&b, "\n\n**Step %d/%d: %s**", step.Number, wizard.StepCount(), step.Title)
	}
	return b.String()
}

// PrintStepProgress paints a compact per-step completeness line.
func PrintStepProgress(reports []schema.Report, current int) {
	p := termenv.ColorProfile()
	var parts []string
	for _, rep := range reports {
		label := fmt.Sprintf("%d", rep.Step)
		switch {
		case rep.Step == current:
			label = termenv.String("[" + label + "]").Foreground(p.Color("#fbbf24")).String()
		case rep.Complete:
			label = termenv.String(label).Foreground(p.Color("#34d399")).String()
		default:
			label = termenv.String(label).Foreground(p.Color("#6b7280")).String()
		}
		parts = append(parts, label)
	}
	fmt.Println(strings.Join(parts, " "))
}
