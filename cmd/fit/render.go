package fit

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

var (
	colorPrimary = lipgloss.Color("#6C63FF")
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")
	colorSubtle  = lipgloss.Color("#414868")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	barFullStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	barPartStyle = lipgloss.NewStyle().
			Foreground(colorWarning)
)

const barWidth = 20

var nutrientLabels = map[model.Nutrient]string{
	model.EnergyKcal:    "Energia",
	model.ProteinG:      "Proteína",
	model.FatG:          "Lipídeos",
	model.CarbohydrateG: "Carboidrato",
	model.FiberG:        "Fibra",
	model.SodiumMg:      "Sódio",
	model.CalciumMg:     "Cálcio",
	model.IronMg:        "Ferro",
	model.CholesterolMg: "Colesterol",
}

func nutrientLabel(n model.Nutrient) string {
	if l, ok := nutrientLabels[n]; ok {
		return l
	}
	return string(n)
}

func progressBar(p float64) string {
	filled := int(p*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	style := barPartStyle
	if filled == barWidth {
		style = barFullStyle
	}
	return style.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

func formatMacros(n model.Nutrients) string {
	return fmt.Sprintf("%.2f kcal | P %.2fg | C %.2fg | G %.2fg",
		n.Get(model.EnergyKcal), n.Get(model.ProteinG), n.Get(model.CarbohydrateG), n.Get(model.FatG))
}

func renderDaySummary(w io.Writer, s service.DaySummary, custom bool) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Resumo de " + string(s.Date)))
	b.WriteString("\n")
	if len(s.Meals) == 0 {
		b.WriteString(mutedStyle.Render("Nenhum alimento registrado."))
		b.WriteString("\n")
	}
	for _, m := range s.Meals {
		fmt.Fprintf(&b, "%-16s %s\n", m.Label, formatMacros(m.Totals))
	}
	fmt.Fprintf(&b, "%-16s %s\n", "Total", formatMacros(s.Totals))
	fmt.Fprintln(w, panelStyle.Render(strings.TrimRight(b.String(), "\n")))

	heading := "Metas diárias"
	if !custom {
		heading += " (padrão)"
	}
	fmt.Fprintln(w, titleStyle.Render(heading))
	for _, p := range s.Progress {
		unit := p.Nutrient.Unit()
		fmt.Fprintf(w, "%-12s %s %3.0f%%  %.2f/%.2f %s  restante %.2f %s\n",
			nutrientLabel(p.Nutrient), progressBar(p.Progress), p.Progress*100,
			p.Actual, p.Target, unit, p.Remaining, unit)
	}
	if len(s.Activities) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Treino"))
		for _, a := range s.Activities {
			fmt.Fprintf(w, "- %s (%d min)\n", a.Description, a.DurationMin)
		}
		fmt.Fprintf(w, "%s\n", mutedStyle.Render(fmt.Sprintf("Total: %d min", s.ActivityMinutes)))
	}
}
