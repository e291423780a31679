package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/carddex/pkg/app/styles"
	"github.com/kerbaras/carddex/pkg/services"
)

const maxFailures = 3

// ProgressTracker shows the state of a running harvest.
type ProgressTracker struct {
	latest   *services.HarvestProgress
	failures []services.HarvestProgress
	cards    int
	width    int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{width: width}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

func (p *ProgressTracker) Update(progress services.HarvestProgress) {
	prog := progress // Copy
	p.latest = &prog

	switch progress.Status {
	case "enumerating":
		p.failures = nil
		p.cards = 0
	case "parsed":
		p.cards += progress.CardsFound
	case "failed":
		p.failures = append(p.failures, prog)
		if len(p.failures) > maxFailures {
			p.failures = p.failures[len(p.failures)-maxFailures:]
		}
	}
}

func (p *ProgressTracker) Clear() {
	p.latest = nil
	p.failures = nil
	p.cards = 0
}

// HasActive reports whether a harvest is under way.
func (p *ProgressTracker) HasActive() bool {
	return p.latest != nil && p.latest.Status != "complete"
}

func (p *ProgressTracker) View() string {
	if !p.HasActive() {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Scraping card database"))
	b.WriteString("\n")

	progress := p.latest
	if progress.Status == "enumerating" {
		b.WriteString(styles.StatusBusy.Render("Collecting pack list..."))
		b.WriteString("\n")
		return b.String()
	}

	if progress.Total > 0 {
		b.WriteString(renderProgressBar(progress.Current, progress.Total, p.width-4))
		b.WriteString("\n")
		percentage := float64(progress.Current) / float64(progress.Total) * 100
		statusText := fmt.Sprintf("%s %s (%d/%d packs - %.0f%%)",
			progress.Status, progress.PackName, progress.Current, progress.Total, percentage)
		b.WriteString(styles.StatusStyle(progress.Status).Render(statusText))
		b.WriteString("\n")
	}

	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d cards so far", p.cards)))
	b.WriteString("\n")

	for _, f := range p.failures {
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("Skipped %s: %s", f.PackName, f.Error)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
