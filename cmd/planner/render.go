package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wanderplan/internal/app"
	"wanderplan/internal/domain"
)

var (
	headerColor = lipgloss.Color("#F780FF") // pink
	dayColor    = lipgloss.Color("#BD93F9") // purple
	timeColor   = lipgloss.Color("#8BE9FD") // cyan
	mutedColor  = lipgloss.Color("#6272A4")
	warnColor   = lipgloss.Color("#FFB86C")
	okColor     = lipgloss.Color("#50FA7B")

	headerStyle = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	dayStyle    = lipgloss.NewStyle().Foreground(dayColor).Bold(true).MarginTop(1)
	timeStyle   = lipgloss.NewStyle().Foreground(timeColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	warnStyle   = lipgloss.NewStyle().Foreground(warnColor).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(okColor)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
)

func renderItinerary(res app.Result) string {
	it := res.Itinerary
	var b strings.Builder

	b.WriteString(headerStyle.Render(it.Destination))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s to %s  |  source: %s  |  id: %s", it.StartDate, it.EndDate, res.Source, res.ID)))
	b.WriteString("\n")

	switch res.Source {
	case domain.SourceFallback:
		b.WriteString(warnStyle.Render(fmt.Sprintf("model unavailable (%s); showing the standard plan", res.Failure)))
		b.WriteString("\n")
	case domain.SourceDegraded:
		b.WriteString(warnStyle.Render("the model reply could not be read; " + it.Error))
		b.WriteString("\n")
	}

	if it.Overview != "" {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(it.Overview))
		b.WriteString("\n")
	}

	for _, d := range it.Days {
		head := fmt.Sprintf("Day %d  %s", d.Day, d.Date)
		if d.StartTime != "" {
			head += fmt.Sprintf("  (%s - %s)", d.StartTime, d.EndTime)
		}
		b.WriteString(dayStyle.Render(head))
		b.WriteString("\n")
		for _, a := range d.Activities {
			t := a.Time
			if t == "" {
				t = "--:--"
			}
			fmt.Fprintf(&b, "  %s  %s %s\n", timeStyle.Render(fmt.Sprintf("%-8s", t)), a.Name, mutedStyle.Render("["+string(a.Category)+"]"))
			if a.Description != "" {
				fmt.Fprintf(&b, "            %s\n", a.Description)
			}
			if meta := activityMeta(a); meta != "" {
				fmt.Fprintf(&b, "            %s\n", mutedStyle.Render(meta))
			}
		}
	}

	if s := it.Budget.String(); s != "" {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Budget"))
		b.WriteString("\n  " + s + "\n")
	}
	if len(it.Tips) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Tips"))
		b.WriteString("\n")
		for _, tip := range it.Tips {
			b.WriteString("  " + okStyle.Render("•") + " " + tip + "\n")
		}
	}
	return b.String()
}

func activityMeta(a domain.Activity) string {
	var parts []string
	if a.Duration != "" {
		parts = append(parts, a.Duration)
	}
	if a.Cost != "" {
		parts = append(parts, a.Cost)
	}
	if a.Location != "" {
		parts = append(parts, a.Location)
	}
	return strings.Join(parts, " · ")
}
