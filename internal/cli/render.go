package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mmynk/salonbook/internal/calculator"
	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/service"
)

// Commands are short-lived and not cancellable from the terminal.
func rootContext() context.Context {
	return context.Background()
}

// title prints text in the company's branding color.
func title(w io.Writer, p service.Profile, text string) {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Color))
	fmt.Fprintln(w, style.Render(text))
}

func newTable(p service.Profile, headers ...string) *table.Table {
	border := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color))
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers(headers...)
}

func renderClients(w io.Writer, p service.Profile, clients []*models.Client) {
	t := newTable(p, "ID", "NAME", "PHONE")
	for _, c := range clients {
		t.Row(strconv.FormatInt(c.ID, 10), c.Name, c.Phone)
	}
	fmt.Fprintln(w, t.Render())
}

func renderHistory(w io.Writer, p service.Profile, entries []*models.HistoryEntry, summary calculator.Summary) {
	t := newTable(p, "ID", "DATE", "DESCRIPTION", "COST")
	for _, e := range entries {
		t.Row(strconv.FormatInt(e.ID, 10), e.Date, e.Description, e.Cost)
	}
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "Visits: %d  Total: %.2f", summary.Visits, summary.Total)
	if summary.LastVisit != "" {
		fmt.Fprintf(w, "  Last visit: %s", summary.LastVisit)
	}
	if summary.Unparsed > 0 {
		fmt.Fprintf(w, "  (%d without a numeric cost)", summary.Unparsed)
	}
	fmt.Fprintln(w)
}
