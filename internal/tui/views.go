package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/report"
	"github.com/Veraticus/haul/internal/tui/themes"
)

const barWidth = 20

// renderFrame wraps body with the header and the help footer.
func (m Model) renderFrame(body string) string {
	title := m.theme.Title.Render(cli.TruckIcon + " haul")
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTab("Summary", m.view == ViewSummary),
		m.renderTab("Ledger", m.view == ViewLedger),
	)
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", tabs)

	start, end := m.period.Range()
	period := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(m.period.Label()),
		m.theme.Subtitle.Render(fmt.Sprintf("%s to %s", model.FormatDate(start), model.FormatDate(end))),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		period,
		"",
		body,
		"",
		m.help.View(m.keymap),
	)
}

func (m Model) renderTab(label string, active bool) string {
	if active {
		return m.theme.ActiveTab.Render(label)
	}
	return m.theme.Tab.Render(label)
}

// renderSummary renders period totals against the previous period and the
// category breakdown.
func (m Model) renderSummary() string {
	c := report.Compare(m.period, m.data.Trips, m.data.Expenses)
	s := c.Current

	totals := strings.Join([]string{
		m.totalLine("Earnings", cli.FormatMoney(s.TotalEarnings), c.EarningsChange),
		m.totalLine("Expenses", cli.FormatMoney(s.TotalExpenses), c.ExpensesChange),
		m.totalLine("Net profit", m.profit(s.NetProfit), c.ProfitChange),
		"",
		fmt.Sprintf("Trips: %d", s.TripCount),
	}, "\n")
	if len(s.TrailerNumbers) > 0 {
		totals += "\nTrailers: " + strings.Join(s.TrailerNumbers, ", ")
	}

	boxes := []string{m.theme.RoundedBox.Render(totals)}
	if breakdown := report.CategoryBreakdown(s.ExpensesByCategory); len(breakdown) > 0 {
		boxes = append(boxes, m.theme.RoundedBox.Render(m.renderBreakdown(breakdown, s.TotalExpenses)))
	}

	if m.width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, boxes...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) totalLine(label, amount string, change decimal.Decimal) string {
	pct := cli.FormatPercent(change)
	style := m.theme.StatusPending
	switch {
	case change.IsPositive():
		style = m.theme.StatusSuccess
	case change.IsNegative():
		style = m.theme.StatusError
	}
	return fmt.Sprintf("%-11s %12s  %s", label, amount, style.Render(pct))
}

func (m Model) profit(d decimal.Decimal) string {
	if d.IsNegative() {
		return m.theme.StatusError.Render(cli.FormatMoney(d))
	}
	return m.theme.StatusSuccess.Render(cli.FormatMoney(d))
}

func (m Model) renderBreakdown(breakdown []report.CategoryAmount, total decimal.Decimal) string {
	lines := []string{m.theme.Bold.Render("By category")}
	for _, ca := range breakdown {
		lines = append(lines, fmt.Sprintf("%s %-14s %s %10s",
			themes.GetCategoryIcon(ca.Category),
			ca.Category.Label(),
			m.bar(ca.Amount, total),
			cli.FormatMoney(ca.Amount)))
	}
	return strings.Join(lines, "\n")
}

// bar draws amount's share of total.
func (m Model) bar(amount, total decimal.Decimal) string {
	filled := 0
	if total.IsPositive() {
		filled = int(amount.Div(total).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	}
	filled = max(0, min(barWidth, filled))
	return m.theme.BarFull.Render(strings.Repeat("█", filled)) +
		m.theme.BarEmpty.Render(strings.Repeat("░", barWidth-filled))
}

// renderLedger lists the period's ledger rows, trimmed to the terminal height.
func (m Model) renderLedger() string {
	start, end := m.period.Range()
	from, to := model.FormatDate(start), model.FormatDate(end)

	var entries []report.LedgerEntry
	for _, e := range report.Ledger(m.data.Trips, m.data.Expenses, report.LedgerFilter{}) {
		if e.Date >= from && e.Date <= to {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return m.theme.StatusPending.Render("Nothing recorded in this period")
	}

	limit := max(1, m.height-12)
	lines := make([]string, 0, min(limit, len(entries))+1)
	for i, e := range entries {
		if i == limit {
			lines = append(lines, m.theme.StatusPending.Render(fmt.Sprintf("… %d more", len(entries)-limit)))
			break
		}
		amount := m.theme.StatusSuccess.Render("+" + cli.FormatMoney(e.Amount))
		label := "trip"
		if e.Kind == report.KindOutflow {
			amount = m.theme.StatusError.Render("-" + cli.FormatMoney(e.Amount))
			label = e.Category.Label()
		}
		lines = append(lines, fmt.Sprintf("%s  %-13s %-36s %s", e.Date, label, truncate(e.Description, 36), amount))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
