package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/fuel"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/report"
	"github.com/Veraticus/haul/internal/storage"
	"github.com/Veraticus/haul/internal/tax"
)

// table writes aligned rows under a styled header.
type table struct {
	tw  *tabwriter.Writer
	err error
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = TableHeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", len(h))
	}
	t.row(styled...)
	t.row(rules...)
	return t
}

func (t *table) row(cells ...string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return SubtleStyle.Render("-")
	}
	return s
}

// RenderDaily writes a one-day summary.
func RenderDaily(w io.Writer, s report.DailySummary) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n",
		FormatTitle("Daily summary for "+s.Date),
		summaryLines(FormatMoney(s.TotalEarnings), FormatMoney(s.TotalExpenses), FormatProfit(s.NetProfit), len(s.Trips), len(s.Expenses)))
	if err != nil {
		return err
	}
	return renderDayDetail(w, s.Trips, s.Expenses)
}

func summaryLines(earnings, expenses, profit string, trips, outflows int) string {
	return fmt.Sprintf("  Earnings:  %s\n  Expenses:  %s\n  Profit:    %s\n  Trips: %d  Expenses: %d\n",
		earnings, expenses, profit, trips, outflows)
}

func renderDayDetail(w io.Writer, trips []model.Trip, expenses []model.Expense) error {
	if len(trips) > 0 {
		if err := RenderTrips(w, trips); err != nil {
			return err
		}
	}
	if len(expenses) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return RenderExpenses(w, expenses)
	}
	return nil
}

// RenderPeriod writes a week, month or year summary with the change against
// the previous period.
func RenderPeriod(w io.Writer, c report.Comparison) error {
	s := c.Current
	var b strings.Builder

	b.WriteString(FormatTitle(c.Period.Label()) + "\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s to %s", s.Start, s.End)) + "\n\n")

	t := newTable(&b, "", "Amount", "vs previous")
	t.row("Earnings", FormatMoney(s.TotalEarnings), FormatPercent(c.EarningsChange))
	t.row("Expenses", FormatMoney(s.TotalExpenses), FormatPercent(c.ExpensesChange))
	t.row("Net profit", FormatProfit(s.NetProfit), FormatPercent(c.ProfitChange))
	if err := t.flush(); err != nil {
		return err
	}

	fmt.Fprintf(&b, "\nTrips: %d", s.TripCount)
	if len(s.TrailerNumbers) > 0 {
		fmt.Fprintf(&b, "   Trailers: %s", strings.Join(s.TrailerNumbers, ", "))
	}
	b.WriteString("\n")

	if breakdown := report.CategoryBreakdown(s.ExpensesByCategory); len(breakdown) > 0 {
		b.WriteString("\n" + BoldStyle.Render("By category") + "\n")
		t := newTable(&b, "Category", "Amount")
		for _, ca := range breakdown {
			t.row(ca.Category.Label(), FormatMoney(ca.Amount))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderFleet writes all-time totals.
func RenderFleet(w io.Writer, f report.FleetTotals) error {
	content := fmt.Sprintf(
		"Earnings:     %s\nExpenses:     %s\nNet profit:   %s\nFuel bought:  %s\n\nTrips: %d   Routes: %d   Trucks: %d (%d active)   Fuel entries: %d",
		FormatMoney(f.TotalEarnings), FormatMoney(f.TotalExpenses), FormatProfit(f.NetProfit), FormatMoney(f.FuelSpend),
		f.TripCount, f.RouteCount, f.TruckCount, f.ActiveTruckCount, f.FuelEntryCount)
	_, err := fmt.Fprintln(w, RenderBox(ChartIcon+" All time", content))
	return err
}

// RenderLedger writes ledger rows, newest first.
func RenderLedger(w io.Writer, entries []report.LedgerEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No ledger entries found"))
		return err
	}

	t := newTable(w, "Date", "Type", "Category", "Description", "Amount")
	total := decimal.Zero
	for _, e := range entries {
		amount := FormatMoney(e.Amount)
		category := ""
		if e.Kind == report.KindOutflow {
			amount = ErrorStyle.Render("-" + amount)
			category = e.Category.Label()
			total = total.Sub(e.Amount)
		} else {
			amount = SuccessStyle.Render(amount)
			total = total.Add(e.Amount)
		}
		t.row(e.Date, string(e.Kind), orDash(category), e.Description, amount)
	}
	t.row("", "", "", BoldStyle.Render("Net"), FormatProfit(total))
	return t.flush()
}

// RenderTrips lists trips.
func RenderTrips(w io.Writer, trips []model.Trip) error {
	t := newTable(w, "ID", "Date", "Route", "Trailer", "Earnings", "Costs", "Net")
	for _, trip := range trips {
		t.row(shortID(trip.ID), trip.Date, trip.RouteName, orDash(trip.TrailerNumber),
			FormatMoney(trip.Earnings), FormatMoney(trip.Costs()), FormatProfit(trip.NetProfit()))
	}
	return t.flush()
}

// RenderExpenses lists expenses.
func RenderExpenses(w io.Writer, expenses []model.Expense) error {
	t := newTable(w, "ID", "Date", "Category", "Description", "Amount", "Receipt")
	for _, e := range expenses {
		receipt := ""
		if e.HasReceipt() {
			receipt = SuccessIcon
		}
		t.row(shortID(e.ID), e.Date, e.Category.Label(), e.Description, FormatMoney(e.Amount), orDash(receipt))
	}
	return t.flush()
}

// RenderFuelEntries lists fuel entries.
func RenderFuelEntries(w io.Writer, entries []model.FuelEntry) error {
	t := newTable(w, "ID", "Date", "Truck", "Gallons", "Price", "Total", "Odometer", "Location")
	for _, f := range entries {
		t.row(shortID(f.ID), f.Date, orDash(shortID(f.TruckID)), f.Gallons.StringFixed(2),
			"$"+f.PricePerGallon.StringFixed(3), FormatMoney(f.TotalCost), f.Odometer.String(), orDash(f.Location))
	}
	return t.flush()
}

// RenderRoutes lists routes.
func RenderRoutes(w io.Writer, routes []model.Route) error {
	t := newTable(w, "ID", "Name", "Payment", "Distance", "Notes")
	for _, r := range routes {
		distance := ""
		if r.Distance != nil {
			distance = r.Distance.String() + " mi"
		}
		t.row(shortID(r.ID), r.Name, FormatMoney(r.Payment), orDash(distance), orDash(r.Notes))
	}
	return t.flush()
}

// RenderTrucks lists trucks.
func RenderTrucks(w io.Writer, trucks []model.Truck) error {
	t := newTable(w, "ID", "Truck", "Plate", "Status")
	for _, k := range trucks {
		status := SubtleStyle.Render("inactive")
		if k.IsActive {
			status = SuccessStyle.Render("active")
		}
		t.row(shortID(k.ID), k.DisplayName(), k.PlateNumber, status)
	}
	return t.flush()
}

// RenderFuelStats writes fuel statistics.
func RenderFuelStats(w io.Writer, s fuel.Stats) error {
	if s.EntryCount == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No fuel entries match"))
		return err
	}

	last := "-"
	if s.LastFillUp != nil {
		last = s.LastFillUp.Date
		if s.LastFillUp.Location != "" {
			last += " at " + s.LastFillUp.Location
		}
	}

	content := fmt.Sprintf(
		"Entries:          %d\nGallons:          %s\nTotal cost:       %s\nAvg price/gal:    $%s\nMiles driven:     %s\nAverage MPG:      %s\nCost per mile:    $%s\nLast month avg:   %s\nLast fill-up:     %s",
		s.EntryCount, s.TotalGallons.StringFixed(2), FormatMoney(s.TotalCost),
		s.AveragePricePerGallon.StringFixed(3), s.TotalMilesDriven.String(),
		s.AverageMPG.StringFixed(2), s.CostPerMile.StringFixed(3),
		FormatMoney(s.MonthlyAverage), last)
	_, err := fmt.Fprintln(w, RenderBox(FuelIcon+" Fuel statistics", content))
	return err
}

// RenderTax writes a tax estimate.
func RenderTax(w io.Writer, e tax.Estimate) error {
	method := "actual expenses"
	if e.UseStandardMileage {
		method = "standard mileage"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", FormatTitle(fmt.Sprintf("%d tax estimate (%s)", e.Year, method)))

	t := newTable(&b, "", "Amount")
	t.row("Income", FormatMoney(e.TotalIncome))
	t.row("Expenses", FormatMoney(e.TotalExpenses))
	t.row("Mileage deduction", FormatMoney(e.StandardMileageDeduction))
	t.row("Deducted", FormatMoney(e.DeductibleExpenses))
	t.row("Net income", FormatMoney(e.NetIncome))
	t.row(BoldStyle.Render("Estimated tax"), BoldStyle.Render(FormatMoney(e.EstimatedTax)))
	t.row("Effective rate", e.EffectiveRate.StringFixed(1)+"%")
	if err := t.flush(); err != nil {
		return err
	}

	if len(e.Brackets) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Brackets") + "\n")
		t := newTable(&b, "Rate", "Taxable", "Tax")
		for _, bt := range e.Brackets {
			t.row(bt.Bracket.Rate.Shift(2).String()+"%", FormatMoney(bt.Taxable), FormatMoney(bt.Tax))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	b.WriteString("\n" + BoldStyle.Render("Quarterly payments") + "\n")
	for _, due := range e.QuarterlyDueDates {
		fmt.Fprintf(&b, "  %s  %s\n", due.Format("Jan 2, 2006"), FormatMoney(e.QuarterlyEstimate))
	}

	if len(e.CategoryBreakdown) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Expenses by category") + "\n")
		t := newTable(&b, "Category", "Amount")
		for _, ca := range e.CategoryBreakdown {
			t.row(ca.Category.Label(), FormatMoney(ca.Amount))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderBackups lists backups.
func RenderBackups(w io.Writer, backups []storage.BackupInfo) error {
	if len(backups) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No backups found"))
		return err
	}

	t := newTable(w, "Tag", "Created", "Size", "Description")
	for _, b := range backups {
		t.row(b.ID, b.CreatedAt.Format("2006-01-02 15:04"), formatSize(b.FileSize), orDash(b.Description))
	}
	return t.flush()
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// shortID trims UUIDs for tables. Commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
