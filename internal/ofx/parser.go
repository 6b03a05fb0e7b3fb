// Package ofx turns bank and credit card statements into expense candidates.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/haul/internal/model"
)

// NotePrefix marks the notes of imported expenses; the FITID follows it.
const NotePrefix = "ofx:"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	nonWordRegex  = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Statement is the parsed content of one file.
type Statement struct {
	Accounts []string
	Expenses []model.Expense
	Credits  int
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of tags on their own line.
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile returns an expense candidate for every debit in the file. Credits
// are counted and skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Expense, error) {
	stmt, err := p.Parse(ctx, reader)
	if err != nil {
		return nil, err
	}
	return stmt.Expenses, nil
}

// Parse reads a whole statement file.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) (*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}
	seen := make(map[string]bool)
	addAccount := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			stmt.Accounts = append(stmt.Accounts, id)
		}
	}

	for _, msg := range resp.Bank {
		if bank, ok := msg.(*ofxgo.StatementResponse); ok {
			addAccount(string(bank.BankAcctFrom.AcctID))
			if bank.BankTranList != nil {
				p.collect(stmt, bank.BankTranList.Transactions)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if card, ok := msg.(*ofxgo.CCStatementResponse); ok {
			addAccount(string(card.CCAcctFrom.AcctID))
			if card.BankTranList != nil {
				p.collect(stmt, card.BankTranList.Transactions)
			}
		}
	}

	p.logger.Info("parsed statement",
		"accounts", len(stmt.Accounts),
		"debits", len(stmt.Expenses),
		"credits_skipped", stmt.Credits)

	return stmt, nil
}

func (p *Parser) collect(stmt *Statement, txns []ofxgo.Transaction) {
	for _, tx := range txns {
		expense, ok, err := p.convertTransaction(tx)
		if err != nil {
			p.logger.Warn("skipping unreadable transaction", "fitid", string(tx.FiTID), "error", err)
			continue
		}
		if !ok {
			stmt.Credits++
			continue
		}
		stmt.Expenses = append(stmt.Expenses, expense)
	}
}

// convertTransaction maps a debit to an expense. ok is false for credits.
func (p *Parser) convertTransaction(tx ofxgo.Transaction) (model.Expense, bool, error) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		return model.Expense{}, false, fmt.Errorf("invalid amount: %w", err)
	}
	// OFX signs debits negative.
	if !amount.IsNegative() {
		return model.Expense{}, false, nil
	}

	merchant := extractMerchantName(tx)
	if merchant == "" {
		merchant = fmt.Sprintf("%v", tx.TrnType)
	}

	return model.Expense{
		Date:        model.FormatDate(tx.DtPosted.Time),
		Category:    GuessCategory(merchant),
		Description: merchant,
		Amount:      amount.Abs(),
		Notes:       NotePrefix + string(tx.FiTID),
	}, true, nil
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// categoryKeywords are checked in order; the first hit wins.
var categoryKeywords = []struct {
	category model.ExpenseCategory
	words    []string
}{
	{model.CategoryFuel, []string{"PILOT", "FLYING J", "LOVES", "LOVE S", "TA PETRO", "PETRO", "TRAVEL CENTER", "TRAVELCENTERS", "DIESEL", "FUEL", "SHELL", "CHEVRON", "EXXON", "SPEEDWAY", "MAVERIK", "CASEYS"}},
	{model.CategoryTolls, []string{"TOLL", "TOLLS", "EZPASS", "E ZPASS", "TURNPIKE", "PIKEPASS", "PREPASS", "SUNPASS", "BESTPASS"}},
	{model.CategoryParking, []string{"PARKING", "TRUCK PARKING", "PARK MY TRUCK"}},
	{model.CategoryLodging, []string{"MOTEL", "HOTEL", "INN", "SUITES", "LODGE"}},
	{model.CategoryMaintenance, []string{"TIRE", "TIRES", "REPAIR", "LUBE", "SPEEDCO", "TRUCK WASH", "BLUE BEACON", "FREIGHTLINER", "PETERBILT", "KENWORTH", "RUSH TRUCK", "AUTOZONE", "NAPA"}},
	{model.CategoryInsurance, []string{"INSURANCE", "PROGRESSIVE", "GEICO"}},
	{model.CategoryPermits, []string{"PERMIT", "PERMITS", "IFTA", "IRP", "DMV", "FMCSA", "UCR"}},
	{model.CategoryFood, []string{"RESTAURANT", "CAFE", "DINER", "GRILL", "MCDONALDS", "SUBWAY", "STARBUCKS", "WENDYS", "DENNYS", "WAFFLE HOUSE", "PIZZA", "BURGER"}},
	{model.CategorySupplies, []string{"WALMART", "HOME DEPOT", "LOWES", "AMAZON", "HARBOR FREIGHT", "SUPPLY"}},
}

// GuessCategory picks a category from merchant keywords, defaulting to other.
// Keywords match whole words.
func GuessCategory(merchant string) model.ExpenseCategory {
	normalized := " " + strings.TrimSpace(nonWordRegex.ReplaceAllString(strings.ToUpper(merchant), " ")) + " "
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(normalized, " "+word+" ") {
				return entry.category
			}
		}
	}
	return model.CategoryOther
}

// ImportID returns the FITID recorded on an imported expense, if any.
func ImportID(e model.Expense) (string, bool) {
	if !strings.HasPrefix(e.Notes, NotePrefix) {
		return "", false
	}
	return strings.TrimPrefix(e.Notes, NotePrefix), true
}
