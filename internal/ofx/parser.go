// Package ofx reads bank and credit-card statements in OFX/QFX format and
// turns their debits into candidate expenses.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags missing their closing bracket at end of line.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Candidate is a statement debit that can be recorded as an expense.
type Candidate struct {
	Date        time.Time
	Description string
	Account     string
	FitID       string
	Type        string
	Amount      float64
}

// Key identifies the candidate the same way model.ExpenseRecord.Hash does,
// so already-recorded expenses can be skipped.
func (c Candidate) Key() string {
	return model.NewExpenseRecord(c.Date, c.Description, c.Amount, "").Hash()
}

// Parser reads OFX/QFX statements.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: common.LoggerOrDefault(logger)}
}

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads one statement file and returns its debits in file order.
// Credits, interest and transfers in are skipped.
func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var (
		candidates    []Candidate
		skipped       int
		bank, ccStmts int
	)

	collect := func(list *ofxgo.TransactionList, account string) {
		if list == nil {
			return
		}
		for _, tx := range list.Transactions {
			c, ok := convert(tx, account)
			if !ok {
				skipped++
				continue
			}
			candidates = append(candidates, c)
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bank++
			collect(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			collect(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))
		}
	}

	p.logger.Info("Parsed OFX file",
		"debits", len(candidates),
		"skipped", skipped,
		"bank_statements", bank,
		"cc_statements", ccStmts)

	return candidates, nil
}

// convert turns a debit into a Candidate. OFX amounts are negative for money out.
func convert(tx ofxgo.Transaction, account string) (Candidate, bool) {
	amount, _ := tx.TrnAmt.Float64()
	if amount >= 0 {
		return Candidate{}, false
	}

	return Candidate{
		Date:        model.Day(tx.DtPosted.Time),
		Description: extractMerchantName(tx),
		Amount:      -amount,
		Account:     account,
		FitID:       string(tx.FiTID),
		Type:        tx.TrnType.String(),
	}, true
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

	// Leading "MM/DD " posting dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Unrecorded drops candidates that match an existing record or an earlier
// candidate.
func Unrecorded(candidates []Candidate, existing []model.ExpenseRecord) []Candidate {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, rec := range existing {
		seen[rec.Hash()] = struct{}{}
	}

	var out []Candidate
	for _, c := range candidates {
		key := c.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
