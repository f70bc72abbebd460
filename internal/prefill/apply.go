package prefill

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
)

// Identity keys returned by ImportBank. They are not petitioner-specific; see
// ApplyBank.
const (
	PlaidName    = "_plaid_name"
	PlaidAddress = "_plaid_address"
	PlaidCSZ     = "_plaid_csz"
	PlaidEmail   = "_plaid_email"
	PlaidPhone   = "_plaid_phone"
)

// MaxDebtSlots is the number of debt rows per petitioner.
const MaxDebtSlots = 3

var identityTargets = []struct{ from, suffix string }{
	{PlaidName, "name"},
	{PlaidAddress, "address"},
	{PlaidCSZ, "csz"},
	{PlaidEmail, "email"},
	{PlaidPhone, "phone"},
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Money formats v as "$1,234.56".
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// ApplyBank copies the identity fields onto petitioner pfx ("p1" or "p2") and
// raises the account flags. Fields the lookup did not return are untouched.
func ApplyBank(state models.FormState, pfx string, res *BankResult) models.FormState {
	next := state.Clone()
	for _, t := range identityTargets {
		if v := res.FormFields[t.from]; v != "" {
			next[pfx+"_"+t.suffix] = v
		}
	}
	if res.FormFields["has_accounts"] == "Yes" {
		next["has_accounts"] = "Yes"
	}
	if res.FormFields["has_retirement"] == "Yes" {
		next["has_retirement"] = "Yes"
	}
	return next
}

// ApplyCredit fills the first MaxDebtSlots debt rows of petitioner pfx.
func ApplyCredit(state models.FormState, pfx string, res *CreditResult) models.FormState {
	next := state.Clone()
	if len(res.Debts) > 0 {
		next["has_debts"] = "Yes"
	}
	for i, d := range res.Debts {
		if i == MaxDebtSlots {
			break
		}
		n := i + 1
		next[registry.DebtKey(pfx, n, "creditor")] = d.Creditor
		next[registry.DebtKey(pfx, n, "balance")] = Money(d.Balance)
		next[registry.DebtKey(pfx, n, "acct4")] = d.Last4
	}
	return next
}

// BankStatus is the inline message shown after an import.
func BankStatus(res *BankResult) string {
	b := res.Breakdown
	return printer.Sprintf("Imported %d account(s): %d checking, %d savings, %d retirement",
		b.Total, b.Checking, b.Savings, b.Retirement)
}

// CreditStatus is the inline message shown after a credit check for name.
func CreditStatus(name string, res *CreditResult) string {
	s := res.Summary
	return printer.Sprintf("%s: Found %d debt(s), %d credit cards, %d student loans, %d mortgages. Total: %s",
		name, s.Total, s.CreditCards, s.StudentLoans, s.Mortgages, Money(res.TotalDebt))
}
