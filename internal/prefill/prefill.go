// Package prefill turns bank and liability lookups into intake answers.
package prefill

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/plaid"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/telemetry"
)

// DefaultUserID is used when a link token is requested without a user id.
const DefaultUserID = "intake-case"

var (
	BankProducts   = []string{"assets", "identity"}
	CreditProducts = []string{"liabilities"}

	retirementSubtypes = []string{"401k", "ira", "roth", "pension", "403b", "457b"}
)

// Provider is the subset of the Plaid client used here.
type Provider interface {
	CreateLinkToken(ctx context.Context, userID string, products []string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (string, error)
	Accounts(ctx context.Context, accessToken string) ([]plaid.Account, error)
	Identity(ctx context.Context, accessToken string) ([]plaid.Account, error)
	Liabilities(ctx context.Context, accessToken string) (plaid.LiabilitiesResult, error)
}

type AccountSummary struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Subtype string   `json:"subtype"`
	Balance *float64 `json:"balance"`
	Mask    string   `json:"mask"`
}

type Breakdown struct {
	Checking   int `json:"checking"`
	Savings    int `json:"savings"`
	Retirement int `json:"retirement"`
	Total      int `json:"total"`
}

type BankResult struct {
	FormFields       map[string]string `json:"formFields"`
	AccountSummaries []AccountSummary  `json:"accountSummaries"`
	Breakdown        Breakdown         `json:"breakdown"`
}

type Debt struct {
	Creditor       string   `json:"creditor"`
	Type           string   `json:"type"`
	Balance        float64  `json:"balance"`
	Last4          string   `json:"last4"`
	MonthlyPayment *float64 `json:"monthlyPayment,omitempty"`
}

type DebtSummary struct {
	CreditCards  int `json:"creditCards"`
	StudentLoans int `json:"studentLoans"`
	Mortgages    int `json:"mortgages"`
	Total        int `json:"total"`
}

type CreditResult struct {
	Debts      []Debt            `json:"debts"`
	TotalDebt  float64           `json:"totalDebt"`
	FormFields map[string]string `json:"formFields"`
	Summary    DebtSummary       `json:"summary"`
}

type Service struct {
	provider Provider
	log      zerolog.Logger
}

func NewService(provider Provider, log zerolog.Logger) *Service {
	return &Service{provider: provider, log: log.With().Str("component", "prefill").Logger()}
}

// LinkToken creates a Link session for the given products.
func (s *Service) LinkToken(ctx context.Context, userID string, products []string) (string, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	ctx, span := telemetry.Start(ctx, "prefill.link_token", attribute.StringSlice("plaid.products", products))
	tok, err := s.provider.CreateLinkToken(ctx, userID, products)
	telemetry.End(span, err)
	if err != nil {
		return "", apperrors.Provider("prefill.link_token", err)
	}
	return tok, nil
}

// ImportBank exchanges the public token and reads accounts and, when the
// institution supports it, identity.
func (s *Service) ImportBank(ctx context.Context, publicToken string) (res *BankResult, err error) {
	ctx, span := telemetry.Start(ctx, "prefill.import_bank")
	defer func() { telemetry.End(span, err) }()

	access, err := s.provider.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, apperrors.Provider("prefill.exchange", err)
	}
	accounts, err := s.provider.Accounts(ctx, access)
	if err != nil {
		return nil, apperrors.Provider("prefill.accounts", err)
	}

	fields := map[string]string{}
	if owners, err := s.provider.Identity(ctx, access); err != nil {
		s.log.Warn().Err(err).Msg("identity unavailable")
	} else {
		identityFields(owners, fields)
	}

	res = &BankResult{FormFields: fields, AccountSummaries: make([]AccountSummary, 0, len(accounts))}
	for _, a := range accounts {
		res.AccountSummaries = append(res.AccountSummaries, AccountSummary{
			Name: a.Name, Type: a.Type, Subtype: a.Subtype, Balance: a.Balances.Current, Mask: a.Mask,
		})
		switch {
		case a.Subtype == "checking":
			res.Breakdown.Checking++
		case a.Subtype == "savings":
			res.Breakdown.Savings++
		case slices.Contains(retirementSubtypes, a.Subtype):
			res.Breakdown.Retirement++
		}
	}
	res.Breakdown.Total = len(accounts)
	if res.Breakdown.Checking > 0 {
		fields["has_accounts"] = "Yes"
	}
	if res.Breakdown.Retirement > 0 {
		fields["has_retirement"] = "Yes"
	}
	return res, nil
}

// identityFields reads the first owner of the first account.
func identityFields(accounts []plaid.Account, fields map[string]string) {
	if len(accounts) == 0 || len(accounts[0].Owners) == 0 {
		return
	}
	o := accounts[0].Owners[0]
	if len(o.Names) > 0 && o.Names[0] != "" {
		fields[PlaidName] = o.Names[0]
	}
	if len(o.Addresses) > 0 {
		addr := o.Addresses[0].Data
		if addr.Street != "" {
			fields[PlaidAddress] = addr.Street
		}
		if addr.City != "" && addr.Region != "" && addr.PostalCode != "" {
			fields[PlaidCSZ] = addr.City + ", " + addr.Region + " " + addr.PostalCode
		}
	}
	if len(o.Emails) > 0 && o.Emails[0].Data != "" {
		fields[PlaidEmail] = o.Emails[0].Data
	}
	if len(o.PhoneNumbers) > 0 && o.PhoneNumbers[0].Data != "" {
		fields[PlaidPhone] = o.PhoneNumbers[0].Data
	}
}

// CreditCheck exchanges the public token and lists credit cards, student
// loans and mortgages in that order.
func (s *Service) CreditCheck(ctx context.Context, publicToken string) (res *CreditResult, err error) {
	ctx, span := telemetry.Start(ctx, "prefill.credit_check")
	defer func() { telemetry.End(span, err) }()

	access, err := s.provider.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, apperrors.Provider("prefill.exchange", err)
	}
	lr, err := s.provider.Liabilities(ctx, access)
	if err != nil {
		return nil, apperrors.Provider("prefill.liabilities", err)
	}

	res = &CreditResult{Debts: []Debt{}, FormFields: map[string]string{}}
	for _, card := range lr.Liabilities.Credit {
		acct, _ := lr.AccountByID(card.AccountID)
		balance := acct.CurrentBalance()
		if card.LastStatementBalance != nil {
			balance = *card.LastStatementBalance
		}
		res.Debts = append(res.Debts, Debt{
			Creditor:       or(acct.Name, "Credit Card"),
			Type:           "Credit Card",
			Balance:        balance,
			Last4:          or(acct.Mask, "****"),
			MonthlyPayment: card.MinimumPaymentAmount,
		})
	}
	for _, loan := range lr.Liabilities.Student {
		acct, _ := lr.AccountByID(loan.AccountID)
		creditor := or(acct.Name, "Student Loan")
		if loan.ServicerAddress != nil && loan.ServicerAddress.City != "" {
			creditor += " (" + loan.ServicerAddress.City + ")"
		}
		balance := acct.CurrentBalance()
		if loan.OutstandingInterestAmount != nil {
			balance += *loan.OutstandingInterestAmount
		}
		res.Debts = append(res.Debts, Debt{
			Creditor:       creditor,
			Type:           "Student Loan",
			Balance:        balance,
			Last4:          or(acct.Mask, "****"),
			MonthlyPayment: loan.MinimumPaymentAmount,
		})
	}
	for _, m := range lr.Liabilities.Mortgage {
		acct, _ := lr.AccountByID(m.AccountID)
		res.Debts = append(res.Debts, Debt{
			Creditor:       or(acct.Name, "Mortgage"),
			Type:           "Mortgage",
			Balance:        acct.CurrentBalance(),
			Last4:          or(acct.Mask, "****"),
			MonthlyPayment: m.NextMonthlyPayment,
		})
	}

	for _, d := range res.Debts {
		res.TotalDebt += d.Balance
	}
	res.Summary = DebtSummary{
		CreditCards:  len(lr.Liabilities.Credit),
		StudentLoans: len(lr.Liabilities.Student),
		Mortgages:    len(lr.Liabilities.Mortgage),
		Total:        len(res.Debts),
	}
	if len(res.Debts) > 0 {
		res.FormFields["has_debts"] = "Yes"
	}
	return res, nil
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
