package plaid

type Balances struct {
	Current   *float64 `json:"current"`
	Available *float64 `json:"available"`
}

type Account struct {
	AccountID string   `json:"account_id"`
	Name      string   `json:"name"`
	Mask      string   `json:"mask"`
	Type      string   `json:"type"`
	Subtype   string   `json:"subtype"`
	Balances  Balances `json:"balances"`
	Owners    []Owner  `json:"owners,omitempty"`
}

// CurrentBalance is the current balance or 0 when unknown.
func (a Account) CurrentBalance() float64 {
	if a.Balances.Current == nil {
		return 0
	}
	return *a.Balances.Current
}

type Owner struct {
	Names        []string  `json:"names"`
	Addresses    []Address `json:"addresses"`
	Emails       []Contact `json:"emails"`
	PhoneNumbers []Contact `json:"phone_numbers"`
}

type Address struct {
	Data    AddressData `json:"data"`
	Primary bool        `json:"primary"`
}

type AddressData struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Contact struct {
	Data    string `json:"data"`
	Primary bool   `json:"primary"`
	Type    string `json:"type"`
}

type Liabilities struct {
	Credit   []CreditLiability   `json:"credit"`
	Student  []StudentLiability  `json:"student"`
	Mortgage []MortgageLiability `json:"mortgage"`
}

type CreditLiability struct {
	AccountID            string   `json:"account_id"`
	LastStatementBalance *float64 `json:"last_statement_balance"`
	MinimumPaymentAmount *float64 `json:"minimum_payment_amount"`
}

type StudentLiability struct {
	AccountID                 string           `json:"account_id"`
	OutstandingInterestAmount *float64         `json:"outstanding_interest_amount"`
	MinimumPaymentAmount      *float64         `json:"minimum_payment_amount"`
	ServicerAddress           *ServicerAddress `json:"servicer_address"`
}

type ServicerAddress struct {
	City string `json:"city"`
}

type MortgageLiability struct {
	AccountID          string   `json:"account_id"`
	NextMonthlyPayment *float64 `json:"next_monthly_payment"`
	CurrentLateFee     *float64 `json:"current_late_fee"`
}

// LiabilitiesResult is the /liabilities/get payload.
type LiabilitiesResult struct {
	Accounts    []Account   `json:"accounts"`
	Liabilities Liabilities `json:"liabilities"`
}

// AccountByID returns the account with id, if present.
func (r LiabilitiesResult) AccountByID(id string) (Account, bool) {
	for _, a := range r.Accounts {
		if a.AccountID == id {
			return a, true
		}
	}
	return Account{}, false
}
