package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/prefill"
)

// Petitioner prefixes accepted as import targets.
const (
	TargetP1 = "p1"
	TargetP2 = "p2"
)

var ErrNoPrefiller = errors.New("wizard: no prefill provider configured")

// Prefiller is the bank and credit lookup side of the wizard.
type Prefiller interface {
	BankLinkToken(ctx context.Context, userID string) (string, error)
	CreditLinkToken(ctx context.Context, userID string) (string, error)
	ExchangeBank(ctx context.Context, publicToken string) (*prefill.BankResult, error)
	CreditCheck(ctx context.Context, publicToken string) (*prefill.CreditResult, error)
}

func checkTarget(target string) error {
	if target != TargetP1 && target != TargetP2 {
		return fmt.Errorf("wizard: unknown petitioner %q", target)
	}
	return nil
}

func (c *Controller) setMessage(msg string) {
	c.mu.Lock()
	c.message = msg
	c.mu.Unlock()
}

// ConnectBank starts a bank Link session for target and returns its token.
func (c *Controller) ConnectBank(ctx context.Context, target string) (string, error) {
	if err := checkTarget(target); err != nil {
		return "", err
	}
	if c.prefiller == nil {
		return "", ErrNoPrefiller
	}
	c.setMessage("Connecting to bank...")
	tok, err := c.prefiller.BankLinkToken(ctx, c.caseID+"-"+target)
	if err != nil {
		c.log.Warn().Err(err).Str("target", target).Msg("bank link token failed")
		c.setMessage("Could not connect to Plaid. Check API keys.")
		return "", err
	}
	return tok, nil
}

// ImportBank fetches the linked accounts and copies identity and account
// flags onto target. A failure only changes the inline message.
func (c *Controller) ImportBank(ctx context.Context, target, publicToken string) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	if c.prefiller == nil {
		return ErrNoPrefiller
	}
	c.setMessage("Fetching financial data...")
	res, err := c.prefiller.ExchangeBank(ctx, publicToken)
	if err != nil {
		c.log.Warn().Err(err).Str("target", target).Msg("bank import failed")
		c.setMessage("Failed to import data from bank.")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = prefill.BankStatus(res)
	if !c.submitted {
		c.adoptLocked(prefill.ApplyBank(c.state, target, res))
	}
	return nil
}

// ConnectCredit starts a liabilities Link session for target.
func (c *Controller) ConnectCredit(ctx context.Context, target string) (string, error) {
	if err := checkTarget(target); err != nil {
		return "", err
	}
	if c.prefiller == nil {
		return "", ErrNoPrefiller
	}
	c.setMessage("Connecting for credit check...")
	tok, err := c.prefiller.CreditLinkToken(ctx, c.caseID+"-"+target+"-credit")
	if err != nil {
		c.log.Warn().Err(err).Str("target", target).Msg("credit link token failed")
		c.setMessage("Could not start credit check. Check Plaid API keys.")
		return "", err
	}
	return tok, nil
}

// ImportCredit fills target's debt rows from the liabilities lookup.
func (c *Controller) ImportCredit(ctx context.Context, target, publicToken string) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	if c.prefiller == nil {
		return ErrNoPrefiller
	}
	c.setMessage("Pulling credit data...")
	res, err := c.prefiller.CreditCheck(ctx, publicToken)
	if err != nil {
		c.log.Warn().Err(err).Str("target", target).Msg("credit check failed")
		c.setMessage("Failed to retrieve credit data.")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	name := c.state.Get(target + "_name")
	if name == "" {
		name = strings.ToUpper(target)
	}
	c.message = prefill.CreditStatus(name, res)
	if !c.submitted {
		c.adoptLocked(prefill.ApplyCredit(c.state, target, res))
	}
	return nil
}
