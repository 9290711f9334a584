// Package feed assembles the engine's input snapshot from the collaborator
// APIs or from a fixtures file.
package feed

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/SThor/spendform/pkg/config"
	"github.com/SThor/spendform/pkg/fixtures"
	"github.com/SThor/spendform/pkg/models"
	"github.com/SThor/spendform/pkg/settleup"
	"github.com/SThor/spendform/pkg/ynab"
)

// Load builds the dataset, either from a fixtures file or from the live YNAB
// and SettleUp APIs. SettleUp history is optional: without a token the
// autofill feed is simply empty.
func Load(logger *log.Logger, cfg *config.Config, fixturesPath string) (models.Dataset, error) {
	if fixturesPath != "" {
		snap, err := fixtures.Load(fixturesPath)
		if err != nil {
			return models.Dataset{}, err
		}
		logger.Debug("loaded fixtures", "path", fixturesPath)
		return snap.Dataset(), nil
	}

	token := cfg.YNAB.Token()
	if token == "" {
		return models.Dataset{}, fmt.Errorf("no YNAB token in $%s and no fixtures given", cfg.YNAB.TokenEnv)
	}
	if cfg.YNAB.BudgetID == "" {
		return models.Dataset{}, fmt.Errorf("ynab.budget_id is not configured")
	}

	client := ynab.New(token)
	ds := models.Dataset{PayeeHistory: make(map[string][]models.PayeeTransaction)}

	var err error
	if ds.Payees, err = client.Payees(cfg.YNAB.BudgetID); err != nil {
		return models.Dataset{}, fmt.Errorf("failed to fetch payees: %w", err)
	}
	if ds.Locations, err = client.PayeeLocations(cfg.YNAB.BudgetID); err != nil {
		return models.Dataset{}, fmt.Errorf("failed to fetch payee locations: %w", err)
	}
	if ds.CategoryGroups, err = client.CategoryGroups(cfg.YNAB.BudgetID); err != nil {
		return models.Dataset{}, fmt.Errorf("failed to fetch categories: %w", err)
	}
	logger.Debug("fetched ynab feeds", "payees", len(ds.Payees), "locations", len(ds.Locations), "groups", len(ds.CategoryGroups))

	ds.GroupTransactions = groupHistory(logger, cfg)
	return ds, nil
}

// groupHistory pulls the SettleUp group's transactions. Any failure is
// swallowed into an empty history: the autofill then simply has nothing to
// suggest.
func groupHistory(logger *log.Logger, cfg *config.Config) []models.GroupTransaction {
	if cfg.SettleUp.Token() == "" || cfg.SettleUp.UserID == "" {
		return nil
	}

	ctx := context.Background()
	client := settleup.New(cfg.SettleUp.BaseURL, cfg.SettleUp.Token(), logger)

	groups, err := client.Groups(ctx, cfg.SettleUp.UserID)
	if err != nil {
		logger.Warn("failed to fetch settleup groups", "err", err)
		return nil
	}
	group, ok := settleup.PickGroup(groups, cfg.SettleUp.GroupName)
	if !ok {
		logger.Warn("user has no settleup groups")
		return nil
	}

	transactions, err := client.GroupTransactions(ctx, group.ID)
	if err != nil {
		logger.Warn("failed to fetch settleup transactions", "group", group.ID, "err", err)
		return nil
	}
	logger.Debug("fetched settleup history", "group", group.Name, "transactions", len(transactions))
	return transactions
}

// PayeeHistory pulls one payee's YNAB transaction history for the category
// suggester.
func PayeeHistory(cfg *config.Config, payeeID string) ([]models.PayeeTransaction, error) {
	token := cfg.YNAB.Token()
	if token == "" {
		return nil, fmt.Errorf("no YNAB token in $%s", cfg.YNAB.TokenEnv)
	}
	client := ynab.New(token)
	history, err := client.PayeeHistory(cfg.YNAB.BudgetID, payeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payee history: %w", err)
	}
	return history, nil
}
