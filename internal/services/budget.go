package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"contable/internal/core"
	"contable/internal/ledger"
)

// FixedPlan is the planning view: one representative per recurring
// obligation and the resulting monthly floor.
type FixedPlan struct {
	Entries []core.TransactionRecord
	Floor   decimal.Decimal
}

// BudgetService serves the planning and overview read paths.
type BudgetService struct {
	repo ledger.Repository
}

func NewBudgetService(repo ledger.Repository) *BudgetService {
	return &BudgetService{repo: repo}
}

// Plan returns deduplicated fixed expenses and the monthly floor.
func (s *BudgetService) Plan(ctx context.Context) (FixedPlan, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return FixedPlan{}, fmt.Errorf("load ledger: %w", err)
	}
	entries := core.DedupeFixed(records)
	return FixedPlan{Entries: entries, Floor: core.FixedFloor(records)}, nil
}

// Overview returns balance, income and expense totals for the ledger.
func (s *BudgetService) Overview(ctx context.Context) (core.Summary, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load ledger: %w", err)
	}
	return core.Summarize(records), nil
}

// Movements returns the raw normalized ledger for display/audit.
func (s *BudgetService) Movements(ctx context.Context) ([]core.TransactionRecord, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return records, nil
}
