package credits

import (
	"context"
	"errors"
	"fmt"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/metrics"
)

// returned by Store.DebitIfSufficient when the balance is too low
var ErrNoFunds = errors.New("balance does not cover the debit")

func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

// reads the balance and fails with insufficient credits when it cannot cover calc
func (g *Guard) Check(ctx context.Context, userID string, calc Calculation) (int, error) {
	balance, err := g.store.Balance(ctx, userID)
	if err != nil {
		return 0, apperrors.NewGeneration(apperrors.KindPersistenceFailure, apperrors.OpCreditDebit,
			"could not read your balance", fmt.Errorf("failed to read balance: %w", err))
	}

	if balance < calc.Total {
		return balance, apperrors.InsufficientCredits(calc.Total, balance)
	}

	return balance, nil
}

// atomically debits amount; insufficient funds and storage failures are reported distinctly
func (g *Guard) ReserveAndDebit(ctx context.Context, userID string, amount int, reason string) (int, error) {
	if amount <= 0 {
		return g.balanceOrZero(ctx, userID), nil
	}

	balance, err := g.store.DebitIfSufficient(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, ErrNoFunds) {
			current := g.balanceOrZero(ctx, userID)
			return current, apperrors.InsufficientCredits(amount, current)
		}

		return 0, apperrors.NewGeneration(apperrors.KindPersistenceFailure, apperrors.OpCreditDebit,
			"could not charge your balance", fmt.Errorf("failed to debit %d credits: %w", amount, err))
	}

	metrics.RecordDebit(reason, amount)

	return balance, nil
}

// returns credits taken by a debit whose follow-up write failed
func (g *Guard) Refund(ctx context.Context, userID string, amount int, reason string) (int, error) {
	balance, err := g.store.Credit(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to refund %d credits: %w", amount, err)
	}

	metrics.RecordRefund(reason, amount)

	return balance, nil
}

func (g *Guard) Balance(ctx context.Context, userID string) (int, error) {
	return g.store.Balance(ctx, userID)
}

func (g *Guard) balanceOrZero(ctx context.Context, userID string) int {
	balance, err := g.store.Balance(ctx, userID)
	if err != nil {
		return 0
	}

	return balance
}
