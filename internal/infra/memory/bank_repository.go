package memory

import (
	"context"
	"time"

	"hunger-insights/internal/domain"
)

// BankLoader fetches question banks from a backing store (e.g., document DB).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches question banks with TTL to avoid repeated DB hits.
type BankRepository struct {
	loader BankLoader
	cache  *ttlCache[domain.Bank]
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{loader: loader, cache: newTTLCache[domain.Bank](ttl)}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	return r.cache.get(bankID, func() (domain.Bank, error) {
		return r.loader.LoadBank(ctx, bankID)
	})
}

// StaticBankLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks map[string]domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}
