package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/types"
)

// Multi writes every record to all of its stores. Every store is attempted;
// the failures are joined.
type Multi struct {
	stores []interfaces.InsightStore
}

var _ interfaces.InsightStore = (*Multi)(nil)

func NewMulti(stores ...interfaces.InsightStore) *Multi {
	return &Multi{stores: stores}
}

func (m *Multi) Name() string {
	names := make([]string, len(m.stores))
	for i, s := range m.stores {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (m *Multi) Save(ctx context.Context, record types.InsightRecord) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Save(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
