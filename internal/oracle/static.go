package oracle

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Static fixed-price oracle, settable at runtime. Backs configured markets
// whose price is operated by hand and every price-movement test.
type Static struct {
	mux   sync.RWMutex
	price decimal.Decimal
}

func NewStatic(price decimal.Decimal) *Static {
	return &Static{price: price}
}

func (s *Static) IsPriceProvider() bool {
	return true
}

func (s *Static) SetPrice(price decimal.Decimal) {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.price = price
}

func (s *Static) GetCollateralTokenPrice(_ context.Context) (decimal.Decimal, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return s.price, nil
}
