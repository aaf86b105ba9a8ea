// Package coretest provides in-memory store implementations for service
// tests. They copy on read and write so tests observe the same value
// semantics as the database-backed stores.
package coretest

import (
	"context"
	"sync"

	"isolend/core"

	"github.com/shopspring/decimal"
)

type MarketStore struct {
	mux     sync.Mutex
	nextID  uint64
	markets map[uint64]*core.Market
}

func NewMarketStore() *MarketStore {
	return &MarketStore{markets: map[uint64]*core.Market{}}
}

func (s *MarketStore) Create(_ context.Context, market *core.Market) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	for _, m := range s.markets {
		if m.Symbol == market.Symbol {
			return core.ErrMarketExists
		}
	}

	s.nextID++
	market.ID = s.nextID
	market.Version = 1

	dup := *market
	s.markets[market.ID] = &dup
	return nil
}

func (s *MarketStore) Find(_ context.Context, id uint64) (*core.Market, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if m, ok := s.markets[id]; ok {
		dup := *m
		return &dup, nil
	}

	return &core.Market{ID: id}, nil
}

func (s *MarketStore) FindBySymbol(_ context.Context, symbol string) (*core.Market, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	for _, m := range s.markets {
		if m.Symbol == symbol {
			dup := *m
			return &dup, nil
		}
	}

	return &core.Market{Symbol: symbol}, nil
}

func (s *MarketStore) All(_ context.Context) ([]*core.Market, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var markets []*core.Market
	for _, m := range s.markets {
		dup := *m
		markets = append(markets, &dup)
	}

	return markets, nil
}

func (s *MarketStore) Update(_ context.Context, market *core.Market) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	current, ok := s.markets[market.ID]
	if !ok || current.Version != market.Version {
		return core.ErrMarketNotFound
	}

	market.Version++
	dup := *market
	s.markets[market.ID] = &dup
	return nil
}

type PositionStore struct {
	mux       sync.Mutex
	positions map[uint64]map[string]*core.Position
}

func NewPositionStore() *PositionStore {
	return &PositionStore{positions: map[uint64]map[string]*core.Position{}}
}

func (s *PositionStore) Find(_ context.Context, marketID uint64, userID string) (*core.Position, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if p, ok := s.positions[marketID][userID]; ok {
		dup := *p
		return &dup, nil
	}

	return &core.Position{MarketID: marketID, UserID: userID}, nil
}

func (s *PositionStore) FindByMarket(_ context.Context, marketID uint64) ([]*core.Position, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var positions []*core.Position
	for _, p := range s.positions[marketID] {
		dup := *p
		positions = append(positions, &dup)
	}

	return positions, nil
}

func (s *PositionStore) FindByUser(_ context.Context, userID string) ([]*core.Position, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var positions []*core.Position
	for _, byUser := range s.positions {
		if p, ok := byUser[userID]; ok {
			dup := *p
			positions = append(positions, &dup)
		}
	}

	return positions, nil
}

func (s *PositionStore) Save(_ context.Context, position *core.Position) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	byUser, ok := s.positions[position.MarketID]
	if !ok {
		byUser = map[string]*core.Position{}
		s.positions[position.MarketID] = byUser
	}

	position.Version++
	dup := *position
	byUser[position.UserID] = &dup
	return nil
}

type GrantStore struct {
	mux    sync.Mutex
	grants map[string]*core.Grant
}

func NewGrantStore() *GrantStore {
	return &GrantStore{grants: map[string]*core.Grant{}}
}

func grantKey(granterID, delegateID string) string {
	return granterID + "/" + delegateID
}

func (s *GrantStore) Find(_ context.Context, granterID, delegateID string) (*core.Grant, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if g, ok := s.grants[grantKey(granterID, delegateID)]; ok {
		dup := *g
		return &dup, nil
	}

	return &core.Grant{GranterID: granterID, DelegateID: delegateID}, nil
}

func (s *GrantStore) FindByGranter(_ context.Context, granterID string) ([]*core.Grant, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var grants []*core.Grant
	for _, g := range s.grants {
		if g.GranterID == granterID {
			dup := *g
			grants = append(grants, &dup)
		}
	}

	return grants, nil
}

func (s *GrantStore) Save(_ context.Context, grant *core.Grant) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	grant.Version++
	dup := *grant
	s.grants[grantKey(grant.GranterID, grant.DelegateID)] = &dup
	return nil
}

func (s *GrantStore) Allowed(ctx context.Context, granterID, delegateID string) (bool, error) {
	g, err := s.Find(ctx, granterID, delegateID)
	if err != nil {
		return false, err
	}

	return g.Granted, nil
}

type WalletStore struct {
	mux      sync.Mutex
	balances map[string]*core.Balance
}

func NewWalletStore() *WalletStore {
	return &WalletStore{balances: map[string]*core.Balance{}}
}

func balanceKey(userID, assetID string) string {
	return userID + "/" + assetID
}

func (s *WalletStore) Find(_ context.Context, userID, assetID string) (*core.Balance, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if b, ok := s.balances[balanceKey(userID, assetID)]; ok {
		dup := *b
		return &dup, nil
	}

	return &core.Balance{UserID: userID, AssetID: assetID}, nil
}

func (s *WalletStore) FindByUser(_ context.Context, userID string) ([]*core.Balance, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var balances []*core.Balance
	for _, b := range s.balances {
		if b.UserID == userID {
			dup := *b
			balances = append(balances, &dup)
		}
	}

	return balances, nil
}

func (s *WalletStore) Save(_ context.Context, balance *core.Balance) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	balance.Version++
	dup := *balance
	s.balances[balanceKey(balance.UserID, balance.AssetID)] = &dup
	return nil
}

// Deposit credits an account directly, the test stand-in for an inbound
// transfer.
func (s *WalletStore) Deposit(userID, assetID string, amount decimal.Decimal) {
	s.mux.Lock()
	defer s.mux.Unlock()

	key := balanceKey(userID, assetID)
	b, ok := s.balances[key]
	if !ok {
		b = &core.Balance{UserID: userID, AssetID: assetID}
		s.balances[key] = b
	}

	b.Amount = b.Amount.Add(amount)
}

type FeeStore struct {
	mux    sync.Mutex
	config core.FeeConfig
	pools  map[string]*core.FeePool
}

func NewFeeStore() *FeeStore {
	return &FeeStore{pools: map[string]*core.FeePool{}}
}

func (s *FeeStore) Config(_ context.Context) (*core.FeeConfig, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	dup := s.config
	return &dup, nil
}

func (s *FeeStore) SaveConfig(_ context.Context, cfg *core.FeeConfig) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	cfg.Version++
	s.config = *cfg
	return nil
}

func (s *FeeStore) Pool(_ context.Context, assetID string) (*core.FeePool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if p, ok := s.pools[assetID]; ok {
		dup := *p
		return &dup, nil
	}

	return &core.FeePool{AssetID: assetID}, nil
}

func (s *FeeStore) AllPools(_ context.Context) ([]*core.FeePool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var pools []*core.FeePool
	for _, p := range s.pools {
		dup := *p
		pools = append(pools, &dup)
	}

	return pools, nil
}

func (s *FeeStore) SavePool(_ context.Context, pool *core.FeePool) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	pool.Version++
	dup := *pool
	s.pools[pool.AssetID] = &dup
	return nil
}

type RateModelStore struct {
	mux    sync.Mutex
	models map[string]*core.RateModel
}

func NewRateModelStore() *RateModelStore {
	return &RateModelStore{models: map[string]*core.RateModel{}}
}

func (s *RateModelStore) Find(_ context.Context, name string) (*core.RateModel, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if m, ok := s.models[name]; ok {
		dup := *m
		return &dup, nil
	}

	return &core.RateModel{Name: name}, nil
}

func (s *RateModelStore) All(_ context.Context) ([]*core.RateModel, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var models []*core.RateModel
	for _, m := range s.models {
		dup := *m
		models = append(models, &dup)
	}

	return models, nil
}

func (s *RateModelStore) Save(_ context.Context, model *core.RateModel) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	model.Version++
	dup := *model
	s.models[model.Name] = &dup
	return nil
}

func (s *RateModelStore) Allowed(ctx context.Context, name string) (bool, error) {
	m, err := s.Find(ctx, name)
	if err != nil {
		return false, err
	}

	return m.Allowed, nil
}
