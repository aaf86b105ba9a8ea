package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"isolend/core"
	"isolend/core/coretest"
	"isolend/internal/irm"
	"isolend/internal/oracle"
	"isolend/pkg/number"
	"isolend/service/account"
	"isolend/service/market"
	"isolend/service/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*httptest.Server, *coretest.MarketStore, *coretest.PositionStore) {
	ctx := context.Background()

	markets := coretest.NewMarketStore()
	positions := coretest.NewPositionStore()
	grants := coretest.NewGrantStore()
	fees := coretest.NewFeeStore()
	rateModels := coretest.NewRateModelStore()
	wallets := coretest.NewWalletStore()

	system := &core.System{Admins: []string{"admin"}, ModuleID: "module", NativeAssetID: "native"}
	oracles := core.OracleSet{"static": oracle.NewStatic(number.Decimal("1"))}
	models := core.RateModelSet{"jump": irm.NewJumpRate(
		number.Decimal("0.05"), decimal.Zero, decimal.Zero, number.Decimal("0.8"),
	)}

	walletz := wallet.New(wallets, "module")
	marketz := market.New(markets, positions, fees, rateModels, walletz, oracles, models, system)
	accountz := account.New(markets, positions, walletz, marketz, oracles)

	require.Nil(t, marketz.AllowRateModel(ctx, "admin", "jump", true))
	_, err := marketz.CreateMarket(ctx, "admin", core.MarketConfig{
		Symbol:            "BTC-USDT",
		AssetID:           "usdt",
		CollateralAssetID: "btc",
		OracleID:          "static",
		RateModelID:       "jump",
		LiquidationLTV:    number.Decimal("0.8"),
	})
	require.Nil(t, err)

	srv := httptest.NewServer(Handle(markets, positions, grants, fees, accountz, models))
	t.Cleanup(srv.Close)
	return srv, markets, positions
}

func getJSON(t *testing.T, url string, v interface{}) int {
	resp, err := http.Get(url)
	require.Nil(t, err)
	defer resp.Body.Close()

	if v != nil && resp.StatusCode == http.StatusOK {
		require.Nil(t, json.NewDecoder(resp.Body).Decode(v))
	}

	return resp.StatusCode
}

func TestMarketEndpoints(t *testing.T) {
	srv, _, _ := testServer(t)

	var list []map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/markets", &list))
	require.Len(t, list, 1)

	var view map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/markets/1", &view))
	assert.EqualValues(t, "BTC-USDT", view["symbol"])

	apy, err := strconv.ParseFloat(view["borrow_apy"].(string), 64)
	require.Nil(t, err)
	assert.InDelta(t, 0.05, apy, 0.0001)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/markets/42", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/markets/abc", nil))
}

func TestPositionEndpoint(t *testing.T) {
	srv, _, positions := testServer(t)

	position, err := positions.Find(context.Background(), 1, "alice")
	require.Nil(t, err)
	position.Collateral = number.Decimal("50")
	require.Nil(t, positions.Save(context.Background(), position))

	var view map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/markets/1/positions/alice", &view))
	assert.EqualValues(t, "50", view["collateral"])

	// unknown users read as empty positions, not errors
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/markets/1/positions/nobody", &view))
	assert.EqualValues(t, "0", view["collateral"])
}

func TestMarketListCached(t *testing.T) {
	srv, markets, _ := testServer(t)

	var list []map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/markets", &list))

	// a write right after the first read is invisible until the ttl lapses
	m, err := markets.Find(context.Background(), 1)
	require.Nil(t, err)
	m.TotalSupplyAssets = number.Decimal("100")
	m.LastAccrualAt = time.Now().Unix()
	require.Nil(t, markets.Update(context.Background(), m))

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/markets", &list))
	assert.EqualValues(t, "0", list[0]["total_supply_assets"])
}

func TestFeeEndpoints(t *testing.T) {
	srv, _, _ := testServer(t)

	var cfg map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/fees/config", &cfg))
	assert.EqualValues(t, "0", cfg["flash_loan_rate"])

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/fees/pools", nil))
}
