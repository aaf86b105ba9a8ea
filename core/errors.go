package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller may not act for the target account, or is not an admin
	ErrUnauthorized ErrorCode = 100001

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrMarketExists duplicated market symbol
	ErrMarketExists ErrorCode = 100101
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100102
	// ErrAmountOverflow amount beyond representable precision
	ErrAmountOverflow ErrorCode = 100103
	// ErrInsufficientBalance account balance or shares below the requested amount
	ErrInsufficientBalance ErrorCode = 100104
	// ErrInsufficientLiquidity borrows would exceed supplied liquidity
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrInsufficientCollateral health factor below 1 after the operation
	ErrInsufficientCollateral ErrorCode = 100106
	// ErrHealthyPosition liquidation attempted on a solvent position
	ErrHealthyPosition ErrorCode = 100107
	// ErrInvalidLiquidationLTV liquidation ltv out of [0, 1)
	ErrInvalidLiquidationLTV ErrorCode = 100108
	// ErrInvalidOracle oracle unregistered or not a price provider
	ErrInvalidOracle ErrorCode = 100109
	// ErrInvalidRateModel rate model unregistered or not an irm
	ErrInvalidRateModel ErrorCode = 100110
	// ErrRateModelNotAllowed rate model not allow-listed
	ErrRateModelNotAllowed ErrorCode = 100111
	// ErrGrantUnchanged grant toggled to its current value
	ErrGrantUnchanged ErrorCode = 100112
	// ErrCallbackRequired data supplied without a callback, or flash loan without one
	ErrCallbackRequired ErrorCode = 100113
	// ErrFeeTooHigh fee rate beyond its cap
	ErrFeeTooHigh ErrorCode = 100114
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
