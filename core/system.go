package core

// System stores system information.
type System struct {
	Admins []string
	// ModuleID is the wallet account holding pooled liquidity
	ModuleID string
	// NativeAssetID denominates the market creation fee
	NativeAssetID string
	Version       string
}

// IsAdmin is admin
func (s *System) IsAdmin(userID string) bool {
	if len(s.Admins) == 0 {
		return false
	}

	for _, a := range s.Admins {
		if a == userID {
			return true
		}
	}

	return false
}
