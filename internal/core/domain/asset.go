package domain

// AssetType is the closed set of currency buckets a balance or transaction
// applies to. Conversions between them happen outside the ledger.
type AssetType string

const (
	AssetBS   AssetType = "BS"
	AssetUSDC AssetType = "USDC"
)

// AssetTypes lists every asset bucket the ledger manages. register_balance
// initialises one zero entry per element.
func AssetTypes() []AssetType {
	return []AssetType{AssetBS, AssetUSDC}
}

// Valid reports whether the asset type is a member of the closed set.
func (a AssetType) Valid() bool {
	return a == AssetBS || a == AssetUSDC
}
