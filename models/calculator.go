package models

// StoincEstimate projects storage-income (STOINC) earnings for an operator
// committing storage to the network.
type StoincEstimate struct {
	StorageCommitmentTB float64 `json:"storage_commitment_tb"`
	UptimePercent       float64 `json:"uptime_percent"`
	NetworkSharePercent float64 `json:"network_share_percent"`
	DailyCredits        float64 `json:"daily_credits"`
	MonthlyCredits      float64 `json:"monthly_credits"`
	YearlyCredits       float64 `json:"yearly_credits"`
	EffectiveRate       float64 `json:"effective_rate_per_tb_day"`
	Notes               string  `json:"notes,omitempty"`
}

// StorageCostComparison compares monthly storage pricing across providers.
type StorageCostComparison struct {
	StorageAmountTB float64                 `json:"storage_amount_tb"`
	Duration        string                  `json:"duration"`
	Providers       []ProviderCostBreakdown `json:"providers"`
	Recommendation  string                  `json:"recommendation"`
}

type ProviderCostBreakdown struct {
	Name           string   `json:"name"`
	MonthlyCostUSD float64  `json:"monthly_cost_usd"`
	YearlyCostUSD  float64  `json:"yearly_cost_usd"`
	Features       []string `json:"features"`
	Notes          string   `json:"notes,omitempty"`
}
