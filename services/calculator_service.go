package services

import (
	"xanddash/config"
	"xanddash/models"
)

// Baseline credit emission per TB-day at full uptime. Tuned against observed
// mainnet credit accrual; revisit when emission parameters change.
const baseCreditsPerTBPerDay = 120.0

// CalculatorService answers the what-if questions on the dashboard's
// calculator page: projected STOINC earnings and provider cost comparisons.
type CalculatorService struct {
	cfg *config.Config
}

func NewCalculatorService(cfg *config.Config) *CalculatorService {
	return &CalculatorService{cfg: cfg}
}

// EstimateStoinc projects credit earnings for a storage commitment. Network
// share scales the estimate by how much of the total committed capacity the
// operator would represent; zero total capacity means share stays unknown.
func (cs *CalculatorService) EstimateStoinc(storageTB, uptimePercent, networkTotalTB float64) models.StoincEstimate {
	if storageTB < 0 {
		storageTB = 0
	}
	if uptimePercent < 0 {
		uptimePercent = 0
	}
	if uptimePercent > 100 {
		uptimePercent = 100
	}

	effectiveRate := baseCreditsPerTBPerDay * (uptimePercent / 100.0)
	daily := storageTB * effectiveRate

	est := models.StoincEstimate{
		StorageCommitmentTB: storageTB,
		UptimePercent:       uptimePercent,
		DailyCredits:        daily,
		MonthlyCredits:      daily * 30,
		YearlyCredits:       daily * 365,
		EffectiveRate:       effectiveRate,
	}

	if networkTotalTB > 0 {
		est.NetworkSharePercent = storageTB / (networkTotalTB + storageTB) * 100
	} else {
		est.Notes = "Network capacity unknown, share not estimated"
	}

	return est
}

// CompareCosts compares monthly storage pricing across providers for a given
// commitment.
func (cs *CalculatorService) CompareCosts(storageTB float64) models.StorageCostComparison {
	if storageTB < 0 {
		storageTB = 0
	}

	comparison := models.StorageCostComparison{
		StorageAmountTB: storageTB,
		Duration:        "monthly",
		Providers: []models.ProviderCostBreakdown{
			{
				Name:     "Xandeum",
				Features: []string{"Decentralized", "Solana-native", "Erasure coded"},
				Notes:    "Pricing pending live network data",
			},
			{
				Name:           "AWS S3",
				MonthlyCostUSD: storageTB * 23.0,
				YearlyCostUSD:  storageTB * 23.0 * 12,
				Features:       []string{"Centralized", "11 nines durability", "Instant access"},
				Notes:          "Standard tier, excludes transfer and API costs",
			},
			{
				Name:           "Arweave",
				MonthlyCostUSD: storageTB * 1000 / 240,
				YearlyCostUSD:  storageTB * 1000 / 20,
				Features:       []string{"Permanent storage", "Pay once", "Decentralized"},
				Notes:          "One-time payment amortized over 20 years",
			},
			{
				Name:           "Filecoin",
				MonthlyCostUSD: storageTB * 1.5,
				YearlyCostUSD:  storageTB * 1.5 * 12,
				Features:       []string{"Decentralized", "Market-driven pricing"},
				Notes:          "Varies by storage provider and deal terms",
			},
		},
	}

	switch {
	case storageTB < 10:
		comparison.Recommendation = "For small storage needs, Xandeum offers competitive pricing with decentralization benefits."
	case storageTB < 100:
		comparison.Recommendation = "Xandeum provides significant cost savings compared to AWS S3 at this scale."
	default:
		comparison.Recommendation = "At enterprise scale, Xandeum's decentralized model offers both cost efficiency and censorship resistance."
	}

	return comparison
}
