package contracts

import "bytes"

// Tristate is a boolean signal that can also be unknown when the inputs
// behind it were unavailable. Unknown is distinct from False: unknown
// signals are excluded from positive-ratio math but still count against
// coverage. Unknown marshals to JSON null.
type Tristate int

const (
	Unknown Tristate = iota
	False
	True
)

// TristateOf converts a known boolean into a Tristate.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// Known reports whether the signal was evaluated at all.
func (t Tristate) Known() bool {
	return t != Unknown
}

// Bool returns the boolean value; unknown reads as false.
func (t Tristate) Bool() bool {
	return t == True
}

// String implements fmt.Stringer.
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

var (
	jsonTrue  = []byte("true")
	jsonFalse = []byte("false")
	jsonNull  = []byte("null")
)

// MarshalJSON encodes True/False as JSON booleans and Unknown as null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return jsonTrue, nil
	case False:
		return jsonFalse, nil
	default:
		return jsonNull, nil
	}
}

// UnmarshalJSON decodes JSON booleans and null back into a Tristate.
func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, jsonTrue):
		*t = True
	case bytes.Equal(data, jsonFalse):
		*t = False
	default:
		*t = Unknown
	}
	return nil
}

// DurabilitySignals cover whether the business has grown and generated
// cash through full cycles.
type DurabilitySignals struct {
	RevenueCagrPositive Tristate `json:"revenue_cagr_positive"`
	FewDownYears        Tristate `json:"few_down_years"`
	FcfMostlyPositive   Tristate `json:"fcf_mostly_positive"`
	FcfLatestPositive   Tristate `json:"fcf_latest_positive"`
}

// MoatSignals cover margin level stability as indirect evidence of
// pricing power.
type MoatSignals struct {
	GrossMarginStable         Tristate `json:"gross_margin_stable"`
	NoMarginCollapse          Tristate `json:"no_margin_collapse"`
	OperatingMarginPersistent Tristate `json:"operating_margin_persistent"`
}

// BalanceSheetSignals cover solvency and liquidity.
type BalanceSheetSignals struct {
	InterestCoverageStrong Tristate `json:"interest_coverage_strong"`
	CurrentRatioHealthy    Tristate `json:"current_ratio_healthy"`
	LeverageModest         Tristate `json:"leverage_modest"`
}

// CapitalAllocationSignals cover how management deploys the cash.
type CapitalAllocationSignals struct {
	ShareCountFlatOrDown  Tristate `json:"share_count_flat_or_down"`
	ReinvestsThroughCapex Tristate `json:"reinvests_through_capex"`
}

// InsiderSignals summarize the pattern detector's findings.
type InsiderSignals struct {
	ClusteredBuyingPresent Tristate `json:"clustered_buying_present"`
	AlignmentPositive      Tristate `json:"alignment_positive"`
	SellingMostlyRoutine   Tristate `json:"selling_mostly_routine"`
}

// RedFlagSignals are conditions that cap the classification regardless
// of how positive everything else looks.
type RedFlagSignals struct {
	MarginCollapse     Tristate `json:"margin_collapse"`
	Overleveraged      Tristate `json:"overleveraged"`
	CoverageThin       Tristate `json:"coverage_thin"`
	PersistentCashBurn Tristate `json:"persistent_cash_burn"`
	HeavyDilution      Tristate `json:"heavy_dilution"`
}

// SignalSet is the complete signal tree passed from the signal builder
// to the classifier. Every field exists in every instance so the
// classifier's coverage denominator is stable: unevaluated signals are
// Unknown, never omitted.
type SignalSet struct {
	Durability        DurabilitySignals        `json:"durability"`
	Moat              MoatSignals              `json:"moat"`
	BalanceSheet      BalanceSheetSignals      `json:"balance_sheet"`
	CapitalAllocation CapitalAllocationSignals `json:"capital_allocation"`
	Insiders          InsiderSignals           `json:"insiders"`
	RedFlags          RedFlagSignals           `json:"red_flags"`
}

// CoreFields returns the signals counted toward the positive ratio:
// durability, moat, balance sheet, and capital allocation. Insider and
// red-flag signals are deliberately excluded.
func (s *SignalSet) CoreFields() []Tristate {
	return []Tristate{
		s.Durability.RevenueCagrPositive,
		s.Durability.FewDownYears,
		s.Durability.FcfMostlyPositive,
		s.Durability.FcfLatestPositive,
		s.Moat.GrossMarginStable,
		s.Moat.NoMarginCollapse,
		s.Moat.OperatingMarginPersistent,
		s.BalanceSheet.InterestCoverageStrong,
		s.BalanceSheet.CurrentRatioHealthy,
		s.BalanceSheet.LeverageModest,
		s.CapitalAllocation.ShareCountFlatOrDown,
		s.CapitalAllocation.ReinvestsThroughCapex,
	}
}

// RedFlagFields returns every red-flag signal.
func (s *SignalSet) RedFlagFields() []Tristate {
	return []Tristate{
		s.RedFlags.MarginCollapse,
		s.RedFlags.Overleveraged,
		s.RedFlags.CoverageThin,
		s.RedFlags.PersistentCashBurn,
		s.RedFlags.HeavyDilution,
	}
}

// AllFields returns every signal across every category, the coverage
// denominator for confidence scoring.
func (s *SignalSet) AllFields() []Tristate {
	fields := s.CoreFields()
	fields = append(fields,
		s.Insiders.ClusteredBuyingPresent,
		s.Insiders.AlignmentPositive,
		s.Insiders.SellingMostlyRoutine,
	)
	return append(fields, s.RedFlagFields()...)
}

// AnyRedFlag reports whether any red flag is known true.
func (s *SignalSet) AnyRedFlag() bool {
	for _, f := range s.RedFlagFields() {
		if f == True {
			return true
		}
	}
	return false
}
