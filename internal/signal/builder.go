// Package signal maps metrics-engine and insider-detector outputs onto
// the fixed tri-state signal tree the classifier consumes. A threshold
// that cannot be evaluated yields unknown, never false, so data gaps
// lower confidence instead of dragging the verdict down.
package signal

import (
	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/internal/insider"
	"github.com/filingsight/filingsight/pkg/logger"
)

// Builder turns computed reports into a SignalSet.
type Builder struct {
	log *logger.Logger
}

// NewBuilder creates a signal builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{log: log.WithComponent("signal-builder")}
}

// Build evaluates every signal in the tree. metrics or insiders may be
// nil; the affected signals come back unknown.
func (b *Builder) Build(metrics *contracts.MetricsReport, insiders *contracts.InsiderReport) contracts.SignalSet {
	var set contracts.SignalSet
	if metrics != nil {
		set.Durability = durability(metrics)
		set.Moat = moat(metrics)
		set.BalanceSheet = balanceSheet(metrics)
		set.CapitalAllocation = capitalAllocation(metrics)
		set.RedFlags = redFlags(metrics)
	}
	if insiders != nil {
		set.Insiders = insiderSignals(insiders)
	}

	known := 0
	for _, f := range set.AllFields() {
		if f.Known() {
			known++
		}
	}
	b.log.WithFields(map[string]interface{}{
		"known_signals": known,
		"total_signals": len(set.AllFields()),
		"red_flag":      set.AnyRedFlag(),
	}).Debug("Signal set built")

	return set
}

func durability(m *contracts.MetricsReport) contracts.DurabilitySignals {
	var d contracts.DurabilitySignals
	if m.RevenueCagr != nil {
		d.RevenueCagrPositive = contracts.TristateOf(m.RevenueCagr.Cagr > 0)
	}
	if m.RevenueDrawdown != nil {
		d.FewDownYears = contracts.TristateOf(m.RevenueDrawdown.DownYears <= maxDownYears)
	}
	if cf := m.CashFlow; cf != nil {
		if len(cf.FreeCashFlow) >= fcfMinYears {
			d.FcfMostlyPositive = contracts.TristateOf(cf.PositiveRatio >= fcfPositiveRatioMin)
		}
		d.FcfLatestPositive = contracts.TristateOf(cf.LatestValue > 0)
	}
	return d
}

func moat(m *contracts.MetricsReport) contracts.MoatSignals {
	var mo contracts.MoatSignals
	if m.GrossMargin != nil {
		mo.GrossMarginStable = contracts.TristateOf(m.GrossMargin.StdDev <= grossMarginStdMaxPp)
	}
	if collapse := marginCollapse(m); collapse.Known() {
		mo.NoMarginCollapse = contracts.TristateOf(!collapse.Bool())
	}
	if m.MarginPersistence != nil {
		mo.OperatingMarginPersistent = contracts.TristateOf(m.MarginPersistence.Persistent)
	}
	return mo
}

func balanceSheet(m *contracts.MetricsReport) contracts.BalanceSheetSignals {
	var bs contracts.BalanceSheetSignals
	if m.InterestCoverage != nil {
		bs.InterestCoverageStrong = contracts.TristateOf(*m.InterestCoverage >= interestCoverageStrong)
	}
	if m.CurrentRatio != nil {
		bs.CurrentRatioHealthy = contracts.TristateOf(*m.CurrentRatio >= currentRatioHealthy)
	}
	if m.Leverage != nil && m.Leverage.NetDebtToEbitda != nil {
		bs.LeverageModest = contracts.TristateOf(*m.Leverage.NetDebtToEbitda <= netDebtToEbitdaModest)
	}
	return bs
}

func capitalAllocation(m *contracts.MetricsReport) contracts.CapitalAllocationSignals {
	var ca contracts.CapitalAllocationSignals
	if m.Shares != nil {
		ca.ShareCountFlatOrDown = contracts.TristateOf(m.Shares.PctChange <= 0)
	}
	if cf := m.CashFlow; cf != nil && cf.CfoYears > 0 {
		ca.ReinvestsThroughCapex = contracts.TristateOf(cf.CapexYears >= cf.CfoYears)
	}
	return ca
}

func insiderSignals(r *contracts.InsiderReport) contracts.InsiderSignals {
	var is contracts.InsiderSignals
	is.ClusteredBuyingPresent = contracts.TristateOf(len(r.ClusterEvents) > 0)
	if r.OwnerAlignment != "" {
		is.AlignmentPositive = contracts.TristateOf(r.OwnerAlignment == insider.AlignmentPositive)
	}
	if w, ok := r.Windows[contracts.Window12M]; ok && w.UniqueSellers > 0 {
		ratio := float64(len(r.RoutineSellers)) / float64(w.UniqueSellers)
		is.SellingMostlyRoutine = contracts.TristateOf(ratio >= routineSellerRatioMin)
	}
	return is
}

func redFlags(m *contracts.MetricsReport) contracts.RedFlagSignals {
	var rf contracts.RedFlagSignals
	rf.MarginCollapse = marginCollapse(m)
	if m.Leverage != nil && m.Leverage.NetDebtToEbitda != nil {
		rf.Overleveraged = contracts.TristateOf(*m.Leverage.NetDebtToEbitda > overleveragedRatio)
	}
	if m.InterestCoverage != nil {
		rf.CoverageThin = contracts.TristateOf(*m.InterestCoverage < coverageThinRatio)
	}
	if cf := m.CashFlow; cf != nil && len(cf.FreeCashFlow) >= fcfMinYears {
		rf.PersistentCashBurn = contracts.TristateOf(cf.PositiveRatio < cashBurnPositiveRatio)
	}
	if m.Shares != nil {
		rf.HeavyDilution = contracts.TristateOf(m.Shares.PctChange >= heavyDilutionPct)
	}
	return rf
}

// marginCollapse is true when either margin series fell more than five
// points in a single year; unknown when neither series was computable.
func marginCollapse(m *contracts.MetricsReport) contracts.Tristate {
	if m.GrossMargin == nil && m.OperatingMargin == nil {
		return contracts.Unknown
	}
	collapsed := (m.GrossMargin != nil && m.GrossMargin.DropGt5pp) ||
		(m.OperatingMargin != nil && m.OperatingMargin.DropGt5pp)
	return contracts.TristateOf(collapsed)
}
