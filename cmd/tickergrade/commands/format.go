package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/tickergrade/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// ═══════════════════════════════════════════════════════════

const (
	doubleLine = "═══════════════════════════════════════════════════════════"
	singleLine = "───────────────────────────────────────────────────────────"
)

// printScorecard prints the pillars, composite and action card
func printScorecard(w io.Writer, card *contracts.Scorecard) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s  %s  $%.2f\n", card.Ticker, card.CompanyName, card.CurrentPrice)
	fmt.Fprintln(w, singleLine)

	for _, p := range contracts.Pillars {
		r, ok := card.Pillar(p)
		if !ok {
			continue
		}
		signal := ""
		if r.Details != nil {
			signal = r.Details.Signal()
		}
		fmt.Fprintf(w, "  %-22s %4.1f  (%2.0f%%)  %s\n", r.Name, r.Score, r.Weight*100, signal)
	}

	fmt.Fprintln(w, singleLine)
	fmt.Fprintf(w, "  Final Score : %.1f / 10\n", card.Composite.FinalScore)
	fmt.Fprintf(w, "  Verdict     : %s\n", card.Composite.Verdict)
	fmt.Fprintln(w, singleLine)

	ac := card.ActionCard
	fmt.Fprintf(w, "  Entry       : %.2f\n", ac.Entry)
	fmt.Fprintf(w, "  Stop Loss   : %.2f  (%s)\n", ac.StopLoss, ac.Method)
	fmt.Fprintf(w, "  Target      : %s\n", optional(ac.Target))
	fmt.Fprintf(w, "  Risk/Reward : %s\n", optional(ac.RiskReward))
	fmt.Fprintln(w, doubleLine)
}

// printScanResult prints the scan summary
func printScanResult(w io.Writer, result *contracts.ScanResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  Scan %s\n", result.RunID)
	fmt.Fprintln(w, singleLine)
	fmt.Fprintf(w, "  Scanned : %d\n", result.Scanned)
	fmt.Fprintf(w, "  Bullish : %d\n", result.Bullish)
	fmt.Fprintf(w, "  Bearish : %d\n", result.Bearish)
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "  Errors  : %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "    ⚠️  %s\n", e)
		}
	}
	fmt.Fprintln(w, doubleLine)
}

// printStaging prints staged rows, best first
func printStaging(w io.Writer, recs []contracts.StagingRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No staged results")
		return
	}
	fmt.Fprintf(w, "  %-8s %5s  %s\n", "TICKER", "SCORE", "DIRECTION")
	fmt.Fprintln(w, "  "+strings.Repeat("─", 32))
	for _, r := range recs {
		fmt.Fprintf(w, "  %-8s %5.1f  %s\n", r.Ticker, r.Score, r.Direction)
	}
}

func optional(v contracts.Optional[float64]) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return "n/a"
}
