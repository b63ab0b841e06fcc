package renderer

import (
	"fmt"
	"strings"

	"github.com/hmelin/coinfolio"
)

// DCAMarkdown renders one DCA scenario analysis: the current average
// position followed by the impact of each hypothetical purchase.
func DCAMarkdown(p *coinfolio.DCAProjection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## DCA Scenarios: %s\n\n", p.Asset)
	fmt.Fprintf(&b, "- Total %s bought: %s\n", p.Asset, p.TotalBought)
	fmt.Fprintf(&b, "- Total cost basis: %s\n", p.TotalCost)
	fmt.Fprintf(&b, "- Current average price: **%s**\n", p.Average)
	fmt.Fprintf(&b, "- Current market price: **%s**\n", p.CurrentPrice)
	if p.InProfit {
		fmt.Fprint(&b, "- Historical buys in profit: averaging **up**\n\n")
	} else {
		fmt.Fprint(&b, "- Historical buys at a loss: averaging **down**\n\n")
	}

	fmt.Fprintln(&b, "| Invest | Buy Amount | New Total | New Avg Price | Reduction |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|")
	for _, s := range p.Steps {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			s.Spend, s.Bought, s.NewTotal, s.NewAverage, s.ReductionPc)
	}
	fmt.Fprintln(&b)
	return b.String()
}
