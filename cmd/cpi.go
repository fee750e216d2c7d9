package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/realvalue"
	"github.com/google/subcommands"
)

// cpiCmd shows which CPI series would be used for currencies.
type cpiCmd struct {
	from string
	cpi  listFlag
}

func (*cpiCmd) Name() string     { return "cpi" }
func (*cpiCmd) Synopsis() string { return "show the CPI series used for currencies" }
func (*cpiCmd) Usage() string {
	return `rv cpi [-from YYYY-MM] [-cpi CODE=ID] <CODE>...

Resolves and retrieves the CPI series of each currency, and prints a summary
of what was found.
`
}

func (c *cpiCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First month to retrieve (YYYY-MM). Default "+DefaultStart)
	f.Var(&c.cpi, "cpi", "CPI series of a currency, as CODE=ID. Can be repeated")
}

func (c *cpiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one currency code is required.")
		return subcommands.ExitUsageError
	}
	s, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	from, err := realvalue.ParseMonth(first(c.from, s.config.Start, DefaultStart))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	overrides, err := realvalue.ParseOverrides(c.cpi)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	src := s.cpiSource()
	var b strings.Builder
	b.WriteString("| Currency | Series | Title | Observations | Latest |\n")
	b.WriteString("|---|---|---|---:|---|\n")
	failed := false
	for _, arg := range f.Args() {
		code := strings.ToUpper(arg)
		if err := realvalue.ValidateCurrency(code); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}
		series, info, err := src.CPI(ctx, code, overrides[code], from)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving CPI of %s: %v\n", code, err)
			failed = true
			continue
		}
		latest := "-"
		if o, ok := series.Latest(); ok {
			latest = fmt.Sprintf("%.3f on %s", o.Value, o.On)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n", code, info.ID, info.Title, series.Len(), latest)
	}
	printMarkdown(b.String())
	if failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
