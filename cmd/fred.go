package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/realvalue/fred"
	"github.com/etnz/realvalue/httpcache"
	"github.com/google/subcommands"
)

// fredCmd is the top-level command for FRED-related operations.
type fredCmd struct{}

func (*fredCmd) Name() string     { return "fred" }
func (*fredCmd) Synopsis() string { return "FRED provider specific commands" }
func (*fredCmd) Usage() string {
	return `rv fred <subcommand> <options>

FRED provider specific commands.
`
}
func (c *fredCmd) SetFlags(f *flag.FlagSet) {}

func (c *fredCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "fred")
	commander.Register(&fredSearchCmd{}, "")
	return commander.Execute(ctx, args...)
}

// fredSearchCmd implements the "fred search" command.
type fredSearchCmd struct {
	all   bool
	limit int
}

func (*fredSearchCmd) Name() string     { return "search" }
func (*fredSearchCmd) Synopsis() string { return "searches for series on FRED" }
func (*fredSearchCmd) Usage() string {
	return `rv fred search <search term>

  Searches FRED series, and prints the ones usable as a CPI override,
  most popular first.

  Requires the FRED_API_KEY environment variable to be set or passed as a flag.
`
}

func (c *fredSearchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Show all series, not only monthly consumer price indices")
	f.IntVar(&c.limit, "n", 20, "Maximum number of results")
}

func (c *fredSearchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	searchTerm := strings.Join(f.Args(), " ")

	s, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if s.fredKey == "" {
		fmt.Fprintf(os.Stderr, "Error: FRED API key is not set. Use -fred-api-key flag or FRED_API_KEY environment variable\n")
		return subcommands.ExitFailure
	}

	results, err := fred.New(s.fredKey, s.client(httpcache.Monthly)).Search(ctx, searchTerm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching series: %v\n", err)
		return subcommands.ExitFailure
	}
	if !c.all {
		results = fred.CPIOnly(results)
	}
	if len(results) == 0 {
		fmt.Printf("No results found for '%s'.\n", searchTerm)
		return subcommands.ExitSuccess
	}
	if c.limit > 0 && len(results) > c.limit {
		results = results[:c.limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results for '%s':\n\n", len(results), searchTerm)
	b.WriteString("| Series | Title | Frequency | Units | Popularity |\n")
	b.WriteString("|---|---|---|---|---:|\n")
	for _, item := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n", item.ID, item.Title, item.Frequency, item.Units, item.Popularity)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
