package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/realvalue"
	"github.com/etnz/realvalue/fred"
	"github.com/etnz/realvalue/renderer"
	"github.com/etnz/realvalue/xlsx"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Defaults of a comparison.
const (
	DefaultStart  = "2015-01"
	DefaultAmount = "1000"
	DefaultOutput = "currency_inflation_comparison.xlsx"
)

// listFlag is a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }
func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type compareCmd struct {
	start    string
	baseline string
	amount   string
	output   string
	fx       string
	maxGap   int
	parallel int
	cpi      listFlag
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the real value of currencies over time" }
func (*compareCmd) Usage() string {
	return `rv compare [flags] <PAIR>...

Compares the purchasing power of an amount held in each currency of the pairs,
since a baseline month. Pairs are written BASE-QUOTE, like GBP-USD.

Without pairs, they are read from the configuration file or asked for.

See 'rv topic methodology' for the computation.

`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First month of the comparison (YYYY-MM). Default "+DefaultStart)
	f.StringVar(&c.baseline, "baseline", "", "Month of the baseline amount (YYYY-MM). Default is the start month")
	f.StringVar(&c.amount, "amount", "", "Baseline amount, in the base currency of each pair. Default "+DefaultAmount)
	f.StringVar(&c.output, "o", "", "Output file: .xlsx for the full report, .jsonl for all tables as JSON Lines, .csv for the real value table, '-' for none. Default "+DefaultOutput)
	f.StringVar(&c.fx, "fx", "", "Exchange rate source: yahoo or eodhd. Default yahoo")
	f.IntVar(&c.maxGap, "max-gap", -1, fmt.Sprintf("Maximum age in months of a forward filled value, 0 for no limit. Default %d", realvalue.DefaultMaxGap))
	f.IntVar(&c.parallel, "parallel", 0, fmt.Sprintf("Number of currencies retrieved concurrently. Default %d", realvalue.DefaultParallelism))
	f.Var(&c.cpi, "cpi", "CPI series of a currency, as CODE=ID. Can be repeated. IDs starting with INSEE- are INSEE idBanks")
}

// request builds the comparison request from the flags, the arguments and the configuration.
func (c *compareCmd) request(cfg *Config, args []string) (realvalue.Request, error) {
	var req realvalue.Request

	raw := args
	if len(raw) == 0 {
		raw = cfg.Pairs
	}
	pairs, err := realvalue.ParsePairs(raw)
	if err != nil {
		return req, err
	}
	req.Pairs = pairs

	if req.Start, err = realvalue.ParseMonth(first(c.start, cfg.Start, DefaultStart)); err != nil {
		return req, fmt.Errorf("invalid start: %w", err)
	}
	if b := first(c.baseline, cfg.Baseline); b != "" {
		if req.Baseline, err = realvalue.ParseMonth(b); err != nil {
			return req, fmt.Errorf("invalid baseline: %w", err)
		}
	}
	if req.Amount, err = decimal.NewFromString(first(c.amount, cfg.Amount, DefaultAmount)); err != nil {
		return req, fmt.Errorf("invalid amount: %w", err)
	}

	// overrides from the command line replace the ones of the configuration.
	req.Overrides = make(realvalue.Overrides)
	for code, id := range cfg.Overrides {
		req.Overrides[strings.ToUpper(code)] = id
	}
	flags, err := realvalue.ParseOverrides(c.cpi)
	if err != nil {
		return req, err
	}
	for code, id := range flags {
		req.Overrides[code] = id
	}

	req.Output = first(c.output, cfg.Output, DefaultOutput)
	return req, nil
}

// options returns the comparator options.
func (c *compareCmd) options(cfg *Config) realvalue.Options {
	opts := realvalue.Options{
		Align:       realvalue.AlignOptions{MaxGap: realvalue.DefaultMaxGap},
		Parallelism: cfg.Parallelism,
	}
	if cfg.MaxGap != nil {
		opts.Align.MaxGap = *cfg.MaxGap
	}
	if c.maxGap >= 0 {
		opts.Align.MaxGap = c.maxGap
	}
	if c.parallel > 0 {
		opts.Parallelism = c.parallel
	}
	return opts
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	args := f.Args()
	if len(args) == 0 && len(s.config.Pairs) == 0 && interactive() {
		line, err := prompt(os.Stdin, os.Stderr, "Currency pairs (e.g. GBP-USD, EUR-JPY): ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		args = splitPairs(line)
	}
	req, err := c.request(s.config, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if s.fredKey == "" && interactive() {
		if s.fredKey, err = prompt(os.Stdin, os.Stderr, "FRED API key: "); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	fx, err := s.fxSource(first(c.fx, s.config.FX))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	opts := c.options(s.config)
	for _, w := range quarterlyWarnings(req, opts) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	comparator := &realvalue.Comparator{CPI: s.cpiSource(), FX: fx, Options: opts}

	run, err := comparator.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := realvalue.Assemble(run.Results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := writeReport(req.Output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", req.Output, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Markdown(run))
	if req.Output != "-" {
		fmt.Fprintf(os.Stderr, "report written to %s\n", req.Output)
	}
	return subcommands.ExitSuccess
}

// quarterlyWarnings lists the currencies whose default CPI is quarterly and
// cannot be aligned with the maximum gap of opts.
func quarterlyWarnings(req realvalue.Request, opts realvalue.Options) []string {
	gap := opts.Align.MaxGap
	if gap <= 0 || gap >= fred.MinQuarterlyGap {
		return nil
	}
	var warnings []string
	for _, code := range realvalue.Currencies(req.Pairs) {
		if req.Overrides[code] == "" && slices.Contains(fred.KnownQuarterly, code) {
			warnings = append(warnings, fmt.Sprintf("the CPI of %s (%s) is quarterly, a maximum gap of %d will reject it, use at least %d or an override", code, fred.KnownCPI[code], gap, fred.MinQuarterlyGap))
		}
	}
	return warnings
}

// writeReport writes the report to a file, its format depends on the extension.
func writeReport(path string, report *realvalue.Report) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		if path == "-" {
			return nil
		}
		return fmt.Errorf("missing file extension, want .xlsx, .csv or .jsonl")
	case ".csv":
		return writeFile(path, report.RealValue.WriteCSV)
	case ".jsonl":
		return writeFile(path, report.WriteJSONL)
	case ".xlsx":
		return xlsx.Save(path, report)
	}
	return fmt.Errorf("unsupported file extension %q, want .xlsx, .csv or .jsonl", filepath.Ext(path))
}

// writeFile creates the file at path and writes it with write.
func writeFile(path string, write func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// interactive reports whether stdin is a terminal.
func interactive() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// prompt writes the question and reads one line of answer.
func prompt(in io.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// splitPairs splits a list of pairs separated by commas or spaces.
func splitPairs(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
}
