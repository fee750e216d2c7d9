package cmd

import (
	"flag"
	"maps"
	"slices"

	"github.com/etnz/realvalue/docs"
	"github.com/etnz/realvalue/fred"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the completions of flag values, by flag name.
var flagPredictors = map[string]complete.Predictor{
	"config":    predict.Files("*.yaml"),
	"cache-dir": predict.Dirs("*"),
	"o":         predict.Files("*.xlsx"),
	"fx":        predict.Set{"yahoo", "eodhd"},
}

// Completion returns the shell completion of rv.
//
// Flags are read from the flag sets of the commands, so that completion never drifts from them.
func Completion() *complete.Command {
	root := &complete.Command{
		Flags: flagsOf(flag.CommandLine),
		Sub:   make(map[string]*complete.Command),
	}
	for _, c := range Commands {
		root.Sub[c.Name()] = commandOf(c)
	}
	root.Sub["fred"].Sub = map[string]*complete.Command{
		"search": commandOf(&fredSearchCmd{}),
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{Args: predict.Set(commandNames())}
	}
	return root
}

func commandOf(c subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	return &complete.Command{Flags: flagsOf(fs), Args: argsOf(c)}
}

// flagsOf predicts the values of every flag of fs. Boolean flags take no value.
func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = nil
			return
		}
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// argsOf predicts the positional arguments of a command.
func argsOf(c subcommands.Command) complete.Predictor {
	switch c.Name() {
	case "compare":
		return predict.Set(knownPairs())
	case "cpi":
		return predict.Set(slices.Sorted(maps.Keys(fred.KnownCPI)))
	case "topic":
		topics, _ := docs.GetAllTopics()
		return predict.Set(topics)
	}
	return predict.Nothing
}

func commandNames() []string {
	var names []string
	for _, c := range Commands {
		names = append(names, c.Name())
	}
	return names
}

// knownPairs returns every pair of currencies with a known CPI series.
func knownPairs() []string {
	codes := slices.Sorted(maps.Keys(fred.KnownCPI))
	var pairs []string
	for _, a := range codes {
		for _, b := range codes {
			if a != b {
				pairs = append(pairs, a+"-"+b)
			}
		}
	}
	return pairs
}
