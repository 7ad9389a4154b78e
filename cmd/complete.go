package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/inflation/docs"
	"github.com/etnz/inflation/etl"
)

// args predicts the positional arguments of some commands.
func args(name string) complete.Predictor {
	switch name {
	case "topic":
		return predict.Set(append(docs.Topics(), docs.Index))
	case "etl":
		return predict.Set{etl.JobEurostat, etl.JobUSBLS, etl.JobRestCountries}
	case "enrich":
		return predict.Set(etl.Queries())
	}
	return nil
}

// flags predicts the flags of fs: anything for valued flags, nothing for
// booleans.
func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[f.Name] = predict.Nothing
			return
		}
		res[f.Name] = predict.Something
	})
	return res
}

// Completion describes the command line of infl for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	for _, c := range Commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flags(fs),
			Args:  args(c.Name()),
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}
