package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"jpeg_to_pdf/internal/config"
	"jpeg_to_pdf/internal/converter"
)

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	output    string
	force     bool
	normalize bool
	title     string
	author    string
	subject   string
	language  string
	keywords  string
	creator   string
	config    string
	verbose   bool
}

// newConvertFlagSet registers the convert flags on a fresh FlagSet.
func newConvertFlagSet(f *convertFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: <input dir>/<title or input name>.pdf)")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing output file without asking")
	fs.StringVarP(&f.title, "title", "t", "", "document title, also used as the output file name")
	fs.StringVarP(&f.author, "author", "a", "", "document author")
	fs.StringVarP(&f.subject, "subject", "s", "", "document subject")
	fs.StringVarP(&f.language, "language", "l", "", "document language tag, e.g. en-US")
	fs.StringVarP(&f.keywords, "keywords", "k", "", "comma separated document keywords")
	fs.StringVar(&f.creator, "creator", "", "creating application recorded in the document (default \""+converter.Creator+"\")")
	fs.BoolVarP(&f.normalize, "normalize", "n", false, "strip diacritics and symbols from the output file name")
	fs.StringVar(&f.config, "config", "", "YAML file with default metadata (env "+config.EnvConfigPath+")")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline details to stderr")
	return fs
}

// toOptions merges explicitly set flags over cfg defaults.
func (f *convertFlags) toOptions(fs *flag.FlagSet, input string, cfg *config.Config) converter.Options {
	if cfg == nil {
		cfg = &config.Config{}
	}
	pick := func(name, flagValue, cfgValue string) string {
		if fs.Changed(name) {
			return flagValue
		}
		return cfgValue
	}

	return converter.Options{
		InputPath:  input,
		OutputPath: f.output,
		Title:      f.title,
		Author:     pick("author", f.author, cfg.Author),
		Subject:    pick("subject", f.subject, cfg.Subject),
		Language:   pick("language", f.language, cfg.Language),
		Keywords:   pick("keywords", f.keywords, cfg.Keywords),
		Creator:    pick("creator", f.creator, cfg.Creator),
		Force:      f.force,
		Normalize:  f.normalize || (!fs.Changed("normalize") && cfg.Normalize),
	}
}
