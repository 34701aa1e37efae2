package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docparse/internal/parser"
)

// ParsersCmd implements the 'parsers' command.
type ParsersCmd struct{}

func (p *ParsersCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, false)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cfg, root.Verbose, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "LANGUAGE\tHEADERS\tSOURCES")
	for _, pp := range env.registry.Parsers() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
			pp.Language(),
			strings.Join(parser.HeaderFileNameFilter(pp), " "),
			strings.Join(pp.SourceFileNameFilter(), " "))
	}
	return tw.Flush()
}
