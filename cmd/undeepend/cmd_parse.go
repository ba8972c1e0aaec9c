package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/undeepend/markup"
	"github.com/dhamidi/undeepend/pom"
	"github.com/dhamidi/undeepend/report"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var events bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a descriptor and dump the result",
		Long: `Parse a single descriptor without loading its project. By default the
mapped descriptor is printed as YAML; --events prints the parser events
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read descriptor: %w", err)
			}
			if events {
				return markup.Parse(string(data), newEventPrinter(os.Stdout))
			}
			p, err := pom.Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return report.WriteYAML(os.Stdout, p)
		},
	}

	cmd.Flags().BoolVar(&events, "events", false, "print parser events instead of the mapped descriptor")

	return cmd
}

// eventPrinter writes one line per event, indented by element depth, and
// passes every event on to the debug log.
type eventPrinter struct {
	w     io.Writer
	depth int
	log   *markup.LogHandler
}

func newEventPrinter(w io.Writer) *eventPrinter {
	return &eventPrinter{w: w, log: markup.NewLogHandler(nil)}
}

func (p *eventPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, strings.Repeat("  ", p.depth)+format+"\n", args...)
}

func (p *eventPrinter) StartDocument() {
	p.log.StartDocument()
	p.printf("start_document")
}

func (p *eventPrinter) EndDocument() {
	p.log.EndDocument()
	p.printf("end_document")
}

func (p *eventPrinter) StartPrefixMapping(prefix, uri string) {
	p.log.StartPrefixMapping(prefix, uri)
	p.printf("prefix %s=%s", prefix, uri)
}

func (p *eventPrinter) StartElement(name markup.Name, attrs []markup.Attribute) {
	p.log.StartElement(name, attrs)
	var b strings.Builder
	for _, attr := range attrs {
		b.WriteString(" ")
		if attr.Space != "" {
			b.WriteString(attr.Space + ":")
		}
		fmt.Fprintf(&b, "%s=%q", attr.Name, attr.Value)
	}
	p.printf("<%s%s>", name.Qualified(), b.String())
	p.depth++
}

func (p *eventPrinter) EndElement(name markup.Name) {
	p.log.EndElement(name)
	p.depth--
	p.printf("</%s>", name.Qualified())
}

func (p *eventPrinter) Characters(text string) {
	p.log.Characters(text)
	p.printf("%q", text)
}
