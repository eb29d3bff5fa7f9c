// Command eo2md converts a Federal Register executive order XML document to
// Markdown.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/potus-tracker/app/fedreg"
)

type options struct {
	Pretty bool `short:"p" long:"pretty" description:"Render the Markdown for the terminal"`
	Width  int  `short:"w" long:"width" default:"80" description:"Word wrap width for --pretty"`

	Args struct {
		Input string `positional-arg-name:"FILE" description:"XML file to convert (reads stdin when omitted or -)"`
	} `positional-args:"yes"`
}

func main() {
	var opts options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "eo2md:", err)
		os.Exit(1)
	}
}

func run(opts options, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(opts.Args.Input, stdin)
	if err != nil {
		return err
	}

	markdown, err := fedreg.ToMarkdown(data)
	if err != nil {
		return err
	}

	if opts.Pretty {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(opts.Width),
		)
		if err != nil {
			return fmt.Errorf("failed to create terminal renderer: %w", err)
		}

		markdown, err = renderer.Render(markdown)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
	}

	_, err = fmt.Fprintln(stdout, markdown)
	return err
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}
