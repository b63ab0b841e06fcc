package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/hmelin/coinfolio/docs"
)

// topicCmd prints a documentation topic on the terminal.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "print a documentation topic" }
func (*topicCmd) Usage() string {
	return `topic [<name>]:

  Print the named documentation topic, or the list of available topics
  when no name is given.
`
}
func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		readme, err := docs.GetTopic("readme")
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		printMarkdown(readme)
		return subcommands.ExitSuccess
	}

	name := strings.ToLower(f.Arg(0))
	content, err := docs.GetTopic(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown topic %q\n", name)
		return subcommands.ExitFailure
	}
	printMarkdown(content)
	return subcommands.ExitSuccess
}
