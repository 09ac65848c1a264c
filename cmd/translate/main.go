// Command translate assembles a source program into a JSON instruction
// image.
package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/golang/glog"
	"gopkg.in/urfave/cli.v2"

	"github.com/bdwalton/csamachine/isa"
	"github.com/bdwalton/csamachine/translator"
)

func main() {
	app := &cli.App{
		Name:      "translate",
		Usage:     "assemble a source program into an instruction image",
		ArgsUsage: "<source> <target>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		glog.Errorf("translate: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	source := c.Args().Get(0)
	target := c.Args().Get(1)
	if source == "" || target == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("translate: <source> and <target> are required", 1)
	}

	lines, err := readLines(source)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	image, err := translator.Translate(lines)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	out, err := os.Create(target)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer out.Close()

	if err := isa.WriteImage(out, image); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

// readLines reads source line by line, trimming whitespace and dropping
// blank lines, matching the non-empty-trimmed-line contract the
// translator expects.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if trimmed := strings.TrimSpace(scanner.Text()); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, scanner.Err()
}
