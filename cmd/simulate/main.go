// Command simulate runs an instruction image against an input file and
// reports the resulting output buffers and run counters.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"gopkg.in/urfave/cli.v2"

	"github.com/bdwalton/csamachine/isa"
	"github.com/bdwalton/csamachine/sim"
)

const (
	defaultMemCapacity = 300
	defaultBudget      = 5000
)

func main() {
	app := &cli.App{
		Name:      "simulate",
		Usage:     "run an instruction image against an input file",
		ArgsUsage: "<image> <input_file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "mem-capacity",
				Usage: "number of addressable memory cells",
				Value: defaultMemCapacity,
			},
			&cli.IntFlag{
				Name:  "budget",
				Usage: "maximum number of instructions to execute before giving up",
				Value: defaultBudget,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		glog.Errorf("simulate: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	imagePath := c.Args().Get(0)
	inputPath := c.Args().Get(1)
	if imagePath == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("simulate: <image> is required", 1)
	}

	image, err := readImage(imagePath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	input, err := readInput(inputPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	r := sim.Simulate(image, input, c.Int("mem-capacity"), c.Int("budget"))

	fmt.Printf("symbols: %q\n", r.Symbols)
	fmt.Printf("numbers: %v\n", r.Numbers)
	fmt.Printf("instructions: %d\n", r.Instructions)
	fmt.Printf("ticks: %d\n", r.Ticks)

	return nil
}

func readImage(path string) ([]isa.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return isa.ReadImage(f)
}

// readInput reads an input file's contents as a character queue for IN.
// An empty path is valid: the program runs with no input available.
func readInput(path string) ([]rune, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return []rune(string(data)), nil
}
