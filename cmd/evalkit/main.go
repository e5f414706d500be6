package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/evalkit/internal/config"
	"github.com/funvibe/evalkit/internal/signature"
	"github.com/funvibe/evalkit/pkg/evalkit"
)

const (
	colorBold  = "\033[1m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s match <caller> <callee> [-strict-empty]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s trace <file|-> [-select <path>] [-no-color]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s config [dir]\n", os.Args[0])
}

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func paint(s, color string, enabled bool) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}

// loadEngine builds an engine from the nearest evalkit.yaml, or the defaults.
func loadEngine(dir string) (*evalkit.Engine, string, error) {
	path, err := config.FindConfig(dir)
	if err != nil {
		return nil, "", err
	}
	cfg := config.Default()
	if path != "" {
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, "", err
		}
	}
	return evalkit.NewFromConfig(cfg, os.Stderr), path, nil
}

func handleMatch(args []string) bool {
	if len(args) == 0 || args[0] != "match" {
		return false
	}

	var positional []string
	matchEmpty := true
	for _, arg := range args[1:] {
		switch arg {
		case "-strict-empty", "--strict-empty":
			matchEmpty = false
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) != 2 {
		usage()
		os.Exit(2)
	}
	caller, callee := positional[0], positional[1]

	if _, err := signature.Parse(callee); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	engine, _, err := loadEngine(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	color := isTerminal()
	if engine.Matches(caller, callee, matchEmpty) {
		fmt.Println(paint("match", colorGreen, color))
		return true
	}
	fmt.Println(paint("no match", colorRed, color))
	os.Exit(1)
	return true
}

func handleTrace(args []string) bool {
	if len(args) == 0 || args[0] != "trace" {
		return false
	}

	var source, selectPath string
	color := isTerminal()
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "-select", "--select":
			if i+1 >= len(rest) {
				usage()
				os.Exit(2)
			}
			i++
			selectPath = rest[i]
		case "-no-color", "--no-color":
			color = false
		default:
			source = rest[i]
		}
	}
	if source == "" {
		usage()
		os.Exit(2)
	}

	data, err := readInput(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if selectPath != "" {
		result := gjson.GetBytes(data, selectPath)
		if !result.Exists() {
			fmt.Fprintf(os.Stderr, "Error: %s: nothing at %q\n", source, selectPath)
			os.Exit(1)
		}
		data = []byte(result.Raw)
	}

	frames, err := evalkit.ParseFrames(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", source, err)
		os.Exit(1)
	}

	engine, _, err := loadEngine(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	serr := engine.NewSyntheticError(fmt.Sprintf("replayed %d frames from %s", len(frames), source), frames)
	engine.Logger().WithFields(logrus.Fields{"id": serr.ID, "source": source}).Info("replaying traceback")

	fmt.Println(paint(serr.Error(), colorBold, color))
	if err := evalkit.FormatTraceback(os.Stdout, serr.Traceback()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return true
}

func handleConfig(args []string) bool {
	if len(args) == 0 || args[0] != "config" {
		return false
	}

	dir := "."
	if len(args) > 1 {
		dir = args[1]
	}
	engine, path, err := loadEngine(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if path == "" {
		fmt.Println("# no evalkit.yaml found, using defaults")
	} else {
		fmt.Printf("# %s\n", path)
	}
	out, err := yaml.Marshal(engine.Config())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(out))
	return true
}

// readInput reads a file, or stdin for "-".
func readInput(source string) ([]byte, error) {
	if source != "-" {
		return os.ReadFile(source)
	}
	stat, _ := os.Stdin.Stat()
	if stat != nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("nothing piped on stdin")
	}
	return io.ReadAll(os.Stdin)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	args := os.Args[1:]
	if len(args) == 0 || strings.TrimLeft(args[0], "-") == "help" {
		usage()
		return
	}

	if handleMatch(args) || handleTrace(args) || handleConfig(args) {
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
	usage()
	os.Exit(2)
}
