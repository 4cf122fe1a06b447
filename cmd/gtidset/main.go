package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	gtidsets "github.com/wippyai/gtid-sets"
	"github.com/wippyai/gtid-sets/adapter"
	"github.com/wippyai/gtid-sets/conv"
	"github.com/wippyai/gtid-sets/gtids"
)

func main() {
	var (
		parseArg    = flag.String("parse", "", "GTID set to parse and print in canonical form")
		aArg        = flag.String("a", "", "First GTID set operand")
		bArg        = flag.String("b", "", "Second GTID set operand")
		opArg       = flag.String("op", "", "Set operation: union, subtract or intersect")
		check       = flag.Bool("check", false, "Report whether -a is a subset of -b")
		binary      = flag.Bool("binary", false, "Also print the binary form as hex")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		adapter.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var err error
	switch {
	case *parseArg != "":
		err = runParse(*parseArg, *binary)
	case *aArg != "" && *bArg != "" && *check:
		err = runCheck(*aArg, *bArg)
	case *aArg != "" && *bArg != "" && *opArg != "":
		err = runOp(*aArg, *bArg, *opArg, *binary)
	default:
		fmt.Fprintln(os.Stderr, "Usage: gtidset -parse <set> [-binary]")
		fmt.Fprintln(os.Stderr, "       gtidset -a <set> -b <set> -op union|subtract|intersect [-binary]")
		fmt.Fprintln(os.Stderr, "       gtidset -a <set> -b <set> -check")
		fmt.Fprintln(os.Stderr, "       gtidset -i  (interactive mode)")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runParse(text string, dumpBinary bool) error {
	set, err := adapter.ParseSet(gtidsets.Resource{}, text)
	if err != nil {
		return err
	}
	out, err := adapter.FormatSet(set)
	if err != nil {
		return err
	}
	fmt.Printf("Sources: %d\n", set.SourceCount())
	fmt.Printf("GTIDs:   %d\n", set.Count())
	fmt.Printf("%s\n", out)
	if dumpBinary {
		fmt.Printf("\nBinary (version 2): %s\n", binaryHex(set))
	}
	return nil
}

func runOp(aText, bText, op string, dumpBinary bool) error {
	a, err := adapter.ParseSet(gtidsets.Resource{}, aText)
	if err != nil {
		return fmt.Errorf("parse -a: %w", err)
	}
	b, err := adapter.ParseSet(gtidsets.Resource{}, bText)
	if err != nil {
		return fmt.Errorf("parse -b: %w", err)
	}
	if err := applyOp(a, b, op); err != nil {
		return err
	}
	out, err := adapter.FormatSet(a)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", out)
	if dumpBinary {
		fmt.Printf("\nBinary (version 2): %s\n", binaryHex(a))
	}
	return nil
}

func applyOp(a, b *gtids.Set, op string) error {
	var err error
	switch op {
	case "union":
		err = a.InplaceUnion(b)
	case "subtract":
		err = a.InplaceSubtract(b)
	case "intersect":
		err = a.InplaceIntersect(b)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
	if err != nil {
		return adapter.OutOfResources(err)
	}
	return nil
}

func runCheck(aText, bText string) error {
	a, err := adapter.ParseSet(gtidsets.Resource{}, aText)
	if err != nil {
		return fmt.Errorf("parse -a: %w", err)
	}
	b, err := adapter.ParseSet(gtidsets.Resource{}, bText)
	if err != nil {
		return fmt.Errorf("parse -b: %w", err)
	}
	if a.IsSubsetOf(b) {
		fmt.Println("subset: yes")
	} else {
		fmt.Println("subset: no")
	}
	return nil
}

// binaryHex returns the version 2 binary encoding as lowercase hex.
func binaryHex(set *gtids.Set) string {
	raw := conv.EncodeToString(gtids.BinaryFormat{Version: gtids.V2TagsCompact}, set)
	return conv.EncodeToString(conv.Hex{}, raw)
}
