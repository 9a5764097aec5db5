// Command isoboxes enumerates the box types the dumper understands. With
// no flags it prints one schema rendering per dispatch table entry, the
// skeleton every attribute and placeholder row would take in a real dump.
package main

import (
	"bufio"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/tetsuo/isodump"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		list   bool
		filter string
	)
	flags := pflag.NewFlagSet("isoboxes", pflag.ContinueOnError)
	flags.BoolVar(&list, "list", false, "print a table of dispatch entries instead of schema XML")
	flags.StringVar(&filter, "type", "", "only entries whose box type or variant matches this 4CC")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: isoboxes [flags]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if list {
		return printList(filter)
	}
	return printSchemas(filter)
}

func printSchemas(filter string) error {
	out := bufio.NewWriter(os.Stdout)
	fmt.Fprintf(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(out, "<Boxes>\n")
	// entry 0 handles unknown types and has no schema of its own
	for i := 1; i < isodump.NumSupportedBoxes(); i++ {
		if !matches(i, filter) {
			continue
		}
		if err := isodump.DumpSupportedBox(out, i); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "</Boxes>\n")
	return out.Flush()
}

func printList(filter string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tTYPE\tVARIANT\tVERSION\tFLAGS")
	for i := 1; i < isodump.NumSupportedBoxes(); i++ {
		if !matches(i, filter) {
			continue
		}
		info := isodump.SupportedBoxInfo(i)
		variant := ""
		if info.Variant != (isodump.BoxType{}) {
			variant = info.Variant.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t0x%06X\n", i, info.Type, variant, info.MaxVersion, info.Flags)
	}
	return w.Flush()
}

func matches(i int, filter string) bool {
	if filter == "" {
		return true
	}
	info := isodump.SupportedBoxInfo(i)
	return info.Type.String() == filter || info.Variant.String() == filter
}
