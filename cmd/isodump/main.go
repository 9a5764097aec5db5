// Command isodump prints the box structure of ISO base media files as an
// XML trace, one document per input.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tetsuo/isodump"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		outDir  string
		verbose bool
	)
	flags := pflag.NewFlagSet("isodump", pflag.ContinueOnError)
	flags.StringVar(&outDir, "out-dir", "", "write one .xml dump per input into this directory")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log per-file progress")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: isodump [flags] <file>...")
		flags.PrintDefaults()
	}

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("isodump", version)
		return nil
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	files := flags.Args()
	if len(files) == 0 {
		flags.Usage()
		return errors.New("no input files")
	}

	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if len(files) == 1 && outDir == "" {
		return dump(os.Stdout, files[0])
	}
	if outDir == "" {
		return errors.New("multiple inputs need --out-dir")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	var g errgroup.Group
	for _, name := range files {
		name := name
		g.Go(func() error {
			f, err := os.Create(filepath.Join(outDir, xmlName(name)))
			if err != nil {
				return err
			}
			if err := dump(f, name); err != nil {
				f.Close()
				return fmt.Errorf("%s: %w", name, err)
			}
			return f.Close()
		})
	}
	return g.Wait()
}

func dump(w io.Writer, name string) error {
	boxes, err := isodump.ParseFile(name)
	if err != nil {
		return err
	}
	if err := isodump.Dump(w, name, boxes); err != nil {
		return err
	}
	zap.L().Info("dumped", zap.String("file", name), zap.Int("boxes", len(boxes)))
	return nil
}

// xmlName maps an input path to the name of its dump file.
func xmlName(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".xml"
}
