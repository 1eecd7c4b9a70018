package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/gemdown/internal/config"
	"git.home.luguber.info/inful/gemdown/internal/gemtext"
	"git.home.luguber.info/inful/gemdown/internal/version"
	"git.home.luguber.info/inful/gemdown/internal/watch"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var CLI struct {
	Files []string `arg:"" optional:"" help:"Files to convert. If no files are specified, data is read from stdin and printed to stdout."`

	Write       bool   `short:"w" help:"Write output to a new file of the same name with a .gmi extension."`
	Dir         string `short:"d" help:"The directory to write files to when --write is used." env:"GEMDOWN_DIR"`
	AsciiTable  bool   `short:"a" name:"ascii-table" help:"Use ASCII to create tables, not Unicode." env:"GEMDOWN_ASCII_TABLE"`
	Frontmatter bool   `short:"f" help:"Remove Jekyll and Zola style front matter before converting." env:"GEMDOWN_FRONTMATTER"`
	ImgTag      string `help:"Text added after image links. Pass --img-tag='' to remove it." default:"[IMG]" env:"GEMDOWN_IMG_TAG"`
	Indent      string `short:"i" help:"The number of spaces to use for list indenting. Put 'tab' to use a tab instead." default:"2" env:"GEMDOWN_INDENT"`
	Links       string `short:"l" help:"Set to 'off' to turn off links, 'paragraph' to put footnotes at the end of each paragraph, or 'at-end' to put them at the end of the document. Any other value keeps links on a newline." default:"newline" env:"GEMDOWN_LINKS"`
	Plain       bool   `short:"p" help:"Remove special markings from output that text/gemini doesn't support, like the asterisks for bold and italics." env:"GEMDOWN_PLAIN"`
	Watch       bool   `help:"Keep running and reconvert input files when they change." env:"GEMDOWN_WATCH"`
	Config      string `short:"c" help:"Optional YAML configuration file with flag defaults." env:"GEMDOWN_CONFIG"`
	Verbose     bool   `short:"v" help:"Enable verbose logging."`

	Version kong.VersionFlag `help:"Print version information and quit."`
}

// Built-in flag defaults, needed to tell apart "left at default" from
// "explicitly set" when merging the configuration file.
const (
	defaultImgTag = "[IMG]"
	defaultIndent = "2"
	defaultLinks  = "newline"
)

func main() {
	// Pick up variables from a .env file, if present, before kong reads the
	// environment for its env-tagged flags.
	_ = godotenv.Load()

	kong.Parse(&CLI,
		kong.Name("gemdown"),
		kong.Description("Convert Markdown files to the Gemini text format."),
		kong.Vars{"version": version.Version},
	)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if err := run(); err != nil {
		slog.Error("Conversion failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if CLI.Config != "" {
		file, err := config.Load(CLI.Config)
		if err != nil {
			return err
		}
		applyConfigFile(file)
	}

	indent, err := config.ParseIndent(CLI.Indent)
	if err != nil {
		return err
	}

	opts := gemtext.Options{
		ImageTag:    CLI.ImgTag,
		Indent:      indent,
		ASCIITables: CLI.AsciiTable,
		LinkMode:    gemtext.ParseLinkMode(CLI.Links),
		Plain:       CLI.Plain,
		Frontmatter: CLI.Frontmatter,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	if len(CLI.Files) == 0 {
		return convertStdin(opts)
	}

	if CLI.Write {
		if CLI.Dir == "" {
			CLI.Dir = "."
		}
		if info, err := os.Stat(CLI.Dir); err != nil || !info.IsDir() {
			return fmt.Errorf("directory %s cannot be found", CLI.Dir)
		}
	}

	for _, f := range CLI.Files {
		if err := convertFile(f, opts); err != nil {
			return err
		}
	}

	if CLI.Watch {
		return watchFiles(CLI.Files, opts)
	}
	return nil
}

func convertStdin(opts gemtext.Options) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	out, err := gemtext.Convert(string(data), opts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func convertFile(path string, opts gemtext.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("file %s cannot be read: %w", path, err)
	}
	out, err := gemtext.Convert(string(data), opts)
	if err != nil {
		return err
	}

	if !CLI.Write {
		fmt.Println(out)
		return nil
	}

	target := filepath.Join(CLI.Dir, outputName(path))
	if err := os.WriteFile(target, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	slog.Info("Converted", "input", path, "output", target)
	return nil
}

// outputName maps an input path to its output file name: the base name with
// its extension swapped for .gmi.
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".gmi"
}

func watchFiles(files []string, opts gemtext.Options) error {
	w, err := watch.New(files, func(path string) {
		if err := convertFile(path, opts); err != nil {
			slog.Error("Reconversion failed", "path", path, "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.Run(ctx)
}

// applyConfigFile fills in flags the user left at their built-in defaults
// from the configuration file. Explicit command line values win.
func applyConfigFile(file *config.File) {
	if file.ImgTag != nil && CLI.ImgTag == defaultImgTag {
		CLI.ImgTag = *file.ImgTag
	}
	if file.Indent != nil && CLI.Indent == defaultIndent {
		CLI.Indent = *file.Indent
	}
	if file.ASCIITables != nil && !CLI.AsciiTable {
		CLI.AsciiTable = *file.ASCIITables
	}
	if file.Links != nil && CLI.Links == defaultLinks {
		CLI.Links = *file.Links
	}
	if file.Plain != nil && !CLI.Plain {
		CLI.Plain = *file.Plain
	}
	if file.Frontmatter != nil && !CLI.Frontmatter {
		CLI.Frontmatter = *file.Frontmatter
	}
	if file.Write != nil && !CLI.Write {
		CLI.Write = *file.Write
	}
	if file.Dir != nil && CLI.Dir == "" {
		CLI.Dir = *file.Dir
	}
}
