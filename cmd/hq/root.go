package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/hq/internal/config"
	"github.com/dgallion1/hq/internal/logging"
	"github.com/dgallion1/hq/internal/query"
	"github.com/dgallion1/hq/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// errUsage marks command-line mistakes that warrant printing usage.
var errUsage = errors.New("invalid usage")

const rootLong = `Query an HTML document with a CSS selector or an XPath expression.

If neither --url nor --file is given, the document is read from stdin.
By default the text of every selected node is printed, one per line.
Append '@name' to the selector to print the value of attribute 'name'
instead; nodes without that attribute are skipped.

  hq --css 'div@name' < page.html
  hq -u https://example.com -x '//a@href'`

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hq [--url|-u URL | --file|-f PATH] <--xpath|-x XPATH | --css|-c SELECTOR>",
		Short:         "hq extracts text or attributes from HTML with CSS or XPath",
		Long:          rootLong,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			if path := v.GetString(config.KeyConfigFile); path != "" {
				return config.ReadFile(v, path)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.StringP("css", "c", "", "CSS selector; append @name to print an attribute, e.g. div@name")
	flags.StringP("xpath", "x", "", "XPath expression; append @name to print an attribute, e.g. //div@name")
	flags.StringP("url", "u", "", "fetch the document from an http(s) URL")
	flags.StringP("file", "f", "", "read the document from a local file")
	flags.String("format", "auto", "document format: auto, html or markdown")

	pflags := cmd.PersistentFlags()
	pflags.String("config", "", "config file (yaml, toml or json)")
	pflags.String("log-level", "", "log level: debug, info, warn or error")
	pflags.String("log-file", "", "also write logs to this rotating file")
	pflags.Duration("fetch-timeout", 0, "timeout for fetching --url documents")
	pflags.Int64("max-document-bytes", 0, "largest document accepted, in bytes")
	pflags.String("user-agent", "", "User-Agent header for fetches")

	bindFlags(v, pflags.Lookup, map[string]string{
		config.KeyConfigFile:       "config",
		config.KeyLogLevel:         "log-level",
		config.KeyLogFile:          "log-file",
		config.KeyFetchTimeout:     "fetch-timeout",
		config.KeyMaxDocumentBytes: "max-document-bytes",
		config.KeyUserAgent:        "user-agent",
	})

	cmd.AddCommand(newServeCmd(v))
	return cmd
}

func runQuery(cmd *cobra.Command, v *viper.Viper) error {
	sel, err := selectorFromFlags(cmd)
	if err != nil {
		return err
	}
	src, err := sourceFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log, closer, err := newLogger(cmd.ErrOrStderr(), cfg, slog.LevelWarn)
	if err != nil {
		return err
	}
	defer closer.Close()

	resolver := &source.Resolver{
		Stdin:    cmd.InOrStdin(),
		Fetcher:  source.NewCollyFetcher(cfg.FetchTimeout, cfg.UserAgent, cfg.MaxDocumentBytes, log),
		MaxBytes: cfg.MaxDocumentBytes,
	}
	doc, err := resolver.Resolve(cmd.Context(), src)
	if err != nil {
		return err
	}
	log.Debug("document resolved", "source", src.Value, "bytes", len(doc))

	out, err := query.Run(sel, doc)
	if err != nil {
		return err
	}
	log.Debug("query complete", "kind", sel.Kind.String(), "selector", sel.Raw)

	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// selectorFromFlags requires exactly one of --css and --xpath.
func selectorFromFlags(cmd *cobra.Command) (query.Selector, error) {
	flags := cmd.Flags()
	cssSet, xpathSet := flags.Changed("css"), flags.Changed("xpath")
	switch {
	case cssSet && xpathSet:
		return query.Selector{}, fmt.Errorf("%w: --css and --xpath cannot be used together", errUsage)
	case cssSet:
		raw, _ := flags.GetString("css")
		return query.CSS(raw), nil
	case xpathSet:
		raw, _ := flags.GetString("xpath")
		return query.XPath(raw), nil
	default:
		return query.Selector{}, fmt.Errorf("%w: neither --css nor --xpath was given", errUsage)
	}
}

// sourceFromFlags picks --url, --file or stdin, in that order of exclusivity.
func sourceFromFlags(cmd *cobra.Command) (source.Source, error) {
	flags := cmd.Flags()
	formatFlag, _ := flags.GetString("format")
	format, err := source.ParseFormat(formatFlag)
	if err != nil {
		return source.Source{}, fmt.Errorf("%w: %w", errUsage, err)
	}

	var src source.Source
	urlSet, fileSet := flags.Changed("url"), flags.Changed("file")
	switch {
	case urlSet && fileSet:
		return src, fmt.Errorf("%w: --url and --file cannot be used together", errUsage)
	case urlSet:
		raw, _ := flags.GetString("url")
		src = source.URL(raw)
	case fileSet:
		path, _ := flags.GetString("file")
		src = source.File(path)
	default:
		src = source.Stdin()
	}
	src.Format = format
	return src, nil
}

func newLogger(w io.Writer, cfg config.Config, fallback slog.Level) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel, fallback)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(w, level, cfg.LogFile)
}

// bindFlags binds viper keys to the named flags. Unchanged flags fall back to
// the environment, config file and defaults.
func bindFlags(v *viper.Viper, lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, name := range keys {
		if f := lookup(name); f != nil {
			// BindPFlag only fails on a nil flag.
			_ = v.BindPFlag(key, f)
		}
	}
}
