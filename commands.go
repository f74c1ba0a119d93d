package main

import (
	"fmt"
	"io"
	"os"

	"github.com/motherofdaemons/obis-demystifier/obis"
	"github.com/motherofdaemons/obis-demystifier/search"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	verbose    bool

	cfg *config
	log logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "obis-demystifier",
		Short: "Convert, validate and look up OBIS codes",
		Long: "obis-demystifier parses OBIS codes in their hex (0100010800FF) or\n" +
			"decimal (1-0:1.8.0*255) notation and prints them in either form.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config `file`")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.newConvertCommand("hex", "Convert an obis code to hex", obis.Hex),
		a.newConvertCommand("dec", "Convert an obis code to decimal", obis.Decimal),
		a.newSearchCommand(),
		a.newScanCommand(),
	)

	return root
}

func (a *app) init(logOutput io.Writer) error {
	cfg, err := loadConfig(a.configPath)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.logLevel()

	if a.verbose {
		level = logrus.DebugLevel
	}

	a.cfg = cfg
	a.log = newLogger(logOutput, level)

	return nil
}

func (a *app) newConvertCommand(name string, short string, style obis.Style) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <code>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.OutOrStdout(), args[0], style)
		},
	}
}

func (a *app) convert(out io.Writer, arg string, style obis.Style) error {
	code, err := obis.Parse(arg)

	if err != nil {
		return err
	}

	a.log.Debugf("parsed %q as %s code %s", arg, code.Style(), code)

	if style == obis.Hex {
		code.ConvertToHex()
	} else {
		code.ConvertToDec()
	}

	_, err = fmt.Fprintln(out, code)
	return err
}

func (a *app) newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <code> <file>",
		Short: "Search a xml file for an obis code and print its information",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.search(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func (a *app) search(out io.Writer, arg string, path string) error {
	code, err := obis.Parse(arg)

	if err != nil {
		return err
	}

	f, err := os.Open(path)

	if err != nil {
		return err
	}

	defer f.Close()

	log := a.log.newSubLogger("search")
	log.Debugf("searching %s for %s", path, code)

	matches, err := search.Search(f, code, search.Options{
		Keys:            a.cfg.Search.Keys,
		DescriptionKeys: a.cfg.Search.DescriptionKeys,
		Debugf:          log.Debugf,
	})

	if err != nil {
		return fmt.Errorf("failed to search %s: %w", path, err)
	}

	if len(matches) == 0 {
		return fmt.Errorf("obis code %s not found in %s", code, path)
	}

	for _, m := range matches {
		_, err = fmt.Fprintf(out, "%d\t%s\t%s\n", m.Line, m.Path, m.Description)

		if err != nil {
			return err
		}
	}

	return nil
}

func (a *app) newScanCommand() *cobra.Command {
	var style string
	var latest bool

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "List the obis codes and values of a binary SML capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if style == "" {
				style = a.cfg.Scan.Style
			}

			s, err := parseStyle(style)

			if err != nil {
				return err
			}

			return a.scan(cmd.OutOrStdout(), args[0], s, latest)
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "render codes as hex or dec (default from config)")
	cmd.Flags().BoolVar(&latest, "latest", false, "only print the last value of every code")

	return cmd
}
