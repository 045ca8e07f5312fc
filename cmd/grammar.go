package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/coda/extract"
	"github.com/gnolang/coda/grammar"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Print the compiled transition table of the configured grammar",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := extract.LoadConfigOrDefault(cfgFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		if err := runGrammar(config, os.Stdout); err != nil {
			logger.Error("Error compiling grammar", zap.Error(err))
			os.Exit(1)
		}
	},
}

func runGrammar(config extract.Config, w io.Writer) error {
	for _, rule := range config.Grammar {
		if _, err := fmt.Fprintf(w, "# %s: %s\n", rule.Name, rule.Expr); err != nil {
			return err
		}
	}
	table, err := grammar.Compile(config.Grammar...)
	if err != nil {
		return err
	}
	return table.WritePretty(w)
}
