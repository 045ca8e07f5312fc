package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/coda/extract"
	"github.com/gnolang/coda/internal"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the atoms the tokenizer produces for a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := extract.NewFromFile(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize extraction engine", zap.Error(err))
		}
		if err := runTokens(engine, args[0], os.Stdout); err != nil {
			logger.Error("Error tokenizing file", zap.String("file", args[0]), zap.Error(err))
			os.Exit(1)
		}
	},
}

func runTokens(engine *internal.Engine, filename string, w io.Writer) error {
	ex, ok := engine.Extractor(filename)
	if !ok {
		return fmt.Errorf("%w: %s", internal.ErrUnsupportedFile, filename)
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	for atom := range ex.Tokenizer().Scan(string(source)) {
		if _, err := fmt.Fprintln(w, atom); err != nil {
			return err
		}
	}
	return nil
}
