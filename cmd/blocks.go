package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/coda/extract"
	"github.com/gnolang/coda/formatter"
	tt "github.com/gnolang/coda/internal/types"
)

var (
	kinds       string
	ignorePaths string
	jsonOutput  bool
	outPath     string
	cacheDir    string
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [paths...]",
	Short: "Extract annotation blocks from files and directories",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, _, err := extract.NewFromFile(cfgFile, applyFlags)
		if err != nil {
			logger.Fatal("Failed to initialize extraction engine", zap.Error(err))
		}

		if err := runBlocks(ctx, logger, engine, args, os.Stdout, jsonOutput, outPath); err != nil {
			logger.Error("Error extracting blocks", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	blocksCmd.Flags().StringVar(&kinds, "kind", "", "Comma-separated list of fragment kinds to report, \"all\" for every kind")
	blocksCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	blocksCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output blocks in JSON format")
	blocksCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	blocksCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory of the extraction cache")
}

// applyFlags lets the command line override the configuration file.
func applyFlags(config *extract.Config) {
	if kinds != "" {
		config.Kinds = splitList(kinds)
		if len(config.Kinds) == 1 && config.Kinds[0] == "all" {
			config.Kinds = nil
		}
	}
	config.IgnorePaths = append(config.IgnorePaths, splitList(ignorePaths)...)
	if cacheDir != "" {
		config.CacheDir = cacheDir
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runBlocks(
	ctx context.Context,
	logger *zap.Logger,
	engine extract.BlockEngine,
	paths []string,
	w io.Writer,
	isJSON bool,
	jsonOutput string,
) error {
	blocks, err := extract.ProcessFiles(ctx, logger, engine, paths, extract.ProcessFile)
	if err != nil {
		return err
	}
	return printBlocks(w, blocks, isJSON, jsonOutput)
}

func printBlocks(w io.Writer, blocks []tt.Block, isJSON bool, jsonOutput string) error {
	blocksByFile := make(map[string][]tt.Block)
	for _, block := range blocks {
		blocksByFile[block.Filename] = append(blocksByFile[block.Filename], block)
	}

	if isJSON {
		d, err := json.MarshalIndent(blocksByFile, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshalling blocks to JSON: %w", err)
		}
		if jsonOutput == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	sortedFiles := make([]string, 0, len(blocksByFile))
	for filename := range blocksByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		if _, err := io.WriteString(w, formatter.GenerateFormattedBlocks(blocksByFile[filename])); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, formatter.GenerateSummary(blocks))
	return err
}
