package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/coda/internal"
	tt "github.com/gnolang/coda/internal/types"
	"github.com/gnolang/coda/scanner"
)

// BlockEngine is the part of the engine the processing functions use.
type BlockEngine interface {
	Run(filePath string) ([]tt.Block, error)
	RunSource(filename string, source []byte) ([]tt.Block, error)
	Supports(filename string) bool
	IgnorePath(pattern string)
}

// Source is an in-memory file.
type Source struct {
	Filename string
	Content  []byte
}

// ProgressOutput receives the progress bar of ProcessPath. Set it to
// io.Discard to hide it.
var ProgressOutput io.Writer = os.Stderr

// New builds the engine described by config.
func New(config Config) (*internal.Engine, error) {
	config = config.withDefaults()
	engine, err := internal.NewEngine(config.Languages, config.Grammar, config.CacheDir)
	if err != nil {
		return nil, err
	}
	engine.KeepKinds(config.Kinds...)
	for _, pattern := range config.IgnorePaths {
		engine.IgnorePath(pattern)
	}
	return engine, nil
}

// NewFromFile loads the configuration at configPath, lets overrides
// adjust it, and builds its engine.
func NewFromFile(configPath string, overrides ...func(*Config)) (*internal.Engine, Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config, err := LoadConfigOrDefault(configPath)
	if err != nil {
		return nil, config, err
	}
	for _, override := range overrides {
		override(&config)
	}
	engine, err := New(config)
	return engine, config, err
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine BlockEngine,
	sources []Source,
	processor func(BlockEngine, Source) ([]tt.Block, error),
) ([]tt.Block, error) {
	var allBlocks []tt.Block
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allBlocks, err
		}
		blocks, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.String("filename", source.Filename), zap.Error(err))
			}
			return nil, err
		}
		allBlocks = append(allBlocks, blocks...)
	}

	return allBlocks, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine BlockEngine,
	paths []string,
	processor func(BlockEngine, string) ([]tt.Block, error),
) ([]tt.Block, error) {
	var allBlocks []tt.Block
	for _, path := range paths {
		blocks, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allBlocks, err
		}
		allBlocks = append(allBlocks, blocks...)
	}

	return allBlocks, nil
}

// ProcessPath extracts a file, or every supported file of a directory
// tree using one worker per CPU. A file that fails is logged and skipped.
// Results keep the order of the file paths. On cancellation the blocks of
// the files done so far are returned with the context error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine BlockEngine,
	path string,
	processor func(BlockEngine, string) ([]tt.Block, error),
) ([]tt.Block, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !engine.Supports(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	scanned, err := scanner.New(path).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}
	var files []string
	for _, f := range scanned {
		if engine.Supports(f.Path) {
			files = append(files, f.Path)
		}
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	results := make([][]tt.Block, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for i, fp := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer bar.Add(1)
			if ctx.Err() != nil {
				return nil
			}

			fileBlocks, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				return nil
			}
			results[i] = fileBlocks
			return nil
		})
	}
	_ = g.Wait() // workers never fail, errors are logged
	_ = bar.Finish()

	var blocks []tt.Block
	for _, r := range results {
		blocks = append(blocks, r...)
	}
	if err := ctx.Err(); err != nil {
		return blocks, err
	}
	return blocks, nil
}

func ProcessFile(engine BlockEngine, filePath string) ([]tt.Block, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine BlockEngine, source Source) ([]tt.Block, error) {
	return engine.RunSource(source.Filename, source.Content)
}
