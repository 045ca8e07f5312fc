// Package internal provides the engine behind the coda command.
//
// Engine: picks an annotation extractor by file extension, filters the
// resulting blocks by kind and consults the Cache when one is configured.
//
// Cache: stores the blocks of each file on disk, invalidated by content
// hash, modification time, age and configuration changes.
//
// Watcher: extracts files again when they change on disk.
//
// Usage:
//
//	engine, err := internal.NewEngine(annotate.Builtin, nil, "")
//	if err != nil {
//	    // handle error
//	}
//	engine.KeepKinds(annotate.BlockRule)
//
//	blocks, err := engine.Run("path/to/file.py")
//	if err != nil {
//	    // handle error
//	}
//	for _, b := range blocks {
//	    fmt.Printf("%s: %s\n", b.Start, b.Meta)
//	}
//
// This package is intended for internal use within coda and should not be
// imported by external packages.
package internal
