// Package driver is the ambient layer around the compiler core: file and
// directory discovery, output naming, concurrent per-class compilation,
// and structured logging. None of it is part of the Jack-to-VM grammar
// itself; it is the external driver that turns the single-class compiler
// into a command-line tool.
package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/libklein/jackc/internal/compiler"
	"github.com/libklein/jackc/internal/token"
	"github.com/libklein/jackc/internal/vmcode"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sourceExt = ".jack"

// Options configures a compile run.
type Options struct {
	// Jobs bounds the number of classes compiled concurrently. Zero means
	// "no explicit bound" (errgroup.SetLimit is skipped).
	Jobs int
	// OutDir, if non-empty, redirects every output file into this
	// directory instead of writing beside its source file.
	OutDir string
}

// CollectSources resolves path to the list of .jack files to compile: path
// itself if it names a file, or every *.jack file directly inside it (not
// recursively) if it names a directory.
func CollectSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &compiler.IOError{Cause: errors.Wrapf(err, "cannot stat %q", path)}
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, &compiler.IOError{Cause: errors.Wrapf(err, "cannot read directory %q", path)}
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), sourceExt) {
			sources = append(sources, filepath.Join(path, entry.Name()))
		}
	}
	return sources, nil
}

// OutputPath returns the sibling .vm path for a .jack source, honoring an
// optional override directory.
func OutputPath(source string, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".vm"
	dir := filepath.Dir(source)
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, base)
}

// CompileFile compiles one .jack file to its VM output. Output is staged
// in a temporary file in the destination directory and renamed into place
// only on success, so a failed compile never leaves a truncated or
// partial .vm file next to its source.
func CompileFile(source, outPath string) (err error) {
	in, err := os.Open(source)
	if err != nil {
		return &compiler.IOError{Cause: errors.Wrapf(err, "opening %q", source)}
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outPath), filepath.Base(outPath)+".tmp-*")
	if err != nil {
		return &compiler.IOError{Cause: errors.Wrapf(err, "creating staging file for %q", outPath)}
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	tz := token.New(in)
	vw := vmcode.New(tmp)
	comp := compiler.New(tz, vw, vmcode.NewRandomLabelMaker())

	if compileErr := comp.Compile(); compileErr != nil {
		return errors.Wrapf(compileErr, "compiling %q", source)
	}
	if flushErr := vw.Flush(); flushErr != nil {
		return &compiler.IOError{Cause: errors.Wrapf(flushErr, "flushing %q", outPath)}
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return &compiler.IOError{Cause: errors.Wrapf(closeErr, "closing staging file for %q", outPath)}
	}
	if renameErr := os.Rename(tmpPath, outPath); renameErr != nil {
		return &compiler.IOError{Cause: errors.Wrapf(renameErr, "renaming staging file into %q", outPath)}
	}
	return nil
}

// CompileAll compiles every source under path. Independent classes share
// no mutable state, so they compile concurrently; the first fatal error
// cancels the remaining work, but files already written successfully are
// left in place.
func CompileAll(ctx context.Context, path string, opts Options, log *zap.SugaredLogger) error {
	sources, err := CollectSources(path)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		log.Warnw("no .jack sources found", "path", path)
		return nil
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return &compiler.IOError{Cause: errors.Wrapf(err, "creating output directory %q", opts.OutDir)}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}

	for _, src := range sources {
		src := src
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out := OutputPath(src, opts.OutDir)
			log.Infow("compiling", "source", src, "output", out)
			if compErr := CompileFile(src, out); compErr != nil {
				log.Errorw("compile failed", "source", src, "error", compErr)
				return compErr
			}
			log.Infow("compiled", "source", src, "output", out)
			return nil
		})
	}

	return g.Wait()
}
