package graybmp

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultWorkers is the number of files decoded concurrently by Index when
// no other value is given.
const DefaultWorkers = 10

func (g *GrayBMP) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(file), ".bmp") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (g *GrayBMP) fileWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			h := sha1.New()
			m, err := load(file, h)
			switch KindOf(err) {
			case KindNone:
			case KindNotBitmap, KindUnsupported, KindMalformed:
				g.logger.Printf("Skipping \"%s\": %s\n", file, KindOf(err))
				continue
			default:
				errc <- err
				return
			}

			err = g.db.Add(file, fmt.Sprintf("%X", h.Sum(nil)), m)
			Release(m)
			if err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Index walks the directory tree at path, loads every file with a .bmp
// extension using the given number of workers and records each one in the
// catalog. Files that are not bitmaps or that cannot be decoded are logged
// and skipped; any other error stops the walk.
func (g *GrayBMP) Index(path string, workers int) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if workers < 1 {
		workers = DefaultWorkers
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := g.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := g.fileWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
