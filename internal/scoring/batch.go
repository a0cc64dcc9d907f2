package scoring

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/fitmatch/internal/profile"
)

const defaultChunkSize = 256

type BatchOptions struct {
	// Workers bounds the number of goroutines scoring startups. Defaults to
	// GOMAXPROCS.
	Workers int
	// ChunkSize is the maximum number of pairs handed to emit at once.
	ChunkSize int
}

func (o BatchOptions) withDefaults() BatchOptions {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	return o
}

// Batch scores every startup against every investor. Startups are sharded
// across workers and results reach emit in chunks, always from the calling
// goroutine, so the full cross product is never held in memory. An emit
// error or a cancelled ctx stops the batch. Chunk order is not deterministic.
func (e *Engine) Batch(ctx context.Context, startups []profile.StartupProfile, investors []profile.InvestorProfile, opts BatchOptions, emit func([]Pair) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(startups) == 0 || len(investors) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	chunks := make(chan []Pair, opts.Workers)

	g.Go(func() error {
		defer close(jobs)
		for i := range startups {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			return e.scoreShard(gctx, startups, investors, opts.ChunkSize, jobs, chunks)
		})
	}

	go func() {
		workers.Wait()
		close(chunks)
	}()

	var emitErr error
	for chunk := range chunks {
		if emitErr != nil {
			continue
		}
		if err := emit(chunk); err != nil {
			emitErr = err
			cancel()
		}
	}

	err := g.Wait()
	if emitErr != nil {
		return emitErr
	}
	return err
}

func (e *Engine) scoreShard(ctx context.Context, startups []profile.StartupProfile, investors []profile.InvestorProfile, size int, jobs <-chan int, out chan<- []Pair) error {
	send := func(chunk []Pair) error {
		select {
		case out <- chunk:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	chunk := make([]Pair, 0, size)
	for si := range jobs {
		for ii := range investors {
			chunk = append(chunk, Pair{
				StartupIndex:  si,
				InvestorIndex: ii,
				Result:        e.Score(startups[si], investors[ii]),
			})
			if len(chunk) == size {
				if err := send(chunk); err != nil {
					return err
				}
				chunk = make([]Pair, 0, size)
			}
		}
	}

	if len(chunk) > 0 {
		return send(chunk)
	}
	return ctx.Err()
}
