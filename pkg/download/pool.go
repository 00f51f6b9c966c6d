package download

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glorpus-work/imgurdl/internal/logger"
)

// Pool is a fixed set of workers draining a WorkQueue.
//
// Each worker loops: take an entry, exit on a sentinel, otherwise fetch the item,
// report the Result and mark the item done. A failing or slow fetch only affects
// the worker running it.
type Pool struct {
	queue    *WorkQueue
	fetcher  Fetcher
	size     int
	onResult func(Result)
	fields   logger.Fields

	wg     sync.WaitGroup
	exited atomic.Int32
}

// NewPool creates a pool of size workers; sizes below 1 are raised to 1.
// onResult may be nil and is called from worker goroutines.
func NewPool(queue *WorkQueue, fetcher Fetcher, size int, onResult func(Result)) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		queue:    queue,
		fetcher:  fetcher,
		size:     size,
		onResult: onResult,
	}
}

// WithLogFields attaches fields (e.g. the batch id) to every log line of the pool.
func (p *Pool) WithLogFields(fields logger.Fields) *Pool {
	p.fields = fields
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Exited returns how many workers consumed a sentinel and returned.
func (p *Pool) Exited() int { return int(p.exited.Load()) }

// Start launches the workers. ctx is passed to every fetch.
func (p *Pool) Start(ctx context.Context) {
	for w := 0; w < p.size; w++ {
		p.wg.Add(1)
		go p.work(ctx, w)
	}
}

// Stop enqueues one sentinel per worker. Call it only after all real work was put.
func (p *Pool) Stop() {
	for w := 0; w < p.size; w++ {
		p.queue.PutSentinel()
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// StopAndJoin enqueues the sentinels and waits for all workers to exit.
func (p *Pool) StopAndJoin() {
	p.Stop()
	p.Wait()
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		item, ok := p.queue.Get()
		if !ok {
			p.exited.Add(1)
			logger.Debug("worker exiting", p.fields, logger.Fields{"worker": id})
			return
		}
		p.process(ctx, id, item)
	}
}

func (p *Pool) process(ctx context.Context, id int, item WorkItem) {
	defer p.queue.MarkDone()

	start := time.Now()
	n, err := p.safeFetch(ctx, item)
	res := Result{Item: item, Bytes: n, Duration: time.Since(start)}
	if err != nil {
		res.Err = asFetchError(item, err)
		logger.Error("download failed", p.fields, logger.Fields{
			"worker": id,
			"url":    item.SourceURL,
			"path":   item.DestinationPath,
			"error":  err.Error(),
		})
	} else {
		logger.Debug("downloaded", p.fields, logger.Fields{
			"worker": id,
			"url":    item.SourceURL,
			"path":   item.DestinationPath,
			"bytes":  n,
		})
	}

	if p.onResult != nil {
		p.onResult(res)
	}
}

// safeFetch turns a panicking fetcher into an ordinary item failure.
func (p *Pool) safeFetch(ctx context.Context, item WorkItem) (n int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("fetcher panicked: %v", r)
		}
	}()
	return p.fetcher.Fetch(ctx, item)
}
