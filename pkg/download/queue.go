package download

import "sync"

// entry is a queued WorkItem or, when stop is set, a sentinel.
type entry struct {
	item WorkItem
	stop bool
}

// WorkQueue is an unbounded FIFO shared by the batch producer and the pool workers.
//
// It tracks outstanding items: an item is outstanding from Put until the worker
// that dequeued it calls MarkDone. Join waits for that count to reach zero, which
// is stronger than waiting for the queue to be empty. Sentinels are never counted.
type WorkQueue struct {
	mu          sync.Mutex
	notEmpty    *sync.Cond
	drained     *sync.Cond
	entries     []entry
	outstanding int
}

// NewWorkQueue returns an empty queue.
func NewWorkQueue() *WorkQueue {
	q := &WorkQueue{}
	q.notEmpty = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Put appends item to the tail. It never blocks.
func (q *WorkQueue) Put(item WorkItem) {
	q.mu.Lock()
	q.entries = append(q.entries, entry{item: item})
	q.outstanding++
	q.mu.Unlock()
	q.notEmpty.Signal()
}

// PutSentinel appends a stop marker. The worker receiving it exits.
func (q *WorkQueue) PutSentinel() {
	q.mu.Lock()
	q.entries = append(q.entries, entry{stop: true})
	q.mu.Unlock()
	q.notEmpty.Signal()
}

// Get blocks until an entry is available and removes the head entry.
// ok is false when the entry is a sentinel.
func (q *WorkQueue) Get() (item WorkItem, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.entries) == 0 {
		q.notEmpty.Wait()
	}
	head := q.entries[0]
	q.entries[0] = entry{}
	q.entries = q.entries[1:]
	return head.item, !head.stop
}

// MarkDone records that one dequeued item is fully processed.
// It panics if called more often than Put, like sync.WaitGroup does.
func (q *WorkQueue) MarkDone() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.outstanding <= 0 {
		panic("download: MarkDone called more times than Put")
	}
	q.outstanding--
	if q.outstanding == 0 {
		q.drained.Broadcast()
	}
}

// Join blocks until every item put so far has been marked done.
func (q *WorkQueue) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.outstanding > 0 {
		q.drained.Wait()
	}
}

// Len returns the number of queued entries, sentinels included.
func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Outstanding returns the number of items put but not yet marked done.
func (q *WorkQueue) Outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}
