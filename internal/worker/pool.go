// Package worker runs background jobs for the interview service: summary
// persistence and event publishing happen off the request path so ending a
// session responds immediately.
package worker

import "sync"

type Job[T any] func() T

type Result[T any] struct {
	JobID  string
	Output T
}

type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
	once    sync.Once
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output := job.fn()
		p.results <- Result[T]{
			JobID:  job.id,
			Output: output,
		}
	}
}

func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops accepting jobs and waits for in-flight work to finish, then
// closes the results channel. Safe to call more than once.
func (p *Pool[T]) Close() {
	p.once.Do(func() {
		close(p.jobs)
		p.wg.Wait()
		close(p.results)
	})
}
