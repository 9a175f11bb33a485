package harness

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 64

// WorkerFunction is one unit of harness work: evaluate one task and
// report any unrecoverable error back to the supervising tomb.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool runs a fixed-size pool of goroutines against a closed
// batch of tasks, supervised by a tomb.Tomb. Adapted from the
// teacher's internal/worker.go: that pool re-spawned one goroutine per
// task and never closed its channel, so it could not express "run
// these N tasks and then stop" — the shape this harness needs to drain
// one regime grid per call. Here each worker loops pulling tasks until
// the channel closes or the tomb starts dying.
type WorkerPool struct {
	n     int
	tasks chan any
}

// NewWorkerPool creates a pool of n workers.
func NewWorkerPool(n int) *WorkerPool {
	if n < 1 {
		n = 1
	}
	return &WorkerPool{n: n, tasks: make(chan any, taskChanSize)}
}

// Run enqueues every task, starts n supervised workers under t, and
// closes the task channel once all tasks have been sent so workers can
// exit cleanly when the batch is drained. Does not block; call t.Wait()
// to join.
func (pool *WorkerPool) Run(t *tomb.Tomb, work WorkerFunction, tasks []any) {
	log.Info().Int("workers", pool.n).Int("tasks", len(tasks)).Msg("harness pool starting")

	t.Go(func() error {
		for _, task := range tasks {
			select {
			case pool.tasks <- task:
			case <-t.Dying():
				close(pool.tasks)
				return nil
			}
		}
		close(pool.tasks)
		return nil
	})

	for i := 0; i < pool.n; i++ {
		t.Go(func() error {
			return pool.worker(t, work)
		})
	}
}

func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task, ok := <-pool.tasks:
			if !ok {
				return nil
			}
			if err := work(t, task); err != nil {
				log.Error().Err(err).Msg("harness worker task failed")
				return err
			}
		}
	}
}
