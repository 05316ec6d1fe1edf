package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/service/messaging"
)

// Job is a unit of work executed by a worker.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
	done chan error
}

// Worker drains its channel and runs jobs one at a time until terminated.
type Worker struct {
	id       string
	channel  messaging.Queue[Job]
	logger   zerolog.Logger
	ctx      context.Context
	cancelFn context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// NewWorker starts a worker goroutine consuming channel.
func NewWorker(id string, channel messaging.Queue[Job], logger zerolog.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	ret := &Worker{id: id, channel: channel, logger: logger, ctx: ctx, cancelFn: cancel, done: make(chan struct{})}
	go ret.run()
	return ret
}

func (w *Worker) ID() string { return w.id }

func (w *Worker) run() {
	defer close(w.done)
	for {
		msg, err := w.channel.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, messaging.ErrClosed) {
				return
			}
			w.logger.Warn().Err(err).Str("worker", w.id).Msg("failed to consume job")
			continue
		}
		job := msg.T()
		jobErr := w.execute(job)
		if jobErr != nil {
			_ = msg.Nack(jobErr)
		} else {
			_ = msg.Ack()
		}
		if job.done != nil {
			job.done <- jobErr
		}
	}
}

func (w *Worker) execute(job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %v panicked: %v", job.Name, r)
		}
	}()
	if job.Run == nil {
		return nil
	}
	return job.Run(w.ctx)
}

// Submit publishes a job and waits for its result.
func (w *Worker) Submit(ctx context.Context, name string, run func(ctx context.Context) error) error {
	job := &Job{Name: name, Run: run, done: make(chan error, 1)}
	if err := w.channel.Publish(ctx, job); err != nil {
		return fmt.Errorf("failed to submit job %v to worker %v: %w", name, w.id, err)
	}
	select {
	case err := <-job.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return fmt.Errorf("worker %v terminated before job %v completed", w.id, name)
	}
}

// Terminate stops the worker, closes its channel and waits for the loop to exit.
func (w *Worker) Terminate() {
	w.once.Do(func() {
		w.cancelFn()
		_ = w.channel.Close()
		<-w.done
	})
}

// Terminated reports whether the worker loop has exited.
func (w *Worker) Terminated() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
