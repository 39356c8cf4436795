package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neuroml/gonml/internal/idgen"
	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/progress"
	"github.com/neuroml/gonml/service/dao"
	"github.com/neuroml/gonml/service/messaging/memory"
)

// Launch errors such as a broken session are retried before the run counts
// as failed; a non-zero simulator exit is final and never retried.
const (
	batchMaxRetries = 2
	batchRetryDelay = 50 * time.Millisecond
)

// BatchRequest launches the same engine over a set of LEMS files with a
// bounded worker pool.
type BatchRequest struct {
	SourceURLs []string          `json:"sourceURLs"`
	Engine     string            `json:"engine"`
	Args       []string          `json:"args,omitempty"`
	Host       *Host             `json:"host,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
	TimeoutMs  int               `json:"timeoutMs,omitempty"`
	Workers    int               `json:"workers,omitempty"`
}

// Init applies defaults.
func (b *BatchRequest) Init() {
	if b.Workers <= 0 {
		b.Workers = 4
	}
	if b.Workers > len(b.SourceURLs) && len(b.SourceURLs) > 0 {
		b.Workers = len(b.SourceURLs)
	}
}

// BatchResult aggregates the run records of a batch.
type BatchResult struct {
	BatchID   string     `json:"batchID"`
	Runs      []*run.Run `json:"runs"`
	Completed int        `json:"completed"`
	Failed    int        `json:"failed"`
	Denied    int        `json:"denied"`
}

// RunBatch fans the requests out over a message queue consumed by worker
// goroutines. Run records are stored when a store is supplied; batch
// progress is tracked via the context tracker when present.
func (r *Runner) RunBatch(ctx context.Context, request *BatchRequest, store dao.Service[string, run.Run]) (*BatchResult, error) {
	request.Init()
	result := &BatchResult{BatchID: idgen.New()}
	if len(request.SourceURLs) == 0 {
		return result, nil
	}

	tracker, _ := progress.FromContext(ctx)
	tracker.Update(progress.Delta{Total: len(request.SourceURLs), Pending: len(request.SourceURLs)})

	queue := memory.NewQueue[Request](memory.Config{
		QueueBuffer: len(request.SourceURLs),
		MaxRetries:  batchMaxRetries,
		RetryDelay:  batchRetryDelay,
	})
	for _, sourceURL := range request.SourceURLs {
		item := &Request{
			SourceURL: sourceURL,
			Engine:    request.Engine,
			Args:      request.Args,
			Host:      request.Host,
			Env:       request.Env,
			TimeoutMs: request.TimeoutMs,
		}
		if err := queue.Publish(ctx, item); err != nil {
			return nil, err
		}
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := int64(len(request.SourceURLs))
	var mux sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < request.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				message, err := queue.Consume(workerCtx)
				if err != nil {
					return
				}
				item := message.T()
				tracker.Update(progress.Delta{Running: 1, Pending: -1})
				record, err := r.Run(ctx, item)
				if err != nil {
					if attempt, ok := message.(*memory.Message[Request]); ok && attempt.Retries() < batchMaxRetries {
						tracker.Update(progress.Delta{Running: -1, Pending: 1})
						_ = message.Nack(err)
						continue
					}
					record = &run.Run{
						ID:        idgen.New(),
						Engine:    item.Engine,
						SourceURL: item.SourceURL,
						State:     run.StateFailed,
						Error:     err.Error(),
					}
				}
				if store != nil {
					_ = store.Save(ctx, record)
				}

				mux.Lock()
				result.Runs = append(result.Runs, record)
				switch record.State {
				case run.StateCompleted:
					result.Completed++
				case run.StateDenied:
					result.Denied++
				default:
					result.Failed++
				}
				mux.Unlock()

				delta := progress.Delta{Running: -1}
				if record.State == run.StateCompleted {
					delta.Completed = 1
				} else {
					delta.Failed = 1
				}
				tracker.Update(delta)

				_ = message.Ack()
				if atomic.AddInt64(&pending, -1) == 0 {
					cancel()
					return
				}
			}
		}()
	}
	wg.Wait()
	return result, nil
}
