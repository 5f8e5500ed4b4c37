package worker_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/mq/queue"
	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/mq/worker"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// countingProcessor records every processed call ID.
type countingProcessor struct {
	mu      sync.Mutex
	callIDs []string
	fail    atomic.Bool
}

func (p *countingProcessor) ProcessCall(_ context.Context, event worker.Event) error {
	p.mu.Lock()
	p.callIDs = append(p.callIDs, event.CallID)
	p.mu.Unlock()
	if p.fail.Load() {
		return errors.New("scoring failed")
	}
	return nil
}

func (p *countingProcessor) processed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.callIDs)
}

func waitForProcessed(p *countingProcessor, want int) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if p.processed() >= want {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

func TestPoolProcessesQueue(t *testing.T) {
	Convey("Given a pool consuming an in-memory queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		processor := &countingProcessor{}
		pool := worker.NewPool(4, q, processor)
		pool.Start(ctx)

		Convey("When events are enqueued", func() {
			for i := 0; i < 20; i++ {
				So(q.Enqueue(ctx, worker.Event{CallID: fmt.Sprintf("call-%d", i), AgentID: "agent-001"}), ShouldBeTrue)
			}

			Convey("Then every event is processed exactly once", func() {
				So(waitForProcessed(processor, 20), ShouldBeTrue)
				So(pool.Shutdown(ctx), ShouldBeNil)

				processor.mu.Lock()
				seen := make(map[string]int, len(processor.callIDs))
				for _, id := range processor.callIDs {
					seen[id]++
				}
				processor.mu.Unlock()

				So(seen, ShouldHaveLength, 20)
				for _, count := range seen {
					So(count, ShouldEqual, 1)
				}
			})
		})

		Convey("When processing fails", func() {
			processor.fail.Store(true)
			So(q.Enqueue(ctx, worker.Event{CallID: "call-bad", AgentID: "agent-001"}), ShouldBeTrue)

			Convey("Then the worker keeps consuming later events", func() {
				So(waitForProcessed(processor, 1), ShouldBeTrue)
				processor.fail.Store(false)
				So(q.Enqueue(ctx, worker.Event{CallID: "call-good", AgentID: "agent-001"}), ShouldBeTrue)
				So(waitForProcessed(processor, 2), ShouldBeTrue)
				So(pool.Shutdown(ctx), ShouldBeNil)
			})
		})
	})
}

func TestPoolShutdownDrains(t *testing.T) {
	Convey("Given a pool with queued work at shutdown", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		processor := &countingProcessor{}
		pool := worker.NewPool(2, q, processor)

		for i := 0; i < 10; i++ {
			So(q.Enqueue(ctx, worker.Event{CallID: fmt.Sprintf("call-%d", i)}), ShouldBeTrue)
		}
		pool.Start(ctx)

		Convey("When the pool shuts down", func() {
			So(pool.Shutdown(ctx), ShouldBeNil)

			Convey("Then the queued events were drained first", func() {
				So(processor.processed(), ShouldEqual, 10)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	Convey("Given a single running worker", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		processor := &countingProcessor{}
		w := worker.NewWorker(q, processor, worker.WithName("worker-test"))
		go w.Run(ctx)

		So(q.Enqueue(ctx, worker.Event{CallID: "call-1"}), ShouldBeTrue)
		So(waitForProcessed(processor, 1), ShouldBeTrue)

		Convey("When the worker is shut down", func() {
			So(w.Shutdown(ctx), ShouldBeNil)
		})
	})
}
