package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/nestudio/internal/adapters/mq/worker"
	model "github.com/okian/nestudio/internal/domain/model"
	logging "github.com/okian/nestudio/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan model.QRJob
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan model.QRJob, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.QRJob { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockFetcher struct {
	mu     sync.Mutex
	fail   map[string]error
	called []string
}

func newMockFetcher() *mockFetcher { return &mockFetcher{fail: map[string]error{}} }

func (mf *mockFetcher) Fetch(_ context.Context, data string, _ int) (model.Image, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	mf.called = append(mf.called, data)
	if err, ok := mf.fail[data]; ok {
		return model.Image{}, err
	}
	return model.Image{ContentType: "image/png", Body: []byte("png:" + data)}, nil
}

type mockCache struct {
	mu    sync.Mutex
	items map[string]model.Image
}

func newMockCache() *mockCache { return &mockCache{items: map[string]model.Image{}} }

func (mc *mockCache) Add(key string, img model.Image) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.items[key] = img
}

func (mc *mockCache) get(key string) (model.Image, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	img, ok := mc.items[key]
	return img, ok
}

type mockReleaser struct {
	mu       sync.Mutex
	released []string
}

func (mr *mockReleaser) Unrecord(_ context.Context, key string) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.released = append(mr.released, key)
}

func (mr *mockReleaser) keys() []string {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return append([]string(nil), mr.released...)
}

func TestWorker(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a worker over a mock queue", t, func() {
		q := newMockQueue()
		fetcher := newMockFetcher()
		cache := newMockCache()
		releaser := &mockReleaser{}
		w := worker.NewInMemoryWorker(q, fetcher, cache,
			worker.WithName("test-worker"),
			worker.WithLogger(logging.Get()),
			worker.WithReleaser(releaser),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job succeeds", func() {
			job := model.QRJob{Data: "/cases/case-1.pdf", Size: 96}
			q.jobs <- job

			convey.Convey("Then the image is cached under the job key", func() {
				convey.So(waitFor(func() bool { _, ok := cache.get(job.Key()); return ok }), convey.ShouldBeTrue)
				img, _ := cache.get(job.Key())
				convey.So(string(img.Body), convey.ShouldEqual, "png:/cases/case-1.pdf")
				convey.So(releaser.keys(), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a job fails", func() {
			job := model.QRJob{Data: "mailto:x@y.z", Size: 108}
			fetcher.mu.Lock()
			fetcher.fail[job.Data] = errors.New("status 503")
			fetcher.mu.Unlock()
			q.jobs <- job

			convey.Convey("Then the key is released and nothing is cached", func() {
				convey.So(waitFor(func() bool { return len(releaser.keys()) == 1 }), convey.ShouldBeTrue)
				convey.So(releaser.keys()[0], convey.ShouldEqual, job.Key())
				_, ok := cache.get(job.Key())
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the worker is shut down", func() {
			err := w.Shutdown(context.Background())

			convey.Convey("Then it stops cleanly and a second shutdown is safe", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a pool of three workers", t, func() {
		q := newMockQueue()
		fetcher := newMockFetcher()
		cache := newMockCache()
		pool := worker.NewPool(3, q, fetcher, cache)

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When jobs arrive", func() {
			jobs := []model.QRJob{{Data: "a", Size: 96}, {Data: "b", Size: 96}, {Data: "c", Size: 80}}
			for _, j := range jobs {
				q.jobs <- j
			}

			convey.Convey("Then all of them are cached", func() {
				convey.So(waitFor(func() bool {
					for _, j := range jobs {
						if _, ok := cache.get(j.Key()); !ok {
							return false
						}
					}
					return true
				}), convey.ShouldBeTrue)
			})

			convey.Convey("Then shutdown closes the queue and stops every worker", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				pool.Wait()
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		pool := worker.NewPool(0, newMockQueue(), newMockFetcher(), newMockCache())

		convey.So(pool.Size(), convey.ShouldEqual, 2)
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
