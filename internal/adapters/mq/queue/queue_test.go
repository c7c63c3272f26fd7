package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func reg(handle string) Registration {
	return Registration{Handle: handle, BaseScore: 75.0}
}

func TestInMemoryQueueEnqueueDequeue(t *testing.T) {
	Convey("Given a small in-memory queue", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(2), WithBufferSize(2))
		defer q.Close()

		Convey("Enqueue succeeds while under capacity", func() {
			So(q.Enqueue(ctx, reg("ada")), ShouldBeTrue)
			So(q.Enqueue(ctx, reg("bob")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)
		})

		Convey("Enqueue sheds load at capacity", func() {
			So(q.Enqueue(ctx, reg("ada")), ShouldBeTrue)
			So(q.Enqueue(ctx, reg("bob")), ShouldBeTrue)
			So(q.Enqueue(ctx, reg("carol")), ShouldBeFalse)
		})

		Convey("Dequeue delivers registrations in FIFO order", func() {
			So(q.Enqueue(ctx, reg("ada")), ShouldBeTrue)
			So(q.Enqueue(ctx, reg("bob")), ShouldBeTrue)

			out := q.Dequeue(ctx)
			first := <-out
			second := <-out
			So(first.Handle, ShouldEqual, "ada")
			So(second.Handle, ShouldEqual, "bob")
		})
	})
}

func TestInMemoryQueueClose(t *testing.T) {
	Convey("Given a queue that is closed", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(10), WithBufferSize(10))

		So(q.Enqueue(ctx, reg("ada")), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		Convey("Close is idempotent", func() {
			So(q.Close(), ShouldBeNil)
			So(q.IsClosed(), ShouldBeTrue)
		})

		Convey("Enqueue after close is rejected", func() {
			So(q.Enqueue(ctx, reg("bob")), ShouldBeFalse)
		})

		Convey("Dequeue drains buffered registrations then closes", func() {
			out := q.Dequeue(ctx)
			r, ok := <-out
			So(ok, ShouldBeTrue)
			So(r.Handle, ShouldEqual, "ada")

			select {
			case _, ok := <-out:
				So(ok, ShouldBeFalse)
			case <-time.After(time.Second):
				t.Fatal("dequeue channel did not close")
			}
		})
	})
}

func TestInMemoryQueueDequeueCancel(t *testing.T) {
	Convey("Given a consumer whose context is canceled mid-handoff", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(10), WithBufferSize(10))
		defer q.Close()

		So(q.Enqueue(ctx, reg("ada")), ShouldBeTrue)

		dequeueCtx, cancel := context.WithCancel(ctx)
		out := q.Dequeue(dequeueCtx)

		// Wait for the wrapper goroutine to pull the registration off the
		// buffer; it now blocks offering it on out.
		for i := 0; i < 200 && q.Len(ctx) != 0; i++ {
			time.Sleep(5 * time.Millisecond)
		}
		So(q.Len(ctx), ShouldEqual, 0)

		cancel()

		Convey("The in-flight registration is re-enqueued, not lost", func() {
			for i := 0; i < 200 && q.Len(ctx) != 1; i++ {
				time.Sleep(5 * time.Millisecond)
			}
			So(q.Len(ctx), ShouldEqual, 1)

			select {
			case _, ok := <-out:
				So(ok, ShouldBeFalse)
			case <-time.After(time.Second):
				t.Fatal("dequeue channel did not close")
			}

			r := <-q.Dequeue(ctx)
			So(r.Handle, ShouldEqual, "ada")
		})
	})
}

func TestInMemoryQueueConcurrentEnqueue(t *testing.T) {
	Convey("Concurrent producers all land in the queue", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(1000), WithBufferSize(1000))
		defer q.Close()

		done := make(chan struct{})
		for p := 0; p < 4; p++ {
			go func(p int) {
				for i := 0; i < 50; i++ {
					q.Enqueue(ctx, reg(fmt.Sprintf("cand-%d-%d", p, i)))
				}
				done <- struct{}{}
			}(p)
		}
		for p := 0; p < 4; p++ {
			<-done
		}

		So(q.Len(ctx), ShouldEqual, 200)
	})
}
