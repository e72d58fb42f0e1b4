package enhance

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/nestudio/pkg/logger"
)

type debugRecorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *debugRecorder) Debug(_ context.Context, msg string, _ ...logger.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *debugRecorder) Info(context.Context, string, ...logger.Field) {}
func (r *debugRecorder) Warn(context.Context, string, ...logger.Field) {}
func (r *debugRecorder) Error(context.Context, string, ...logger.Field) {}
func (r *debugRecorder) Fatal(context.Context, string, ...logger.Field) {}
func (r *debugRecorder) Named(string) logger.Logger { return r }

func TestSetState(t *testing.T) {
	Convey("Given a loader with a recording logger", t, func() {
		rec := &debugRecorder{}
		l := NewLoader(nil, nil, WithLogger(rec))
		ctx := context.Background()

		Convey("When a known state is set", func() {
			l.setState(ctx, Failed, nil, ErrMissing)

			Convey("Then the gauge accepts it and nothing is logged", func() {
				So(l.Capability().State(), ShouldEqual, Failed)
				So(rec.msgs, ShouldBeEmpty)
			})
		})

		Convey("When the gauge rejects the state", func() {
			l.setState(ctx, State("warming"), nil, nil)

			Convey("Then the capability still moves and the rejection is logged at debug", func() {
				So(l.Capability().State(), ShouldEqual, State("warming"))
				So(rec.msgs, ShouldResemble, []string{"enhancement state not exported"})
			})
		})
	})
}
