package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notcome/lmtabstack/internal/values"
)

type call struct {
	op       string
	keyPath  string
	from, to float64
	timing   Timing
	velocity *float64
}

type recordingBackend struct {
	calls []call
}

func (b *recordingBackend) SetConstant(kp string, v float64) {
	b.calls = append(b.calls, call{op: "set", keyPath: kp, to: v})
}

func (b *recordingBackend) Animate(kp string, from, to float64, t Timing, v *float64) {
	b.calls = append(b.calls, call{op: "animate", keyPath: kp, from: from, to: to, timing: t, velocity: v})
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTrackerVelocity(t *testing.T) {
	t.Parallel()

	base := time.Unix(0, 0)
	tr := NewTracker(DefaultSampleInterval)
	_, ok := tr.Velocity()
	require.False(t, ok)

	tr.Add(base, 0)
	tr.Add(base.Add(10*time.Millisecond), 5)
	v, ok := tr.Velocity()
	require.True(t, ok)
	require.InDelta(t, 500, v, 1e-9)

	tr.Add(base.Add(20*time.Millisecond), 5)
	v, _ = tr.Velocity()
	require.InDelta(t, 0, v, 1e-9)
}

func TestTrackerDebouncesCloseSamples(t *testing.T) {
	t.Parallel()

	base := time.Unix(0, 0)
	tr := NewTracker(time.Millisecond)
	tr.Add(base, 0)
	tr.Add(base.Add(10*time.Millisecond), 10)
	// within the interval: replaces the newest sample rather than shifting
	tr.Add(base.Add(10*time.Millisecond+100*time.Microsecond), 20)
	v, ok := tr.Velocity()
	require.True(t, ok)
	require.InDelta(t, 20/0.0101, v, 1e-6)

	tr.Reset()
	_, ok = tr.Velocity()
	require.False(t, ok)
}

func TestAdapterSetsConstantsAndSkipsNoOps(t *testing.T) {
	t.Parallel()

	b := &recordingBackend{}
	a := NewAdapter(b)
	vs := values.Make(values.With(values.OffsetX, 10.0), values.With(values.Opacity, 1.0))

	a.Apply("page:a/content", vs, nil, false)
	require.Len(t, b.calls, 2)
	require.Equal(t, "page:a/content.offsetX", b.calls[0].keyPath)
	require.Equal(t, "page:a/content.opacity", b.calls[1].keyPath)

	a.Apply("page:a/content", vs, nil, false)
	require.Len(t, b.calls, 2, "unchanged constants are not re-sent")
}

func TestAdapterAnimatesFromCurrentValue(t *testing.T) {
	t.Parallel()

	b := &recordingBackend{}
	a := NewAdapter(b)
	a.Apply("p", values.Make(values.With(values.OffsetX, 100.0)), nil, false)

	timing := Timing{Curve: EaseOut, Duration: 200 * time.Millisecond}
	a.Apply("p", values.Make(values.With(values.OffsetX, 0.0)), &timing, false)

	require.Len(t, b.calls, 2)
	got := b.calls[1]
	require.Equal(t, "animate", got.op)
	require.Equal(t, 100.0, got.from)
	require.Equal(t, 0.0, got.to)
	require.Equal(t, timing, got.timing)
	require.Nil(t, got.velocity)

	cur, ok := a.Current("p.offsetX")
	require.True(t, ok)
	require.Equal(t, 0.0, cur)
}

func TestAdapterHandsOffGestureVelocity(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(100, 0)}
	b := &recordingBackend{}
	a := NewAdapter(b, WithClock(clock.now))

	a.Apply("p", values.Make(values.With(values.OffsetX, 0.0)), nil, true)
	clock.t = clock.t.Add(20 * time.Millisecond)
	a.Apply("p", values.Make(values.With(values.OffsetX, 40.0)), nil, true)

	timing := Timing{Curve: Spring, Duration: 300 * time.Millisecond}
	a.Apply("p", values.Make(values.With(values.OffsetX, 320.0)), &timing, false)

	last := b.calls[len(b.calls)-1]
	require.Equal(t, "animate", last.op)
	require.NotNil(t, last.velocity)
	require.InDelta(t, 2000, *last.velocity, 1e-6)
}

func TestAdapterReduceMotion(t *testing.T) {
	t.Parallel()

	b := &recordingBackend{}
	a := NewAdapter(b, WithReduceMotion(true))
	a.Apply("p", values.Make(values.With(values.Opacity, 0.0)), nil, false)
	timing := Default()
	a.Apply("p", values.Make(values.With(values.Opacity, 1.0)), &timing, false)
	for _, c := range b.calls {
		require.Equal(t, "set", c.op)
	}
}

func TestAdapterForget(t *testing.T) {
	t.Parallel()

	a := NewAdapter(&recordingBackend{})
	a.Apply("page:a/", values.Make(values.With(values.OffsetX, 1.0)), nil, false)
	a.Apply("page:b/", values.Make(values.With(values.OffsetX, 1.0)), nil, false)
	a.Forget("page:a/")
	_, ok := a.Current("page:a/.offsetX")
	require.False(t, ok)
	_, ok = a.Current("page:b/.offsetX")
	require.True(t, ok)
}

func TestSample(t *testing.T) {
	t.Parallel()

	lin := Timing{Curve: Linear, Duration: time.Second}
	v, done := Sample(lin, 0, 10, 500*time.Millisecond, 0)
	require.InDelta(t, 5, v, 1e-9)
	require.False(t, done)

	v, done = Sample(lin, 0, 10, 2*time.Second, 0)
	require.Equal(t, 10.0, v)
	require.True(t, done)

	delayed := Timing{Curve: EaseInOut, Duration: time.Second, Delay: time.Second}
	v, _ = Sample(delayed, 3, 10, 500*time.Millisecond, 0)
	require.Equal(t, 3.0, v)

	spring := Timing{Curve: Spring, Duration: time.Second}
	early, _ := Sample(spring, 0, 100, 100*time.Millisecond, 0)
	late, _ := Sample(spring, 0, 100, 900*time.Millisecond, 0)
	require.Greater(t, late, early)
	require.InDelta(t, 100, late, 5)
}

func TestCurveParsing(t *testing.T) {
	t.Parallel()

	c, err := ParseCurve("ease-in-out")
	require.NoError(t, err)
	require.Equal(t, EaseInOut, c)
	_, err = ParseCurve("bouncy")
	require.Error(t, err)
	require.InDelta(t, 0.5, EaseInOut.Ease(0.5), 1e-9)
}
