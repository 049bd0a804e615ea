package controller

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rustyeddy/compound/internal/metrics"
	"github.com/rustyeddy/compound/params"
)

func newDefault(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c, err := New(params.Default(), opts...)
	require.NoError(t, err)
	return c
}

func TestNew_ComputesInitialTrajectory(t *testing.T) {
	c := newDefault(t)
	snap := c.Snapshot()

	assert.Equal(t, params.Default(), snap.Params)
	assert.Equal(t, PhaseComputed, snap.Phase)
	assert.Len(t, snap.Outcome.History, 51)
	assert.InDelta(t, 1146739.98, snap.Outcome.FinalCapital, 0.01)
}

func TestNew_RejectsOutOfBounds(t *testing.T) {
	_, err := New(params.Parameters{StartingCapital: 0, ProfitPerTrade: 5, NumTrades: 10})
	assert.Error(t, err)

	_, err = New(params.Parameters{StartingCapital: 10, ProfitPerTrade: 5, NumTrades: 20000})
	assert.Error(t, err)
}

func TestDirectEdits(t *testing.T) {
	c := newDefault(t)

	assert.True(t, c.SetCapital("1,000"))
	assert.True(t, c.SetProfit("10"))
	assert.True(t, c.SetTrades("3"))

	snap := c.Snapshot()
	assert.Equal(t, params.Parameters{StartingCapital: 1000, ProfitPerTrade: 10, NumTrades: 3}, snap.Params)
	assert.InDelta(t, 1331.0, snap.Outcome.FinalCapital, 1e-9)
	assert.InDelta(t, 331.0, snap.Outcome.TotalProfit, 1e-9)
	assert.InDelta(t, 33.1, snap.Outcome.TotalReturnPercent, 1e-9)
	assert.Len(t, snap.Outcome.History, 4)
}

func TestRejectedInputKeepsPriorState(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := newDefault(t, WithMetrics(m))
	c.MarkVisible()
	before := c.Snapshot()

	assert.False(t, c.SetCapital("-1"))
	assert.False(t, c.SetCapital("abc"))
	assert.False(t, c.SetProfit("10.5"))
	assert.False(t, c.SetTrades("150"))
	assert.False(t, c.SlideProfit(0))
	assert.False(t, c.SlideTrades(101))

	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, PhaseVisible, c.Snapshot().Phase)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RejectedInputs.WithLabelValues("capital", "direct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RejectedInputs.WithLabelValues("trades", "direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComputationsTotal))
}

func TestConcurrentEditsKeepEveryField(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := newDefault(t)

		var wg sync.WaitGroup
		results := make([]bool, 3)
		wg.Add(3)
		go func() { defer wg.Done(); results[0] = c.SetCapital("2000") }()
		go func() { defer wg.Done(); results[1] = c.SetProfit("7") }()
		go func() { defer wg.Done(); results[2] = c.SlideTrades(12) }()
		wg.Wait()

		assert.Equal(t, []bool{true, true, true}, results)
		want := params.Parameters{StartingCapital: 2000, ProfitPerTrade: 7, NumTrades: 12}
		snap := c.Snapshot()
		require.Equal(t, want, snap.Params)
		require.Len(t, snap.Outcome.History, 13)
		assert.Equal(t, 2000.0, snap.Outcome.StartingCapital)
	}
}

func TestSliders(t *testing.T) {
	c := newDefault(t)

	assert.True(t, c.SlideProfit(2.5))
	assert.True(t, c.SlideTrades(100))
	assert.Equal(t, 2.5, c.Params().ProfitPerTrade)
	assert.Equal(t, 100, c.Params().NumTrades)
	assert.Len(t, c.Snapshot().Outcome.History, 101)
}

func TestUnchangedValueDoesNotRecompute(t *testing.T) {
	m := metrics.New(nil)
	c := newDefault(t, WithMetrics(m))
	c.MarkVisible()

	assert.True(t, c.SetTrades("50"))
	assert.Equal(t, PhaseVisible, c.Snapshot().Phase)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComputationsTotal))

	assert.True(t, c.SetTrades("51"))
	assert.Equal(t, PhaseComputed, c.Snapshot().Phase)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ComputationsTotal))
}

func TestRestoreUsesShareBounds(t *testing.T) {
	c := newDefault(t)

	assert.True(t, c.Restore("?capital=2000&profit=250&trades=150"))
	assert.Equal(t, params.Parameters{StartingCapital: 2000, ProfitPerTrade: 250, NumTrades: 150}, c.Params())
	assert.Len(t, c.Snapshot().Outcome.History, 151)

	assert.False(t, c.Restore("profit=5000&trades=0"))
	assert.Equal(t, 250.0, c.Params().ProfitPerTrade)
}

func TestRestorePartial(t *testing.T) {
	c := newDefault(t)

	assert.True(t, c.Restore("trades=7&capital=oops"))
	assert.Equal(t, params.Parameters{StartingCapital: 100000, ProfitPerTrade: 5, NumTrades: 7}, c.Params())
}

func TestRestoreLink(t *testing.T) {
	c := newDefault(t)

	assert.True(t, c.RestoreLink("https://example.com/calc?capital=5000&profit=25&trades=400"))
	assert.Equal(t, params.Parameters{StartingCapital: 5000, ProfitPerTrade: 25, NumTrades: 400}, c.Params())
	assert.False(t, c.RestoreLink("https://example.com/calc"))
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newDefault(t)
	snap := c.Snapshot()
	snap.Outcome.History[1].Capital = -1

	assert.NotEqual(t, -1.0, c.Snapshot().Outcome.History[1].Capital)
}

func TestShareSuccess(t *testing.T) {
	var buf bytes.Buffer
	var toasts []string
	m := metrics.New(nil)

	c := newDefault(t,
		WithClipboard(WriterClipboard{W: &buf}),
		WithNotifier(NotifyFunc(func(msg string) { toasts = append(toasts, msg) })),
		WithMetrics(m),
	)

	link, err := c.Share(context.Background(), "https://example.com/?old=1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?capital=100000&profit=5&trades=50", link)
	assert.Equal(t, link+"\n", buf.String())
	assert.Equal(t, []string{ShareToast}, toasts)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SharesTotal.WithLabelValues("ok")))
}

type brokenClipboard struct{}

func (brokenClipboard) WriteText(context.Context, string) error {
	return errors.New("permission denied")
}

func TestShareFailureIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	toasted := false

	c := newDefault(t,
		WithClipboard(brokenClipboard{}),
		WithNotifier(NotifyFunc(func(string) { toasted = true })),
		WithLogger(zap.New(core)),
	)
	before := c.Snapshot()

	link, err := c.Share(context.Background(), "https://example.com/")
	assert.Error(t, err)
	assert.Contains(t, link, "capital=100000")
	assert.False(t, toasted)
	assert.Equal(t, 1, logs.FilterMessage("failed to copy share url").Len())
	assert.Equal(t, before, c.Snapshot())
}

func TestShareWithoutClipboard(t *testing.T) {
	c := newDefault(t)
	_, err := c.Share(context.Background(), "https://example.com/")
	assert.Error(t, err)
}

func TestWriterClipboardHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := WriterClipboard{W: &buf}.WriteText(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "computed", PhaseComputed.String())
	assert.Equal(t, "visible", PhaseVisible.String())
	assert.Equal(t, "unknown", Phase(0).String())
}
