// Package controller drives recomputation from discrete input events.
// It owns the current Parameters and the Outcome derived from them; every
// accepted change rebuilds the whole trajectory and rejected input leaves
// both untouched.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rustyeddy/compound/compound"
	"github.com/rustyeddy/compound/internal/metrics"
	"github.com/rustyeddy/compound/params"
	"github.com/rustyeddy/compound/share"
)

// ShareToast is the message raised after a share link has been copied.
const ShareToast = "Link copied to clipboard!"

// Phase separates "trajectory ready" from "trajectory shown" so chart
// animation never depends on a timer.
type Phase int

const (
	PhaseComputed Phase = iota + 1
	PhaseVisible
)

func (p Phase) String() string {
	switch p {
	case PhaseComputed:
		return "computed"
	case PhaseVisible:
		return "visible"
	default:
		return "unknown"
	}
}

// Clipboard receives share links.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notifier shows transient messages such as the share toast.
type Notifier interface {
	Notify(msg string)
}

type Snapshot struct {
	Params  params.Parameters
	Outcome compound.Outcome
	Phase   Phase
}

type Controller struct {
	mu      sync.Mutex
	params  params.Parameters
	outcome compound.Outcome
	phase   Phase

	clip     Clipboard
	notifier Notifier
	log      *zap.Logger
	metrics  *metrics.Metrics
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) { c.clip = cb }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// New computes the initial trajectory for p. p must satisfy the
// share-link bounds, the widest policy the controller accepts.
func New(p params.Parameters, opts ...Option) (*Controller, error) {
	c := &Controller{log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	if !p.Valid(params.URL) {
		return nil, errors.Errorf("initial parameters out of bounds: %+v", p)
	}
	if err := c.recompute(p); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.outcome
	out.History = append([]compound.TradeRecord(nil), c.outcome.History...)
	return Snapshot{Params: c.params, Outcome: out, Phase: c.phase}
}

func (c *Controller) Params() params.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// MarkVisible records that the presentation layer has shown the current
// trajectory.
func (c *Controller) MarkVisible() {
	c.mu.Lock()
	c.phase = PhaseVisible
	c.mu.Unlock()
}

// SetCapital handles the capital text box.
func (c *Controller) SetCapital(raw string) bool {
	v, ok := params.ValidateCapital(raw, params.Direct)
	if !ok {
		c.reject("capital", params.Direct, raw)
		return false
	}
	return c.update(func(p params.Parameters) params.Parameters { return p.WithCapital(v) })
}

// SetProfit handles direct numeric entry of the profit rate.
func (c *Controller) SetProfit(raw string) bool {
	v, ok := params.ValidateProfitRate(raw, params.Direct)
	if !ok {
		c.reject("profit", params.Direct, raw)
		return false
	}
	return c.update(func(p params.Parameters) params.Parameters { return p.WithProfit(v) })
}

// SetTrades handles direct numeric entry of the trade count.
func (c *Controller) SetTrades(raw string) bool {
	n, ok := params.ValidateTradeCount(raw, params.Direct)
	if !ok {
		c.reject("trades", params.Direct, raw)
		return false
	}
	return c.update(func(p params.Parameters) params.Parameters { return p.WithTrades(n) })
}

// SlideProfit and SlideTrades handle slider positions.
func (c *Controller) SlideProfit(v float64) bool {
	if !params.ProfitInBounds(v, params.Direct) {
		c.reject("profit", params.Direct, v)
		return false
	}
	return c.update(func(p params.Parameters) params.Parameters { return p.WithProfit(v) })
}

func (c *Controller) SlideTrades(n int) bool {
	if !params.TradesInBounds(n, params.Direct) {
		c.reject("trades", params.Direct, n)
		return false
	}
	return c.update(func(p params.Parameters) params.Parameters { return p.WithTrades(n) })
}

// Restore overlays the valid fields of a share-link query onto the
// current parameters. It reports whether any field was applied.
func (c *Controller) Restore(rawQuery string) bool {
	partial := share.Decode(rawQuery)
	if partial.Empty() {
		return false
	}
	return c.update(partial.Apply)
}

// RestoreLink is Restore for a full share link.
func (c *Controller) RestoreLink(link string) bool {
	partial := share.Restore(link)
	if partial.Empty() {
		return false
	}
	return c.update(partial.Apply)
}

// ShareURL returns the share link for the current parameters.
func (c *Controller) ShareURL(baseURL string) string {
	return share.Encode(c.Params(), baseURL)
}

// Share copies the share link to the clipboard. Failures are logged and
// returned; state is never affected.
func (c *Controller) Share(ctx context.Context, baseURL string) (string, error) {
	link := c.ShareURL(baseURL)
	if c.clip == nil {
		return link, errors.New("no clipboard configured")
	}
	if err := c.clip.WriteText(ctx, link); err != nil {
		c.log.Error("failed to copy share url", zap.String("url", link), zap.Error(err))
		c.countShare("error")
		return link, errors.Wrap(err, "copy share url")
	}
	c.countShare("ok")
	if c.notifier != nil {
		c.notifier.Notify(ShareToast)
	}
	return link, nil
}

// update holds the lock from reading the current parameters to
// committing the recomputed state, so concurrent edits never overwrite
// each other's fields.
func (c *Controller) update(fn func(params.Parameters) params.Parameters) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := fn(c.params)
	if next == c.params {
		return true
	}
	return c.recomputeLocked(next) == nil
}

func (c *Controller) recompute(p params.Parameters) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recomputeLocked(p)
}

// recomputeLocked must be called with c.mu held.
func (c *Controller) recomputeLocked(p params.Parameters) error {
	start := time.Now()
	out, err := p.Compute()
	if err != nil {
		// Validation guarantees a positive finite capital, so this is a
		// broken invariant rather than bad input.
		c.log.Error("compute failed", zap.Any("params", p), zap.Error(err))
		return errors.Wrap(err, "compute trajectory")
	}
	if c.metrics != nil {
		c.metrics.ComputationsTotal.Inc()
		c.metrics.ComputeDur.Observe(time.Since(start).Seconds())
	}

	c.params = p
	c.outcome = out
	c.phase = PhaseComputed

	c.log.Debug("recomputed",
		zap.Float64("capital", p.StartingCapital),
		zap.Float64("profit", p.ProfitPerTrade),
		zap.Int("trades", p.NumTrades),
		zap.Float64("final", out.FinalCapital))
	return nil
}

func (c *Controller) reject(field string, src params.Source, raw interface{}) {
	if c.metrics != nil {
		c.metrics.RejectedInputs.WithLabelValues(field, src.String()).Inc()
	}
	c.log.Debug("input rejected", zap.String("field", field), zap.Stringer("source", src), zap.Any("raw", raw))
}

func (c *Controller) countShare(result string) {
	if c.metrics != nil {
		c.metrics.SharesTotal.WithLabelValues(result).Inc()
	}
}
