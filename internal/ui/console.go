package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/toparvion/analogtail/internal/logtail"
	"github.com/toparvion/analogtail/internal/render"
)

// console is the scrollable output of the view. It is the render.Surface the renderer
// measures on every tick.
type console struct {
	viewport viewport.Model
	lines    []string
	palette  logtail.Palette
	opts     logtail.Options
	// formatted lines per record id, dropped when layout options change
	cache map[uint64][]string
}

var _ render.Surface = (*console)(nil)

func newConsole(palette logtail.Palette, opts logtail.Options) console {
	vp := viewport.New(0, 0)
	return console{
		viewport: vp,
		palette:  palette,
		opts:     opts,
		cache:    make(map[uint64][]string),
	}
}

// ContentHeight is the number of rendered lines.
func (c *console) ContentHeight() int {
	return len(c.lines)
}

// ViewportHeight is the number of visible rows.
func (c *console) ViewportHeight() int {
	return c.viewport.Height
}

// AtBottom reports whether the last line is in view.
func (c *console) AtBottom() bool {
	return c.viewport.AtBottom()
}

func (c *console) resize(width, height int) {
	c.viewport.Width = max(width, 0)
	c.viewport.Height = max(height, 0)
	if c.opts.Width != width {
		c.opts.Width = width
		c.invalidate()
	}
}

func (c *console) setPalette(p logtail.Palette) {
	c.palette = p
	c.invalidate()
}

func (c *console) setOptions(opts logtail.Options) {
	opts.Width = c.opts.Width
	c.opts = opts
	c.invalidate()
}

func (c *console) invalidate() {
	clear(c.cache)
}

// refresh lays out every visible record of q again, reusing cached lines.
func (c *console) refresh(q *render.Queue) {
	visible := q.Visible()
	seen := make(map[uint64]struct{}, len(visible))
	lines := make([]string, 0, len(c.lines))
	for _, rec := range visible {
		seen[rec.ID] = struct{}{}
		formatted, ok := c.cache[rec.ID]
		if !ok {
			formatted = logtail.FormatBatch(rec.Batch, c.palette, c.opts)
			c.cache[rec.ID] = formatted
		}
		lines = append(lines, formatted...)
	}
	for id := range c.cache {
		if _, ok := seen[id]; !ok {
			delete(c.cache, id)
		}
	}
	c.lines = lines
	c.viewport.SetContent(strings.Join(lines, "\n"))
}

// apply brings a renderer frame onto the screen.
func (c *console) apply(q *render.Queue, f render.Frame) {
	if f.Changed() {
		c.refresh(q)
	}
	if f.ScrollToBottom {
		c.viewport.GotoBottom()
	}
}
