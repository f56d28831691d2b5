package display

import (
	"sync"
	"time"
)

// Player drives timed advancement through a playlist. One pending advance
// timer exists at a time: scheduling a new one always cancels the previous.
// Stop cannot reach a callback that has already fired and is waiting on the
// lock, so each arm carries a generation; a callback whose generation is no
// longer current is a no-op.
type Player struct {
	mu     sync.Mutex
	items  []Item
	index  int
	gen    uint64
	timer  *time.Timer
	onShow func(Item)
}

// NewPlayer builds a stopped player. onShow fires whenever an item becomes
// current; it may be nil.
func NewPlayer(onShow func(Item)) *Player {
	return &Player{onShow: onShow}
}

// SetPlaylist swaps in a freshly derived playlist. An unchanged sequence
// keeps the running cursor and timer, so the periodic refresh does not
// restart the cycle. An empty playlist stops the timer; playback resumes on
// its own once a later refresh yields items.
func (p *Player) SetPlaylist(items []Item) {
	p.mu.Lock()
	if sameSequence(p.items, items) {
		p.items = items
		p.mu.Unlock()
		return
	}

	p.items = items
	p.index = 0
	p.cancelTimerLocked()
	if len(items) == 0 {
		p.mu.Unlock()
		return
	}
	current := items[0]
	p.scheduleLocked(current.Duration)
	show := p.onShow
	p.mu.Unlock()

	if show != nil {
		show(current)
	}
}

// Advance moves the cursor one step, wrapping forever, and re-arms the timer
// for the new item's duration. No-op while the playlist is empty.
func (p *Player) Advance() {
	p.mu.Lock()
	p.stepLocked()
}

// timerAdvance is the scheduled callback. gen pins it to the arm that
// scheduled it: a playlist swap or manual advance in between makes it stale.
func (p *Player) timerAdvance(gen uint64) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.stepLocked()
}

// stepLocked advances the cursor and re-arms the timer. Takes ownership of
// p.mu and releases it before invoking onShow.
func (p *Player) stepLocked() {
	if len(p.items) == 0 {
		p.mu.Unlock()
		return
	}
	p.index = (p.index + 1) % len(p.items)
	current := p.items[p.index]
	p.cancelTimerLocked()
	p.scheduleLocked(current.Duration)
	show := p.onShow
	p.mu.Unlock()

	if show != nil {
		show(current)
	}
}

// Current returns the item under the cursor, or false with an empty playlist.
func (p *Player) Current() (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return Item{}, false
	}
	return p.items[p.index], true
}

// Index returns the cursor position.
func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Len returns the playlist length.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Stop cancels the pending advance timer. Best-effort cleanup for client
// disconnect or device deletion.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelTimerLocked()
}

func (p *Player) scheduleLocked(d time.Duration) {
	gen := p.gen
	p.timer = time.AfterFunc(d, func() { p.timerAdvance(gen) })
}

// cancelTimerLocked stops the pending timer and bumps the generation, so a
// callback that already fired but has not run yet is discarded.
func (p *Player) cancelTimerLocked() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func sameSequence(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i].ContentID != b[i].ContentID || a[i].Duration != b[i].Duration {
			return false
		}
	}
	return true
}
