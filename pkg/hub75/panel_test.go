package hub75

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"
)

type event struct {
	pin   int
	value int
}

// bus records every value written to the fake lines
type bus struct {
	mu      sync.Mutex
	chip    string
	events  []event
	closed  map[int]bool
	failReq int
	failSet int
}

var errFake = errors.New("fake line failure")

func newBus() *bus {
	return &bus{closed: make(map[int]bool), failReq: -1, failSet: -1}
}

func (b *bus) request(chip string, offset int) (Line, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chip = chip
	if offset == b.failReq {
		return nil, errFake
	}
	return &fakeLine{bus: b, pin: offset}, nil
}

type fakeLine struct {
	bus *bus
	pin int
}

func (l *fakeLine) SetValue(v int) error {
	l.bus.mu.Lock()
	defer l.bus.mu.Unlock()
	if l.pin == l.bus.failSet {
		return errFake
	}
	l.bus.events = append(l.bus.events, event{l.pin, v})
	return nil
}

func (l *fakeLine) Close() error {
	l.bus.mu.Lock()
	defer l.bus.mu.Unlock()
	l.bus.closed[l.pin] = true
	return nil
}

// replay runs the recorded events through a model of the panel's shift
// registers. It returns the columns latched for every row address and the
// number of clock edges seen while the output was enabled.
func (b *bus) replay(pins Pins) (map[int][][6]int, int) {
	b.mu.Lock()
	events := append([]event(nil), b.events...)
	b.mu.Unlock()

	state := make(map[int]int)
	latched := make(map[int][][6]int)
	var shift [][6]int
	glitches := 0
	for _, e := range events {
		prev := state[e.pin]
		state[e.pin] = e.value
		if prev == 1 || e.value != 1 {
			continue
		}
		switch e.pin {
		case pins.CLK:
			if state[pins.OE] == 0 {
				glitches++
			}
			shift = append(shift, [6]int{
				state[pins.R1], state[pins.G1], state[pins.B1],
				state[pins.R2], state[pins.G2], state[pins.B2],
			})
		case pins.LAT:
			addr := state[pins.A] | state[pins.B]<<1 | state[pins.C]<<2 | state[pins.D]<<3 | state[pins.E]<<4
			latched[addr] = shift
			shift = nil
		}
	}
	return latched, glitches
}

func (b *bus) last(pin int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].pin == pin {
			return b.events[i].value
		}
	}
	return -1
}

func testConfig() Config {
	return Config{
		Chip:       "gpiochip0",
		Width:      4,
		Height:     4,
		Brightness: 100,
		Pins:       BonnetPins(),
		RowPeriod:  time.Microsecond,
	}
}

func openTest(t *testing.T, cfg Config, b *bus, opts ...Option) *Panel {
	t.Helper()
	opts = append([]Option{WithRequester(b.request), withSleep(func(time.Duration) {})}, opts...)
	p, err := Open(cfg, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return p
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(3, 1, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(1, 2, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(2, 3, color.RGBA{255, 255, 255, 255})
	return img
}

var testImageRows = map[int][][6]int{
	0: {{1, 0, 0, 0, 0, 0}, {0, 0, 0, 0, 0, 1}, {}, {}},
	1: {{}, {}, {0, 0, 0, 1, 1, 1}, {0, 1, 0, 0, 0, 0}},
}

func sameRows(got, want map[int][][6]int) bool {
	if len(got) != len(want) {
		return false
	}
	for addr, cols := range want {
		if len(got[addr]) != len(cols) {
			return false
		}
		for i := range cols {
			if got[addr][i] != cols[i] {
				return false
			}
		}
	}
	return true
}

func TestOpen(t *testing.T) {
	dup := BonnetPins()
	dup.E = dup.A

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"no chip", func(c *Config) { c.Chip = "" }, true},
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Height = -2 }, true},
		{"odd height", func(c *Config) { c.Height = 5 }, true},
		{"too tall", func(c *Config) { c.Height = 66 }, true},
		{"64 rows", func(c *Config) { c.Height = 64 }, false},
		{"brightness below range", func(c *Config) { c.Brightness = -1 }, true},
		{"brightness above range", func(c *Config) { c.Brightness = 101 }, true},
		{"duplicate pin", func(c *Config) { c.Pins = dup }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			p, err := Open(cfg, WithRequester(newBus().request), WithManualScan())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if p != nil {
				p.Close()
			}
		})
	}
}

func TestOpenReleasesLinesOnFailure(t *testing.T) {
	b := newBus()
	pins := BonnetPins()
	b.failReq = pins.CLK

	_, err := Open(testConfig(), WithRequester(b.request), WithManualScan())
	if !errors.Is(err, errFake) {
		t.Fatalf("Open() error = %v, want %v", err, errFake)
	}
	for _, pin := range []int{pins.R1, pins.G1, pins.B1, pins.R2, pins.G2, pins.B2} {
		if !b.closed[pin] {
			t.Errorf("line %d was not released", pin)
		}
	}
	if b.closed[pins.OE] {
		t.Errorf("line %d was never requested but was closed", pins.OE)
	}
}

func TestScanOnce(t *testing.T) {
	b := newBus()
	p := openTest(t, testConfig(), b, WithManualScan())
	defer p.Close()

	if err := p.Show(testImage()); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if err := p.ScanOnce(); err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}

	got, glitches := b.replay(p.cfg.Pins)
	if !sameRows(got, testImageRows) {
		t.Errorf("latched rows = %v, want %v", got, testImageRows)
	}
	if glitches != 0 {
		t.Errorf("%d clock edges with output enabled", glitches)
	}
	if b.chip != "gpiochip0" {
		t.Errorf("lines requested on %q", b.chip)
	}
}

func TestBlank(t *testing.T) {
	b := newBus()
	p := openTest(t, testConfig(), b, WithManualScan())
	defer p.Close()

	p.Show(testImage())
	if err := p.Blank(); err != nil {
		t.Fatalf("Blank() error = %v", err)
	}
	if err := p.ScanOnce(); err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}
	got, _ := b.replay(p.cfg.Pins)
	want := map[int][][6]int{0: make([][6]int, 4), 1: make([][6]int, 4)}
	if !sameRows(got, want) {
		t.Errorf("latched rows = %v, want all off", got)
	}
}

func TestBrightness(t *testing.T) {
	tests := []struct {
		brightness int
		wantOE     int
		wantSleeps []time.Duration
	}{
		{100, 0, []time.Duration{100, 100}},
		{25, 1, []time.Duration{25, 75, 25, 75}},
		{0, 1, []time.Duration{100, 100}},
	}

	for _, tt := range tests {
		cfg := testConfig()
		cfg.Brightness = tt.brightness
		cfg.RowPeriod = 100
		b := newBus()
		p := openTest(t, cfg, b, WithManualScan())
		var sleeps []time.Duration
		p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

		if err := p.ScanOnce(); err != nil {
			t.Fatalf("brightness %d: ScanOnce() error = %v", tt.brightness, err)
		}
		if got := b.last(cfg.Pins.OE); got != tt.wantOE {
			t.Errorf("brightness %d: OE = %d, want %d", tt.brightness, got, tt.wantOE)
		}
		if len(sleeps) != len(tt.wantSleeps) {
			t.Errorf("brightness %d: sleeps = %v, want %v", tt.brightness, sleeps, tt.wantSleeps)
		} else {
			for i := range sleeps {
				if sleeps[i] != tt.wantSleeps[i] {
					t.Errorf("brightness %d: sleeps = %v, want %v", tt.brightness, sleeps, tt.wantSleeps)
					break
				}
			}
		}
		p.Close()
	}
}

func TestScanOnceLineFailure(t *testing.T) {
	b := newBus()
	p := openTest(t, testConfig(), b, WithManualScan())
	defer p.Close()

	b.failSet = p.cfg.Pins.LAT
	if err := p.ScanOnce(); !errors.Is(err, errFake) {
		t.Errorf("ScanOnce() error = %v, want %v", err, errFake)
	}
}

func TestClose(t *testing.T) {
	b := newBus()
	p := openTest(t, testConfig(), b, WithManualScan())

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := b.last(p.cfg.Pins.OE); got != 1 {
		t.Errorf("OE after Close = %d, want 1", got)
	}
	for _, pin := range p.cfg.Pins.list() {
		if !b.closed[pin] {
			t.Errorf("line %d not released", pin)
		}
	}
	if err := p.Show(testImage()); !errors.Is(err, ErrClosed) {
		t.Errorf("Show() after Close error = %v, want %v", err, ErrClosed)
	}
	if err := p.ScanOnce(); !errors.Is(err, ErrClosed) {
		t.Errorf("ScanOnce() after Close error = %v, want %v", err, ErrClosed)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestScanLoop(t *testing.T) {
	b := newBus()
	cfg := testConfig()
	cfg.ScanInterval = time.Millisecond
	p := openTest(t, cfg, b)

	if err := p.Show(testImage()); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, _ := b.replay(cfg.Pins)
		if sameRows(got, testImageRows) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("frame never scanned, latched rows = %v", got)
		}
		time.Sleep(time.Millisecond)
	}

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{threshold - 1, threshold, 0xFF, 0xFF})

	f := encode(img, 3, 2)
	want := []byte{0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if len(f.rows) != 1 {
		t.Fatalf("encode() produced %d rows, want 1", len(f.rows))
	}
	for i := range want {
		if f.rows[0][i] != want[i] {
			t.Fatalf("encode() row = %v, want %v", f.rows[0], want)
		}
	}
}
