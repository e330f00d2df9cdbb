// Package hub75 drives a HUB75 RGB LED panel by bit-banging GPIO lines
// through the Linux character device.
package hub75

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// ErrClosed is returned when the panel is used after Close
var ErrClosed = errors.New("panel closed")

// Pins maps the HUB75 signals to GPIO line offsets
type Pins struct {
	R1, G1, B1    int
	R2, G2, B2    int
	CLK, OE, LAT  int
	A, B, C, D, E int
}

// BonnetPins returns the pinout of the Adafruit RGB Matrix Bonnet
func BonnetPins() Pins {
	return Pins{
		R1: 5, G1: 13, B1: 6,
		R2: 12, G2: 16, B2: 23,
		CLK: 17, OE: 4, LAT: 21,
		A: 22, B: 26, C: 27, D: 20, E: 24,
	}
}

func (p Pins) list() []int {
	return []int{
		p.R1, p.G1, p.B1,
		p.R2, p.G2, p.B2,
		p.CLK, p.OE, p.LAT,
		p.A, p.B, p.C, p.D, p.E,
	}
}

// Config represents the panel geometry and timing
type Config struct {
	Chip       string
	Width      int
	Height     int
	// Brightness is the share of each row period, in percent, during which
	// the row is lit.
	Brightness int
	Pins       Pins

	// RowPeriod is how long each scan row is held. Defaults to 50µs.
	RowPeriod    time.Duration
	// ScanInterval paces the refresh goroutine. Defaults to 1ms.
	ScanInterval time.Duration
}

func (c *Config) validate() error {
	if c.Chip == "" {
		return errors.New("no gpio chip")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Height%2 != 0 {
		return fmt.Errorf("height %d is not even", c.Height)
	}
	if c.Height/2 > 32 {
		return fmt.Errorf("height %d needs more than five address lines", c.Height)
	}
	if c.Brightness < 0 || c.Brightness > 100 {
		return fmt.Errorf("brightness %d out of range", c.Brightness)
	}
	seen := make(map[int]bool)
	for _, pin := range c.Pins.list() {
		if seen[pin] {
			return fmt.Errorf("pin %d assigned twice", pin)
		}
		seen[pin] = true
	}
	return nil
}

// Line is an output GPIO line
type Line interface {
	SetValue(value int) error
	Close() error
}

// Requester claims a GPIO line as an output driven low
type Requester func(chip string, offset int) (Line, error)

func requestLine(chip string, offset int) (Line, error) {
	return gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
}

// Option configures a Panel
type Option func(*Panel)

// WithRequester replaces the GPIO character device
func WithRequester(r Requester) Option {
	return func(p *Panel) {
		p.request = r
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Panel) {
		p.logger = l
	}
}

// WithManualScan disables the refresh goroutine. The caller drives the
// panel with ScanOnce.
func WithManualScan() Option {
	return func(p *Panel) {
		p.manual = true
	}
}

func withSleep(f func(time.Duration)) Option {
	return func(p *Panel) {
		p.sleep = f
	}
}

// Panel keeps the last shown frame on a HUB75 panel by scanning it row by
// row from a background goroutine
type Panel struct {
	cfg     Config
	logger  *slog.Logger
	request Requester
	manual  bool
	sleep   func(time.Duration)

	// scanMu serializes access to the lines
	scanMu sync.Mutex
	lines  map[int]Line

	mu     sync.Mutex
	cur    *frame
	closed bool

	stop chan struct{}
	done chan struct{}
}

// Open claims the panel's GPIO lines and starts refreshing a blank frame
func Open(cfg Config, opts ...Option) (*Panel, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("hub75: %w", err)
	}
	if cfg.RowPeriod == 0 {
		cfg.RowPeriod = 50 * time.Microsecond
	}
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = time.Millisecond
	}

	p := &Panel{
		cfg:     cfg,
		logger:  slog.Default(),
		request: requestLine,
		sleep:   time.Sleep,
		lines:   make(map[int]Line),
		cur:     newFrame(cfg.Width, cfg.Height/2),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, pin := range cfg.Pins.list() {
		line, err := p.request(cfg.Chip, pin)
		if err != nil {
			p.closeLines()
			return nil, fmt.Errorf("request line %d on %s: %w", pin, cfg.Chip, err)
		}
		p.lines[pin] = line
	}
	p.logger.Debug("Requested GPIO lines", "chip", cfg.Chip, "count", len(p.lines))

	if !p.manual {
		p.stop = make(chan struct{})
		p.done = make(chan struct{})
		go p.scanLoop()
	}
	return p, nil
}

// Size returns the panel dimensions in pixels
func (p *Panel) Size() (width, height int) {
	return p.cfg.Width, p.cfg.Height
}

// Show replaces the refreshed frame with a copy of img
func (p *Panel) Show(img *image.RGBA) error {
	return p.swap(encode(img, p.cfg.Width, p.cfg.Height))
}

// Blank turns every LED off
func (p *Panel) Blank() error {
	return p.swap(newFrame(p.cfg.Width, p.cfg.Height/2))
}

func (p *Panel) swap(f *frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.cur = f
	return nil
}

// ScanOnce draws the current frame once, row by row
func (p *Panel) ScanOnce() error {
	p.scanMu.Lock()
	defer p.scanMu.Unlock()

	p.mu.Lock()
	f, closed := p.cur, p.closed
	p.mu.Unlock()
	if closed || p.lines == nil {
		return ErrClosed
	}

	for row, data := range f.rows {
		if err := p.updateRow(row, data); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		if err := p.hold(); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
	}
	return nil
}

func (p *Panel) scanLoop() {
	defer close(p.done)
	ticker := time.NewTicker(p.cfg.ScanInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			err := p.ScanOnce()
			if err == nil {
				continue
			}
			if errors.Is(err, ErrClosed) {
				return
			}
			failures++
			if failures == 1 || failures%1000 == 0 {
				p.logger.Error("Error scanning frame", "error", err, "failures", failures)
			}
		}
	}
}

func (p *Panel) setPin(pin, value int) error {
	line, ok := p.lines[pin]
	if !ok {
		return fmt.Errorf("line %d not requested", pin)
	}
	return line.SetValue(value)
}

// updateRow shifts one scan row into the panel and latches it. The ioctl
// round trip is longer than the minimum clock pulse width.
func (p *Panel) updateRow(row int, data []byte) error {
	pins := p.cfg.Pins

	if err := p.setPin(pins.OE, 1); err != nil {
		return err
	}

	addr := row & 0x1F
	for i, pin := range []int{pins.A, pins.B, pins.C, pins.D, pins.E} {
		if err := p.setPin(pin, (addr>>i)&1); err != nil {
			return err
		}
	}

	dataPins := []int{pins.R1, pins.G1, pins.B1, pins.R2, pins.G2, pins.B2}
	for col := 0; col < p.cfg.Width; col++ {
		idx := col * 6
		if idx+5 >= len(data) {
			break
		}
		for i, pin := range dataPins {
			if err := p.setPin(pin, int(data[idx+i])); err != nil {
				return err
			}
		}
		if err := p.pulse(pins.CLK); err != nil {
			return err
		}
	}

	if err := p.pulse(pins.LAT); err != nil {
		return err
	}
	return p.setPin(pins.OE, 0)
}

func (p *Panel) pulse(pin int) error {
	if err := p.setPin(pin, 1); err != nil {
		return err
	}
	return p.setPin(pin, 0)
}

// hold keeps the latched row lit for its share of the row period
func (p *Panel) hold() error {
	period := p.cfg.RowPeriod
	on := period * time.Duration(p.cfg.Brightness) / 100
	if on > 0 {
		p.sleep(on)
	}
	if on >= period {
		return nil
	}
	if err := p.setPin(p.cfg.Pins.OE, 1); err != nil {
		return err
	}
	p.sleep(period - on)
	return nil
}

// Close stops refreshing, turns the panel dark and releases the lines
func (p *Panel) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if p.stop != nil {
		close(p.stop)
		<-p.done
	}

	p.scanMu.Lock()
	defer p.scanMu.Unlock()
	var errs []error
	if line, ok := p.lines[p.cfg.Pins.OE]; ok {
		if err := line.SetValue(1); err != nil {
			errs = append(errs, fmt.Errorf("disable output: %w", err))
		}
	}
	errs = append(errs, p.closeLines())
	return errors.Join(errs...)
}

func (p *Panel) closeLines() error {
	var errs []error
	for _, pin := range p.cfg.Pins.list() {
		line, ok := p.lines[pin]
		if !ok {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", pin, err))
		}
	}
	p.lines = nil
	return errors.Join(errs...)
}
