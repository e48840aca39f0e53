// internal/device/device.go
package device

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/exascience/pargo/parallel"
	"github.com/klauspost/cpuid/v2"
)

var (
	ErrClosed      = errors.New("device context is closed")
	ErrInvalidPtr  = errors.New("invalid device pointer")
	ErrOutOfMemory = errors.New("device out of memory")
	ErrOutOfRange  = errors.New("transfer exceeds device allocation")
)

// Ptr addresses one device allocation. The zero Ptr is never valid.
type Ptr uint64

// Scheduler selects how a launch spreads work items over lanes.
type Scheduler int

const (
	// Parallel runs items concurrently across all lanes.
	Parallel Scheduler = iota
	// Sequential runs every item on the calling goroutine, in order.
	Sequential
)

func (s Scheduler) String() string {
	switch s {
	case Parallel:
		return "parallel"
	case Sequential:
		return "sequential"
	}
	return fmt.Sprintf("scheduler(%d)", int(s))
}

// ParseScheduler maps a CLI name to a Scheduler.
func ParseScheduler(name string) (Scheduler, error) {
	switch name {
	case "parallel", "":
		return Parallel, nil
	case "sequential":
		return Sequential, nil
	}
	return 0, fmt.Errorf("unknown scheduler %q (want parallel | sequential)", name)
}

// Config describes the context to open.
type Config struct {
	Name        string // label in reports; defaults to the CPU brand
	Lanes       int    // 0 = all logical cores
	MemoryLimit uint64 // bytes; 0 = unlimited
}

// Info describes an opened context.
type Info struct {
	Name        string `json:"name"`
	Lanes       int    `json:"lanes"`
	MemoryLimit uint64 `json:"memory_limit,omitempty"`
	AVX2        bool   `json:"avx2"`
	CacheLine   int    `json:"cache_line"`
}

func (i Info) String() string {
	mem := "unlimited"
	if i.MemoryLimit > 0 {
		mem = humanize.IBytes(i.MemoryLimit)
	}
	return fmt.Sprintf("%s (%d lanes, memory %s)", i.Name, i.Lanes, mem)
}

// Stats counts device activity since Open.
type Stats struct {
	Allocs    int    `json:"allocs"`
	Frees     int    `json:"frees"`
	Live      int    `json:"live"`
	LiveBytes uint64 `json:"live_bytes"`
	PeakBytes uint64 `json:"peak_bytes"`
	H2DBytes  uint64 `json:"h2d_bytes"`
	D2HBytes  uint64 `json:"d2h_bytes"`
	Launches  int    `json:"launches"`
}

// Context owns every allocation made through it. It is safe for concurrent use.
type Context struct {
	info Info

	mu     sync.Mutex
	next   Ptr
	mem    map[Ptr][]byte
	stats  Stats
	closed bool
}

// Open creates a context. Lanes defaults to the logical core count.
func Open(cfg Config) (*Context, error) {
	if cfg.Lanes < 0 {
		return nil, fmt.Errorf("lanes must be ≥ 0, got %d", cfg.Lanes)
	}
	lanes := cfg.Lanes
	if lanes == 0 {
		lanes = DefaultLanes()
	}
	name := cfg.Name
	if name == "" {
		name = cpuid.CPU.BrandName
	}
	if name == "" {
		name = runtime.GOARCH + " host"
	}
	return &Context{
		info: Info{
			Name:        name,
			Lanes:       lanes,
			MemoryLimit: cfg.MemoryLimit,
			AVX2:        cpuid.CPU.Supports(cpuid.AVX2),
			CacheLine:   cpuid.CPU.CacheLine,
		},
		mem: make(map[Ptr][]byte),
	}, nil
}

// DefaultLanes is the logical core count reported by CPUID, or NumCPU when
// CPUID cannot tell.
func DefaultLanes() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func (c *Context) Info() Info { return c.info }

func (c *Context) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// AllocateMemory reserves size zeroed bytes.
func (c *Context) AllocateMemory(size uint64) (Ptr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	if lim := c.info.MemoryLimit; lim > 0 && c.stats.LiveBytes+size > lim {
		return 0, fmt.Errorf("%w: %s requested, %s of %s in use", ErrOutOfMemory,
			humanize.IBytes(size), humanize.IBytes(c.stats.LiveBytes), humanize.IBytes(lim))
	}
	if size > uint64(maxAlloc) {
		return 0, fmt.Errorf("%w: %s requested", ErrOutOfMemory, humanize.IBytes(size))
	}
	c.next++
	p := c.next
	c.mem[p] = make([]byte, size)
	c.stats.Allocs++
	c.stats.Live++
	c.stats.LiveBytes += size
	if c.stats.LiveBytes > c.stats.PeakBytes {
		c.stats.PeakBytes = c.stats.LiveBytes
	}
	return p, nil
}

const maxAlloc = 1 << 40

// FreeMemory releases p. Freeing an unknown pointer is an error.
func (c *Context) FreeMemory(p Ptr) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.mem[p]
	if !ok {
		return fmt.Errorf("%w: free %#x", ErrInvalidPtr, uint64(p))
	}
	delete(c.mem, p)
	c.stats.Frees++
	c.stats.Live--
	c.stats.LiveBytes -= uint64(len(b))
	return nil
}

// MemCopyH2D copies src into the start of dst.
func (c *Context) MemCopyH2D(dst Ptr, src []byte) error {
	b, err := c.lookup(dst)
	if err != nil {
		return err
	}
	if len(src) > len(b) {
		return fmt.Errorf("%w: H2D %d bytes into %d", ErrOutOfRange, len(src), len(b))
	}
	copy(b, src)
	c.mu.Lock()
	c.stats.H2DBytes += uint64(len(src))
	c.mu.Unlock()
	return nil
}

// MemCopyD2H fills dst from the start of src.
func (c *Context) MemCopyD2H(dst []byte, src Ptr) error {
	b, err := c.lookup(src)
	if err != nil {
		return err
	}
	if len(dst) > len(b) {
		return fmt.Errorf("%w: D2H %d bytes from %d", ErrOutOfRange, len(dst), len(b))
	}
	copy(dst, b)
	c.mu.Lock()
	c.stats.D2HBytes += uint64(len(dst))
	c.mu.Unlock()
	return nil
}

// View exposes device memory to kernels running in this context.
func (c *Context) View(p Ptr) ([]byte, error) { return c.lookup(p) }

func (c *Context) lookup(p Ptr) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	b, ok := c.mem[p]
	if !ok {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidPtr, uint64(p))
	}
	return b, nil
}

// Launch runs kernel over work items [0,n) and blocks until every item is
// done. Under Parallel the range is split into one block per lane; the first
// error from any block is returned.
func (c *Context) Launch(s Scheduler, n int, kernel func(lo, hi int) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.stats.Launches++
	c.mu.Unlock()

	if n <= 0 {
		return nil
	}
	if s == Sequential || c.info.Lanes == 1 || n == 1 {
		return kernel(0, n)
	}
	blocks := c.info.Lanes
	if blocks > n {
		blocks = n
	}
	var (
		once  sync.Once
		first error
	)
	parallel.Range(0, n, blocks, func(lo, hi int) {
		if err := kernel(lo, hi); err != nil {
			once.Do(func() { first = err })
		}
	})
	return first
}

// Close releases every live allocation. Further calls are no-ops.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for p, b := range c.mem {
		c.stats.Frees++
		c.stats.LiveBytes -= uint64(len(b))
		delete(c.mem, p)
	}
	c.stats.Live = 0
	return nil
}
