// Package pool recycles the scratch allocations of argument resolution and
// log formatting.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a typed wrapper around sync.Pool with an optional reset hook.
type Pool[T any] struct {
	pool    sync.Pool
	reset   func(*T) // called on every Get, before the object is handed out
	maxSize int64    // 0 = unlimited
	count   atomic.Int64
}

// NewPool creates a pool backed by factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewPoolWithReset creates a pool whose objects are reset before reuse.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get returns a ready-to-use object.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.maxSize > 0 && p.count.Load() > 0 {
		p.count.Add(-1)
	}
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put hands obj back. Objects beyond the size limit are dropped.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	if p.maxSize > 0 {
		if p.count.Load() >= p.maxSize {
			return
		}
		p.count.Add(1)
	}
	p.pool.Put(obj)
}

// SetMaxSize limits how many returned objects are retained (approximately).
func (p *Pool[T]) SetMaxSize(size int) {
	p.maxSize = int64(size)
}

// Stats returns the approximate retained count and the limit.
func (p *Pool[T]) Stats() (count int64, maxSize int) {
	return p.count.Load(), int(p.maxSize)
}

// BufferPool hands out byte slices from capacity buckets.
type BufferPool struct {
	buckets []int
	pools   []*Pool[[]byte]
}

// NewBufferPool creates a buffer pool with buckets from 64 bytes to 4KiB.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{buckets: []int{64, 128, 256, 512, 1024, 2048, 4096}}
	bp.pools = make([]*Pool[[]byte], len(bp.buckets))
	for i, size := range bp.buckets {
		bp.pools[i] = NewPoolWithReset(
			func() *[]byte {
				buf := make([]byte, 0, size)
				return &buf
			},
			func(buf *[]byte) { *buf = (*buf)[:0] },
		)
	}
	return bp
}

// Get returns an empty buffer with at least minCap capacity.
func (bp *BufferPool) Get(minCap int) *[]byte {
	i := bp.bucket(minCap)
	if i < 0 {
		buf := make([]byte, 0, minCap)
		return &buf
	}
	return bp.pools[i].Get()
}

// Put returns buf to the bucket matching its capacity. Buffers that grew
// past the largest bucket are left to the GC.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	c := cap(*buf)
	if c < bp.buckets[0] || c > bp.buckets[len(bp.buckets)-1] {
		return
	}
	// Largest bucket the buffer still satisfies.
	i := len(bp.buckets) - 1
	for i > 0 && bp.buckets[i] > c {
		i--
	}
	bp.pools[i].Put(buf)
}

func (bp *BufferPool) bucket(minCap int) int {
	for i, size := range bp.buckets {
		if size >= minCap {
			return i
		}
	}
	return -1
}

var globalBufferPool = NewBufferPool()

// GetBuffer retrieves a buffer from the shared pool.
func GetBuffer(minCap int) *[]byte {
	return globalBufferPool.Get(minCap)
}

// PutBuffer returns a buffer to the shared pool.
func PutBuffer(buf *[]byte) {
	globalBufferPool.Put(buf)
}
