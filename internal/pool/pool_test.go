package pool

import (
	"sync"
	"testing"
)

func TestPool_ResetOnGet(t *testing.T) {
	resets := 0
	p := NewPoolWithReset(
		func() *[]int {
			s := make([]int, 0, 10)
			return &s
		},
		func(s *[]int) {
			*s = (*s)[:0]
			resets++
		},
	)

	s1 := p.Get()
	*s1 = append(*s1, 1, 2, 3)
	p.Put(s1)

	s2 := p.Get()
	if len(*s2) != 0 {
		t.Errorf("expected empty slice after reset, got length %d", len(*s2))
	}
	if resets != 2 {
		t.Errorf("expected reset on every Get, got %d calls", resets)
	}
}

func TestPool_PutNil(t *testing.T) {
	p := NewPool(func() *int { return new(int) })
	p.Put(nil)
	if got := p.Get(); got == nil {
		t.Fatal("Get returned nil after Put(nil)")
	}
}

func TestPool_MaxSize(t *testing.T) {
	p := NewPool(func() *int { return new(int) })
	p.SetMaxSize(2)

	a, b, c := p.Get(), p.Get(), p.Get()
	p.Put(a)
	p.Put(b)
	p.Put(c) // over the limit, dropped

	count, maxSize := p.Stats()
	if maxSize != 2 {
		t.Errorf("expected max size 2, got %d", maxSize)
	}
	if count > 2 {
		t.Errorf("expected count <= 2, got %d", count)
	}
}

func TestPool_Concurrent(t *testing.T) {
	p := NewPoolWithReset(
		func() *[]int {
			s := make([]int, 0, 16)
			return &s
		},
		func(s *[]int) { *s = (*s)[:0] },
	)

	var wg sync.WaitGroup
	for g := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				s := p.Get()
				if len(*s) != 0 {
					t.Errorf("goroutine %d got a dirty slice", g)
					return
				}
				*s = append(*s, i)
				p.Put(s)
			}
		}()
	}
	wg.Wait()
}

func TestBufferPool_Buckets(t *testing.T) {
	bp := NewBufferPool()

	tests := []struct {
		minCap  int
		wantCap int
	}{
		{1, 64},
		{64, 64},
		{65, 128},
		{300, 512},
		{4096, 4096},
		{5000, 5000},
	}
	for _, tt := range tests {
		buf := bp.Get(tt.minCap)
		if len(*buf) != 0 {
			t.Errorf("Get(%d): expected empty buffer, got len %d", tt.minCap, len(*buf))
		}
		if cap(*buf) < tt.wantCap {
			t.Errorf("Get(%d): expected cap >= %d, got %d", tt.minCap, tt.wantCap, cap(*buf))
		}
		bp.Put(buf)
	}
}

func TestBufferPool_PutGrownBuffer(t *testing.T) {
	bp := NewBufferPool()
	buf := bp.Get(64)
	*buf = append(*buf, make([]byte, 200)...)
	bp.Put(buf)

	again := bp.Get(128)
	if cap(*again) < 128 {
		t.Errorf("expected cap >= 128, got %d", cap(*again))
	}
	if len(*again) != 0 {
		t.Errorf("expected empty buffer, got len %d", len(*again))
	}
}

func TestGlobalBuffer(t *testing.T) {
	buf := GetBuffer(256)
	*buf = append(*buf, "resolve"...)
	PutBuffer(buf)
	PutBuffer(nil)

	buf = GetBuffer(256)
	if len(*buf) != 0 {
		t.Errorf("expected empty buffer, got %q", *buf)
	}
}

func BenchmarkPool_GetPut(b *testing.B) {
	p := NewPoolWithReset(
		func() *[]int {
			s := make([]int, 0, 8)
			return &s
		},
		func(s *[]int) { *s = (*s)[:0] },
	)
	b.ReportAllocs()
	for b.Loop() {
		s := p.Get()
		*s = append(*s, 1)
		p.Put(s)
	}
}
