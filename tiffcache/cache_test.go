package tiffcache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGetOrLoadCachesResult(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	key := Key{IFDOffset: 8, RegionIndex: 3}
	var loads int32
	load := func() ([]byte, error) {
		atomic.AddInt32(&loads, 1)
		return []byte("tile"), nil
	}
	for i := 0; i < 5; i++ {
		got, err := c.GetOrLoad(key, load)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "tile" {
			t.Fatalf("got %q", got)
		}
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1", loads)
	}
}

func TestGetOrLoadCoalescesConcurrentMisses(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	key := Key{RegionIndex: 1}
	var loads int32
	start := make(chan struct{})
	load := func() ([]byte, error) {
		<-start
		atomic.AddInt32(&loads, 1)
		return []byte("region"), nil
	}
	var wg sync.WaitGroup
	results := make([][]byte, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.GetOrLoad(key, load)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = got
		}(i)
	}
	close(start)
	wg.Wait()
	if loads != 1 {
		t.Fatalf("loads = %d, want 1", loads)
	}
	for i, r := range results {
		if string(r) != "region" {
			t.Fatalf("results[%d] = %q", i, r)
		}
	}
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	key := Key{RegionIndex: 9}
	wantErr := fmt.Errorf("boom")
	calls := 0
	_, err = c.GetOrLoad(key, func() ([]byte, error) {
		calls++
		return nil, wantErr
	})
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	got, err := c.GetOrLoad(key, func() ([]byte, error) {
		calls++
		return []byte("ok"), nil
	})
	if err != nil || string(got) != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestPurgeAndLen(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		key := Key{RegionIndex: i}
		if _, err := c.GetOrLoad(key, func() ([]byte, error) { return []byte{byte(i)}, nil }); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Len after Purge = %d, want 0", c.Len())
	}
}
