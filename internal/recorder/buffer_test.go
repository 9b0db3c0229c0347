package recorder

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestFragmentBuffer(t *testing.T) {
	b := NewFragmentBuffer()

	frag := []byte("abc")
	if err := b.Append(frag); err != nil {
		t.Fatal(err)
	}
	frag[0] = 'X' // caller may reuse its slice
	b.Append(nil)
	b.Append([]byte("de"))

	if b.Size() != 5 || b.Count() != 2 {
		t.Errorf("Size() = %d, Count() = %d", b.Size(), b.Count())
	}

	data, err := b.Take()
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if !bytes.Equal(data, []byte("abcde")) {
		t.Errorf("Take() = %q, want abcde", data)
	}
	if !b.Frozen() {
		t.Error("buffer not frozen after Take")
	}

	if err := b.Append([]byte("late")); !errors.Is(err, ErrBufferFrozen) {
		t.Errorf("Append after Take = %v, want ErrBufferFrozen", err)
	}
	if _, err := b.Take(); !errors.Is(err, ErrBufferTaken) {
		t.Errorf("second Take = %v, want ErrBufferTaken", err)
	}
}

func TestFragmentBuffer_ConcurrentAppend(t *testing.T) {
	b := NewFragmentBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Append([]byte{1, 2, 3})
			}
		}()
	}
	wg.Wait()

	data, _ := b.Take()
	if len(data) != 8*100*3 {
		t.Errorf("len = %d, want %d", len(data), 8*100*3)
	}
}
