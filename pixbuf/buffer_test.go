package pixbuf

import "testing"

func TestAcquireWriteRelease(t *testing.T) {
	b := New[uint8](4, 2)
	row, err := b.AcquireRow(0)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 4; x++ {
		if err := row.Set(x, uint8(x*10)); err != nil {
			t.Fatal(err)
		}
	}

	// Not yet visible.
	v, err := b.At(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("At before release = %d, want 0", v)
	}

	if err := row.Release(); err != nil {
		t.Fatal(err)
	}
	v, err = b.At(2, 0)
	if err != nil || v != 20 {
		t.Fatalf("At after release = %d, %v, want 20", v, err)
	}
}

func TestConcurrentRowHandleRejected(t *testing.T) {
	b := New[uint8](4, 2)
	row, err := b.AcquireRow(0)
	if err != nil {
		t.Fatal(err)
	}
	defer row.Release()

	if _, err := b.AcquireRow(1); err != ErrRowLocked {
		t.Fatalf("second AcquireRow = %v, want ErrRowLocked", err)
	}
}

func TestReleaseIsIdempotentAndFreesLock(t *testing.T) {
	b := New[uint8](2, 2)
	row, err := b.AcquireRow(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := row.Release(); err != nil {
		t.Fatal(err)
	}
	if err := row.Release(); err != nil {
		t.Fatalf("second Release = %v, want nil", err)
	}
	if _, err := b.AcquireRow(1); err != nil {
		t.Fatalf("AcquireRow after release = %v, want nil", err)
	}
}

func TestOutOfRangeRow(t *testing.T) {
	b := New[uint8](2, 2)
	if _, err := b.AcquireRow(5); err == nil {
		t.Fatal("expected OutOfRange")
	}
	if _, err := b.At(0, -1); err == nil {
		t.Fatal("expected OutOfRange")
	}
}

func TestSetAfterReleaseFails(t *testing.T) {
	b := New[uint8](2, 2)
	row, err := b.AcquireRow(0)
	if err != nil {
		t.Fatal(err)
	}
	row.Release()
	if err := row.Set(0, 1); err != ErrReleased {
		t.Fatalf("Set after release = %v, want ErrReleased", err)
	}
}

func TestWriteAllWrongLength(t *testing.T) {
	b := New[RGB8](3, 1)
	row, err := b.AcquireRow(0)
	if err != nil {
		t.Fatal(err)
	}
	defer row.Release()
	if err := row.WriteAll([]RGB8{{R: 1}}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestGrayImageAdapter(t *testing.T) {
	b := New[uint8](2, 1)
	row, _ := b.AcquireRow(0)
	row.Set(0, 10)
	row.Set(1, 20)
	row.Release()

	img := GrayImage{Buf: b}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("Bounds = %v", img.Bounds())
	}
	_, _, _, a := img.At(1, 0).RGBA()
	if a == 0 {
		t.Fatal("expected opaque alpha from GrayImage")
	}
}
