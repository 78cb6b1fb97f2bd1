package ink

import (
	"image"
	"image/color"
	"testing"
)

func TestNewPixmapIsTransparent(t *testing.T) {
	pm := NewPixmap(4, 3)
	if pm.Width() != 4 || pm.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", pm.Width(), pm.Height())
	}
	for i, v := range pm.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %d, want 0", i, v)
		}
	}
}

func TestNewPixmapZeroSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 0}, {0, 5}, {-3, 2}} {
		pm := NewPixmap(sz[0], sz[1])
		if !pm.Empty() {
			t.Errorf("NewPixmap(%d, %d).Empty() = false", sz[0], sz[1])
		}
		if len(pm.Data()) != 0 {
			t.Errorf("NewPixmap(%d, %d) has %d bytes", sz[0], sz[1], len(pm.Data()))
		}
	}
}

func TestSetPixelPremultiplies(t *testing.T) {
	pm := NewPixmap(10, 10)
	pm.SetPixel(5, 5, RGBA2(1, 0, 0, 0.5))

	i := (5*10 + 5) * 4
	data := pm.Data()
	if data[i+0] != 127 || data[i+1] != 0 || data[i+2] != 0 || data[i+3] != 127 {
		t.Errorf("raw data = (%d, %d, %d, %d), want (127, 0, 0, 127)",
			data[i+0], data[i+1], data[i+2], data[i+3])
	}
}

func TestSetPixelOutOfBounds(t *testing.T) {
	pm := NewPixmap(10, 10)
	pm.Clear(Black)
	want := pm.Clone()

	for _, c := range []struct{ x, y int }{{-1, 5}, {10, 5}, {5, -1}, {5, 10}, {100, 100}} {
		pm.SetPixel(c.x, c.y, Red)
	}
	if !pm.Equal(want) {
		t.Error("out-of-bounds SetPixel modified data")
	}
	if got := pm.GetPixel(-1, -1); got != Transparent {
		t.Errorf("GetPixel(-1, -1) = %+v, want transparent", got)
	}
}

func TestPixmapClear(t *testing.T) {
	pm := NewPixmap(3, 3)
	pm.Clear(White)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := pm.GetPixel(x, y); got != White {
				t.Fatalf("GetPixel(%d, %d) = %+v, want white", x, y, got)
			}
		}
	}
}

func TestPixmapImageInterface(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	var img image.Image = pm
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("Bounds() = %v", img.Bounds())
	}
	if got := img.At(1, 1); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("At(1, 1) = %v, want opaque blue", got)
	}
	if pm.GetPixel(1, 1) != Blue {
		t.Errorf("GetPixel(1, 1) = %+v, want blue", pm.GetPixel(1, 1))
	}
}

func TestPixmapCloneIsDeep(t *testing.T) {
	pm := NewPixmap(2, 2)
	c := pm.Clone()
	c.SetPixel(0, 0, Red)
	if pm.GetPixel(0, 0) != Transparent {
		t.Error("Clone shares pixel storage")
	}
	if pm.Equal(c) {
		t.Error("Equal() = true after modifying clone")
	}
}
