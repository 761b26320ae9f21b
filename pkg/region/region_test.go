package region

import (
	"math"
	"testing"

	"github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/tiles"
)

func coord(x, y int) *tiles.Coord { return &tiles.Coord{X: x, Y: y} }
func size(w, h int) *Size         { return &Size{W: w, H: h} }

func TestExtent(t *testing.T) {
	tests := []struct {
		name string
		m    tiles.Map
		want Region
	}{
		{
			name: "single tile",
			m:    tiles.Map{{X: 0, Y: 0}: "tile_0_0.jpg"},
			want: Region{0, 0, 0, 0},
		},
		{
			name: "sparse",
			m: tiles.Map{
				{X: 1, Y: 2}:  "a",
				{X: -3, Y: 4}: "b",
				{X: 7, Y: -1}: "c",
			},
			want: Region{MinX: -3, MaxX: 7, MinY: -1, MaxY: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extent(tt.m)
			if err != nil {
				t.Fatalf("Extent() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extent() = %+v, want %+v", got, tt.want)
			}
			for c := range tt.m {
				if !got.Contains(c) {
					t.Errorf("Extent() does not contain %v", c)
				}
			}
		})
	}
}

func TestExtentEmpty(t *testing.T) {
	_, err := Extent(tiles.Map{})
	if !errors.Is(err, errors.ErrCodeEmptyDataset) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeEmptyDataset)
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		name   string
		origin tiles.Coord
		size   Size
		want   Region
	}{
		{"odd 3x3", tiles.Coord{X: 0, Y: 0}, Size{3, 3}, Region{-1, 1, -1, 1}},
		{"even 4x4", tiles.Coord{X: 0, Y: 0}, Size{4, 4}, Region{-2, 1, -2, 1}},
		{"1x1", tiles.Coord{X: 5, Y: -5}, Size{1, 1}, Region{5, 5, -5, -5}},
		{"2x2", tiles.Coord{X: 0, Y: 0}, Size{2, 2}, Region{-1, 0, -1, 0}},
		{"mixed 5x2", tiles.Coord{X: 10, Y: 10}, Size{5, 2}, Region{8, 12, 9, 10}},
		{"negative origin", tiles.Coord{X: -4, Y: -7}, Size{3, 4}, Region{-5, -3, -9, -6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Center(tt.origin, tt.size)
			if got != tt.want {
				t.Errorf("Center(%v, %v) = %+v, want %+v", tt.origin, tt.size, got, tt.want)
			}
			if got.Columns() != tt.size.W || got.Rows() != tt.size.H {
				t.Errorf("Center() dims = %dx%d, want %v", got.Columns(), got.Rows(), tt.size)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	m := tiles.Map{{X: 0, Y: 0}: "a", {X: 3, Y: 2}: "b"}
	full := Region{0, 3, 0, 2}

	tests := []struct {
		name    string
		req     Request
		want    Region
		wantErr errors.Code
	}{
		{"no request", Request{}, full, ""},
		{"origin and size", Request{Origin: coord(0, 0), Size: size(3, 3)}, Region{-1, 1, -1, 1}, ""},
		{"origin only falls back", Request{Origin: coord(10, 10)}, full, ""},
		{"size only falls back", Request{Size: size(1, 1)}, full, ""},
		{"strict origin only", Request{Origin: coord(0, 0), Strict: true}, Region{}, errors.ErrCodeInvalidInput},
		{"strict size only", Request{Size: size(2, 2), Strict: true}, Region{}, errors.ErrCodeInvalidInput},
		{"strict complete", Request{Origin: coord(0, 0), Size: size(4, 4), Strict: true}, Region{-2, 1, -2, 1}, ""},
		{"zero size", Request{Origin: coord(0, 0), Size: size(0, 3)}, Region{}, errors.ErrCodeInvalidInput},
		{"negative size", Request{Origin: coord(0, 0), Size: size(2, -1)}, Region{}, errors.ErrCodeInvalidInput},
		{"too many cells", Request{Origin: coord(0, 0), Size: size(1<<31, 1<<31)}, Region{}, errors.ErrCodeInvalidInput},
		{"one axis too long", Request{Origin: coord(0, 0), Size: size(MaxCells+1, 1)}, Region{}, errors.ErrCodeInvalidInput},
		{"at cell limit", Request{Origin: coord(0, 0), Size: size(MaxCells, 1)}, Region{-MaxCells / 2, MaxCells/2 - 1, 0, 0}, ""},
		{"origin near max int", Request{Origin: coord(math.MaxInt, 0), Size: size(3, 1)}, Region{}, errors.ErrCodeInvalidInput},
		{"origin near min int", Request{Origin: coord(0, math.MinInt), Size: size(1, 4)}, Region{}, errors.ErrCodeInvalidInput},
		{"origin at max int fits", Request{Origin: coord(math.MaxInt, 0), Size: size(2, 1)}, Region{math.MaxInt - 1, math.MaxInt, 0, 0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(m, tt.req)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveExtentTooLarge(t *testing.T) {
	tests := []struct {
		name string
		m    tiles.Map
	}{
		{"sparse", tiles.Map{{X: 0, Y: 0}: "a", {X: MaxCells, Y: 0}: "b"}},
		{"full int range", tiles.Map{{X: math.MinInt, Y: 0}: "a", {X: math.MaxInt, Y: 0}: "b"}},
		{"area", tiles.Map{{X: 0, Y: 0}: "a", {X: 1 << 10, Y: 1 << 10}: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.m, Request{})
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Resolve() error = %v, want %v", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestResolveKeepsMinLEMax(t *testing.T) {
	m := tiles.Map{{X: 0, Y: 0}: "a"}
	origins := []int{math.MinInt, math.MinInt + 1, -1, 0, 1, math.MaxInt - 1, math.MaxInt}
	sizes := []int{1, 2, 3, 4}
	for _, o := range origins {
		for _, n := range sizes {
			r, err := Resolve(m, Request{Origin: coord(o, o), Size: size(n, n)})
			if err != nil {
				continue
			}
			if r.MinX > r.MaxX || r.MinY > r.MaxY || r.Columns() != n || r.Rows() != n {
				t.Errorf("Resolve(origin=%d, size=%d) = %+v", o, n, r)
			}
		}
	}
}

func TestRequestPartial(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want bool
	}{
		{"none", Request{}, false},
		{"both", Request{Origin: coord(0, 0), Size: size(1, 1)}, false},
		{"origin", Request{Origin: coord(0, 0)}, true},
		{"size", Request{Size: size(1, 1)}, true},
	}
	for _, tt := range tests {
		if got := tt.req.Partial(); got != tt.want {
			t.Errorf("%s: Partial() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegionDims(t *testing.T) {
	r := Region{MinX: -2, MaxX: 1, MinY: 3, MaxY: 3}
	if r.Columns() != 4 || r.Rows() != 1 || r.Cells() != 4 {
		t.Errorf("dims = %dx%d (%d), want 4x1 (4)", r.Columns(), r.Rows(), r.Cells())
	}
	if got, want := r.String(), "min_x=-2, max_x=1, min_y=3, max_y=3"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
