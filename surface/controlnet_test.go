package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// gridUV builds one (u,v) coordinate per cell of a numU x numV grid,
// row-major, exactly on the bucket centers.
func gridUV(numU, numV int) [][2]float32 {
	uv := make([][2]float32, 0, numU*numV)
	for i := 0; i < numU; i++ {
		for j := 0; j < numV; j++ {
			uv = append(uv, [2]float32{
				float32(i) / float32(numU-1),
				float32(j) / float32(numV-1),
			})
		}
	}
	return uv
}

func TestGridMapperRebuild(t *testing.T) {
	numU, numV := 3, 3
	mapper, err := NewGridMapper(gridUV(numU, numV), numU, numV, 2, Open)
	if err != nil {
		t.Fatalf("NewGridMapper: %v", err)
	}

	positions := make([]mgl32.Vec3, numU*numV)
	for i := range positions {
		positions[i] = mgl32.Vec3{float32(i), 0, 0}
	}

	net, err := mapper.Rebuild(positions)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if net.Rows != numU {
		t.Errorf("open net rows = %d, want %d", net.Rows, numU)
	}
	for row := 0; row < numU; row++ {
		for col := 0; col < numV; col++ {
			want := positions[row*numV+col]
			if got := net.At(row, col); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestGridMapperLastWriteWins(t *testing.T) {
	// Two particles in the same bucket: the later one provides the point.
	uv := [][2]float32{{0, 0}, {0, 0}, {1, 1}, {0, 1}, {1, 0}}
	mapper, err := NewGridMapper(uv, 2, 2, 2, Open)
	if err != nil {
		t.Fatalf("NewGridMapper: %v", err)
	}

	positions := []mgl32.Vec3{
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
		{4, 4, 4},
		{5, 5, 5},
	}
	net, err := mapper.Rebuild(positions)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if got := net.At(0, 0); got != positions[1] {
		t.Errorf("collided bucket = %v, want the later particle %v", got, positions[1])
	}
}

func TestGridMapperRejectsOutOfRangeUV(t *testing.T) {
	uv := [][2]float32{{0, 0}, {1.5, 0.5}}
	if _, err := NewGridMapper(uv, 2, 2, 2, Open); err == nil {
		t.Error("expected error for (u,v) outside [0,1]^2")
	}
}

func TestGridMapperRejectsMismatchedPositions(t *testing.T) {
	mapper, err := NewGridMapper(gridUV(2, 2), 2, 2, 2, Open)
	if err != nil {
		t.Fatalf("NewGridMapper: %v", err)
	}
	if _, err := mapper.Rebuild(make([]mgl32.Vec3, 3)); err == nil {
		t.Error("expected error for position count mismatch")
	}
}

func TestGridMapperClosedPadding(t *testing.T) {
	numU, numV, orderU := 5, 3, 3
	mapper, err := NewGridMapper(gridUV(numU, numV), numU, numV, orderU, Closed)
	if err != nil {
		t.Fatalf("NewGridMapper: %v", err)
	}

	positions := make([]mgl32.Vec3, numU*numV)
	for i := range positions {
		positions[i] = mgl32.Vec3{float32(i), float32(i * 2), 0}
	}
	net, err := mapper.Rebuild(positions)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	wantRows := numU + orderU - 1
	if net.Rows != wantRows {
		t.Fatalf("closed net rows = %d, want %d", net.Rows, wantRows)
	}

	// Seam: row 0 duplicates the last base row.
	for col := 0; col < numV; col++ {
		if net.At(0, col) != net.At(numU-1, col) {
			t.Errorf("col %d: seam row 0 = %v, last base row = %v",
				col, net.At(0, col), net.At(numU-1, col))
		}
	}

	// Padding rows duplicate rows 1..orderU-1.
	for j := 1; j < orderU; j++ {
		for col := 0; col < numV; col++ {
			if net.At(numU+j-1, col) != net.At(j, col) {
				t.Errorf("padding row %d col %d = %v, want copy of row %d = %v",
					numU+j-1, col, net.At(numU+j-1, col), j, net.At(j, col))
			}
		}
	}
}

func TestGridMapperClosedFoldsWrapBucket(t *testing.T) {
	// On a closed surface u=0 and u=1 are the same column. A particle at
	// u=0 must land in the last base row, where the seam copy reads from,
	// not in row 0, where it would be overwritten every Rebuild.
	numU, numV, orderU := 5, 3, 3
	uv := append(gridUV(numU, numV), [2]float32{0, 0})
	mapper, err := NewGridMapper(uv, numU, numV, orderU, Closed)
	if err != nil {
		t.Fatalf("NewGridMapper: %v", err)
	}

	positions := make([]mgl32.Vec3, len(uv))
	for i := range positions {
		positions[i] = mgl32.Vec3{float32(i), 0, 0}
	}
	net, err := mapper.Rebuild(positions)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	last := positions[len(positions)-1]
	if got := net.At(numU-1, 0); got != last {
		t.Errorf("wrap particle landed at %v, want it in the last base row as %v", got, last)
	}
	if got := net.At(0, 0); got != last {
		t.Errorf("seam row 0 = %v, want copy of the wrap particle %v", got, last)
	}
}

func TestGridMapperClosedRejectsUncoveredCell(t *testing.T) {
	// Drop every particle of base row 2; the net would carry a stale zero
	// row forever, so construction must fail.
	numU, numV := 5, 3
	var uv [][2]float32
	for _, p := range gridUV(numU, numV) {
		if p[0] == 0.5 {
			continue
		}
		uv = append(uv, p)
	}
	if _, err := NewGridMapper(uv, numU, numV, 3, Closed); err == nil {
		t.Error("expected error for closed mapping with an unwritten base row")
	}
}

func TestTopologyString(t *testing.T) {
	if Open.String() != "open" || Closed.String() != "closed" {
		t.Errorf("topology strings = %q, %q", Open.String(), Closed.String())
	}
}
