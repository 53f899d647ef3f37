package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadOBJ reads a Wavefront OBJ file from disk. See ParseOBJ for the
// supported subset.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening obj: %w", err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ parses vertex positions and faces from OBJ text. Texture and
// normal references (v/vt/vn) are accepted and discarded; polygons with more
// than three vertices are split into triangle fans. Everything else in the
// format is ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var verts []mgl32.Vec3
	var faces [][3]int32

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var v mgl32.Vec3
			for i := 0; i < 3; i++ {
				x, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad coordinate %q", lineNo, fields[i+1])
				}
				v[i] = float32(x)
			}
			verts = append(verts, v)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				i, err := parseFaceIndex(tok, len(verts))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			// Fan triangulation for quads and larger polygons.
			for k := 1; k < len(idx)-1; k++ {
				faces = append(faces, [3]int32{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("no vertices found")
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("no faces found")
	}

	m := &Mesh{Vertices: verts, Edges: edgesFromFaces(faces), Faces: faces}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseFaceIndex resolves one face token ("7", "7/2", "7//3", "-1") to a
// zero-based vertex index. OBJ indices are 1-based; negative indices count
// back from the last vertex parsed so far.
func parseFaceIndex(tok string, numVerts int) (int32, error) {
	if slash := strings.IndexByte(tok, '/'); slash >= 0 {
		tok = tok[:slash]
	}
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", tok)
	}
	if i < 0 {
		i = numVerts + i
	} else {
		i--
	}
	if i < 0 || i >= numVerts {
		return 0, fmt.Errorf("face index %q out of range", tok)
	}
	return int32(i), nil
}
