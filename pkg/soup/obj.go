package soup

import (
	"fmt"
	"io"
	"os"

	objparser "github.com/mokiat/go-data-front/decoder/obj"
)

// LoadOBJ reads a Wavefront OBJ file into a PolygonSoup. Tokenizing is
// delegated to the go-data-front decoder; this adapter only flattens the
// decoded model. Material libraries referenced by the file are not
// resolved; a missing .mtl is never an error.
func LoadOBJ(path string) (*PolygonSoup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("soup: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f)
}

// ReadOBJ decodes OBJ content from r into a PolygonSoup.
//
// Vertices keep the file order, so face indices stay valid unchanged.
// Texture-coordinate and normal references are discarded. Polygon faces
// are fan-triangulated, matching what a triangulating OBJ parser emits.
func ReadOBJ(r io.Reader) (*PolygonSoup, error) {
	decoder := objparser.NewDecoder(objparser.DefaultLimits())
	model, err := decoder.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("soup: parsing OBJ: %w", err)
	}

	if len(model.Vertices) == 0 {
		return nil, fmt.Errorf("soup: OBJ file contains no vertices")
	}

	s := &PolygonSoup{
		Vertices: make([]float64, 0, len(model.Vertices)*3),
	}
	for _, v := range model.Vertices {
		s.Vertices = append(s.Vertices, v.X, v.Y, v.Z)
	}

	for _, o := range model.Objects {
		for _, m := range o.Meshes {
			for _, face := range m.Faces {
				refs := face.References
				if len(refs) < 3 {
					continue
				}
				// Fan triangulation around the first reference.
				for i := 1; i+1 < len(refs); i++ {
					s.Faces = append(s.Faces, []int{
						int(refs[0].VertexIndex),
						int(refs[i].VertexIndex),
						int(refs[i+1].VertexIndex),
					})
				}
			}
		}
	}

	if len(s.Faces) == 0 {
		return nil, fmt.Errorf("soup: OBJ file contains no faces")
	}
	return s, nil
}
