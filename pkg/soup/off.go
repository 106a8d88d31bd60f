package soup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadOFF reads an Object File Format mesh into a PolygonSoup.
func LoadOFF(path string) (*PolygonSoup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("soup: %w", err)
	}
	defer f.Close()
	return ReadOFF(f)
}

// offTokens feeds whitespace-separated tokens from an OFF stream,
// stripping '#' comments to end of line.
type offTokens struct {
	scanner *bufio.Scanner
	queue   []string
}

func newOffTokens(r io.Reader) *offTokens {
	return &offTokens{scanner: bufio.NewScanner(r)}
}

func (t *offTokens) next() (string, error) {
	for len(t.queue) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		line := t.scanner.Text()
		if hash := strings.IndexByte(line, '#'); hash >= 0 {
			line = line[:hash]
		}
		t.queue = strings.Fields(line)
	}
	tok := t.queue[0]
	t.queue = t.queue[1:]
	return tok, nil
}

func (t *offTokens) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", tok)
	}
	return n, nil
}

func (t *offTokens) nextFloat() (float64, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", tok)
	}
	return v, nil
}

// ReadOFF parses OFF content from r into a PolygonSoup. The optional
// "OFF" keyword line is accepted; the header is otherwise
// vertex/face/edge counts followed by coordinate and index lines.
func ReadOFF(r io.Reader) (*PolygonSoup, error) {
	tokens := newOffTokens(r)

	tok, err := tokens.next()
	if err != nil {
		return nil, fmt.Errorf("soup: parsing OFF: empty file")
	}

	var numVertices int
	if strings.EqualFold(tok, "OFF") {
		numVertices, err = tokens.nextInt()
		if err != nil {
			return nil, fmt.Errorf("soup: parsing OFF header: %w", err)
		}
	} else {
		numVertices, err = strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("soup: parsing OFF header: expected count, got %q", tok)
		}
	}

	numFaces, err := tokens.nextInt()
	if err != nil {
		return nil, fmt.Errorf("soup: parsing OFF header: %w", err)
	}
	// Edge count is declared but unused.
	if _, err := tokens.nextInt(); err != nil {
		return nil, fmt.Errorf("soup: parsing OFF header: %w", err)
	}

	if numVertices < 0 || numFaces < 0 {
		return nil, fmt.Errorf("soup: parsing OFF header: negative count")
	}
	if numVertices == 0 {
		return nil, fmt.Errorf("soup: OFF file contains no vertices")
	}
	if numFaces == 0 {
		return nil, fmt.Errorf("soup: OFF file contains no faces")
	}

	s := &PolygonSoup{
		Vertices: make([]float64, 0, numVertices*3),
		Faces:    make([][]int, 0, numFaces),
	}

	for i := 0; i < numVertices; i++ {
		for c := 0; c < 3; c++ {
			v, err := tokens.nextFloat()
			if err != nil {
				return nil, fmt.Errorf("soup: parsing OFF vertex %d: %w", i, err)
			}
			s.Vertices = append(s.Vertices, v)
		}
	}

	for i := 0; i < numFaces; i++ {
		arity, err := tokens.nextInt()
		if err != nil {
			return nil, fmt.Errorf("soup: parsing OFF face %d: %w", i, err)
		}
		if arity < 3 {
			return nil, fmt.Errorf("soup: parsing OFF face %d: polygon has %d vertices", i, arity)
		}
		face := make([]int, arity)
		for v := 0; v < arity; v++ {
			idx, err := tokens.nextInt()
			if err != nil {
				return nil, fmt.Errorf("soup: parsing OFF face %d: %w", i, err)
			}
			face[v] = idx
		}
		s.Faces = append(s.Faces, face)
	}

	return s, nil
}
