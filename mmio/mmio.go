// Package mmio reads graphs from Matrix Market coordinate files.
package mmio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gander/graph"
)

const headerPrefix = "%%MatrixMarket"

// header is the parsed banner line: object/format are validated, field and
// symmetry drive how entries are expanded into edges.
type header struct {
	field    string // "real", "integer" or "pattern"
	symmetry string // "general", "symmetric" or "skew-symmetric"
}

// ReadFile parses path as a Matrix Market coordinate file and returns the
// closed edge list. One-based vertex ids in the file become zero-based.
func ReadFile(path string) (*graph.EdgeList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	el, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return el, nil
}

// Read parses Matrix Market coordinate data. Pattern matrices get unit
// weights; symmetric matrices emit both edge directions.
func Read(r io.Reader) (*graph.EdgeList, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)

	hdr, err := readBanner(scanner)
	if err != nil {
		return nil, err
	}

	rows, cols, entries, err := readSizeLine(scanner)
	if err != nil {
		return nil, err
	}

	numVertices := rows
	if cols > numVertices {
		numVertices = cols
	}

	el := graph.NewEdgeList()
	el.SetNumVertices(uint32(numVertices))

	for i := 0; i < entries; i++ {
		line, err := nextDataLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("entry %d of %d: %w", i+1, entries, err)
		}
		src, dst, weight, err := parseEntry(line, hdr.field)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if src < 1 || src > rows || dst < 1 || dst > cols {
			return nil, fmt.Errorf("entry %d: index (%d, %d) out of range", i+1, src, dst)
		}
		u, v := uint32(src-1), uint32(dst-1)
		el.Push(u, v, weight)
		if hdr.symmetry != "general" && u != v {
			if hdr.symmetry == "skew-symmetric" {
				el.Push(v, u, -weight)
			} else {
				el.Push(v, u, weight)
			}
		}
	}

	el.Close()
	return el, nil
}

func readBanner(scanner *bufio.Scanner) (header, error) {
	if !scanner.Scan() {
		return header{}, fmt.Errorf("missing banner: %w", scanErr(scanner))
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 5 || fields[0] != headerPrefix {
		return header{}, fmt.Errorf("bad banner line: %q", scanner.Text())
	}
	object, format := strings.ToLower(fields[1]), strings.ToLower(fields[2])
	hdr := header{
		field:    strings.ToLower(fields[3]),
		symmetry: strings.ToLower(fields[4]),
	}
	if object != "matrix" {
		return header{}, fmt.Errorf("unsupported object: %q", object)
	}
	if format != "coordinate" {
		return header{}, fmt.Errorf("unsupported format: %q", format)
	}
	switch hdr.field {
	case "real", "integer", "pattern":
	default:
		return header{}, fmt.Errorf("unsupported field: %q", hdr.field)
	}
	switch hdr.symmetry {
	case "general", "symmetric", "skew-symmetric":
	default:
		return header{}, fmt.Errorf("unsupported symmetry: %q", hdr.symmetry)
	}
	return hdr, nil
}

func readSizeLine(scanner *bufio.Scanner) (rows, cols, entries int, err error) {
	line, err := nextDataLine(scanner)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("missing size line: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("bad size line: %q", line)
	}
	rows, err = strconv.Atoi(fields[0])
	if err == nil {
		cols, err = strconv.Atoi(fields[1])
	}
	if err == nil {
		entries, err = strconv.Atoi(fields[2])
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad size line %q: %w", line, err)
	}
	return rows, cols, entries, nil
}

// nextDataLine returns the next non-empty, non-comment line.
func nextDataLine(scanner *bufio.Scanner) (string, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		return line, nil
	}
	return "", scanErr(scanner)
}

func parseEntry(line, field string) (src, dst int, weight float32, err error) {
	fields := strings.Fields(line)
	want := 3
	if field == "pattern" {
		want = 2
	}
	if len(fields) < want {
		return 0, 0, 0, fmt.Errorf("bad entry line: %q", line)
	}
	src, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad row index %q: %w", fields[0], err)
	}
	dst, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad column index %q: %w", fields[1], err)
	}
	if field == "pattern" {
		return src, dst, 1, nil
	}
	value, err := strconv.ParseFloat(fields[2], 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad value %q: %w", fields[2], err)
	}
	return src, dst, float32(value), nil
}

func scanErr(scanner *bufio.Scanner) error {
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}
