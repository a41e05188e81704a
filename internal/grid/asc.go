package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedHeader marks any parse failure in the six header lines or a
// mismatch between the declared and actual number of cell values. Check
// with errors.Is.
var ErrMalformedHeader = errors.New("malformed grid header")

// headerKeys lists the required header lines in file order. The NODATA key
// is matched by prefix because files in the wild carry both "NODATA_value"
// and "nodata_value".
var headerKeys = [6]string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize", "nodata"}

// ReadHeader parses the six header lines from r and leaves the reader
// positioned at the first data row. The fusion engine uses this to scan
// extents without loading cell data.
func ReadHeader(br *bufio.Reader) (Header, error) {
	var h Header
	for i := 0; i < 6; i++ {
		line, err := br.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return h, fmt.Errorf("%w: missing header line %d: %v", ErrMalformedHeader, i+1, err)
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return h, fmt.Errorf("%w: header line %d %q", ErrMalformedHeader, i+1, strings.TrimSpace(line))
		}
		key := strings.ToLower(fields[0])
		want := headerKeys[i]
		if !strings.HasPrefix(key, want) {
			return h, fmt.Errorf("%w: header line %d: got key %q, want %q", ErrMalformedHeader, i+1, fields[0], want)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return h, fmt.Errorf("%w: header line %d: %q is not numeric", ErrMalformedHeader, i+1, fields[1])
		}
		switch i {
		case 0:
			h.NCols = int(v)
		case 1:
			h.NRows = int(v)
		case 2:
			h.XLLCorner = v
		case 3:
			h.YLLCorner = v
		case 4:
			h.CellSize = v
		case 5:
			h.NoData = v
		}
	}
	if h.NCols <= 0 || h.NRows <= 0 {
		return h, fmt.Errorf("%w: non-positive dimensions %dx%d", ErrMalformedHeader, h.NCols, h.NRows)
	}
	if h.CellSize <= 0 {
		return h, fmt.Errorf("%w: non-positive cellsize %g", ErrMalformedHeader, h.CellSize)
	}
	return h, nil
}

// ReadHeaderFile reads only the header of the grid file at path.
func ReadHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	return ReadHeader(bufio.NewReader(f))
}

// ReadRows parses the grid at r and streams it one row at a time to fn.
// The row slice is reused between calls; fn must copy values it keeps.
// Values may wrap across physical lines, rows are reassembled by count.
func ReadRows(r io.Reader, fn func(row int, values []float64) error) (Header, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	h, err := ReadHeader(br)
	if err != nil {
		return h, err
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 1<<16), 1<<20)
	sc.Split(bufio.ScanWords)

	row := make([]float64, h.NCols)
	rowIdx, colIdx := 0, 0
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return h, fmt.Errorf("%w: row %d: %q is not numeric", ErrMalformedHeader, rowIdx, sc.Text())
		}
		if rowIdx >= h.NRows {
			return h, fmt.Errorf("%w: more than %d rows of data", ErrMalformedHeader, h.NRows)
		}
		row[colIdx] = v
		colIdx++
		if colIdx == h.NCols {
			if err := fn(rowIdx, row); err != nil {
				return h, err
			}
			rowIdx++
			colIdx = 0
		}
	}
	if err := sc.Err(); err != nil {
		return h, err
	}
	if rowIdx != h.NRows || colIdx != 0 {
		return h, fmt.Errorf("%w: expected %dx%d values, got %d full rows and %d trailing values",
			ErrMalformedHeader, h.NRows, h.NCols, rowIdx, colIdx)
	}
	return h, nil
}

// Read parses a complete grid from r.
func Read(r io.Reader) (*Grid, error) {
	var data [][]float64
	h, err := ReadRows(r, func(_ int, values []float64) error {
		row := make([]float64, len(values))
		copy(row, values)
		data = append(data, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Grid{Header: h, Data: data}, nil
}

// ReadFile parses the grid file at path.
func ReadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Write emits the grid in the interchange format: six header lines, then
// one line per row with each cell printed at fixed precision. No-data
// cells print the sentinel number itself so readers round-trip categories.
func (g *Grid) Write(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	fmt.Fprintf(bw, "ncols %d\n", g.NCols)
	fmt.Fprintf(bw, "nrows %d\n", g.NRows)
	fmt.Fprintf(bw, "xllcorner %s\n", strconv.FormatFloat(g.XLLCorner, 'f', -1, 64))
	fmt.Fprintf(bw, "yllcorner %s\n", strconv.FormatFloat(g.YLLCorner, 'f', -1, 64))
	fmt.Fprintf(bw, "cellsize %s\n", strconv.FormatFloat(g.CellSize, 'f', -1, 64))
	fmt.Fprintf(bw, "NODATA_value %s\n", strconv.FormatFloat(g.NoData, 'f', -1, 64))

	buf := make([]byte, 0, 16)
	for _, row := range g.Data {
		for c, v := range row {
			if c > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			buf = strconv.AppendFloat(buf[:0], v, 'f', 6, 64)
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the grid to path, creating or truncating it.
func (g *Grid) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
