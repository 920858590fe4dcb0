// Package logbook reads pilot logbooks and turns flight legs into route
// frequencies measured from a home base.
package logbook

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrInput means the logbook could not be read or lacks required columns.
	ErrInput = errors.New("invalid logbook input")
	// ErrEmptyDataset means there is nothing to map: no usable legs, no
	// home base, or no routes touching the home base.
	ErrEmptyDataset = errors.New("empty dataset")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const (
	departureHeader = "departure"
	arrivalHeader   = "arrival"
)

// Leg is one flight from Origin to Destination. Codes are uppercase.
type Leg struct {
	Origin      string
	Destination string
}

// NewLeg normalises both airport codes.
func NewLeg(origin, destination string) Leg {
	return Leg{Origin: NormalizeCode(origin), Destination: NormalizeCode(destination)}
}

func (l Leg) String() string {
	return l.Origin + "-" + l.Destination
}

// NormalizeCode trims and uppercases an airport code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ReadStats describes what ReadLegs did with the input rows.
type ReadStats struct {
	Rows    int
	Skipped int
}

// ReadLegsFile opens path and parses it with ReadLegs.
func ReadLegsFile(path string) ([]Leg, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("%w: %v", ErrInput, err)
	}
	defer f.Close()
	return ReadLegs(f)
}

// ReadLegs parses a delimited logbook with a header row containing departure
// and arrival columns (case-insensitive). Other columns are ignored, and rows
// without both values are skipped.
func ReadLegs(r io.Reader) ([]Leg, ReadStats, error) {
	var stats ReadStats

	br := bufio.NewReader(r)
	headerLine, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, stats, fmt.Errorf("%w: %v", ErrInput, err)
	}
	if bytes.HasPrefix(headerLine, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, stats, fmt.Errorf("%w: %v", ErrInput, err)
		}
		headerLine = headerLine[len(utf8BOM):]
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(headerLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, stats, fmt.Errorf("%w: missing header row", ErrInput)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("%w: reading header: %v", ErrInput, err)
	}

	depIdx, arrIdx := -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case departureHeader:
			if depIdx < 0 {
				depIdx = i
			}
		case arrivalHeader:
			if arrIdx < 0 {
				arrIdx = i
			}
		}
	}
	var missing []string
	if depIdx < 0 {
		missing = append(missing, departureHeader)
	}
	if arrIdx < 0 {
		missing = append(missing, arrivalHeader)
	}
	if len(missing) > 0 {
		return nil, stats, fmt.Errorf("%w: missing required column(s) %s", ErrInput, strings.Join(missing, ", "))
	}

	var legs []Leg
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: %v", ErrInput, err)
		}
		stats.Rows++

		if depIdx >= len(record) || arrIdx >= len(record) {
			stats.Skipped++
			continue
		}
		leg := NewLeg(record[depIdx], record[arrIdx])
		if leg.Origin == "" || leg.Destination == "" {
			stats.Skipped++
			continue
		}
		legs = append(legs, leg)
	}

	if len(legs) == 0 {
		return nil, stats, fmt.Errorf("%w: no usable flight legs", ErrEmptyDataset)
	}
	return legs, stats, nil
}

// sniffDelimiter picks the most common of comma, semicolon and tab in the
// first line, defaulting to comma.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestCount := ',', bytes.Count(head, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(head, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
