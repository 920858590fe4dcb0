// Package airports holds the airport coordinate table used to place routes
// on the map.
package airports

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/biter777/countries"
	"github.com/sudorandom/routemap/pkg/geodesy"
)

// CodeLength is the length of the ICAO-style codes kept in a table.
const CodeLength = 4

// Airport is a single entry of the coordinate table.
type Airport struct {
	Code     string        `json:"code"`
	Name     string        `json:"name,omitempty"`
	Country  string        `json:"country,omitempty"` // ISO 3166-1 alpha-2
	Location geodesy.Point `json:"location"`
}

// CountryName returns the English country name, or the raw code when it is
// not a known ISO code.
func (a Airport) CountryName() string {
	if a.Country == "" {
		return ""
	}
	c := countries.ByName(a.Country)
	if c == countries.Unknown {
		return a.Country
	}
	return c.String()
}

// Table is an immutable airport code to location mapping.
type Table struct {
	entries map[string]Airport
}

// NewTable builds a table from entries. The map is copied and codes are
// uppercased, so later changes to entries are not visible.
func NewTable(entries map[string]Airport) *Table {
	t := &Table{entries: make(map[string]Airport, len(entries))}
	for code, a := range entries {
		code = strings.ToUpper(strings.TrimSpace(code))
		a.Code = code
		t.entries[code] = a
	}
	return t
}

// FromPoints is a convenience for tables that only need coordinates.
func FromPoints(points map[string]geodesy.Point) *Table {
	entries := make(map[string]Airport, len(points))
	for code, p := range points {
		entries[code] = Airport{Code: code, Location: p}
	}
	return NewTable(entries)
}

// Lookup returns the airport for code.
func (t *Table) Lookup(code string) (Airport, bool) {
	if t == nil {
		return Airport{}, false
	}
	a, ok := t.entries[code]
	return a, ok
}

// Len returns the number of airports in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Codes returns every code in sorted order.
func (t *Table) Codes() []string {
	if t == nil {
		return nil
	}
	codes := make([]string, 0, len(t.entries))
	for code := range t.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

const (
	icaoHeader    = "icao_code"
	gpsHeader     = "gps_code"
	nameHeader    = "name"
	countryHeader = "iso_country"
	latHeader     = "latitude_deg"
	lngHeader     = "longitude_deg"
)

// LoadOurAirports parses the OurAirports airports.csv format. The code is
// taken from icao_code, then gps_code; only 4-character codes with valid
// coordinates are kept.
func LoadOurAirports(r io.Reader) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to parse airports CSV headers: %w", err)
	}

	headerMap := make(map[string]int)
	for i, h := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{latHeader, lngHeader} {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("airports CSV is missing the %s column", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := headerMap[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	entries := make(map[string]Airport)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse airports CSV: %w", err)
		}

		code := ""
		for _, h := range []string{icaoHeader, gpsHeader} {
			if c := field(record, h); c != "" {
				code = strings.ToUpper(c)
				break
			}
		}
		if len(code) != CodeLength {
			continue
		}

		lat, latErr := strconv.ParseFloat(field(record, latHeader), 64)
		lng, lngErr := strconv.ParseFloat(field(record, lngHeader), 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		loc := geodesy.Point{Lat: lat, Lng: lng}
		if !loc.Valid() {
			continue
		}

		entries[code] = Airport{
			Code:     code,
			Name:     field(record, nameHeader),
			Country:  strings.ToUpper(field(record, countryHeader)),
			Location: loc,
		}
	}

	return NewTable(entries), nil
}
