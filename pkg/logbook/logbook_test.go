package logbook

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sudorandom/routemap/pkg/airports"
	"github.com/sudorandom/routemap/pkg/geodesy"
)

func TestReadLegs(t *testing.T) {
	input := "date,Departure,ARRIVAL,aircraft_type,flight_time_hrs\n" +
		"2024-01-02,kpdx,ksea,C172,1.1\n" +
		"2024-01-03, KSEA , KPDX ,C172,1.0\n" +
		"2024-01-04,,KBFI,C172,0.4\n" +
		"2024-01-05,KSEA\n" +
		"2024-01-06,KSEA,KGEG,C172,2.0\n"

	legs, stats, err := ReadLegs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Leg{
		{Origin: "KPDX", Destination: "KSEA"},
		{Origin: "KSEA", Destination: "KPDX"},
		{Origin: "KSEA", Destination: "KGEG"},
	}, legs)
	assert.Equal(t, ReadStats{Rows: 5, Skipped: 2}, stats)
}

func TestReadLegsDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"semicolon", "departure;arrival;remarks\nEGLL;LICZ;x, y\n"},
		{"tab", "departure\tarrival\nEGLL\tLICZ\n"},
		{"bom", "\xef\xbb\xbfdeparture,arrival\nEGLL,LICZ\n"},
		{"crlf", "departure,arrival\r\nEGLL,LICZ\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legs, _, err := ReadLegs(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, []Leg{{Origin: "EGLL", Destination: "LICZ"}}, legs)
		})
	}
}

func TestReadLegsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty file", "", ErrInput},
		{"missing arrival", "departure,date\nEGLL,2024-01-01\n", ErrInput},
		{"missing both", "from,to\nEGLL,LICZ\n", ErrInput},
		{"header only", "departure,arrival\n", ErrEmptyDataset},
		{"all rows blank", "departure,arrival\n,\n , \n", ErrEmptyDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadLegs(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestReadLegsFile(t *testing.T) {
	_, _, err := ReadLegsFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrInput)

	path := filepath.Join(t.TempDir(), "logbook.csv")
	require.NoError(t, os.WriteFile(path, []byte("departure,arrival\nEGLL,KSEA\n"), 0o644))
	legs, _, err := ReadLegsFile(path)
	require.NoError(t, err)
	assert.Len(t, legs, 1)
}

func TestFindHomeBase(t *testing.T) {
	tests := []struct {
		name     string
		legs     []Leg
		override string
		want     string
	}{
		{
			name: "most frequent origin",
			legs: []Leg{NewLeg("A", "X"), NewLeg("A", "Y"), NewLeg("B", "Z")},
			want: "A",
		},
		{
			name: "tie goes to first to reach the maximum",
			legs: []Leg{NewLeg("B", "X"), NewLeg("A", "X"), NewLeg("A", "Y"), NewLeg("B", "Y")},
			want: "A",
		},
		{
			name: "tie with single occurrences keeps first seen",
			legs: []Leg{NewLeg("C", "X"), NewLeg("B", "X"), NewLeg("A", "X")},
			want: "C",
		},
		{
			name:     "override wins and is normalised",
			legs:     []Leg{NewLeg("A", "X"), NewLeg("A", "Y")},
			override: " kbfi ",
			want:     "KBFI",
		},
		{
			name:     "override without legs",
			override: "egll",
			want:     "EGLL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindHomeBase(tt.legs, tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FindHomeBase(nil, "  ")
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestCountRouteFrequencies(t *testing.T) {
	t.Run("direction symmetric", func(t *testing.T) {
		freqs := CountRouteFrequencies([]Leg{NewLeg("A", "B"), NewLeg("B", "A")}, "A")
		assert.Equal(t, Frequencies{"B": 2}, freqs)
	})

	t.Run("ignores legs away from home and self loops", func(t *testing.T) {
		legs := []Leg{
			NewLeg("A", "B"),
			NewLeg("B", "C"),
			NewLeg("A", "A"),
			NewLeg("C", "A"),
			NewLeg("A", "C"),
		}
		freqs := CountRouteFrequencies(legs, "A")
		assert.Equal(t, Frequencies{"B": 1, "C": 2}, freqs)
		assert.Equal(t, 3, freqs.Total())
		assert.Equal(t, 2, freqs.Max())
	})

	t.Run("unknown home", func(t *testing.T) {
		assert.Empty(t, CountRouteFrequencies([]Leg{NewLeg("A", "B")}, "Z"))
	})
}

func TestRoutesAscending(t *testing.T) {
	freqs := Frequencies{"EGLL": 16, "LICZ": 14, "KSEA": 10, "KBFI": 14}
	assert.Equal(t, []Route{
		{Code: "KSEA", Count: 10},
		{Code: "KBFI", Count: 14},
		{Code: "LICZ", Count: 14},
		{Code: "EGLL", Count: 16},
	}, freqs.Routes())
	assert.Empty(t, Frequencies{}.Routes())
	assert.Zero(t, Frequencies{}.Max())
}

func TestSummarize(t *testing.T) {
	table := airports.NewTable(map[string]airports.Airport{
		"KSEA": {Country: "US", Location: geodesy.Point{Lat: 47.449888, Lng: -122.311777}},
		"KPDX": {Country: "US", Location: geodesy.Point{Lat: 45.588699, Lng: -122.5975}},
		"CYVR": {Country: "CA", Location: geodesy.Point{Lat: 49.193901, Lng: -123.183998}},
	})
	legs := []Leg{
		NewLeg("KSEA", "KPDX"),
		NewLeg("KPDX", "KSEA"),
		NewLeg("KSEA", "CYVR"),
		NewLeg("KSEA", "ZZZZ"),
		NewLeg("KPDX", "CYVR"),
	}
	freqs := CountRouteFrequencies(legs, "KSEA")
	s := Summarize(legs, "KSEA", freqs, table)

	assert.Equal(t, "KSEA", s.Home)
	assert.Equal(t, 5, s.Legs)
	assert.Equal(t, 4, s.HomeLegs)
	assert.Equal(t, 3, s.Destinations)
	assert.Equal(t, []string{"Canada", "United States"}, s.Countries)
	// Two Seattle-Portland legs (~112 NM each) and one Seattle-Vancouver (~110 NM).
	assert.InDelta(t, 335, s.DistanceNM, 15)
}
