// Package synth writes reproducible synthetic customer CSV files for
// exercising the converter.
package synth

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/flarebyte/csv2bin/internal/record"
)

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael",
		"Linda", "William", "Elizabeth", "David", "Barbara", "Richard", "Susan",
		"Joseph", "Jessica", "Thomas", "Sarah", "Christopher", "Karen", "Charles",
		"Nancy", "Daniel", "Lisa", "Matthew", "Betty", "Anthony", "Margaret",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
		"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
		"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark",
	}
	cities = []string{
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
		"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
		"Austin", "Jacksonville", "Fort Worth", "Columbus", "Charlotte",
		"San Francisco", "Indianapolis", "Seattle", "Denver", "Boston",
	}
	states = []string{
		"NY", "CA", "IL", "TX", "AZ", "PA", "FL", "OH", "NC", "WA",
		"CO", "MA", "GA", "MI", "VA", "NJ", "MD", "OR", "MN", "NV",
	}
)

var (
	firstDay = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	lastDay  = time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
)

// Defect names the kind of damage injected into an invalid row.
type Defect int

const (
	DefectEmail Defect = iota
	DefectPhone
	DefectState
	DefectZip
	DefectMissingField
	defectCount
)

// Options control generation. The same options always produce the same file.
type Options struct {
	Count   int
	Seed    int64
	StartID int
	// InvalidRate is the share of rows, in [0,1], that get one defect.
	InvalidRate float64
}

// Stats counts what was written.
type Stats struct {
	Rows    int
	Invalid int
}

// Write emits a header and opts.Count customer rows to w.
func Write(w io.Writer, opts Options) (Stats, error) {
	if opts.Count < 0 {
		return Stats{}, fmt.Errorf("count must not be negative")
	}
	if opts.InvalidRate < 0 || opts.InvalidRate > 1 {
		return Stats{}, fmt.Errorf("invalid rate %v outside [0,1]", opts.InvalidRate)
	}
	if opts.StartID <= 0 {
		opts.StartID = 1
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	cw := csv.NewWriter(w)
	if err := cw.Write(record.Fields()); err != nil {
		return Stats{}, err
	}

	var st Stats
	for i := 0; i < opts.Count; i++ {
		row := customer(rng, opts.StartID+i)
		if opts.InvalidRate > 0 && rng.Float64() < opts.InvalidRate {
			row = inject(rng, row, Defect(rng.Intn(int(defectCount))))
			st.Invalid++
		}
		if err := cw.Write(row); err != nil {
			return st, err
		}
		st.Rows++
	}
	cw.Flush()
	return st, cw.Error()
}

func customer(rng *rand.Rand, id int) []string {
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	days := int(lastDay.Sub(firstDay).Hours()/24) + 1
	return []string{
		strconv.Itoa(id),
		first,
		last,
		fmt.Sprintf("%s.%s%d@email.com", strings.ToLower(first), strings.ToLower(last), id),
		fmt.Sprintf("%d-%d-%d", 200+rng.Intn(800), 200+rng.Intn(800), 1000+rng.Intn(9000)),
		cities[rng.Intn(len(cities))],
		states[rng.Intn(len(states))],
		strconv.Itoa(10000 + rng.Intn(90000)),
		firstDay.AddDate(0, 0, rng.Intn(days)).Format("2006-01-02"),
	}
}

func inject(rng *rand.Rand, row []string, d Defect) []string {
	switch d {
	case DefectEmail:
		row[3] = strings.ReplaceAll(row[3], "@", "")
	case DefectPhone:
		row[4] = strconv.Itoa(100 + rng.Intn(900))
	case DefectState:
		row[6] = strings.ToLower(row[6])
	case DefectZip:
		row[7] = row[7][:3]
	case DefectMissingField:
		row = row[:len(row)-1]
	}
	return row
}
