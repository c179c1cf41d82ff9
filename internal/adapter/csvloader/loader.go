// Package csvloader reads per-station CSV files into record sets.
//
// Cruise datasets arrive as one CSV per station, named after the station
// with an instrument suffix ("SO301_009_01_btl.csv"). The loader derives the
// station ID from the filename, coerces configured columns to numbers
// (coercion failures become explicit missing markers), and collapses each
// file to one station-level record: coordinates from the first sample that
// carries them, numeric columns averaged over the samples, categorical
// columns from the first non-empty sample.
package csvloader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/luigallucci/HYDRA/internal/domain"
)

// Options configures a Loader for one dataset family.
type Options struct {
	SourceTag string // record set source tag, e.g. "bottles"

	// SuffixesToRemove are stripped from filenames to recover station IDs,
	// e.g. "_01_btl".
	SuffixesToRemove []string

	LatColumn string // defaults to "CTD_lat"
	LonColumn string // defaults to "CTD_lon"

	RequiredColumns []string
	NumericColumns  []string
}

// Loader implements pipeline.Loader for directories of station CSVs.
type Loader struct {
	opts Options
}

// New creates a Loader.
func New(opts Options) *Loader {
	if opts.LatColumn == "" {
		opts.LatColumn = "CTD_lat"
	}
	if opts.LonColumn == "" {
		opts.LonColumn = "CTD_lon"
	}
	return &Loader{opts: opts}
}

// Load reads every *.csv in dir into one record set, one record per file.
// Files are visited in sorted name order so output is deterministic.
func (l *Loader) Load(ctx context.Context, dir string) (domain.RecordSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("read data directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	set := domain.RecordSet{Source: l.opts.SourceTag}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return domain.RecordSet{}, err
		}
		rec, err := l.loadFile(filepath.Join(dir, name))
		if err != nil {
			return domain.RecordSet{}, fmt.Errorf("%s: %w", name, err)
		}
		rec.StationID = l.stationID(name)
		set.Records = append(set.Records, rec)
	}
	return set, nil
}

// stationID strips the configured instrument suffixes and the .csv extension.
func (l *Loader) stationID(filename string) string {
	base := strings.TrimSuffix(filename, ".csv")
	for _, suffix := range l.opts.SuffixesToRemove {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}

func (l *Loader) loadFile(path string) (domain.StationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.StationRecord{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return domain.StationRecord{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(all) < 2 {
		return domain.StationRecord{}, fmt.Errorf("no data rows")
	}

	header := all[0]
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	for _, req := range l.opts.RequiredColumns {
		if _, ok := colIdx[req]; !ok {
			return domain.StationRecord{}, fmt.Errorf("missing required column %q", req)
		}
	}

	numeric := make(map[string]bool, len(l.opts.NumericColumns))
	for _, c := range l.opts.NumericColumns {
		numeric[c] = true
	}

	rec := domain.StationRecord{Cells: map[string]domain.Value{}}
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, row := range all[1:] {
		for i, h := range header {
			h = strings.TrimSpace(h)
			if i >= len(row) {
				continue
			}
			raw := strings.TrimSpace(row[i])
			if raw == "" {
				continue
			}
			if numeric[h] || h == l.opts.LatColumn || h == l.opts.LonColumn {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					continue // coercion failure stays missing
				}
				sums[h] += v
				counts[h]++
				continue
			}
			// Categorical: first non-empty sample wins.
			if _, ok := rec.Cells[h]; !ok {
				rec.Fields = append(rec.Fields, h)
				rec.Cells[h] = domain.Text(raw)
			}
		}
	}

	// Coordinates: mean of the samples that carried them. A station file
	// without any parseable position cannot be placed on a map.
	latN, lonN := counts[l.opts.LatColumn], counts[l.opts.LonColumn]
	if latN == 0 || lonN == 0 {
		return domain.StationRecord{}, fmt.Errorf("no usable %s/%s values", l.opts.LatColumn, l.opts.LonColumn)
	}
	rec.Lat = sums[l.opts.LatColumn] / float64(latN)
	rec.Lon = sums[l.opts.LonColumn] / float64(lonN)

	// Numeric columns in header order, averaged over the samples.
	for _, h := range header {
		h = strings.TrimSpace(h)
		if h == l.opts.LatColumn || h == l.opts.LonColumn || !numeric[h] {
			continue
		}
		rec.Fields = append(rec.Fields, h)
		if n := counts[h]; n > 0 {
			rec.Cells[h] = domain.Number(sums[h] / float64(n))
		} else {
			rec.Cells[h] = domain.Missing()
		}
	}

	return rec, nil
}
