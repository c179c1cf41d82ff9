// Command genstations writes synthetic bottle and profile CSV fixtures for
// demos and integration testing. Stations are laid out along a track from a
// configurable origin; values are drawn from a seeded generator so repeated
// runs produce identical files.
//
// Usage:
//
//	go run ./cmd/genstations -out-dir testdata -stations 6 -cruise SO301
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write bottle/ and profile/ fixture CSVs into")
	stations := flag.Int("stations", 6, "number of stations to generate")
	cruise := flag.String("cruise", "SO301", "cruise prefix for station IDs")
	seed := flag.Int64("seed", 42, "random seed")
	originLat := flag.Float64("origin-lat", -25.32, "track origin latitude")
	originLon := flag.Float64("origin-lon", 70.04, "track origin longitude")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	bottleDir := filepath.Join(*outDir, "bottle")
	profileDir := filepath.Join(*outDir, "profile")
	for _, dir := range []string{bottleDir, profileDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *stations; i++ {
		id := fmt.Sprintf("%s_%03d", *cruise, i+1)
		// Stations step roughly 0.05° north-east per cast.
		lat := *originLat + float64(i)*0.05 + rng.Float64()*0.005
		lon := *originLon + float64(i)*0.03 + rng.Float64()*0.005

		if err := writeBottleCSV(filepath.Join(bottleDir, id+"_01_btl.csv"), lat, lon, rng); err != nil {
			return err
		}
		if err := writeProfileCSV(filepath.Join(profileDir, id+"_01_cnv.csv"), lat, lon, rng); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d stations under %s\n", *stations, *outDir)
	return nil
}

func writeBottleCSV(path string, lat, lon float64, rng *rand.Rand) error {
	rows := [][]string{{"CTD_lat", "CTD_lon", "TimeS_mean", "Bottle", "temperature"}}
	for b := 1; b <= 12; b++ {
		rows = append(rows, []string{
			fmt.Sprintf("%.5f", lat+rng.Float64()*0.0005),
			fmt.Sprintf("%.5f", lon+rng.Float64()*0.0005),
			fmt.Sprintf("%.1f", 600+float64(b)*30),
			fmt.Sprintf("%d", b),
			fmt.Sprintf("%.2f", 2.0+rng.Float64()*25),
		})
	}
	return writeCSV(path, rows)
}

func writeProfileCSV(path string, lat, lon float64, rng *rand.Rand) error {
	rows := [][]string{{"CTD_lat", "CTD_lon", "timeS", "upoly0", "CTD_depth"}}
	for depth := 0; depth <= 2400; depth += 100 {
		rows = append(rows, []string{
			fmt.Sprintf("%.5f", lat),
			fmt.Sprintf("%.5f", lon),
			fmt.Sprintf("%.1f", float64(depth)/1.2),
			fmt.Sprintf("%.4f", rng.Float64()*0.3),
			fmt.Sprintf("%d", depth),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
