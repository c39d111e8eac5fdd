package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeBenchDataset(b *testing.B, rows int) string {
	b.Helper()
	countries := []string{"France", "Italy", "Spain", "Germany"}
	cities := []string{"A", "B", "C", "D", "E"}
	accommodations := []string{"Hotel", "Hostel", "Airbnb"}
	modes := []string{"Plane", "Train", "Bus", "Car"}
	seasons := []string{"Winter", "Spring", "Summer", "Fall"}

	var sb strings.Builder
	sb.WriteString(testHeader + "\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "%s,%s,%s,%s,%s,%d,%d,%d\n",
			countries[i%len(countries)], cities[i%len(cities)],
			accommodations[i%len(accommodations)], modes[i%len(modes)],
			seasons[i%len(seasons)], 1+i%14, 1+i%4, 100+i%900)
	}

	path := filepath.Join(b.TempDir(), "bench.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkLoad(b *testing.B) {
	path := writeBenchDataset(b, 50_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildReport(b *testing.B) {
	lr, err := Load(writeBenchDataset(b, 50_000), nil)
	if err != nil {
		b.Fatal(err)
	}
	eng := NewEngine(lr.Trips)
	q := Query{Country: "France", City: "A", Accommodation: "Hotel", Days: 7, Travelers: 2, Season: "Summer"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildReport(context.Background(), eng, q); err != nil {
			b.Fatal(err)
		}
	}
}
