// Standalone uniformity check for winner selection.
// Runs the production pick over a synthetic pool and reports how far each
// ticket's frequency strays from 1/N.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"luckydraw/models"
	"luckydraw/service"
)

// Chi-squared critical values at p = 0.05 for small degrees of freedom
var chiSquaredCritical = map[int]float64{
	1: 3.84, 2: 5.99, 3: 7.81, 4: 9.49, 5: 11.07,
	6: 12.59, 7: 14.07, 8: 15.51, 9: 16.92, 10: 18.31,
	19: 30.14, 49: 66.34, 99: 123.23,
}

func main() {
	poolSize := flag.Int("tickets", 10, "number of tickets in the synthetic pool")
	trials := flag.Int("trials", 100000, "number of simulated draws")
	seed := flag.Uint64("seed", 0, "PCG seed, 0 uses the runtime generator")
	flag.Parse()

	if *poolSize <= 0 || *trials <= 0 {
		fmt.Fprintln(os.Stderr, "tickets and trials must be positive")
		os.Exit(2)
	}

	var rng service.RandomSource = service.NewRandomSource()
	if *seed != 0 {
		rng = service.NewSeededRandom(*seed, *seed^0x9e3779b97f4a7c15)
	}

	fmt.Println("=== Lucky Draw Uniformity Analysis ===")
	fmt.Printf("Pool: %d tickets | Trials: %d\n\n", *poolSize, *trials)

	if !analyze(*poolSize, *trials, rng) {
		os.Exit(1)
	}
}

func analyze(poolSize, trials int, rng service.RandomSource) bool {
	pool := make([]*models.TicketEntry, poolSize)
	for i := range pool {
		pool[i] = &models.TicketEntry{TicketNumber: int64(i + 1), OrderID: int64(i + 1)}
	}

	counts := make([]int, poolSize)
	for i := 0; i < trials; i++ {
		counts[service.PickTicket(pool, rng).TicketNumber-1]++
	}

	expected := float64(trials) / float64(poolSize)
	chiSquared := 0.0
	worst := 0.0
	for i, count := range counts {
		deviation := (float64(count) - expected) / expected * 100
		worst = math.Max(worst, math.Abs(deviation))
		chiSquared += math.Pow(float64(count)-expected, 2) / expected

		barLength := int(float64(count) / expected * 20)
		fmt.Printf("  ticket %4d: %8d (%+6.2f%%) %s\n", i+1, count, deviation, strings.Repeat("█", barLength))
	}

	df := poolSize - 1
	fmt.Printf("\nExpected per ticket: %.1f\n", expected)
	fmt.Printf("Worst deviation:     %.2f%%\n", worst)
	fmt.Printf("χ²:                  %.2f with %d df\n", chiSquared, df)

	critical, ok := chiSquaredCritical[df]
	if !ok {
		// Wilson-Hilferty approximation of the 95th percentile
		k := float64(df)
		critical = k * math.Pow(1-2/(9*k)+1.645*math.Sqrt(2/(9*k)), 3)
	}

	if df == 0 || chiSquared < critical {
		fmt.Printf("\n✓ Uniform at 95%% confidence (critical %.2f)\n", critical)
		return true
	}
	fmt.Printf("\n✗ NOT uniform at 95%% confidence (critical %.2f)\n", critical)
	return false
}
