package main

// #region imports
import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/smart-bin/go-controller/internal/replay"
	"github.com/smart-bin/go-controller/internal/store"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to smart_bin.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	last := flag.Int("last", 50, "DB mode: number of most recent records to replay")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/smart_bin.db [--last N]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *last)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	fixture, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("Replaying fixture: %s (%d interactions)\n", fixture.Description, len(fixture.Interactions))

	results := replay.Run(fixture.Interactions)
	printResults(results)
	printSummary(replay.Summarize(results))

	mismatches := replay.Check(results, fixture.ExpectedResults)
	if len(mismatches) == 0 {
		if len(fixture.ExpectedResults) > 0 {
			fmt.Printf("all %d expectations met\n", len(fixture.ExpectedResults))
		}
		return 0
	}

	fmt.Printf("%d expectation(s) failed:\n", len(mismatches))
	for _, m := range mismatches {
		fmt.Printf("  %s: expected %s (override=%v), got %s (override=%v) %s\n",
			m.ItemID, m.Expected.Category, m.Expected.IsManualOverride,
			m.Got.Category, m.Got.IsManualOverride, m.Got.Err)
	}
	return 1
}

// #endregion fixture-mode

// #region db-mode

// runDBMode re-derives decisions from stored snapshots and reports drift
// against what was persisted. Overridden records replay through the
// resolver, so they are reported separately rather than counted as drift.
func runDBMode(dbPath string, last int) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 1
	}
	defer st.Close()

	records, err := st.ListRecent(last, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no classifications found")
		return 0
	}

	interactions := make([]replay.Interaction, len(records))
	for i, rec := range records {
		interactions[len(records)-1-i] = replay.Interaction{
			ItemID:   rec.ID,
			Snapshot: rec.Snapshot,
		}
	}

	results := replay.Run(interactions)
	byID := make(map[string]replay.Result, len(results))
	for _, r := range results {
		byID[r.ItemID] = r
	}

	drift := 0
	overridden := 0
	for _, rec := range records {
		got := byID[rec.ID]
		if rec.IsManualOverride {
			overridden++
			fmt.Printf("  %s: overridden to %s, resolver replays as %s\n",
				shortID(rec.ID), rec.FinalCategory, got.Category)
			continue
		}
		if got.Category != rec.FinalCategory {
			drift++
			fmt.Printf("  %s: stored %s, replayed %s\n", shortID(rec.ID), rec.FinalCategory, got.Category)
		}
	}

	fmt.Printf("replayed %d record(s): %d drift, %d overridden\n", len(records), drift, overridden)
	if drift > 0 {
		return 1
	}
	return 0
}

// #endregion db-mode

// #region print

func printResults(results []replay.Result) {
	fmt.Printf("%-16s  %-13s  %5s  %5s  %-8s\n", "Item", "Category", "Conf", "Cands", "Override")
	for _, r := range results {
		if r.Err != "" {
			fmt.Printf("%-16s  error: %s\n", r.ItemID, r.Err)
			continue
		}
		override := ""
		if r.IsManualOverride {
			override = "yes"
		}
		fmt.Printf("%-16s  %-13s  %5.2f  %5d  %-8s\n",
			r.ItemID, r.Category, r.Confidence, r.CandidateCount, override)
	}
}

func printSummary(s replay.Summary) {
	var parts []string
	for _, cat := range waste.Categories {
		if n := s.ByCategory[cat]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", cat, n))
		}
	}
	fmt.Printf("summary: %d item(s), %d override(s), %d unknown, %d error(s) [%s]\n",
		s.TotalItems, s.Overrides, s.Unknowns, s.Errors, strings.Join(parts, " "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion print
