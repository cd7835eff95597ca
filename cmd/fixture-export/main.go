package main

// #region imports
import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/smart-bin/go-controller/internal/replay"
	"github.com/smart-bin/go-controller/internal/store"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to smart_bin.db")
	last := flag.Int("last", 20, "number of most recent classifications to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath string, last int, outPath string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	records, err := st.ListRecent(last, "")
	if err != nil {
		return fmt.Errorf("list classifications: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no classifications to export")
	}

	fixture := &replay.Fixture{
		Description: fmt.Sprintf("exported from %s (%d records)", dbPath, len(records)),
	}

	// Store returns DESC; export chronologically.
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		inter := replay.Interaction{
			ItemID:   rec.ID,
			Snapshot: rec.Snapshot,
		}
		// Overridden records replay with the recorded override so the
		// fixture reproduces the persisted decision deterministically.
		if rec.IsManualOverride {
			inter.Override = &replay.OverrideSpec{
				Category:         rec.FinalCategory,
				Reason:           strings.TrimPrefix(rec.FinalReasoning, "User override: "),
				DisposalLocation: rec.DisposalLocation,
			}
		}
		fixture.Interactions = append(fixture.Interactions, inter)
		fixture.ExpectedResults = append(fixture.ExpectedResults, replay.ExpectedResult{
			ItemID:           rec.ID,
			Category:         rec.FinalCategory,
			IsManualOverride: rec.IsManualOverride,
		})
	}

	if err := replay.SaveFixture(outPath, fixture); err != nil {
		return err
	}

	fmt.Printf("exported %d interaction(s) to %s\n", len(fixture.Interactions), outPath)
	return nil
}

// #endregion export
