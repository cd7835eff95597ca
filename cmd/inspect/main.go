package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/smart-bin/go-controller/internal/store"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to smart_bin.db")
	last := flag.Int("last", 20, "show N most recent classifications")
	id := flag.String("id", "", "show single classification detail")
	category := flag.String("category", "", "filter list to one category")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/smart_bin.db [--last N] [--id id] [--category name] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *id != "" {
		if err := runDetailMode(st, *id, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runListMode(st, *last, *category, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ID         string  `json:"classification_id"`
	CVLabel    string  `json:"cv_label"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Candidates int     `json:"candidates"`
	Override   bool    `json:"is_manual_override"`
	CreatedAt  string  `json:"created_at"`
}

func runListMode(st *store.Store, last int, category string, jsonOut bool) error {
	var filter waste.Category
	if category != "" {
		c, err := waste.ParseCategory(category)
		if err != nil {
			return err
		}
		filter = c
	}

	records, err := st.ListRecent(last, filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no classifications found")
		return nil
	}

	// Store returns DESC, reverse for chronological order.
	rows := make([]listRow, len(records))
	for i, rec := range records {
		rows[len(records)-1-i] = listRow{
			ID:         rec.ID,
			CVLabel:    rec.CVLabel,
			Category:   string(rec.FinalCategory),
			Confidence: rec.FinalConfidence,
			Candidates: len(rec.Candidates),
			Override:   rec.IsManualOverride,
			CreatedAt:  rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	return printListTable(rows)
}

func printListTable(rows []listRow) error {
	fmt.Printf("%-10s  %-16s  %-13s  %5s  %5s  %-8s  %s\n",
		"ID", "Label", "Category", "Conf", "Cands", "Override", "Time")
	fmt.Printf("%-10s+-%-16s+-%-13s+-%5s+-%5s+-%-8s+-%s\n",
		"----------", "----------------", "-------------", "-----", "-----", "--------", "--------------------")

	for _, r := range rows {
		override := ""
		if r.Override {
			override = "yes"
		}
		fmt.Printf("%-10s  %-16s  %-13s  %5.2f  %5d  %-8s  %s\n",
			shortID(r.ID), r.CVLabel, r.Category, r.Confidence, r.Candidates, override, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailView struct {
	store.Record
	Audit []store.OverrideAudit `json:"override_audit,omitempty"`
}

func runDetailMode(st *store.Store, id string, jsonOut bool) error {
	rec, err := st.GetDecision(id)
	if err != nil {
		return err
	}
	audit, err := st.Overrides(id)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(detailView{Record: rec, Audit: audit})
	}

	fmt.Printf("Classification %s\n", rec.ID)
	fmt.Printf("  label:      %q (cv confidence %.2f)\n", rec.CVLabel, rec.Snapshot.CVConfidence)
	fmt.Printf("  final:      %s (confidence %.2f)\n", rec.FinalCategory, rec.FinalConfidence)
	fmt.Printf("  disposal:   %s\n", rec.DisposalLocation)
	fmt.Printf("  override:   %v\n", rec.IsManualOverride)
	fmt.Printf("  created:    %s\n", rec.CreatedAt.Format("2006-01-02T15:04:05Z"))

	fmt.Println("  candidates:")
	for _, c := range rec.Candidates {
		fmt.Printf("    %-13s %.2f  %s\n", c.Category, c.Confidence, c.Reasoning)
	}

	fmt.Println("  trace:")
	for _, line := range rec.ReasoningTrace {
		fmt.Println("    " + line)
	}

	if len(audit) > 0 {
		fmt.Println("  override audit:")
		for _, a := range audit {
			fmt.Printf("    %s: %s -> %s by %s (%s)\n",
				a.CreatedAt.Format("2006-01-02T15:04:05Z"),
				a.PreviousCategory, a.NewCategory, a.OperatorID, a.Reason)
		}
	}
	return nil
}

// #endregion detail-mode

// #region helpers

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion helpers
