package main

// #region imports
import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smart-bin/go-controller/internal/config"
	"github.com/smart-bin/go-controller/internal/engine"
	"github.com/smart-bin/go-controller/internal/facts"
	"github.com/smart-bin/go-controller/internal/hub"
	"github.com/smart-bin/go-controller/internal/logging"
	"github.com/smart-bin/go-controller/internal/sensors"
	"github.com/smart-bin/go-controller/internal/store"
	"github.com/smart-bin/go-controller/internal/vision"
	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region main
func main() {
	configPath := flag.String("config", envOr("SMARTBIN_CONFIG", ""), "path to YAML config")
	operator := flag.String("operator", envOr("SMARTBIN_OPERATOR", "console"), "operator id recorded on overrides")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	visionClient := vision.NewClient(cfg.VisionAddr, cfg.CycleTimeout())
	sensorClient := sensors.NewClient(cfg.SensorAddr, cfg.CycleTimeout())

	notifier := hub.NewNotifier(hub.Config{
		URL:              cfg.Hub.URL,
		Enabled:          cfg.Hub.Enabled,
		HandshakeTimeout: 5 * time.Second,
	})
	defer notifier.Close()

	fmt.Println("Smart Bin Controller ready.")
	fmt.Printf("  DB: %s | Vision: %s | Sensors: %s\n", cfg.DBPath, cfg.VisionAddr, cfg.SensorAddr)
	fmt.Println("Press Enter to classify the current item.")
	fmt.Println("Commands: classify, override <id> <category> [reason...], last, quit")

	scanner := bufio.NewScanner(os.Stdin)
	var lastID string

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "quit" || line == "exit":
			return
		case line == "" || line == "classify":
			rec, err := runCycle(cfg, visionClient, sensorClient, st, notifier)
			if err != nil {
				log.Printf("cycle failed: %v", err)
				continue
			}
			lastID = rec.ID
		case line == "last":
			if lastID == "" {
				fmt.Println("no classification yet")
				continue
			}
			printRecord(st, lastID)
		case strings.HasPrefix(line, "override "):
			id, err := runOverride(line, *operator, st, notifier)
			if err != nil {
				log.Printf("override failed: %v", err)
				continue
			}
			lastID = id
		default:
			fmt.Println("unknown command")
		}
	}
}
// #endregion main

// #region cycle

// runCycle classifies one item end to end under the configured budget:
// fetch vision and sensors in parallel, derive the snapshot, run a fresh
// engine, persist, log provenance, push to the dashboard.
func runCycle(
	cfg config.Config,
	visionClient *vision.Client,
	sensorClient *sensors.Client,
	st *store.Store,
	notifier *hub.Notifier,
) (store.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.CycleTimeout())
	defer cancel()

	var det vision.Detection
	var readings facts.Readings

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		det, err = visionClient.Detect(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		readings, err = sensorClient.Read(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return store.Record{}, fmt.Errorf("collect evidence: %w", err)
	}

	snap := facts.Derive(det.Label, det.Confidence, readings, cfg.DeriveThresholds())

	decision, err := engine.Classify(snap)
	if err != nil {
		return store.Record{}, fmt.Errorf("classify: %w", err)
	}

	rec, err := st.SaveDecision(snap, decision)
	if err != nil {
		return store.Record{}, fmt.Errorf("save decision: %w", err)
	}

	for _, line := range decision.ReasoningTrace {
		fmt.Println(line)
	}
	fmt.Printf("[%s] %s (confidence %.2f) -> %s\n",
		shortID(rec.ID), rec.FinalCategory, rec.FinalConfidence, rec.DisposalLocation)

	err = logging.LogDecision(st.DB(), logging.Entry{
		ClassificationID: rec.ID,
		TriggerType:      logging.TriggerAuto,
		CandidateCount:   len(rec.Candidates),
		Decision:         string(rec.FinalCategory),
		Reason:           rec.FinalReasoning,
	})
	if err != nil {
		log.Printf("logging error: %v", err)
	}

	if err := notifier.Publish(decisionEvent(rec)); err != nil {
		log.Printf("hub publish error: %v", err)
	}

	return rec, nil
}

// #endregion cycle

// #region override

// runOverride handles "override <id> <category> [reason...]" against an
// already persisted classification.
func runOverride(line, operator string, st *store.Store, notifier *hub.Notifier) (string, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return "", fmt.Errorf("usage: override <id> <category> [reason...]")
	}
	id := parts[1]
	category, err := waste.ParseCategory(parts[2])
	if err != nil {
		return "", err
	}
	reason := "operator decision"
	if len(parts) > 3 {
		reason = strings.Join(parts[3:], " ")
	}

	rec, err := st.ApplyOverride(store.OverridePatch{
		ClassificationID: id,
		NewCategory:      category,
		Reason:           reason,
		OperatorID:       operator,
	})
	if err != nil {
		return "", err
	}

	fmt.Printf("[%s] overridden -> %s (%s)\n", shortID(rec.ID), rec.FinalCategory, rec.DisposalLocation)

	err = logging.LogDecision(st.DB(), logging.Entry{
		ClassificationID: rec.ID,
		TriggerType:      logging.TriggerManualOverride,
		CandidateCount:   len(rec.Candidates),
		Decision:         string(rec.FinalCategory),
		Reason:           rec.FinalReasoning,
	})
	if err != nil {
		log.Printf("logging error: %v", err)
	}

	if err := notifier.Publish(decisionEvent(rec)); err != nil {
		log.Printf("hub publish error: %v", err)
	}

	return rec.ID, nil
}

// #endregion override

// #region helpers

func decisionEvent(rec store.Record) hub.Event {
	return hub.Event{
		ClassificationID: rec.ID,
		Category:         rec.FinalCategory,
		Confidence:       rec.FinalConfidence,
		DisposalLocation: rec.DisposalLocation,
		IsManualOverride: rec.IsManualOverride,
		CreatedAt:        rec.CreatedAt,
	}
}

func printRecord(st *store.Store, id string) {
	rec, err := st.GetDecision(id)
	if err != nil {
		log.Printf("get decision: %v", err)
		return
	}
	fmt.Printf("[%s] label=%q final=%s confidence=%.2f override=%v\n",
		shortID(rec.ID), rec.CVLabel, rec.FinalCategory, rec.FinalConfidence, rec.IsManualOverride)
	for _, line := range rec.ReasoningTrace {
		fmt.Println("  " + line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
