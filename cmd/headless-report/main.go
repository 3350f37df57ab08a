package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/Scorch/internal/sim"
)

// runStats is what one headless AI-vs-AI match contributed to the report.
const unfinishedTailLines = 12

type runStats struct {
	runIndex int
	seed     int64
	ticks    int
	turns    int
	finished bool

	firstShotTick   int
	firstHitTick    int
	firstKillTick   int
	firstBurialTick int

	shots       int
	hits        int
	misses      int
	burials     int
	bounces     int
	splits      int
	purchases   int
	craterCount int

	tanksTotal   int
	survivors    int
	totalDamage  int
	outcome      sim.MatchOutcomeReason
	winnerLabel  string
	damagedTanks map[string]struct{}

	report sim.MatchReport
	tail   string // last log lines of a match that hit the tick limit
}

type config struct {
	matches   int
	tanks     int
	maxTicks  int
	seedBase  int64
	seedStep  int64
	weapons   string
	dump      string
	dumpEvery int
	verbose   bool

	thinkTicks int
	fireTicks  int
}

func main() {
	var cfg config
	var level string

	flag.IntVar(&cfg.matches, "matches", 5, "number of AI-vs-AI matches")
	flag.IntVar(&cfg.tanks, "tanks", 2, "tanks per match")
	flag.IntVar(&cfg.maxTicks, "max-ticks", 120000, "tick limit per match")
	flag.Int64Var(&cfg.seedBase, "seed", 42, "base RNG seed for match 1")
	flag.Int64Var(&cfg.seedStep, "seed-step", 1, "seed increment between matches")
	flag.StringVar(&cfg.weapons, "weapons", "", "optional weapons JSON merged over the built-in catalog")
	flag.StringVar(&cfg.dump, "dump", "", "write msgpack match snapshots to this file")
	flag.IntVar(&cfg.dumpEvery, "dump-every", 0, "also snapshot every N ticks (0 = final state only)")
	flag.BoolVar(&cfg.verbose, "v", false, "print every match's full report")
	flag.IntVar(&cfg.thinkTicks, "think-ticks", sim.DefaultThinkTicks, "opponent thinking delay in ticks")
	flag.IntVar(&cfg.fireTicks, "fire-ticks", sim.DefaultFireTicks, "opponent delay between aiming and firing")
	flag.StringVar(&level, "log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(os.Stderr, level)

	if cfg.matches <= 0 {
		logger.Error("-matches must be > 0")
		os.Exit(2)
	}
	if cfg.maxTicks <= 0 {
		logger.Error("-max-ticks must be > 0")
		os.Exit(2)
	}
	if cfg.tanks < 2 {
		logger.Error("-tanks must be at least 2")
		os.Exit(2)
	}

	catalog, err := loadCatalog(cfg.weapons)
	if err != nil {
		logger.Error("weapons", "err", err)
		os.Exit(1)
	}

	var dump io.Writer
	if cfg.dump != "" {
		f, err := os.Create(cfg.dump)
		if err != nil {
			logger.Error("dump", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		dump = f
	}

	fmt.Printf("=== Headless Duel Report ===\n")
	fmt.Printf("matches=%d tanks=%d max_ticks=%d seed_base=%d seed_step=%d\n\n", cfg.matches, cfg.tanks, cfg.maxTicks, cfg.seedBase, cfg.seedStep)

	all := make([]runStats, 0, cfg.matches)
	for i := 0; i < cfg.matches; i++ {
		seed := cfg.seedBase + int64(i)*cfg.seedStep
		rs, err := runDuel(i+1, seed, cfg, catalog, logger, dump)
		if err != nil {
			logger.Error("match failed", "match", i+1, "seed", seed, "err", err)
			os.Exit(1)
		}
		all = append(all, rs)
		printRun(rs)
		if cfg.verbose {
			fmt.Println(rs.report.Format())
		}
	}

	printAggregate(all)
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "headless",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", level)
		lvl = log.WarnLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func loadCatalog(path string) ([]sim.Weapon, error) {
	if path == "" {
		return sim.DefaultCatalog(), nil
	}
	ws, err := sim.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return sim.MergeCatalog(sim.DefaultCatalog(), ws), nil
}

// runDuel plays one match between built-in opponents until it ends or the
// tick limit is reached.
func runDuel(runIndex int, seed int64, cfg config, catalog []sim.Weapon, logger *log.Logger, dump io.Writer) (runStats, error) {
	sl := sim.NewSimLog(false)
	opts := []sim.Option{
		sim.WithTankCount(cfg.tanks),
		sim.WithHumanTanks(0),
		sim.WithCatalog(catalog),
		sim.WithRand(rand.New(rand.NewSource(seed))), // #nosec G404 -- reproducible runs
		sim.WithLogger(logger.With("match", runIndex)),
		sim.WithSimLog(sl),
	}
	if cfg.thinkTicks > 0 {
		opts = append(opts, sim.WithThinkTicks(cfg.thinkTicks))
	}
	if cfg.fireTicks > 0 {
		opts = append(opts, sim.WithFireTicks(cfg.fireTicks))
	}
	m := sim.NewMatch(opts...)
	m.InitGame()
	if err := m.EndBuyingPhase(); err != nil {
		return runStats{}, fmt.Errorf("start battle: %w", err)
	}

	for m.CurrentTick() < cfg.maxTicks && m.Phase() != sim.PhaseGameOver {
		m.Tick()
		if dump != nil && cfg.dumpEvery > 0 && m.CurrentTick()%cfg.dumpEvery == 0 {
			if err := writeSnapshot(dump, m); err != nil {
				return runStats{}, err
			}
		}
	}
	if dump != nil {
		if err := writeSnapshot(dump, m); err != nil {
			return runStats{}, err
		}
	}

	return collectStats(runIndex, seed, m, sl), nil
}

func writeSnapshot(w io.Writer, m *sim.Match) error {
	snap := m.Snapshot()
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func collectStats(runIndex int, seed int64, m *sim.Match, sl *sim.SimLog) runStats {
	entries := sl.Entries()
	damaged := map[string]struct{}{}
	hits := 0
	for _, e := range entries {
		if e.Category == "damage" && e.Key == "hit" {
			hits++
			damaged[e.Tank] = struct{}{}
		}
	}

	rs := runStats{
		runIndex:        runIndex,
		seed:            seed,
		ticks:           m.CurrentTick(),
		turns:           m.TurnID(),
		finished:        m.Phase() == sim.PhaseGameOver,
		firstShotTick:   firstTick(entries, "shot", "fired", ""),
		firstHitTick:    firstTick(entries, "damage", "hit", ""),
		firstKillTick:   firstTick(entries, "damage", "destroyed", ""),
		firstBurialTick: firstTick(entries, "burial", "", ""),
		shots:           sl.CountCategory("shot", "fired"),
		hits:            hits,
		burials:         sl.CountCategory("burial", ""),
		bounces:         sl.CountCategory("bounce", ""),
		splits:          sl.CountCategory("split", ""),
		purchases:       sl.CountCategory("shop", ""),
		craterCount:     sl.CountCategory("terrain", "crater"),
		damagedTanks:    damaged,
		outcome:         sim.DetermineMatchOutcome(m),
		report:          m.Report(),
	}
	rs.misses = max(rs.shots-countHitShots(entries), 0)
	for _, t := range m.Tanks() {
		rs.tanksTotal++
		if t.Alive() {
			rs.survivors++
		}
	}
	for _, st := range m.Stats() {
		rs.totalDamage += st.DamageDealt
	}
	if w, ok := m.Winner(); ok {
		rs.winnerLabel = w.Label()
	}
	if !rs.finished {
		rs.tail = sl.Tail(unfinishedTailLines)
	}
	return rs
}

// countHitShots counts shots followed by at least one damage event before
// the next shot.
func countHitShots(entries []sim.SimLogEntry) int {
	n := 0
	inShot, scored := false, false
	for _, e := range entries {
		switch {
		case e.Category == "shot" && e.Key == "fired":
			if inShot && scored {
				n++
			}
			inShot, scored = true, false
		case e.Category == "damage" && e.Key == "hit":
			scored = true
		}
	}
	if inShot && scored {
		n++
	}
	return n
}

func firstTick(entries []sim.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || (key != "" && e.Key != key) {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// detectStalemate flags matches that ran out of ticks without anyone
// making progress.
func detectStalemate(rs runStats) (bool, string) {
	if rs.finished {
		return false, "finished"
	}
	if rs.survivors < 2 {
		return false, "decided"
	}
	var reasons []string
	if rs.survivors == rs.tanksTotal {
		reasons = append(reasons, "no_casualties")
	}
	if rs.shots > 0 && rs.hits*4 < rs.shots {
		reasons = append(reasons, fmt.Sprintf("low_hit_rate(%d/%d)", rs.hits, rs.shots))
	}
	if rs.burials > rs.hits {
		reasons = append(reasons, "burial_loop")
	}
	if len(reasons) == 0 {
		return false, "attrition_in_progress"
	}
	return true, strings.Join(reasons, ",")
}

func printRun(rs runStats) {
	fmt.Printf("--- Match %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("result: outcome=%s reason=%s winner=%s survivors=%d/%d ticks=%d turns=%d\n",
		rs.outcome.Outcome, rs.outcome.Description, orNone(rs.winnerLabel), rs.survivors, rs.tanksTotal, rs.ticks, rs.turns)
	fmt.Printf("phase_markers: first_shot=%d first_hit=%d first_kill=%d first_burial=%d\n",
		rs.firstShotTick, rs.firstHitTick, rs.firstKillTick, rs.firstBurialTick)
	fmt.Printf("event_totals: shots=%d hits=%d misses=%d burials=%d bounces=%d splits=%d craters=%d purchases=%d damage=%d\n",
		rs.shots, rs.hits, rs.misses, rs.burials, rs.bounces, rs.splits, rs.craterCount, rs.purchases, rs.totalDamage)
	fmt.Printf("damaged_labels: %s\n", joinSet(rs.damagedTanks))
	if stale, reason := detectStalemate(rs); stale {
		fmt.Printf("stalemate: %s\n", reason)
	}
	if rs.tail != "" {
		fmt.Printf("last_events:\n%s", rs.tail)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalShots, totalHits, totalBurials, totalTurns, totalDamage := 0, 0, 0, 0, 0
	finished, stalemates := 0, 0
	hitTicks := make([]int, 0, len(all))
	killTicks := make([]int, 0, len(all))
	wins := map[string]int{}
	outcomes := map[string]int{}
	damagedGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalShots += rs.shots
		totalHits += rs.hits
		totalBurials += rs.burials
		totalTurns += rs.turns
		totalDamage += rs.totalDamage
		if rs.finished {
			finished++
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
		if rs.firstHitTick >= 0 {
			hitTicks = append(hitTicks, rs.firstHitTick)
		}
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.winnerLabel != "" {
			wins[rs.winnerLabel]++
		}
		outcomes[rs.outcome.Outcome.String()]++
		for label := range rs.damagedTanks {
			damagedGlobal[label] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("matches=%d finished=%d stalemates=%d\n", len(all), finished, stalemates)
	fmt.Printf("avg_per_match: shots=%.1f hits=%.1f burials=%.1f turns=%.1f damage=%.1f\n",
		avg(totalShots, len(all)), avg(totalHits, len(all)), avg(totalBurials, len(all)), avg(totalTurns, len(all)), avg(totalDamage, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_hit=%s first_kill=%s\n", avgTickString(hitTicks), avgTickString(killTicks))
	fmt.Printf("outcomes: %s\n", formatCounts(outcomes))
	fmt.Printf("wins: %s\n", formatCounts(wins))
	fmt.Printf("damaged_labels=%d [%s]\n", len(damagedGlobal), joinSet(damagedGlobal))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
