// Command backtester evaluates rule-based trading strategies against stored
// historical candles and searches indicator parameters for the historically
// best-performing values.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"backtester/internal/backtest"
	"backtester/internal/config"
	"backtester/internal/store"
	"backtester/internal/strategy"
	"backtester/internal/util"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: backtester <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  run        Backtest one strategy with explicit parameters\n")
		fmt.Fprintf(os.Stderr, "  optimize   Grid-search strategy parameters for the best performance\n")
		fmt.Fprintf(os.Stderr, "  runs       List recorded backtest and optimization runs\n")
		fmt.Fprintf(os.Stderr, "  families   List supported strategy families\n")
		fmt.Fprintf(os.Stderr, "  version    Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(os.Args[2:], false)
	case "optimize":
		err = runCmd(os.Args[2:], true)
	case "runs":
		err = runsCmd(os.Args[2:])
	case "families":
		fmt.Println(strings.Join(strategy.Families(), " "))
	case "version":
		fmt.Printf("backtester %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// paramFlags collects repeatable -param name=value flags.
type paramFlags map[string]int

func (p paramFlags) String() string {
	parts := make([]string, 0, len(p))
	for name, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%d", name, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (p paramFlags) Set(value string) error {
	name, raw, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	p[name] = v
	return nil
}

// rangeFlags collects repeatable -range name=start:stop:step flags.
type rangeFlags map[string]backtest.Range

func (r rangeFlags) String() string {
	parts := make([]string, 0, len(r))
	for name, rg := range r {
		parts = append(parts, fmt.Sprintf("%s=%g:%g:%g", name, rg.Start, rg.Stop, rg.Step))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (r rangeFlags) Set(value string) error {
	name, raw, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected name=start:stop:step, got %q", value)
	}
	fields := strings.Split(raw, ":")
	if len(fields) != 3 {
		return fmt.Errorf("range %s: expected start:stop:step, got %q", name, raw)
	}
	var bounds [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("range %s: %w", name, err)
		}
		bounds[i] = v
	}
	r[name] = backtest.Range{Start: bounds[0], Stop: bounds[1], Step: bounds[2]}
	return nil
}

func runCmd(args []string, optimize bool) error {
	name := "run"
	if optimize {
		name = "optimize"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	var (
		cfgPath     = fs.String("config", "", "path to YAML config file")
		symbol      = fs.String("symbol", "", "instrument symbol (required)")
		familyTag   = fs.String("family", "", "strategy family tag: "+strings.Join(strategy.Families(), ", "))
		granularity = fs.String("granularity", "", "candle sampling granularity (default from config)")
		tc          = fs.Float64("tc", -1, "proportional transaction cost per trade (default from config)")
		from        = fs.String("from", "", "start date YYYY-MM-DD (default: all stored data)")
		to          = fs.String("to", "", "end date YYYY-MM-DD (default: all stored data)")
		record      = fs.Bool("record", false, "journal the result in the run store")
		params      = paramFlags{}
		ranges      = rangeFlags{}
	)
	fs.Var(params, "param", "strategy parameter as name=value (repeatable)")
	if optimize {
		fs.Var(ranges, "range", "parameter range as name=start:stop:step (repeatable)")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *symbol == "" || *familyTag == "" {
		fs.Usage()
		return fmt.Errorf("-symbol and -family are required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	if *granularity == "" {
		*granularity = cfg.Backtest.Granularity
	}
	if *tc < 0 {
		*tc = cfg.Backtest.TransactionCost
	}

	start, end, err := parseDateRange(*from, *to)
	if err != nil {
		return err
	}

	ctx := context.Background()
	candleStore := store.NewParquetStore(cfg.Storage.DataDir)
	candles, err := candleStore.ReadCandles(ctx, *symbol, *granularity, start, end)
	if err != nil {
		return err
	}
	logger.Info("loaded candles", "symbol", *symbol, "granularity", *granularity, "count", len(candles))

	bt, err := strategy.NewFromTag(*familyTag, *symbol, candles, strategy.Options{
		Params: params,
		TC:     *tc,
	})
	if err != nil {
		return err
	}

	kind := "backtest"
	if optimize {
		kind = "optimize"
		opt, err := bt.OptimizeNamed(ranges)
		if err != nil {
			return err
		}
		logger.Info("optimization finished",
			"strategy", bt.String(),
			"best_params", fmt.Sprint(opt.Params),
			"performance", opt.Performance)
	} else if _, err := bt.Run(); err != nil {
		return err
	}

	res := bt.Result()
	fmt.Println(bt.Label())
	fmt.Printf("performance:    %.6f\n", res.Performance)
	fmt.Printf("outperformance: %+.6f\n", res.Outperformance)

	if *record {
		return recordRun(ctx, cfg.Storage.SQLitePath, kind, bt)
	}
	return nil
}

func recordRun(ctx context.Context, dbPath, kind string, bt *strategy.Backtester) error {
	runStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer runStore.Close()

	params := bt.Params()
	parts := make([]string, 0, len(params))
	for _, pname := range bt.Family().ParamNames() {
		parts = append(parts, fmt.Sprintf("%s=%d", pname, params[pname]))
	}

	res := bt.Result()
	return runStore.SaveRun(ctx, &store.RunRecord{
		Kind:           kind,
		Symbol:         bt.Symbol(),
		Family:         bt.Family().String(),
		Params:         strings.Join(parts, ","),
		TC:             bt.TransactionCost(),
		Performance:    res.Performance,
		Outperformance: res.Outperformance,
	})
}

func runsCmd(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	var (
		cfgPath = fs.String("config", "", "path to YAML config file")
		symbol  = fs.String("symbol", "", "filter by symbol (default: all)")
		limit   = fs.Int("limit", 20, "maximum number of runs to list")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	runStore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer runStore.Close()

	runs, err := runStore.ListRuns(context.Background(), *symbol, *limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %-9s %-8s %-5s %-30s tc=%-8g perf=%.6f out=%+.6f\n",
			r.CreatedAt.Format(time.DateTime), r.Kind, r.Symbol, r.Family, r.Params,
			r.TC, r.Performance, r.Outperformance)
	}
	return nil
}

func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start := time.Unix(0, 0).UTC()
	end := time.Now().UTC()

	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return start, end, fmt.Errorf("invalid -from date: %w", err)
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return start, end, fmt.Errorf("invalid -to date: %w", err)
		}
		// Include the whole end day.
		end = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return start, end, nil
}
