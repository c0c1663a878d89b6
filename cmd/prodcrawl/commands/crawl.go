package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/prodcrawl/internal/config"
	"github.com/jmylchreest/prodcrawl/internal/engine"
	"github.com/jmylchreest/prodcrawl/internal/logger"
	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run a crawl synchronously and print the aggregate report",
	Long: `Crawl runs the engine in-process for the given seed domains, blocking
until every DomainPipeline finishes, then prints the aggregate report
(spec.md §6) as JSON.

Examples:
  prodcrawl crawl --domain https://shop.example.com --max-depth 2
  prodcrawl crawl -d https://a.test -d https://b.test --storage twotier`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	flags := crawlCmd.Flags()
	flags.StringSliceP("domain", "d", nil, "seed domain URL (can be repeated)")
	flags.IntP("max-depth", "m", 0, "maximum BFS depth (default: MAX_CRAWL_DEPTH env, else 3)")
	flags.String("task-id", "", "task identifier (default: generated)")
	flags.String("storage", "memory", "storage backend: memory, twotier")
	flags.Bool("browser", false, "enable headless-browser fallback fetch")
	flags.String("side-output", "", "directory for optional JSON/CSV side files (spec.md §4.5)")
	flags.StringP("output", "o", "", "write the report to this file instead of stdout")

	_ = crawlCmd.MarkFlagRequired("domain")
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		logError("loading config: %v", err)
		return err
	}

	domains, _ := cmd.Flags().GetStringSlice("domain")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	if maxDepth <= 0 {
		maxDepth = cfg.MaxCrawlDepth
	}
	taskID, _ := cmd.Flags().GetString("task-id")
	if taskID == "" {
		taskID = newTaskID()
	}
	storageKind, _ := cmd.Flags().GetString("storage")
	useBrowser, _ := cmd.Flags().GetBool("browser")
	sideOutput, _ := cmd.Flags().GetString("side-output")
	outputPath, _ := cmd.Flags().GetString("output")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, store, err := buildEngine(ctx, cfg, storageKind, useBrowser, sideOutput)
	if err != nil {
		logError("building engine: %v", err)
		return err
	}
	defer func() { _ = store.Close() }()

	quiet := viper.GetBool("quiet")
	task := engine.CrawlTask{TaskID: taskID, Domains: domains, MaxDepth: maxDepth}
	report, err := eng.Run(ctx, task, func(ev engine.ProgressEvent) {
		if quiet {
			return
		}
		logger.Info("progress",
			"domain", ev.Domain, "status", ev.Status, "depth", ev.Depth,
			"depth_progress", ev.DepthProgress, "urls_discovered", ev.URLsDiscovered)
	})
	if err != nil {
		logError("crawl: %v", err)
		return err
	}

	return writeReport(report, outputPath)
}

// reportView is the JSON shape spec.md §6 documents for the aggregate
// task result; engine.CrawlReport's ParserStats carries a Domains set
// (needed internally for union-across-domains bookkeeping) where the
// wire schema wants only its count, same reshaping internal/api's
// reportDT does for the Control API response.
type reportView struct {
	Status       string                          `json:"status"`
	TaskID       string                          `json:"task_id"`
	DurationSecs float64                         `json:"duration"`
	Domains      []string                        `json:"domains"`
	URLsCount    map[string]int                  `json:"urls_count"`
	TotalURLs    int                             `json:"total_urls"`
	ParserStats  map[extractor.Name]parserStatsView `json:"parser_stats"`
	URLsByParser map[extractor.Name]int         `json:"urls_by_parser"`
}

type parserStatsView struct {
	Total   int `json:"total"`
	Unique  int `json:"unique"`
	Domains int `json:"domains"`
}

func toReportView(r *engine.CrawlReport) reportView {
	stats := make(map[extractor.Name]parserStatsView, len(r.ParserStats))
	for name, s := range r.ParserStats {
		stats[name] = parserStatsView{Total: s.Total, Unique: s.Unique, Domains: len(s.Domains)}
	}
	return reportView{
		Status:       r.Status,
		TaskID:       r.TaskID,
		DurationSecs: r.Duration.Seconds(),
		Domains:      r.Domains,
		URLsCount:    r.URLsCount,
		TotalURLs:    r.TotalURLs,
		ParserStats:  stats,
		URLsByParser: r.URLsByParser,
	}
}

func writeReport(report *engine.CrawlReport, outputPath string) error {
	b, err := json.MarshalIndent(toReportView(report), "", "  ")
	if err != nil {
		return fmt.Errorf("commands: marshal report: %w", err)
	}
	if outputPath == "" {
		fmt.Println(string(b))
		return nil
	}
	return os.WriteFile(outputPath, b, 0o644)
}
