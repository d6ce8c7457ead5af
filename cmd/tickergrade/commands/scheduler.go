package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/tickergrade/internal/scheduler"
	"github.com/wonny/tickergrade/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage scheduled jobs",
	Long: `Start the scheduler or manage its jobs.

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - run one job now
  status  - show job statistics

Example:
  go run ./cmd/tickergrade scheduler start
  go run ./cmd/tickergrade scheduler list
  go run ./cmd/tickergrade scheduler run watchlist_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Start the scheduler with every job registered.

Registered jobs:
- macro_refresh: weekdays 8:30 PM (warm the FRED file cache)
- watchlist_scan: SCAN_CRON, default weekdays 9 PM
- cache_sweep: every 5 minutes

Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TickerGrade Scheduler ===")

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	stats := sched.GetJobStats()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %-16s %s\n", jobName, stats[jobName].Schedule)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	result, err := sched.RunJobSync(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("job %s failed: %s", jobName, result.Error)
	}

	fmt.Printf("✅ Job finished in %s\n", result.Duration)
	return nil
}

// showStatus reports this process's job history; runs from other processes
// are not visible
func showStatus(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	stats := sched.GetJobStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Job Statistics:")
	fmt.Println()

	for _, jobName := range names {
		stat := stats[jobName]
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s (avg %s)\n", stat.LastRun.Format("2006-01-02 15:04:05"), stat.AvgDuration)
		}
		if stat.LastError != "" {
			fmt.Printf("   Last Error: %s\n", stat.LastError)
		}

		fmt.Println()
	}

	return nil
}

func initScheduler(cmd *cobra.Command) (*app, *scheduler.Scheduler, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}

	if err := a.withRepositories(cmd.Context()); err != nil {
		a.Close()
		return nil, nil, err
	}

	sched := scheduler.New(a.log).WithClock(a.clock)

	for _, job := range []scheduler.Job{
		jobs.NewMacroRefreshJob(a.service, a.log),
		jobs.NewScanJob(a.scanner, a.cfg.Scanner.Cron, a.cfg.Scanner.Timeout, a.log),
		jobs.NewCacheSweepJob(a.store.Memory(), a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			a.Close()
			return nil, nil, err
		}
	}

	return a, sched, nil
}
