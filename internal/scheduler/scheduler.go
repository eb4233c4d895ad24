package scheduler

import (
	"context"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TrendScout/internal/model"
	"TrendScout/internal/notifier"
	"TrendScout/internal/screener"
)

// Scheduler wires the daily scan pass to cron and to Telegram commands.
type Scheduler struct {
	cron         *cron.Cron
	screener     *screener.Screener
	notifier     *notifier.TelegramNotifier
	breakoutGate bool

	mu         sync.Mutex
	lastReport *model.ScanReport
}

func New(sc *screener.Screener, n *notifier.TelegramNotifier, breakoutGate bool) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		screener:     sc,
		notifier:     n,
		breakoutGate: breakoutGate,
	}
}

// Register adds the scan job at the given cron spec.
func (s *Scheduler) Register(scanCron string) error {
	_, err := s.cron.AddFunc(scanCron, func() {
		s.scanTask(context.Background())
	})
	if err != nil {
		return err
	}
	log.Info().Str("cron", scanCron).Msg("scan job registered")
	return nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("scheduler stopped")
}

// RunScanNow triggers a scan pass outside the schedule.
func (s *Scheduler) RunScanNow(ctx context.Context) error {
	return s.scanTask(ctx)
}

func (s *Scheduler) scanTask(ctx context.Context) error {
	report, err := s.screener.Scan(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scan pass failed")
		s.trySend(ctx, "❌ Scan failed: "+err.Error())
		return err
	}

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	s.trySend(ctx, notifier.FormatScanReport(report, s.breakoutGate))
	return nil
}

// HandleCommand answers Telegram bot commands.
func (s *Scheduler) HandleCommand(command string) string {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/scan":
		go func() {
			if err := s.RunScanNow(context.Background()); err != nil {
				log.Error().Err(err).Msg("manual scan failed")
			}
		}()
		return "🔄 Scan started, results will follow."
	case "/top":
		report := s.report()
		if report == nil {
			return "No scan has completed yet. Use /scan to run one."
		}
		return notifier.FormatScanReport(report, s.breakoutGate)
	case "/stats":
		report := s.report()
		if report == nil {
			return "No scan has completed yet. Use /scan to run one."
		}
		return notifier.FormatStats(report, s.breakoutGate)
	default:
		return "Commands:\n/scan - run a scan now\n/top - last shortlist\n/stats - last pass diagnostics"
	}
}

func (s *Scheduler) report() *model.ScanReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("telegram notification failed")
	}
}
