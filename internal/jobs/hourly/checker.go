package hourly

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nawala/internal/api/dto"
	"nawala/internal/checker"
	"nawala/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

type Registry interface {
	DomainsForFrequency(frequency string) ([]string, error)
}

type Oracle interface {
	CheckDomains(ctx context.Context, names []string) (*checker.Outcome, error)
}

type ReportStore interface {
	SaveHourlyReport(report *domain.HourlyReport) error
}

type Notifier interface {
	PublishSummary(summary domain.CheckSummary, checkedAt time.Time) error
	PublishError(message string) error
}

// Checker runs the recurring reconciliation cycle: load the hourly domain
// set, query the oracle once, persist the aggregate report and hand the
// summary to the notifier. Timer ticks and manual triggers share one entry
// point, so two cycles can never overlap.
type Checker struct {
	registry Registry
	oracle   Oracle
	reports  ReportStore
	notifier Notifier // nil when no notification channel is configured

	// busy is the cycle guard: a trigger that arrives while a cycle runs
	// is dropped, not queued.
	busy atomic.Bool

	mu           sync.Mutex
	cron         *cron.Cron
	cronExpr     string
	initialTimer *time.Timer
}

func New(registry Registry, oracle Oracle, reports ReportStore, notifier Notifier) *Checker {
	return &Checker{
		registry: registry,
		oracle:   oracle,
		reports:  reports,
		notifier: notifier,
	}
}

// Start schedules the recurring cycle. A positive initialDelay also fires a
// first cycle shortly after startup. Calling Start on a started checker is a
// no-op.
func (c *Checker) Start(expression, timezone string, initialDelay time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil {
		return nil
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("hourly: load timezone %q: %w", timezone, err)
	}

	scheduler := cron.New(cron.WithLocation(location))
	if _, err := scheduler.AddFunc(expression, func() {
		c.TriggerCheck()
	}); err != nil {
		return fmt.Errorf("hourly: schedule %q: %w", expression, err)
	}

	scheduler.Start()
	c.cron = scheduler
	c.cronExpr = expression

	if initialDelay > 0 {
		c.initialTimer = time.AfterFunc(initialDelay, func() {
			c.TriggerCheck()
		})
	}

	log.Info("Hourly checker started", "expression", expression, "timezone", timezone)
	return nil
}

// Stop halts the schedule. A cycle already underway runs to completion.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron == nil {
		return
	}

	if c.initialTimer != nil {
		c.initialTimer.Stop()
		c.initialTimer = nil
	}

	c.cron.Stop()
	c.cron = nil
	c.cronExpr = ""
	log.Info("Hourly checker stopped")
}

func (c *Checker) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cron != nil
}

func (c *Checker) Status() dto.SchedulerStatus {
	c.mu.Lock()
	expression := c.cronExpr
	running := c.cron != nil
	c.mu.Unlock()

	names, err := c.registry.DomainsForFrequency(domain.FrequencyHourly)
	if err != nil {
		log.Error("Failed to load hourly domains for status", "error", err)
	}

	return dto.SchedulerStatus{
		Running:        running,
		CronExpression: expression,
		DomainsToCheck: names,
	}
}

// TriggerCheck runs one reconciliation cycle. When a cycle is already in
// flight the trigger is a no-op and returns (nil, nil); the in-flight run is
// never interrupted. An empty hourly domain set is likewise a silent (nil,
// nil): no report, no notification.
func (c *Checker) TriggerCheck() (*domain.HourlyReport, error) {
	if !c.busy.CompareAndSwap(false, true) {
		log.Debug("Hourly check already in progress, ignoring trigger")
		return nil, nil
	}
	defer c.busy.Store(false)

	return c.runCycle()
}

func (c *Checker) runCycle() (*domain.HourlyReport, error) {
	names, err := c.registry.DomainsForFrequency(domain.FrequencyHourly)
	if err != nil {
		c.failCycle("load hourly domains", err)
		return nil, err
	}

	if len(names) == 0 {
		log.Debug("No domains configured for hourly checking")
		return nil, nil
	}

	outcome, err := c.oracle.CheckDomains(context.Background(), names)
	if err != nil {
		// No retry here; the next scheduled tick is the retry.
		c.failCycle("query oracle", err)
		return nil, err
	}

	summary := checker.GenerateSummary(outcome)
	report := &domain.HourlyReport{
		Timestamp:      outcome.Timestamp,
		DomainsChecked: len(outcome.CheckedDomains),
		Summary:        summary,
		Details:        outcome.Data,
	}

	if err := c.reports.SaveHourlyReport(report); err != nil {
		// The per-domain rows are already durable; only the rollup is lost.
		c.failCycle("persist hourly report", err)
		return nil, err
	}

	if c.notifier != nil {
		if err := c.notifier.PublishSummary(summary, outcome.Timestamp); err != nil {
			log.Error("Failed to deliver hourly summary", "error", err)
		}
	}

	log.Info("Hourly check completed",
		"checked", summary.TotalChecked,
		"blocked", summary.Blocked,
		"unblocked", summary.Unblocked,
	)
	return report, nil
}

func (c *Checker) failCycle(stage string, err error) {
	log.Error("Hourly check failed", "stage", stage, "error", err)

	if c.notifier == nil {
		return
	}
	if nerr := c.notifier.PublishError(err.Error()); nerr != nil {
		log.Error("Failed to deliver failure notice", "error", nerr)
	}
}
