package worker

import (
	"context"
	"time"

	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/storefront/backoffice/internal/service"
)

const reportTimeout = time.Minute

// MonthlyReportJob logs the sale count and revenue of the previous month.
type MonthlyReportJob struct {
	queries *service.SalesQueryService
	logger  *zap.Logger
	now     func() time.Time
}

// NewMonthlyReportJob builds the job.
func NewMonthlyReportJob(queries *service.SalesQueryService, logger *zap.Logger) *MonthlyReportJob {
	return &MonthlyReportJob{queries: queries, logger: logger, now: time.Now}
}

// Run summarizes the month before the current one.
func (j *MonthlyReportJob) Run(ctx context.Context) (service.MonthlySummary, error) {
	current := j.now().In(j.queries.Location())
	firstOfMonth := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, current.Location())
	previous := firstOfMonth.AddDate(0, -1, 0)

	summary, err := j.queries.SummarizeMonth(ctx, previous.Year(), int(previous.Month()))
	if err != nil {
		j.logger.Error("monthly sales report failed", zap.Error(err))
		return service.MonthlySummary{}, err
	}
	j.logger.Info("monthly sales report",
		zap.Int("year", summary.Year),
		zap.String("month", summary.Month.String()),
		zap.Int("sales", summary.SaleCount),
		zap.String("revenue", summary.Revenue.StringFixed(2)))
	return summary, nil
}

// StartMonthlyReportScheduler runs job on the cron schedule. Callers stop the
// returned scheduler on shutdown.
func StartMonthlyReportScheduler(schedule string, job *MonthlyReportJob) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(job.queries.Location()))
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		_, _ = job.Run(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
