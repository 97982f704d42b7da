package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"catalog-backend/internal/metrics"
	"catalog-backend/internal/models"
	"catalog-backend/internal/services"
)

// OrphanAudit periodically counts episode and season rows that no parent
// list references. It only reports; nothing is deleted.
type OrphanAudit struct {
	counter services.OrphanCounter
	cron    *cron.Cron
	timeout time.Duration
	log     *logrus.Entry
}

func NewOrphanAudit(counter services.OrphanCounter, log *logrus.Entry) *OrphanAudit {
	return &OrphanAudit{
		counter: counter,
		cron:    cron.New(),
		timeout: time.Minute,
		log:     log,
	}
}

// Start schedules the audit (standard cron syntax or descriptors such as
// "@hourly") and runs it once immediately.
func (a *OrphanAudit) Start(schedule string) error {
	if _, err := a.cron.AddFunc(schedule, a.Run); err != nil {
		return err
	}
	go a.Run()
	a.cron.Start()
	a.log.WithField("schedule", schedule).Info("orphan audit scheduled")
	return nil
}

// Stop waits for a running audit to finish.
func (a *OrphanAudit) Stop() {
	<-a.cron.Stop().Done()
}

func (a *OrphanAudit) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	counts, err := a.counter.CountOrphans(ctx)
	if err != nil {
		a.log.WithError(err).Error("orphan audit failed")
		return
	}

	metrics.OrphanRows.WithLabelValues(string(models.TableEpisode)).Set(float64(counts.Episodes))
	metrics.OrphanRows.WithLabelValues(string(models.TableSeason)).Set(float64(counts.Seasons))

	entry := a.log.WithFields(logrus.Fields{
		"episodes": counts.Episodes,
		"seasons":  counts.Seasons,
	})
	if counts.Episodes > 0 || counts.Seasons > 0 {
		entry.Warn("orphaned rows found")
		return
	}
	entry.Info("no orphaned rows")
}
