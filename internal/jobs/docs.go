// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs use github.com/robfig/cron/v3 with second precision; schedules come from the
// configuration.
//
// # Available Jobs
//
//  1. MatchingJob - runs a matching pass (default every two seconds); passes may overlap
//  2. ReconciliationJob - settles delivered orders whose settlement was missed (default
//     every five minutes); skipped while the previous sweep is running
//  3. RegistryRebuildJob - re-derives the live registry from the database (default every
//     ten minutes)
//
// SettlementWorker is not scheduled: it consumes settlement requests from a bounded
// in-memory queue when no message broker is configured.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewMatchingJob(matchHandler, cfg.MatchingSchedule, logger),
//		jobs.NewReconciliationJob(reconcileHandler, cfg.ReconcileSchedule, 0, 0, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Runs log their failures and never stop the scheduler. A failed start stops the jobs
// already running.
package jobs
