// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds precision) and never
// mutate order state themselves; they call into the application layer.
//
// # Available Jobs
//
// 1. OverdueOrdersJob - every 10 seconds, logs active orders past the SLA budget
// 2. ClaimableBroadcastJob - every 15 seconds, re-announces unclaimed ready orders to online partners
//
// # Usage
//
//	jobManager := jobs.NewJobManager(overdueHandler, rebroadcastHandler, 0, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed tick is logged and the next tick runs as usual. A job that cannot be
// scheduled fails StartAll, which stops any job already started.
package jobs
