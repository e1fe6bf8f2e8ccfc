package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nurra/corpus-api/internal/config"
	jobmodel "github.com/nurra/corpus-api/internal/domain/jobModel"
	"github.com/nurra/corpus-api/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)

	// Ingestion paces its store writes, so it gets a much longer leash
	// than a query.
	timeout := config.QueryJobTimeout
	if job.JobType == jobmodel.JobTypeIngest {
		timeout = config.IngestJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctxTrace, timeout)
	defer cancel()

	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job)

	if job.JobType == jobmodel.JobTypeIngest {
		job = _ragService.IngestDocument(ctx, job)
	} else {
		job = _ragService.ProcessRequest(ctx, job)
	}

	job.EndTime = time.Now()
	saveJobState(ctx, job)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
