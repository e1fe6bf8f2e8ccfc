package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nurra/corpus-api/internal/domain/corpusModels"
	"github.com/nurra/corpus-api/internal/domain/jobModel"
	"github.com/nurra/corpus-api/internal/job"
	"github.com/nurra/corpus-api/internal/rag"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
	IngestedCount  int32
}

func (m *MockRagService) ProcessRequest(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	j.Status = jobModel.JobStatusComplete
	return j
}

func (m *MockRagService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.IngestedCount, 1)
	j.Status = jobModel.JobStatusError
	return j
}

func (m *MockRagService) RetrieveContext(ctx context.Context, query string) rag.ContextResult {
	return rag.ContextResult{}
}

func (m *MockRagService) SearchCorpus(ctx context.Context, query string, threshold float64, limit int) ([]corpusModels.SearchResult, error) {
	return nil, nil
}

func (m *MockRagService) Stats(ctx context.Context) (corpusModels.CorpusStats, error) {
	return corpusModels.CorpusStats{}, nil
}

func (m *MockRagService) ClearCorpus(ctx context.Context) error { return nil }

type MockJobStore struct {
	mu    sync.Mutex
	saved []jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, j)
	return nil
}

func (m *MockJobStore) lastSaved() (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return jobModel.Job{}, false
	}
	return m.saved[len(m.saved)-1], true
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a query job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1", JobType: jobModel.JobTypeQuery}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}

		saved, ok := jobStore.lastSaved()
		if !ok || saved.Status != jobModel.JobStatusComplete {
			t.Errorf("Final saved status got %v, want Complete", saved.Status)
		}
	})

	t.Run("Worker routes ingest jobs and keeps their final status", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-2", JobType: jobModel.JobTypeIngest}
		jobSvc.JobChannel <- testJob

		time.Sleep(50 * time.Millisecond)

		ingested := atomic.LoadInt32(&mockRag.IngestedCount)
		if ingested != 1 {
			t.Errorf("Expected 1 ingest job, got %d", ingested)
		}

		saved, ok := jobStore.lastSaved()
		if !ok || saved.Status != jobModel.JobStatusError {
			t.Errorf("Final saved status got %v, want Error to survive the last save", saved.Status)
		}
	})

	t.Run("Idle worker retires back to the minimum", func(t *testing.T) {
		oldTimeout := idleWorkerTimeout
		idleWorkerTimeout = 50 * time.Millisecond
		defer func() { idleWorkerTimeout = oldTimeout }()

		// Pretend a burst left an extra worker behind, then spawn one that
		// will sit idle. It must see count > min and retire itself.
		atomic.StoreInt64(&currentWorkerCount, minWorkerCount)
		createWorker()

		time.Sleep(5 * idleWorkerTimeout)

		if count := atomic.LoadInt64(&currentWorkerCount); count != minWorkerCount {
			t.Errorf("Worker count after idle timeout got %d, want %d", count, minWorkerCount)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}
