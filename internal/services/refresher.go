package services

import (
	"context"
	"log"
	"sync"
	"time"

	"uptrack/career-coach/internal/repositories"
)

// Refresher keeps cached industry insights fresh in the background so most
// dashboard requests never pay the regeneration round-trip. It polls for
// records whose freshness window has elapsed and refreshes them with a small
// pool of workers.
type Refresher interface {
	Start(ctx context.Context)
	Stop()
}

type refresher struct {
	insightRepo  repositories.InsightRepository
	insights     InsightsService
	pollInterval time.Duration
	concurrency  int

	jobQueue chan string
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewRefresher(
	insightRepo repositories.InsightRepository,
	insights InsightsService,
	pollInterval time.Duration,
	concurrency int,
) Refresher {
	return &refresher{
		insightRepo:  insightRepo,
		insights:     insights,
		pollInterval: pollInterval,
		concurrency:  concurrency,
		jobQueue:     make(chan string, 100),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Refresher.
func (r *refresher) Start(ctx context.Context) {
	log.Printf("🚀 Starting insight refresher with %d workers\n", r.concurrency)

	for i := 0; i < r.concurrency; i++ {
		r.wg.Add(1)
		go r.processJobs(ctx, i+1)
	}

	r.wg.Add(1)
	go r.pollStaleInsights()
}

// Stop implements Refresher.
func (r *refresher) Stop() {
	close(r.stopChan)
	r.wg.Wait()
	log.Println("✅ Insight refresher stopped")
}

func (r *refresher) processJobs(ctx context.Context, workerID int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopChan:
			return
		case industry := <-r.jobQueue:
			insight, err := r.insightRepo.FindByIndustry(industry)
			if err != nil {
				log.Printf("⚠️  Refresher #%d failed to load %q: %v\n", workerID, industry, err)
				continue
			}
			if !insight.IsStale(time.Now()) {
				continue
			}
			if err := r.insights.RefreshInsight(ctx, insight); err != nil {
				log.Printf("⚠️  Refresher #%d failed to refresh %q: %v\n", workerID, industry, err)
			} else {
				log.Printf("✅ Refresher #%d refreshed insights for %q\n", workerID, industry)
			}
		}
	}
}

func (r *refresher) pollStaleInsights() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			stale, err := r.insightRepo.FindStale(time.Now(), 10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch stale insights: %v\n", err)
				continue
			}
			for _, insight := range stale {
				select {
				case r.jobQueue <- insight.Industry:
				case <-r.stopChan:
					return
				}
			}
		}
	}
}
