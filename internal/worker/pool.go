// Package worker provides background processing for song explanations.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/core/services"
)

// explainTimeout bounds one completion call so a stuck upstream cannot
// pin a worker forever.
const explainTimeout = 30 * time.Second

// Job represents one pending song explanation.
type Job struct {
	DraftID string
	TrackID string
	Phrase  string
	Title   string
	Artist  string
}

// Pool manages background workers that fill in song explanations after a
// draft has already been stored and returned. Explanations are best
// effort: a failed completion writes a placeholder, never an error.
type Pool struct {
	repo      ports.DraftRepository
	explainer ports.Explainer
	jobs      chan Job
	wg        sync.WaitGroup
}

var _ services.ExplanationScheduler = (*Pool)(nil)

// NewPool creates a worker pool with the given queue size.
func NewPool(repo ports.DraftRepository, explainer ports.Explainer, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{repo: repo, explainer: explainer, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Schedule queues a job without blocking. When the queue is full the job
// is dropped and the song keeps its placeholder explanation.
func (p *Pool) Schedule(draftID, trackID, phrase, title, artist string) {
	job := Job{DraftID: draftID, TrackID: trackID, Phrase: phrase, Title: title, Artist: artist}
	select {
	case p.jobs <- job:
	default:
		logrus.WithFields(logrus.Fields{
			"draft_id": draftID,
			"track_id": trackID,
		}).Warn("worker: queue full, dropping explanation job")
	}
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), explainTimeout)
	defer cancel()

	explanation, err := p.explainer.ExplainPick(ctx, job.Phrase, job.Title, job.Artist)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"draft_id": job.DraftID,
			"track_id": job.TrackID,
		}).Warn("worker: explanation failed")
		explanation = domain.ExplanationUnavailable
	}

	if err := p.repo.UpdateSongExplanation(ctx, job.DraftID, job.TrackID, explanation); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"draft_id": job.DraftID,
			"track_id": job.TrackID,
		}).Warn("worker: failed to store explanation")
	}
}
