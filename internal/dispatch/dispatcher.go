// Package dispatch propagates local writes to the remote store in the
// background. Callers never wait on the network: enqueueing is non-blocking
// and no result of the remote round-trip is observable to them.
package dispatch

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/models"
	"github.com/yomarr/yomarr/internal/services/remote"
)

// queueSize bounds the pending job queue. When full, new jobs are dropped:
// the local store stays authoritative and the next write (or the periodic
// reconcile) re-attempts a sync.
const queueSize = 256

// RemoteStore is the narrow remote contract the dispatcher depends on
type RemoteStore interface {
	CurrentUserID() string
	UpsertProgress(ctx context.Context, userID string, rec *models.ProgressRecord) (*remote.SyncedProgress, error)
	SetStatus(ctx context.Context, userID, contentID string, status models.Status, score *int, progressCounter int) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

type jobKind string

const (
	jobUpsert    jobKind = "upsert"
	jobStatus    jobKind = "status"
	jobDeleteAll jobKind = "delete_all"
)

// job carries the full payload rather than a diff, so replays remain safe
// under the remote store's last-write-wins upsert contract.
type job struct {
	id   string
	kind jobKind

	record *models.ProgressRecord // upsert

	contentID       string // status
	status          models.Status
	score           *int
	progressCounter int
}

// Dispatcher runs a single background worker over a bounded job queue
type Dispatcher struct {
	jobs   chan job
	remote RemoteStore
	logger *logrus.Logger
}

// NewDispatcher creates a new sync dispatcher
func NewDispatcher(remoteStore RemoteStore, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		jobs:   make(chan job, queueSize),
		remote: remoteStore,
		logger: logger,
	}
}

// Start launches the background worker. It exits when ctx is cancelled;
// pending jobs are abandoned, which is fine for fire-and-forget writes.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				d.logger.Debug("Sync dispatcher stopped")
				return
			case j := <-d.jobs:
				d.run(j)
			}
		}
	}()
}

// EnqueueUpsert queues a progress upsert. Fire-and-forget: the caller never
// learns whether the remote write succeeded.
func (d *Dispatcher) EnqueueUpsert(rec *models.ProgressRecord) {
	copied := *rec
	d.enqueue(job{
		id:     uuid.NewString(),
		kind:   jobUpsert,
		record: &copied,
	})
}

// EnqueueStatus queues a library status write
func (d *Dispatcher) EnqueueStatus(contentID string, status models.Status, score *int, progressCounter int) {
	d.enqueue(job{
		id:              uuid.NewString(),
		kind:            jobStatus,
		contentID:       contentID,
		status:          status,
		score:           score,
		progressCounter: progressCounter,
	})
}

// EnqueueDeleteAll queues a best-effort remote delete of every progress row
// for the current user
func (d *Dispatcher) EnqueueDeleteAll() {
	d.enqueue(job{
		id:   uuid.NewString(),
		kind: jobDeleteAll,
	})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
	default:
		d.logger.WithFields(logrus.Fields{
			"job_id": j.id,
			"kind":   j.kind,
		}).Warn("Sync queue full, dropping job")
	}
}

// run executes one job. Failures are logged and discarded: there are no
// retries, and the job's outcome is invisible to whoever triggered it.
func (d *Dispatcher) run(j job) {
	userID := d.remote.CurrentUserID()
	if userID == "" {
		d.logger.WithFields(logrus.Fields{
			"job_id": j.id,
			"kind":   j.kind,
		}).Debug("No authenticated user, skipping sync")
		return
	}

	ctx := context.Background()
	fields := logrus.Fields{
		"job_id": j.id,
		"kind":   j.kind,
		"user":   userID,
	}

	var err error
	switch j.kind {
	case jobUpsert:
		fields["content_id"] = j.record.ContentID
		fields["chapter_id"] = j.record.ChapterID
		_, err = d.remote.UpsertProgress(ctx, userID, j.record)
	case jobStatus:
		fields["content_id"] = j.contentID
		fields["status"] = j.status
		err = d.remote.SetStatus(ctx, userID, j.contentID, j.status, j.score, j.progressCounter)
	case jobDeleteAll:
		err = d.remote.DeleteAllForUser(ctx, userID)
	}

	if err != nil {
		d.logger.WithError(err).WithFields(fields).Error("Sync job failed")
		return
	}

	d.logger.WithFields(fields).Debug("Sync job completed")
}
