package newsletter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwanaisha222/impala1/internal/models"
	"github.com/mwanaisha222/impala1/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// TaskTypeDispatch tags queued newsletter fan-out tasks. The task dedup
// key is the article id, and each recipient send is additionally guarded
// by a per-(article, contact) marker, so retries never duplicate mail.
const TaskTypeDispatch = "newsletter_dispatch"

type dispatchPayload struct {
	ArticleID string `json:"article_id"`
}

// ArticleLoader fetches the article a queued task refers to.
type ArticleLoader interface {
	GetByID(id string) (*models.ArticleModel, error)
}

// Worker drains queued newsletter tasks in the background.
type Worker struct {
	queue    *taskqueue.Service
	svc      *Service
	articles ArticleLoader
	logger   *zap.Logger
	interval time.Duration
}

func NewWorker(queue *taskqueue.Service, svc *Service, articles ArticleLoader, logger *zap.Logger) *Worker {
	return &Worker{
		queue:    queue,
		svc:      svc,
		articles: articles,
		logger:   logger,
		interval: 5 * time.Second,
	}
}

// Run polls for pending tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce processes every currently pending newsletter task.
func (w *Worker) RunOnce(ctx context.Context) {
	tasks, err := w.queue.Pending(ctx)
	if err != nil {
		w.logger.Warn("newsletter worker: listing tasks failed", zap.Error(err))
		return
	}

	for _, task := range tasks {
		if task.Type != TaskTypeDispatch {
			continue
		}
		w.process(ctx, task)
	}
}

func (w *Worker) process(ctx context.Context, task *taskqueue.Task) {
	if err := w.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskRunning, ""); err != nil {
		w.logger.Warn("newsletter worker: claiming task failed",
			zap.String("task_id", task.ID), zap.Error(err))
		return
	}

	var payload dispatchPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		_ = w.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, "bad payload: "+err.Error())
		return
	}

	article, err := w.articles.GetByID(payload.ArticleID)
	if err != nil {
		_ = w.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, err.Error())
		return
	}
	if article == nil {
		_ = w.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, "article not found")
		return
	}

	report := w.svc.Dispatch(ctx, article)
	if report.Err != nil {
		_ = w.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, report.Err.Error())
		return
	}

	errMsg := ""
	if n := len(report.Failures); n > 0 {
		errMsg = fmt.Sprintf("%d recipient(s) failed", n)
	}
	_ = w.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskCompleted, errMsg)
}
