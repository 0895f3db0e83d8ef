package newsletter

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mwanaisha222/impala1/internal/models"
	"github.com/mwanaisha222/impala1/internal/modules/contact"
	redisc "github.com/mwanaisha222/impala1/internal/pkg/redis"
	"github.com/mwanaisha222/impala1/internal/pkg/signer"
	"github.com/mwanaisha222/impala1/internal/pkg/taskqueue"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeArticles struct {
	byID map[string]*models.ArticleModel
}

func (f *fakeArticles) GetByID(id string) (*models.ArticleModel, error) {
	return f.byID[id], nil
}

func newWorkerFixture(t *testing.T) (*Worker, *Service, *taskqueue.Service, *contact.Service, *fakeSender) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redisc.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	contactSvc := contact.NewService(newTestDB(t))
	sender := &fakeSender{}
	svc := newDispatcher(contactSvc, sender, signer.New("test-secret", 0))
	queue := taskqueue.NewService(rc)
	svc.SetQueue(rc, queue)

	articles := &fakeArticles{byID: map[string]*models.ArticleModel{
		"article-1": testArticle(),
	}}
	worker := NewWorker(queue, svc, articles, zap.NewNop())
	return worker, svc, queue, contactSvc, sender
}

func TestWorkerProcessesQueuedDispatch(t *testing.T) {
	worker, svc, queue, contactSvc, sender := newWorkerFixture(t)
	addContact(t, contactSvc, "A", "a@example.com", true)

	ctx := context.Background()
	svc.OnArticleCreate(testArticle())

	pending, err := queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	worker.RunOnce(ctx)

	assert.Equal(t, []string{"a@example.com"}, sender.sentTo())

	task, err := queue.GetByID(ctx, pending[0].ID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, taskqueue.TaskCompleted, task.Status)

	pending, err = queue.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestWorkerRetryDoesNotDuplicateSends(t *testing.T) {
	worker, _, queue, contactSvc, sender := newWorkerFixture(t)
	addContact(t, contactSvc, "A", "a@example.com", true)

	ctx := context.Background()

	// Two tasks for the same article (the dedup hash was released in
	// between, as after a completed run): the markers still keep each
	// recipient at one email.
	_, err := queue.Enqueue(ctx, TaskTypeDispatch, dispatchPayload{ArticleID: "article-1"}, "article-1")
	require.NoError(t, err)
	worker.RunOnce(ctx)

	_, err = queue.Enqueue(ctx, TaskTypeDispatch, dispatchPayload{ArticleID: "article-1"}, "article-1")
	require.NoError(t, err)
	worker.RunOnce(ctx)

	assert.Len(t, sender.sentTo(), 1)
}

func TestWorkerFailsTaskForUnknownArticle(t *testing.T) {
	worker, _, queue, _, sender := newWorkerFixture(t)

	ctx := context.Background()
	task, err := queue.Enqueue(ctx, TaskTypeDispatch, dispatchPayload{ArticleID: "missing"}, "missing")
	require.NoError(t, err)

	worker.RunOnce(ctx)

	got, err := queue.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, taskqueue.TaskFailed, got.Status)
	assert.Empty(t, sender.sentTo())
}
