package newsletter

import (
	"context"
	"fmt"
	"time"

	"github.com/mwanaisha222/impala1/internal/models"
	pkgmail "github.com/mwanaisha222/impala1/internal/pkg/mail"
	redisc "github.com/mwanaisha222/impala1/internal/pkg/redis"
	"github.com/mwanaisha222/impala1/internal/pkg/signer"
	"github.com/mwanaisha222/impala1/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// SubscriberStore is the consent-state surface the newsletter workflow
// touches. Contact records are owned by the contact service; this
// workflow never duplicates them.
type SubscriberStore interface {
	ListConsenting() ([]models.ContactMessage, error)
	GetByID(id string) (*models.ContactMessage, error)
	SetConsent(id string, v bool) error
}

// MailSender delivers one notification email per call.
type MailSender interface {
	SendArticleNotify(to string, data pkgmail.ArticleNotifyData) error
}

// RecipientFailure records a single failed send.
type RecipientFailure struct {
	ContactID string
	Email     string
	Err       error
}

// Report summarizes one fan-out run.
type Report struct {
	ArticleID string
	Sent      int
	Skipped   int
	Failures  []RecipientFailure
	Err       error // subscriber enumeration failure; per-recipient errors go in Failures
}

const sentMarkerTTL = 30 * 24 * time.Hour

// Service fans out new-article notifications to consenting contacts.
type Service struct {
	store    SubscriberStore
	sender   MailSender
	signer   *signer.Signer
	siteName string
	siteURL  string // unsubscribe links
	webURL   string // article links
	logger   *zap.Logger

	rc    *redisc.Client    // optional: per-recipient sent markers
	queue *taskqueue.Service // optional: async dispatch
}

func New(store SubscriberStore, sender MailSender, sg *signer.Signer, siteName, siteURL, webURL string, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		sender:   sender,
		signer:   sg,
		siteName: siteName,
		siteURL:  siteURL,
		webURL:   webURL,
		logger:   logger,
	}
}

// SetQueue enables the async dispatch path backed by Redis.
func (s *Service) SetQueue(rc *redisc.Client, queue *taskqueue.Service) {
	s.rc = rc
	s.queue = queue
}

// OnArticleCreate hands the fan-out off the publishing request path.
// With a queue configured the work is enqueued (deduplicated per article);
// otherwise it runs on its own goroutine. Either way the caller returns
// immediately and never observes mail failures.
func (s *Service) OnArticleCreate(article *models.ArticleModel) {
	if s.queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.queue.Enqueue(ctx, TaskTypeDispatch, dispatchPayload{ArticleID: article.ID}, article.ID); err == nil {
			return
		} else {
			s.logger.Warn("newsletter enqueue failed, dispatching inline",
				zap.String("article_id", article.ID), zap.Error(err))
		}
	}
	go s.Dispatch(context.Background(), article)
}

// Dispatch enumerates consenting contacts and sends each an email with
// the article link and a signed unsubscribe link. A failed send is
// recorded and never stops the remaining recipients.
func (s *Service) Dispatch(ctx context.Context, article *models.ArticleModel) Report {
	report := Report{ArticleID: article.ID}

	contacts, err := s.store.ListConsenting()
	if err != nil {
		report.Err = err
		s.logger.Error("newsletter dispatch: loading subscribers failed",
			zap.String("article_id", article.ID), zap.Error(err))
		return report
	}

	articleURL := fmt.Sprintf("%s/articles/%s", s.webURL, article.ID)

	for _, contact := range contacts {
		if s.rc != nil {
			claimed, err := s.rc.SetNX(ctx, s.sentKey(article.ID, contact.ID), 1, sentMarkerTTL)
			if err == nil && !claimed {
				report.Skipped++
				continue
			}
		}

		token := s.signer.Sign(contact.ID)
		unsubscribeURL := fmt.Sprintf("%s/unsubscribe/%s/", s.siteURL, token)

		if err := s.sender.SendArticleNotify(contact.Email, pkgmail.ArticleNotifyData{
			Name:           contact.Name,
			Title:          article.Title,
			ArticleURL:     articleURL,
			UnsubscribeURL: unsubscribeURL,
			SiteName:       s.siteName,
		}); err != nil {
			report.Failures = append(report.Failures, RecipientFailure{
				ContactID: contact.ID,
				Email:     contact.Email,
				Err:       err,
			})
			if s.rc != nil {
				// Release the marker so a retried task reaches this recipient.
				_ = s.rc.Del(ctx, s.sentKey(article.ID, contact.ID))
			}
			continue
		}
		report.Sent++
	}

	s.logReport(report)
	return report
}

func (s *Service) sentKey(articleID, contactID string) string {
	return fmt.Sprintf("impala:newsletter:sent:%s:%s", articleID, contactID)
}

func (s *Service) logReport(r Report) {
	fields := []zap.Field{
		zap.String("article_id", r.ArticleID),
		zap.Int("sent", r.Sent),
		zap.Int("skipped", r.Skipped),
		zap.Int("failed", len(r.Failures)),
	}
	for _, f := range r.Failures {
		fields = append(fields, zap.NamedError("send_"+f.ContactID, f.Err))
	}
	if len(r.Failures) > 0 {
		s.logger.Warn("newsletter dispatch finished with failures", fields...)
		return
	}
	s.logger.Info("newsletter dispatch finished", fields...)
}
