package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mwanaisha222/impala1/internal/middleware"
	"github.com/mwanaisha222/impala1/internal/modules/article"
	"github.com/mwanaisha222/impala1/internal/modules/contact"
	"github.com/mwanaisha222/impala1/internal/modules/newsletter"
	"github.com/mwanaisha222/impala1/internal/modules/user"
	pkgmail "github.com/mwanaisha222/impala1/internal/pkg/mail"
	"github.com/mwanaisha222/impala1/internal/pkg/response"
	"github.com/mwanaisha222/impala1/internal/pkg/signer"
	"github.com/mwanaisha222/impala1/internal/pkg/taskqueue"
)

func (a *App) registerRoutes(ctx context.Context) {
	r := a.router
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	if a.rc != nil {
		r.Use(middleware.RateLimit(a.rc.Raw()))
		r.Use(middleware.Idempotence(a.rc.Raw()))
	}

	// Shared services
	userSvc := user.NewService(a.db)
	contactSvc := contact.NewService(a.db)
	articleSvc := article.NewService(a.db)

	sender := pkgmail.New(pkgmail.BuildConfig(a.cfg))
	tokenSigner := signer.New(a.cfg.SecretKey, a.cfg.UnsubscribeTokenMaxAge())

	newsletterSvc := newsletter.New(
		contactSvc, sender, tokenSigner,
		a.cfg.SiteName, a.cfg.SiteURL, a.cfg.WebURL,
		a.logger,
	)
	if a.rc != nil {
		taskSvc := taskqueue.NewService(a.rc)
		newsletterSvc.SetQueue(a.rc, taskSvc)
		worker := newsletter.NewWorker(taskSvc, newsletterSvc, articleSvc, a.logger)
		go worker.Run(ctx)
	}

	// Unsubscribe link lives at the site root, as embedded in emails.
	newsletter.NewHandler(contactSvc, tokenSigner).RegisterRoutes(r)

	api := r.Group("/api")
	user.NewHandler(userSvc).RegisterRoutes(api, authMW)
	contact.NewHandler(contactSvc).RegisterRoutes(api, authMW)
	article.NewHandler(articleSvc, newsletterSvc).RegisterRoutes(api, authMW)
}
