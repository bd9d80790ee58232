package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
	"github.com/vinopick/backend/internal/common"
	"github.com/vinopick/backend/internal/middleware"
	"github.com/vinopick/backend/internal/model"
	"github.com/vinopick/backend/pkg/authenticator"
	"github.com/vinopick/backend/pkg/prometheus"
	"github.com/vinopick/backend/pkg/router"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.loadRedis()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	return s.startServer()
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Handle(http.MethodGet, "/metrics", prometheus.NewHandler(common.PromCollectors()...))

	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.RequestID())
	s.router.After(middleware.Logger())
	s.router.After(middleware.Prometheus())

	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, s.configs.Auth.AccessToken)
	authVerifier := middleware.NewAuthVerifier(tokenEngine, common.NewRoleVerifier(s.userRepo))

	// These following APIs are only for reviewers and admins.
	reviewRouter := s.router.Branch()
	reviewRouter.Before(authVerifier.Middleware())
	{
		// Price API
		router.GET(reviewRouter, "/getListPrice", s.priceDomain.GetList)
		router.GET(reviewRouter, "/getPrice", s.priceDomain.Get)
		router.GET(reviewRouter, "/getPendingCount", s.priceDomain.GetPendingCount)
		router.POST(reviewRouter, "/createPrice", s.priceDomain.Create)
		router.POST(reviewRouter, "/updatePrice", s.priceDomain.Update)
		router.POST(reviewRouter, "/changePriceStatus", s.priceDomain.ChangeStatus)
		router.POST(reviewRouter, "/rejectPrice", s.priceDomain.Reject)
		router.POST(reviewRouter, "/deletePrice", s.priceDomain.Delete)

		// Report API
		router.GET(reviewRouter, "/getListReport", s.reportDomain.GetList)
		router.POST(reviewRouter, "/updateReport", s.reportDomain.Update)
		router.POST(reviewRouter, "/deleteReport", s.reportDomain.Delete)

		// Point API
		router.GET(reviewRouter, "/getPointHistory", s.pointDomain.GetHistory)
		router.POST(reviewRouter, "/grantPoint", s.pointDomain.Grant)
		router.POST(reviewRouter, "/updatePoint", s.pointDomain.Update)
		router.POST(reviewRouter, "/deletePoint", s.pointDomain.Delete)
		router.POST(reviewRouter, "/resyncPoint", s.pointDomain.Resync)
	}
}
