package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vinopick/backend/config"
	"github.com/vinopick/backend/internal/domain"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/kafka"
	"github.com/vinopick/backend/pkg/logger"
	"github.com/vinopick/backend/pkg/pubsub"
	"github.com/vinopick/backend/pkg/router"
	"github.com/vinopick/backend/pkg/xcontext"
	"github.com/vinopick/backend/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs

	userRepo    repository.UserRepository
	priceRepo   repository.PriceRepository
	historyRepo repository.PointHistoryRepository
	reportRepo  repository.ReportRepository
	wineRepo    repository.WineRepository
	shopRepo    repository.ShopRepository

	priceDomain  domain.PriceDomain
	pointDomain  domain.PointDomain
	reportDomain domain.ReportDomain

	locker    xredis.Locker
	publisher pubsub.Publisher

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.Log.Level)))
	return nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := s.configs.Database
	db, err := gorm.Open(mysql.Open(cfg.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) loadRedis() {
	if s.configs.Redis.Addr == "" {
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, price locks rely on the database only: %v", err)
		return
	}

	s.locker = client
}

func (s *srv) loadPublisher() {
	s.publisher = pubsub.NewNoopPublisher()
	if s.configs.Kafka.Addr == "" {
		return
	}

	publisher, err := kafka.NewPublisher(s.configs.Kafka.ClientID, s.configs.Kafka.Addr)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to kafka, review notifications are disabled: %v", err)
		return
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.priceRepo = repository.NewPriceRepository()
	s.historyRepo = repository.NewPointHistoryRepository()
	s.reportRepo = repository.NewReportRepository()
	s.wineRepo = repository.NewWineRepository()
	s.shopRepo = repository.NewShopRepository()
}

func (s *srv) loadDomains() {
	s.priceDomain = domain.NewPriceDomain(
		s.priceRepo,
		s.historyRepo,
		s.reportRepo,
		s.wineRepo,
		s.shopRepo,
		s.userRepo,
		s.locker,
		s.publisher,
	)
	s.pointDomain = domain.NewPointDomain(s.historyRepo, s.userRepo, s.priceRepo, s.locker)
	s.reportDomain = domain.NewReportDomain(s.reportRepo)
}

func (s *srv) startServer() error {
	cfg := s.configs.ApiServer
	s.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.router.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Printf("Starting server on %s\n", cfg.Address())
	if cfg.Cert != "" && cfg.Key != "" {
		return s.server.ListenAndServeTLS(cfg.Cert, cfg.Key)
	}

	return s.server.ListenAndServe()
}
