package testutil

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/repository"
)

var fixtureTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

var (
	// Users
	Admin = &entity.User{
		Base:     entity.Base{ID: 1},
		Nickname: "admin",
		Email:    "admin@vinopick.test",
		Role:     entity.RoleAdmin,
	}

	Reviewer = &entity.User{
		Base:     entity.Base{ID: 2},
		Nickname: "reviewer",
		Email:    "reviewer@vinopick.test",
		Role:     entity.RoleReviewer,
	}

	// Writer1 owns a manual grant of 10 points and a revoke of 4 points.
	Writer1 = &entity.User{
		Base:     entity.Base{ID: 3},
		Nickname: "writer1",
		Email:    "writer1@vinopick.test",
		Role:     entity.RoleUser,
		Point:    6,
	}

	// Writer2 owns the 3 points reward of Price2.
	Writer2 = &entity.User{
		Base:     entity.Base{ID: 4},
		Nickname: "writer2",
		Email:    "writer2@vinopick.test",
		Role:     entity.RoleUser,
		Point:    3,
	}

	Users = []*entity.User{Admin, Reviewer, Writer1, Writer2}

	// Shops
	Shop1 = &entity.Shop{Base: entity.Base{ID: 1}, Name: "Cellar House", Branch: "Gangnam"}
	Shop2 = &entity.Shop{Base: entity.Base{ID: 2}, Name: "Wine Market", Branch: "Mapo"}

	Shops = []*entity.Shop{Shop1, Shop2}

	// Wines
	Wine1 = &entity.Wine{
		Base:        entity.Base{ID: 1},
		Name:        "Chateau Margaux",
		EnglishName: "Chateau Margaux 2015",
		Winery:      "Chateau Margaux",
		Status:      entity.WineWaiting,
	}

	Wine2 = &entity.Wine{
		Base:        entity.Base{ID: 2},
		Name:        "Opus One",
		EnglishName: "Opus One 2018",
		Winery:      "Opus One Winery",
		Status:      entity.WinePass,
	}

	Wines = []*entity.Wine{Wine1, Wine2}

	// Prices are registered from the newest (Price1) to the oldest (Price4).
	Price1 = &entity.WinePrice{
		Base:       entity.Base{ID: 1},
		WineID:     Wine1.ID,
		ShopID:     Shop1.ID,
		WriterID:   Writer1.ID,
		Status:     entity.PriceWaiting,
		Price:      decimal.RequireFromString("120000"),
		FinalPrice: decimal.RequireFromString("99000"),
		Currency:   "KRW",
		Registered: fixtureTime.Add(-1 * time.Hour),
	}

	Price2 = &entity.WinePrice{
		Base:       entity.Base{ID: 2},
		WineID:     Wine1.ID,
		ShopID:     Shop2.ID,
		WriterID:   Writer2.ID,
		Status:     entity.PricePass,
		Price:      decimal.RequireFromString("125000"),
		FinalPrice: decimal.RequireFromString("125000"),
		Currency:   "KRW",
		Receipt:    true,
		Registered: fixtureTime.Add(-2 * time.Hour),
	}

	Price3 = &entity.WinePrice{
		Base:       entity.Base{ID: 3},
		WineID:     Wine2.ID,
		ShopID:     Shop1.ID,
		WriterID:   Writer1.ID,
		Status:     entity.PriceReject,
		Price:      decimal.RequireFromString("650000"),
		FinalPrice: decimal.RequireFromString("600000"),
		Currency:   "KRW",
		Registered: fixtureTime.Add(-3 * time.Hour),
	}

	Price4 = &entity.WinePrice{
		Base:       entity.Base{ID: 4},
		WineID:     Wine2.ID,
		ShopID:     Shop2.ID,
		WriterID:   Admin.ID,
		Status:     entity.PricePassBeforeReview,
		Price:      decimal.RequireFromString("640000"),
		FinalPrice: decimal.RequireFromString("640000"),
		Currency:   "KRW",
		Registered: fixtureTime.Add(-4 * time.Hour),
	}

	Prices = []*entity.WinePrice{Price1, Price2, Price3, Price4}

	// Point histories
	price2ID = Price2.ID

	Price2Reward = &entity.PointHistory{
		ID:           1,
		UserID:       Writer2.ID,
		ActivityType: entity.PriceReward,
		ForeignKey:   &price2ID,
		Point:        3,
		Datetime:     fixtureTime,
		Note:         "good receipt",
	}

	Writer1Grant = &entity.PointHistory{
		ID:           2,
		UserID:       Writer1.ID,
		ActivityType: entity.PriceReward,
		Point:        10,
		Datetime:     fixtureTime,
		Note:         "event",
	}

	Writer1Revoke = &entity.PointHistory{
		ID:           3,
		UserID:       Writer1.ID,
		ActivityType: entity.PointRevoke,
		Point:        4,
		Datetime:     fixtureTime,
		Note:         "abuse",
	}

	PointHistories = []*entity.PointHistory{Price2Reward, Writer1Grant, Writer1Revoke}

	// Reports of Price3. The latest one is active.
	Price3OldReport = &entity.Report{
		ID:         1,
		ReporterID: Reviewer.ID,
		PriceID:    Price3.ID,
		Reason:     "blurry receipt",
		Datetime:   fixtureTime,
	}

	Price3Report = &entity.Report{
		ID:         2,
		ReporterID: Admin.ID,
		PriceID:    Price3.ID,
		Reason:     "duplicate",
		Datetime:   fixtureTime.Add(time.Minute),
	}

	Reports = []*entity.Report{Price3OldReport, Price3Report}
)

// CreateFixtureDb inserts the fixtures into the database of ctx. The fixtures are copied,
// so tests may modify the database freely.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertShops(ctx)
	InsertWines(ctx)
	InsertPrices(ctx)
	InsertPointHistories(ctx)
	InsertReports(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, u := range Users {
		user := *u
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertShops(ctx context.Context) {
	shopRepo := repository.NewShopRepository()
	for _, s := range Shops {
		shop := *s
		if err := shopRepo.Create(ctx, &shop); err != nil {
			panic(err)
		}
	}
}

func InsertWines(ctx context.Context) {
	wineRepo := repository.NewWineRepository()
	for _, w := range Wines {
		wine := *w
		if err := wineRepo.Create(ctx, &wine); err != nil {
			panic(err)
		}
	}
}

func InsertPrices(ctx context.Context) {
	priceRepo := repository.NewPriceRepository()
	for _, p := range Prices {
		price := *p
		if err := priceRepo.Create(ctx, &price); err != nil {
			panic(err)
		}
	}
}

func InsertPointHistories(ctx context.Context) {
	historyRepo := repository.NewPointHistoryRepository()
	for _, h := range PointHistories {
		history := *h
		if err := historyRepo.Create(ctx, &history); err != nil {
			panic(err)
		}
	}
}

func InsertReports(ctx context.Context) {
	reportRepo := repository.NewReportRepository()
	for _, r := range Reports {
		report := *r
		if err := reportRepo.Create(ctx, &report); err != nil {
			panic(err)
		}
	}
}
