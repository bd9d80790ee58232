package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/repository"
)

// SampleUser creates a user whose unique fields are randomized. The sample can be
// overwritten by non-zero fields of init.
func SampleUser(ctx context.Context, init entity.User) entity.User {
	sample := entity.User{
		Nickname: uuid.NewString(),
		Email:    uuid.NewString() + "@vinopick.test",
		Role:     entity.RoleUser,
	}
	overwriteFields(&sample, init)

	if err := repository.NewUserRepository().Create(ctx, &sample); err != nil {
		panic(err)
	}

	return sample
}

// SampleWine creates a never approved wine, overwritten by non-zero fields of init.
func SampleWine(ctx context.Context, init entity.Wine) entity.Wine {
	sample := entity.Wine{
		Name:        "wine " + uuid.NewString(),
		EnglishName: "wine",
		Winery:      "winery",
		Status:      entity.WineWaiting,
	}
	overwriteFields(&sample, init)

	if err := repository.NewWineRepository().Create(ctx, &sample); err != nil {
		panic(err)
	}

	return sample
}

// SamplePrice creates a waiting price, overwritten by non-zero fields of init.
func SamplePrice(ctx context.Context, init entity.WinePrice) entity.WinePrice {
	sample := entity.WinePrice{
		WineID:     Wine1.ID,
		ShopID:     Shop1.ID,
		WriterID:   Writer1.ID,
		Status:     entity.PriceWaiting,
		Price:      decimal.NewFromInt(50000),
		FinalPrice: decimal.NewFromInt(45000),
		Currency:   "KRW",
		Registered: time.Now(),
	}
	overwriteFields(&sample, init)

	if err := repository.NewPriceRepository().Create(ctx, &sample); err != nil {
		panic(err)
	}

	return sample
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
