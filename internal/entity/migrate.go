package entity

import (
	"context"

	"github.com/vinopick/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Shop{},
		&Wine{},
		&WinePrice{},
		&PointHistory{},
		&Report{},
	)
}
