package common

import "fmt"

func PriceLockKey(priceID uint64) string {
	return fmt.Sprintf("wine_price:lock:%d", priceID)
}
