package session

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// chargeScript decrements the balance only when it covers the charge and
// returns -1 otherwise.
var chargeScript = redis.NewScript(`
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local units = tonumber(ARGV[1])
if balance < units then
	return -1
end
return redis.call("DECRBY", KEYS[1], units)
`)

// RedisMeter charges against prepaid consultation units that the wallet
// service keeps in Redis under "<Prefix><customerID>".
type RedisMeter struct {
	Client *redis.Client
	Prefix string
}

func NewRedisMeter(client *redis.Client) *RedisMeter {
	return &RedisMeter{Client: client, Prefix: "astrobook:credits:"}
}

func (m *RedisMeter) Charge(ctx context.Context, customerID string, units int) (int64, error) {
	left, err := chargeScript.Run(ctx, m.Client, []string{m.Prefix + customerID}, units).Int64()
	if err != nil {
		return 0, fmt.Errorf("charge consultation credit for %s: %w", customerID, err)
	}
	if left < 0 {
		return 0, ErrInsufficientCredit
	}
	return left, nil
}
