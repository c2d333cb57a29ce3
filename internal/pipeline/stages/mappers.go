package stages

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/event"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// weiExp scales 18-decimal token amounts to whole units.
const weiExp = -18

func mapClaimLock(ev event.RawEvent, ts time.Time) (model.ClaimLockEvent, error) {
	pool, user, err := poolAndUser(ev)
	if err != nil {
		return model.ClaimLockEvent{}, err
	}
	start, err := ev.ArgBigInt("claimLockStart")
	if err != nil {
		return model.ClaimLockEvent{}, err
	}
	end, err := ev.ArgBigInt("claimLockEnd")
	if err != nil {
		return model.ClaimLockEvent{}, err
	}
	return model.ClaimLockEvent{
		Timestamp:       ts,
		TransactionHash: normalizeTxHash(ev.TxHash),
		BlockNumber:     int64(ev.BlockNumber),
		PoolID:          pool,
		UserAddress:     user,
		ClaimLockStart:  decimal.NewFromBigInt(start, 0),
		ClaimLockEnd:    decimal.NewFromBigInt(end, 0),
	}, nil
}

// mapStakeEvent serves both UserStaked and UserWithdrawn.
func mapStakeEvent(ev event.RawEvent, ts time.Time) (model.StakeEvent, error) {
	pool, user, err := poolAndUser(ev)
	if err != nil {
		return model.StakeEvent{}, err
	}
	amount, err := ev.ArgBigInt("amount")
	if err != nil {
		return model.StakeEvent{}, err
	}
	return model.StakeEvent{
		Timestamp:       ts,
		TransactionHash: normalizeTxHash(ev.TxHash),
		BlockNumber:     int64(ev.BlockNumber),
		PoolID:          pool,
		UserAddress:     user,
		Amount:          decimal.NewFromBigInt(amount, 0),
	}, nil
}

func mapBridged(ev event.RawEvent, ts time.Time) (model.OverplusBridgedEvent, error) {
	amount, err := ev.ArgBigInt("amount")
	if err != nil {
		return model.OverplusBridgedEvent{}, err
	}
	uid, err := ev.ArgBytes("uniqueId")
	if err != nil {
		return model.OverplusBridgedEvent{}, err
	}
	return model.OverplusBridgedEvent{
		Timestamp:       ts,
		TransactionHash: normalizeTxHash(ev.TxHash),
		BlockNumber:     int64(ev.BlockNumber),
		Amount:          decimal.NewFromBigInt(amount, 0),
		UniqueID:        hex.EncodeToString(uid),
	}, nil
}

// claimedAmount returns a UserClaimed amount in whole MOR.
func claimedAmount(ev event.RawEvent) (decimal.Decimal, error) {
	amount, err := ev.ArgBigInt("amount")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(amount, weiExp), nil
}

func poolAndUser(ev event.RawEvent) (int64, string, error) {
	raw, err := ev.ArgBigInt("poolId")
	if err != nil {
		return 0, "", err
	}
	if !raw.IsInt64() || raw.Sign() < 0 {
		return 0, "", fmt.Errorf("%s: pool id %s out of range", ev.Name, raw)
	}
	user, err := ev.ArgString("user")
	if err != nil {
		return 0, "", err
	}
	addr, err := checksumAddress(user)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", ev.Name, err)
	}
	return raw.Int64(), addr, nil
}

func checksumAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s).Hex(), nil
}

func normalizeTxHash(h string) string {
	h = strings.ToLower(h)
	if !strings.HasPrefix(h, "0x") {
		h = "0x" + h
	}
	return h
}

func weiToEther(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, weiExp)
}
