//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store/postgres"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimLock(i int, block int64, user string, pool int64) model.ClaimLockEvent {
	return model.ClaimLockEvent{
		Timestamp:       time.Date(2024, 6, 1, 12, 0, i, 0, time.UTC),
		TransactionHash: fmt.Sprintf("0x%064x", i),
		BlockNumber:     block,
		PoolID:          pool,
		UserAddress:     user,
		ClaimLockStart:  decimal.NewFromInt(1_700_000_000),
		ClaimLockEnd:    decimal.NewFromInt(1_800_000_000),
	}
}

func TestIntegration_MigrationsAreIdempotent(t *testing.T) {
	db := setupTestContainer(t)
	require.NoError(t, db.RunMigrations(context.Background(), postgres.Migrations))
}

func TestIntegration_ClaimLockReplayInsertsNothing(t *testing.T) {
	db := setupTestContainer(t)
	repo := postgres.NewClaimLockRepo(db)
	ctx := context.Background()

	rows := []model.ClaimLockEvent{
		claimLock(1, 100, "0xAa00000000000000000000000000000000000001", 0),
		claimLock(2, 101, "0xAa00000000000000000000000000000000000002", 1),
	}

	n, err := repo.BulkUpsert(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.BulkUpsert(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := repo.GetByTxHash(ctx, rows[1].TransactionHash)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(101), got.BlockNumber)
	assert.True(t, got.ClaimLockEnd.Equal(rows[1].ClaimLockEnd))

	missing, err := repo.GetByTxHash(ctx, "0xdead")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIntegration_ClaimLockUniqueUserPoolsKeepsLatest(t *testing.T) {
	db := setupTestContainer(t)
	repo := postgres.NewClaimLockRepo(db)
	ctx := context.Background()

	user := "0xAa00000000000000000000000000000000000001"
	_, err := repo.BulkUpsert(ctx, []model.ClaimLockEvent{
		claimLock(1, 100, user, 0),
		claimLock(2, 150, user, 0),
		claimLock(3, 120, user, 1),
	})
	require.NoError(t, err)

	pools, err := repo.UniqueUserPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, int64(150), pools[0].BlockNumber)
	assert.Equal(t, int64(120), pools[1].BlockNumber)
}

func TestIntegration_StakeEventsConflictOnTxAndBlock(t *testing.T) {
	db := setupTestContainer(t)
	staked := postgres.NewStakedEventRepo(db)
	withdrawn := postgres.NewWithdrawnEventRepo(db)
	ctx := context.Background()

	ev := model.StakeEvent{
		Timestamp:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TransactionHash: "0xabc",
		BlockNumber:     200,
		PoolID:          1,
		UserAddress:     "0xAa00000000000000000000000000000000000001",
		Amount:          decimal.RequireFromString("1000000000000000000"),
	}
	sameTxOtherBlock := ev
	sameTxOtherBlock.BlockNumber = 201

	n, err := staked.BulkUpsert(ctx, []model.StakeEvent{ev, ev, sameTxOtherBlock})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = withdrawn.BulkUpsert(ctx, []model.StakeEvent{ev})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "withdrawn table is independent")

	got, err := staked.GetByNaturalKey(ctx, "0xabc", 201)
	require.NoError(t, err)
	require.NotNil(t, got)

	sum, err := staked.SumByPool(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", sum.String())

	users, err := staked.UniqueUsers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)

	empty, err := staked.SumByPool(ctx, 0)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestIntegration_BridgedEventsConflictOnUniqueID(t *testing.T) {
	db := setupTestContainer(t)
	repo := postgres.NewBridgedEventRepo(db)
	ctx := context.Background()

	ev := model.OverplusBridgedEvent{
		Timestamp:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TransactionHash: "0x01",
		BlockNumber:     300,
		Amount:          decimal.NewFromInt(42),
		UniqueID:        "a1b2c3",
	}
	other := ev
	other.TransactionHash = "0x02"

	n, err := repo.BulkUpsert(ctx, []model.OverplusBridgedEvent{ev, other})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetByUniqueID(ctx, "a1b2c3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0x01", got.TransactionHash)
}

func TestIntegration_SupplyUpsertUpdatesByDate(t *testing.T) {
	db := setupTestContainer(t)
	repo := postgres.NewSupplyRepo(db)
	ctx := context.Background()

	first := model.CirculatingSupply{
		Date:                        "01/06/2024",
		CirculatingSupplyAtThatDate: decimal.RequireFromString("100.5"),
		BlockTimestampAtThatDate:    time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		TotalClaimedThatDay:         decimal.RequireFromString("1.5"),
	}
	_, err := repo.BulkUpsert(ctx, []model.CirculatingSupply{first})
	require.NoError(t, err)

	updated := first
	updated.CirculatingSupplyAtThatDate = decimal.RequireFromString("102.5")
	updated.TotalClaimedThatDay = decimal.RequireFromString("3.5")
	updated.BlockTimestampAtThatDate = time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	next := model.CirculatingSupply{
		Date:                        "02/06/2024",
		CirculatingSupplyAtThatDate: decimal.RequireFromString("103"),
		BlockTimestampAtThatDate:    time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC),
		TotalClaimedThatDay:         decimal.RequireFromString("0.5"),
	}
	_, err = repo.BulkUpsert(ctx, []model.CirculatingSupply{updated, next})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := repo.GetByDate(ctx, "01/06/2024")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "102.5", got.CirculatingSupplyAtThatDate.String())
	assert.Equal(t, "3.5", got.TotalClaimedThatDay.String())

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "02/06/2024", latest.Date)
}

func TestIntegration_EmissionsUpsertAndUpTo(t *testing.T) {
	db := setupTestContainer(t)
	repo := postgres.NewEmissionRepo(db)
	ctx := context.Background()

	day := func(d int, capital string) model.Emission {
		return model.Emission{
			Day:                int64(d),
			Date:               time.Date(2024, 2, 7+d, 0, 0, 0, 0, time.UTC),
			CapitalEmission:    decimal.RequireFromString(capital),
			CodeEmission:       decimal.Zero,
			ComputeEmission:    decimal.Zero,
			CommunityEmission:  decimal.Zero,
			ProtectionEmission: decimal.Zero,
			TotalEmission:      decimal.RequireFromString(capital),
			TotalSupply:        decimal.RequireFromString(capital),
		}
	}
	_, err := repo.BulkUpsert(ctx, []model.Emission{day(1, "3456"), day(2, "6900"), day(3, "10300")})
	require.NoError(t, err)
	_, err = repo.BulkUpsert(ctx, []model.Emission{day(2, "6901")})
	require.NoError(t, err)

	rows, err := repo.UpTo(ctx, time.Date(2024, 2, 9, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "6901", rows[1].CapitalEmission.String())

	got, err := repo.GetByDate(ctx, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.Day)
}

func TestIntegration_PrecisionRoundTrip(t *testing.T) {
	db := setupTestContainer(t)
	ctx := context.Background()

	huge := decimal.RequireFromString("123456789012345678901234567890")
	staked := postgres.NewStakedEventRepo(db)
	_, err := staked.BulkUpsert(ctx, []model.StakeEvent{{
		Timestamp:       time.Now().UTC(),
		TransactionHash: "0xprecision",
		BlockNumber:     1,
		PoolID:          0,
		UserAddress:     "0xAa00000000000000000000000000000000000001",
		Amount:          huge,
	}})
	require.NoError(t, err)

	got, err := staked.GetByNaturalKey(ctx, "0xprecision", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "123456789012345678901234567890", got.Amount.String())

	rewards := postgres.NewRewardRepo(db)
	fraction := decimal.RequireFromString("123456789012.123456789012345678")
	_, err = rewards.Insert(ctx, model.RewardSummary{
		Timestamp:        time.Now().UTC(),
		DailyPoolReward0: fraction,
		DailyPoolReward1: decimal.Zero,
		DailyReward:      fraction,
		TotalRewardPool0: fraction,
		TotalRewardPool1: decimal.Zero,
		TotalReward:      fraction,
	})
	require.NoError(t, err)

	latest, err := rewards.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, fraction.String(), latest.DailyReward.String())
}

func TestIntegration_MultiplierRecomputeReplacesSnapshot(t *testing.T) {
	db := setupTestContainer(t)
	repo := postgres.NewMultiplierRepo(db)
	ctx := context.Background()

	snapshot := func(n int) []model.UserMultiplier {
		rows := make([]model.UserMultiplier, n)
		for i := range rows {
			rows[i] = model.UserMultiplier{
				UserClaimLockedStart: decimal.NewFromInt(1),
				UserClaimLockedEnd:   decimal.NewFromInt(2),
				Timestamp:            time.Now().UTC(),
				TransactionHash:      fmt.Sprintf("0x%02d", i),
				BlockNumber:          int64(100 + i),
				PoolID:               0,
				UserAddress:          fmt.Sprintf("0xAa%038d", i),
				Multiplier:           decimal.NewNullDecimal(decimal.RequireFromString("10000000000000000000000000")),
			}
		}
		return rows
	}

	n, err := repo.Recompute(ctx, snapshot(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	fresh := snapshot(5)
	fresh[4].Multiplier = decimal.NullDecimal{}
	n, err = repo.Recompute(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	active, err := repo.ActiveUserPools(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 4)

	got, err := repo.GetByUserPool(ctx, fresh[4].UserAddress, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Multiplier.Valid)
}

func TestIntegration_Watermark(t *testing.T) {
	db := setupTestContainer(t)
	wm := postgres.NewWatermarkRepo(db)
	ctx := context.Background()

	_, ok, err := wm.LastProcessedBlock(ctx, model.TableClaimLocked)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = postgres.NewClaimLockRepo(db).BulkUpsert(ctx, []model.ClaimLockEvent{
		claimLock(1, 1200, "0xAa00000000000000000000000000000000000001", 0),
		claimLock(2, 1400, "0xAa00000000000000000000000000000000000002", 0),
	})
	require.NoError(t, err)

	block, ok, err := wm.LastProcessedBlock(ctx, model.TableClaimLocked)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1400), block)

	_, _, err = wm.LastProcessedBlock(ctx, "user_multiplier; DROP TABLE emissions")
	require.Error(t, err)
}
