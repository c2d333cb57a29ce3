package stages

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	chainmocks "github.com/MorpheusAIs/mor-stats-backend/internal/chain/mocks"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/event"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/fetcher"
	storemocks "github.com/MorpheusAIs/mor-stats-backend/internal/store/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func claimed(block uint64, wholeMOR int64) event.RawEvent {
	return event.RawEvent{
		Name:        chain.EventUserClaimed,
		TxHash:      "0xfeed",
		BlockNumber: block,
		Args: map[string]any{
			"poolId": big.NewInt(0),
			"user":   lowerUser,
			"amount": new(big.Int).Mul(big.NewInt(wholeMOR), big.NewInt(1e18)),
		},
	}
}

func TestSupplyStage_ExtendsHistoryFromBaseline(t *testing.T) {
	ctrl := gomock.NewController(t)
	logs := chainmocks.NewMockEventLogReader(ctrl)
	blocks := chainmocks.NewMockBlockReader(ctrl)
	supply := storemocks.NewMockSupplyRepository(ctrl)

	baselineTS := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	supply.EXPECT().Latest(gomock.Any()).Return(&model.CirculatingSupply{
		Date:                        "01/03/2024",
		CirculatingSupplyAtThatDate: decimal.NewFromInt(1000),
		BlockTimestampAtThatDate:    baselineTS,
		TotalClaimedThatDay:         decimal.NewFromInt(5),
	}, nil)
	locator := &stubLocator{block: 100}

	times := map[uint64]time.Time{
		101: baselineTS,
		150: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		200: time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC),
		250: time.Date(2024, 3, 2, 5, 0, 0, 0, time.UTC),
	}
	blocks.EXPECT().HeadBlock(gomock.Any()).Return(uint64(300), nil)
	blocks.EXPECT().BlockTimestamp(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, block uint64) (time.Time, error) {
			return times[block], nil
		}).AnyTimes()
	logs.EXPECT().FilterEvents(gomock.Any(), chain.EventUserClaimed, uint64(101), uint64(300)).
		Return([]event.RawEvent{claimed(101, 99), claimed(150, 2), claimed(200, 3), claimed(250, 1)}, nil)

	var stored []model.CirculatingSupply
	supply.EXPECT().BulkUpsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rows []model.CirculatingSupply) (int, error) {
			stored = rows
			return len(rows), nil
		})

	stage := NewSupplyStage(fetcher.New(logs, testLogger()), blocks, locator, supply, 1_000_000, testLogger())
	n, err := stage.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, locator.asked, 1)
	assert.Equal(t, baselineTS, locator.asked[0])

	require.Len(t, stored, 2)
	assert.Equal(t, "01/03/2024", stored[0].Date)
	assert.True(t, stored[0].TotalClaimedThatDay.Equal(decimal.NewFromInt(7)), "baseline claimed carried into the same day")
	assert.True(t, stored[0].CirculatingSupplyAtThatDate.Equal(decimal.NewFromInt(1002)))
	assert.Equal(t, times[150], stored[0].BlockTimestampAtThatDate)

	assert.Equal(t, "02/03/2024", stored[1].Date)
	assert.True(t, stored[1].TotalClaimedThatDay.Equal(decimal.NewFromInt(4)))
	assert.True(t, stored[1].CirculatingSupplyAtThatDate.Equal(decimal.NewFromInt(1006)))
	assert.Equal(t, times[250], stored[1].BlockTimestampAtThatDate)
}

func TestSupplyStage_NoBaselineReturnsZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	logs := chainmocks.NewMockEventLogReader(ctrl)
	blocks := chainmocks.NewMockBlockReader(ctrl)
	supply := storemocks.NewMockSupplyRepository(ctrl)

	supply.EXPECT().Latest(gomock.Any()).Return(nil, nil)

	n, err := NewSupplyStage(fetcher.New(logs, testLogger()), blocks, &stubLocator{}, supply, 1000, testLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSupplyStage_NoClaimsWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	logs := chainmocks.NewMockEventLogReader(ctrl)
	blocks := chainmocks.NewMockBlockReader(ctrl)
	supply := storemocks.NewMockSupplyRepository(ctrl)

	supply.EXPECT().Latest(gomock.Any()).Return(&model.CirculatingSupply{
		Date:                     "01/03/2024",
		BlockTimestampAtThatDate: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}, nil)
	blocks.EXPECT().HeadBlock(gomock.Any()).Return(uint64(120), nil)
	logs.EXPECT().FilterEvents(gomock.Any(), chain.EventUserClaimed, uint64(101), uint64(120)).Return(nil, nil)

	n, err := NewSupplyStage(fetcher.New(logs, testLogger()), blocks, &stubLocator{block: 100}, supply, 1000, testLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
