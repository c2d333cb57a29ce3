package ethereum

import (
	"fmt"
	"math/big"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/event"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// decodeLog turns a raw log of ev into a RawEvent. Indexed inputs come from
// the topics, the rest from the data section.
func decodeLog(ev abi.Event, lg types.Log) (event.RawEvent, error) {
	var indexed abi.Arguments
	for _, in := range ev.Inputs {
		if in.Indexed {
			indexed = append(indexed, in)
		}
	}
	if len(lg.Topics) != len(indexed)+1 {
		return event.RawEvent{}, fmt.Errorf("%s log %s: expected %d topics, got %d", ev.Name, lg.TxHash.Hex(), len(indexed)+1, len(lg.Topics))
	}
	if lg.Topics[0] != ev.ID {
		return event.RawEvent{}, fmt.Errorf("%s log %s: topic %s is not the event id", ev.Name, lg.TxHash.Hex(), lg.Topics[0].Hex())
	}

	args := make(map[string]any, len(ev.Inputs))
	if err := ev.Inputs.UnpackIntoMap(args, lg.Data); err != nil {
		return event.RawEvent{}, fmt.Errorf("%s log %s: unpack data: %w", ev.Name, lg.TxHash.Hex(), err)
	}
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(args, indexed, lg.Topics[1:]); err != nil {
			return event.RawEvent{}, fmt.Errorf("%s log %s: parse topics: %w", ev.Name, lg.TxHash.Hex(), err)
		}
	}
	for k, v := range args {
		args[k] = normalizeArg(v)
	}

	return event.RawEvent{
		Name:        ev.Name,
		TxHash:      lg.TxHash.Hex(),
		BlockNumber: lg.BlockNumber,
		LogIndex:    lg.Index,
		Args:        args,
	}, nil
}

func normalizeArg(v any) any {
	switch x := v.(type) {
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Bytes()
	case [32]byte:
		return x[:]
	case uint8:
		return new(big.Int).SetUint64(uint64(x))
	case uint16:
		return new(big.Int).SetUint64(uint64(x))
	case uint32:
		return new(big.Int).SetUint64(uint64(x))
	case uint64:
		return new(big.Int).SetUint64(x)
	default:
		return v
	}
}
