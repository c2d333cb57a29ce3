package ethereum

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed distribution_abi.json
var distributionABIJSON string

var parseDistributionABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(distributionABIJSON))
})

// DistributionABI returns the parsed ABI of the Distribution contract.
func DistributionABI() (abi.ABI, error) {
	parsed, err := parseDistributionABI()
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse distribution abi: %w", err)
	}
	return parsed, nil
}

// EventInputNames returns the input names of eventName in ABI order.
func EventInputNames(contractABI abi.ABI, eventName string) ([]string, error) {
	ev, ok := contractABI.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("event %q not in abi", eventName)
	}
	names := make([]string, 0, len(ev.Inputs))
	for _, in := range ev.Inputs {
		names = append(names, in.Name)
	}
	return names, nil
}
