package event

import (
	"fmt"
	"math/big"
)

// RawEvent is one decoded contract log. Args holds the ABI-decoded inputs
// keyed by their ABI name: integers as *big.Int, addresses as EIP-55
// strings, bytes as []byte.
type RawEvent struct {
	Name        string
	TxHash      string
	BlockNumber uint64
	LogIndex    uint
	Args        map[string]any
}

func (e RawEvent) ArgBigInt(name string) (*big.Int, error) {
	v, ok := e.Args[name]
	if !ok {
		return nil, fmt.Errorf("%s: missing arg %q", e.Name, name)
	}
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%s: nil arg %q", e.Name, name)
		}
		return n, nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case int64:
		return big.NewInt(n), nil
	case uint8:
		return big.NewInt(int64(n)), nil
	case uint32:
		return big.NewInt(int64(n)), nil
	default:
		return nil, fmt.Errorf("%s: arg %q is %T, not an integer", e.Name, name, v)
	}
}

func (e RawEvent) ArgString(name string) (string, error) {
	v, ok := e.Args[name]
	if !ok {
		return "", fmt.Errorf("%s: missing arg %q", e.Name, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: arg %q is %T, not a string", e.Name, name, v)
	}
	return s, nil
}

func (e RawEvent) ArgBytes(name string) ([]byte, error) {
	v, ok := e.Args[name]
	if !ok {
		return nil, fmt.Errorf("%s: missing arg %q", e.Name, name)
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%s: arg %q is %T, not bytes", e.Name, name, v)
	}
	return b, nil
}
