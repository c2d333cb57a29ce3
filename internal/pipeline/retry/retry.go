package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/lib/pq"
)

type Class string

const (
	ClassTerminal  Class = "terminal"
	ClassTransient Class = "transient"
)

type Decision struct {
	Class  Class
	Reason string
}

func (d Decision) IsTransient() bool {
	return d.Class == ClassTransient
}

type classifiedError struct {
	err    error
	class  Class
	reason string
}

func (e *classifiedError) Error() string {
	return e.err.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.err
}

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{
		err:    err,
		class:  ClassTransient,
		reason: "explicit_transient",
	}
}

func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{
		err:    err,
		class:  ClassTerminal,
		reason: "explicit_terminal",
	}
}

// IsTransient is the default retry predicate.
func IsTransient(err error) bool {
	return Classify(err).IsTransient()
}

func Classify(err error) Decision {
	if err == nil {
		return Decision{Class: ClassTerminal, Reason: "nil_error"}
	}

	var marked *classifiedError
	if errors.As(err, &marked) {
		return Decision{Class: marked.class, Reason: marked.reason}
	}

	var chainErr *ChainError
	if errors.As(err, &chainErr) {
		if chainErr.Transient {
			return Decision{Class: ClassTransient, Reason: "chain_transient"}
		}
		return Decision{Class: ClassTerminal, Reason: "chain_permanent"}
	}

	if errors.Is(err, context.Canceled) {
		return Decision{Class: ClassTerminal, Reason: "context_canceled"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Decision{Class: ClassTransient, Reason: "context_deadline_exceeded"}
	}
	if errors.Is(err, driver.ErrBadConn) {
		return Decision{Class: ClassTransient, Reason: "db_bad_conn"}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifySQLState(pqErr.Code)
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return Decision{Class: ClassTransient, Reason: "http_status_transient"}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return Decision{Class: ClassTransient, Reason: "net_timeout"}
		}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		// Providers report throttling through generic server codes; let the
		// message decide before the code does.
		if IsRateLimited(err) {
			return Decision{Class: ClassTransient, Reason: "rate_limited"}
		}
		return classifyJSONRPCCode(rpcErr.ErrorCode())
	}

	lower := strings.ToLower(err.Error())
	if containsAny(lower, terminalMessageTokens) {
		return Decision{Class: ClassTerminal, Reason: "message_terminal"}
	}
	if containsAny(lower, transientMessageTokens) {
		return Decision{Class: ClassTransient, Reason: "message_transient"}
	}

	return Decision{Class: ClassTerminal, Reason: "unknown_terminal_default"}
}

// IsRateLimited reports whether err is a provider throttling response.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return containsAny(strings.ToLower(err.Error()), rateLimitTokens)
}

func classifyJSONRPCCode(code int) Decision {
	if code == -32603 || code == -32005 {
		return Decision{Class: ClassTransient, Reason: "jsonrpc_server_transient"}
	}
	if code <= -32000 && code >= -32099 {
		return Decision{Class: ClassTransient, Reason: "jsonrpc_server_range"}
	}
	return Decision{Class: ClassTerminal, Reason: "jsonrpc_terminal"}
}

func classifySQLState(code pq.ErrorCode) Decision {
	switch code {
	case "40001":
		return Decision{Class: ClassTransient, Reason: "pg_serialization_failure"}
	case "40P01":
		return Decision{Class: ClassTransient, Reason: "pg_deadlock"}
	case "55P03":
		return Decision{Class: ClassTransient, Reason: "pg_lock_not_available"}
	case "57P01", "57P02", "57P03":
		return Decision{Class: ClassTransient, Reason: "pg_admin_shutdown"}
	}
	switch code.Class() {
	case "08":
		return Decision{Class: ClassTransient, Reason: "pg_connection"}
	case "53":
		return Decision{Class: ClassTransient, Reason: "pg_insufficient_resources"}
	case "23":
		return Decision{Class: ClassTerminal, Reason: "pg_constraint_violation"}
	}
	return Decision{Class: ClassTerminal, Reason: "pg_" + string(code.Class())}
}

func containsAny(msg string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(msg, token) {
			return true
		}
	}
	return false
}

var rateLimitTokens = []string{
	"too many requests",
	"rate limit",
	"rate-limit",
	"ratelimit",
	"429",
}

var transientMessageTokens = []string{
	"timeout",
	"timed out",
	"temporar",
	"unavailable",
	"connection reset",
	"connection refused",
	"broken pipe",
	"econnreset",
	"econnrefused",
	"too many requests",
	"rate limit",
	"http status 429",
	"http status 502",
	"http status 503",
	"http status 504",
	"header not found",
	"server closed idle connection",
	"too many connections",
}

var terminalMessageTokens = []string{
	"execution reverted",
	"invalid argument",
	"invalid params",
	"method not found",
	"parse error",
	"abi: ",
	"no contract code at given address",
	"constraint violation",
}
