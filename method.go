package salesforecaster

import (
	"fmt"
	"strings"
)

// Method selects the forecast strategy
type Method int

const (
	// MethodSeasonal fits an additive trend and seasonality decomposition. This is the
	// default method.
	MethodSeasonal Method = iota

	// MethodAutoregressive fits an ARIMA model
	MethodAutoregressive
)

func (m Method) String() string {
	switch m {
	case MethodSeasonal:
		return "seasonal-decomposition"
	case MethodAutoregressive:
		return "autoregressive"
	default:
		return "unknown"
	}
}

// ParseMethod maps a method name onto a Method. An empty name selects MethodSeasonal.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "seasonal-decomposition", "seasonal", "prophet":
		return MethodSeasonal, nil
	case "autoregressive", "arima":
		return MethodAutoregressive, nil
	}
	return 0, fmt.Errorf("got %q, %w", name, ErrUnknownMethod)
}

// methodTag is the upper-cased method name stamped on results
func methodTag(m Method) string {
	return strings.ToUpper(m.String())
}
