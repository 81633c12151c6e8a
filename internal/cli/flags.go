package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/workplan/internal/domain"
)

// shareListFlag parses "key=pct,key=pct" into apportionment shares.
type shareListFlag struct {
	shares []domain.Share
}

var _ pflag.Value = (*shareListFlag)(nil)

func (f *shareListFlag) String() string {
	parts := make([]string, 0, len(f.shares))
	for _, s := range f.shares {
		parts = append(parts, s.Key+"="+s.Percentage.String())
	}
	return strings.Join(parts, ",")
}

func (f *shareListFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, pct, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("share %q must look like key=percentage", part)
		}
		d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(pct), "%"))
		if err != nil {
			return fmt.Errorf("share %q: invalid percentage: %w", part, err)
		}
		f.shares = append(f.shares, domain.Share{Key: strings.TrimSpace(key), Percentage: d})
	}
	return nil
}

func (f *shareListFlag) Type() string {
	return "shares"
}

// readParams returns the JSON payload of a --params flag. A leading "@"
// names a file to read instead.
func readParams(value string) (json.RawMessage, error) {
	if value == "" {
		return json.RawMessage(`{}`), nil
	}
	data := []byte(value)
	if path, ok := strings.CutPrefix(value, "@"); ok {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading params file: %w", err)
		}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("params are not valid JSON")
	}
	return json.RawMessage(data), nil
}

func parseClass(value string) (domain.ExpenseClass, error) {
	c := domain.ExpenseClass(strings.ToUpper(strings.TrimSpace(value)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown expense class %q (expected I to X)", value)
	}
	return c, nil
}

func parseAction(value string) (domain.DecisionAction, error) {
	switch strings.ToLower(value) {
	case "approve", "a":
		return domain.ActionApprove, nil
	case "reject", "r":
		return domain.ActionReject, nil
	default:
		return "", fmt.Errorf("action must be approve or reject, got %q", value)
	}
}
