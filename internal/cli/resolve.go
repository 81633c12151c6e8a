package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveExpenseID resolves an expense identifier within a plan. The input
// may be the full id or the short prefix shown by "plan show". With no plan
// context the input passes through unchanged.
func resolveExpenseID(ctx context.Context, app *App, planID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("expense ID is required")
	}
	if planID == "" {
		return input, nil
	}

	plan, err := app.Plans.GetByID(ctx, planID)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, e := range plan.Expenses {
		if e.ID == input {
			return e.ID, nil
		}
		if strings.HasPrefix(e.ID, input) {
			matches = append(matches, e.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("expense %q not found in plan %s", input, planID)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("expense ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
