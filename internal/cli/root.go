package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"flooring-orders/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// NewRootCmd builds the command tree over an order service
func NewRootCmd(svc *service.OrderService) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flooring",
		Short:         "Manage flooring installation orders",
		Long:          "Create, view, edit, remove and export flooring orders priced from the product and tax catalogs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newListCmd(svc))
	cmd.AddCommand(newAddCmd(svc))
	cmd.AddCommand(newEditCmd(svc))
	cmd.AddCommand(newRemoveCmd(svc))
	cmd.AddCommand(newExportCmd(svc))
	cmd.AddCommand(newProductsCmd(svc))
	cmd.AddCommand(newStatesCmd(svc))
	return cmd
}

// Execute runs the command tree with the process arguments
func Execute(ctx context.Context, svc *service.OrderService) error {
	return NewRootCmd(svc).ExecuteContext(ctx)
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}

func parseArea(value string) (decimal.Decimal, error) {
	area, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid area %q", value)
	}
	return area, nil
}

// confirm asks a yes/no question on the command's input. Anything other
// than y or yes declines.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
