package cli

import (
	"fmt"

	"flooring-orders/internal/models"
	"flooring-orders/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newListCmd(svc *service.OrderService) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Display the orders for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}

			orders, err := svc.GetAllOrders(cmd.Context(), orderDate)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), RenderOrders(orderDate, orders))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Order date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newAddCmd(svc *service.OrderService) *cobra.Command {
	var (
		date     string
		customer string
		state    string
		product  string
		area     string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an order for a future date",
		Long:  "Price an order, show a summary, and save it after confirmation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}
			orderArea, err := parseArea(area)
			if err != nil {
				return err
			}
			partial := models.NewPartialOrder(customer, state, product, orderArea)

			preview, err := svc.CreateOrder(cmd.Context(), partial)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderOrder("Order summary", orderDate, preview))

			if !yes {
				ok, err := confirm(cmd, "Confirm create")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Order not created.")
					return nil
				}
			}

			order, err := svc.AddOrder(cmd.Context(), orderDate, partial)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSuccess(fmt.Sprintf("Order %d created.", order.OrderNumber)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Order date (YYYY-MM-DD), must be in the future")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer name")
	cmd.Flags().StringVar(&state, "state", "", "State abbreviation")
	cmd.Flags().StringVar(&product, "product", "", "Product type")
	cmd.Flags().StringVar(&area, "area", "", "Area in square feet (at least 100)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	for _, name := range []string{"date", "customer", "state", "product", "area"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newEditCmd(svc *service.OrderService) *cobra.Command {
	var (
		date     string
		number   int
		customer string
		state    string
		product  string
		area     string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an existing order",
		Long:  "Change the customer, state, product or area of an order. Omitted fields keep their current value.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}

			partial := models.PartialOrder{
				CustomerName: customer,
				State:        state,
				ProductType:  product,
			}
			if cmd.Flags().Changed("area") {
				orderArea, err := parseArea(area)
				if err != nil {
					return err
				}
				partial.Area = decimal.NewNullDecimal(orderArea)
			}

			current, err := svc.GetOrder(cmd.Context(), orderDate, number)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderOrder("Order found", orderDate, current))

			if !yes {
				ok, err := confirm(cmd, "Confirm edit")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Order not changed.")
					return nil
				}
			}

			if _, err := svc.EditOrder(cmd.Context(), orderDate, number, partial); err != nil {
				return err
			}
			updated, err := svc.GetOrder(cmd.Context(), orderDate, number)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderOrder("Updated order", orderDate, updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Order date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&number, "number", 0, "Order number")
	cmd.Flags().StringVar(&customer, "customer", "", "New customer name")
	cmd.Flags().StringVar(&state, "state", "", "New state abbreviation")
	cmd.Flags().StringVar(&product, "product", "", "New product type")
	cmd.Flags().StringVar(&area, "area", "", "New area in square feet")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}

func newRemoveCmd(svc *service.OrderService) *cobra.Command {
	var (
		date   string
		number int
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}

			current, err := svc.GetOrder(cmd.Context(), orderDate, number)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderOrder("Order found", orderDate, current))

			if !yes {
				ok, err := confirm(cmd, "Confirm delete")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Order not removed.")
					return nil
				}
			}

			removed, err := svc.RemoveOrder(cmd.Context(), orderDate, number)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSuccess(fmt.Sprintf("Order %d removed.", removed.OrderNumber)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Order date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&number, "number", 0, "Order number")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}

func newExportCmd(svc *service.OrderService) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export every order to the backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.ExportData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSuccess("All orders exported."))
			return nil
		},
	}
}

func newProductsCmd(svc *service.OrderService) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := svc.GetAllProducts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderProducts(products))
			return nil
		},
	}
}

func newStatesCmd(svc *service.OrderService) *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List the tax catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := svc.GetAllStates(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderStates(states))
			return nil
		},
	}
}
