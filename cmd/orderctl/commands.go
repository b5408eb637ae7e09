package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/hotpot/internal/archive"
	"github.com/xenking/hotpot/internal/domain/order"
	"github.com/xenking/hotpot/internal/domain/price"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := c.svc.Store.All(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "list orders")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tITEMS\tTOTAL\tPLACED")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", o.Code, o.Count(), price.Format(o.Total), o.Timestamp)
			}
			return w.Flush()
		},
	}
}

func (c *cli) find(cmd *cobra.Command, code string) (order.Order, error) {
	o, found, err := c.svc.Lookup.FindByCode(cmd.Context(), code)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "find order")
	}
	if !found {
		return order.Order{}, errors.Errorf("order %s not found", order.NormalizeCode(code))
	}
	return o, nil
}

func (c *cli) lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <code>",
		Short: "Show one order by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.find(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Order %s\n", o.Code)
			fmt.Fprintf(out, "Placed: %s\n\n", o.Timestamp)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, l := range o.Items {
				fmt.Fprintf(w, "%dx\t%s\t%s\n", l.Quantity, l.Name, l.Price)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal: %s\n", price.Format(o.Total))
			return nil
		},
	}
}

func (c *cli) messageCmd() *cobra.Command {
	var linkOnly bool
	cmd := &cobra.Command{
		Use:   "message <code>",
		Short: "Print the WhatsApp message and link for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.find(cmd, args[0])
			if err != nil {
				return err
			}

			msg := order.Message(o, c.cfg.Shop.Name)
			link := order.WhatsAppLink(c.cfg.Shop.WhatsApp, msg)
			if linkOnly {
				fmt.Fprintln(cmd.OutOrStdout(), link)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", msg, link)
			return nil
		},
	}
	cmd.Flags().BoolVar(&linkOnly, "link", false, "print only the wa.me link")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every order to a gzip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := c.svc.Store.All(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "list orders")
			}
			if err := archive.WriteFile(out, orders); err != nil {
				return errors.Wrap(err, "export")
			}
			zctx.From(cmd.Context()).Debug("Exported", zap.String("path", out), zap.Int("orders", len(orders)))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders to %s\n", len(orders), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "archive path, e.g. orders.json.gz")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var in []string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append orders from gzip archives, skipping known codes",
		Long: `Append orders from gzip archives, skipping codes already stored or
repeated across archives. The duplicate check and the append run as one
update on the redis, postgres, sqlite and memory drivers; the file driver
can still race with a running server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			incoming, err := archive.ReadFiles(ctx, in...)
			if err != nil {
				return errors.Wrap(err, "import")
			}

			var (
				added   []order.Order
				skipped int
			)
			err = c.svc.Store.AppendFunc(ctx, func(existing []order.Order) []order.Order {
				added, skipped = archive.Merge(existing, incoming)
				return added
			})
			if err != nil {
				return errors.Wrap(err, "append orders")
			}
			zctx.From(ctx).Debug("Imported",
				zap.Strings("archives", in),
				zap.Int("added", len(added)),
				zap.Int("skipped", skipped),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d orders (%d already present) from %s\n",
				len(added), skipped, strings.Join(in, ", "))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&in, "in", "i", nil, "archive path; repeat for several")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
