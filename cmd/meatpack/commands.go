package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/meatpack/estoque/internal/application/dto"
	"github.com/meatpack/estoque/internal/bootstrap"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/pkg/config"
	"github.com/meatpack/estoque/pkg/logger"
)

// action comando que necesita la App ya abierta.
type action func(ctx context.Context, c *cli.Context, app *bootstrap.App) error

func newApp(cfg *config.Config, log *logger.Logger) *cli.App {
	with := func(fn action) cli.ActionFunc {
		return func(c *cli.Context) error {
			app, err := bootstrap.Open(c.Context, cfg, log)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			defer func() { _ = app.Close() }()
			return fn(c.Context, c, app)
		}
	}

	return &cli.App{
		Name:  cfg.App.Name,
		Usage: "estoque de carnes: productos, pedidos y salidas",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "elige el backend y asegura el esquema",
				Action: with(cmdInit),
			},
			{
				Name:   "products",
				Usage:  "lista productos (filtra con --query)",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "query", Aliases: []string{"q"}}},
				Action: with(cmdProducts),
			},
			{
				Name:   "suppliers",
				Usage:  "proveedores conocidos",
				Action: with(cmdSuppliers),
			},
			{
				Name:   "history",
				Usage:  "movimientos de un producto",
				Flags:  []cli.Flag{&cli.Int64Flag{Name: "code", Required: true}},
				Action: with(cmdHistory),
			},
			{
				Name:  "withdraw",
				Usage: "registra una salida de stock",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "code", Required: true},
					&cli.StringFlag{Name: "quantity", Required: true, Usage: "kilogramos, ej. 2.5"},
					&cli.StringFlag{Name: "reason", Required: true},
				},
				Action: with(cmdWithdraw),
			},
			{
				Name:   "reasons",
				Usage:  "motivos predefinidos de salida",
				Action: with(cmdReasons),
			},
			{
				Name:   "orders",
				Usage:  "lista pedidos (filtra con --status aguardando|entregue)",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "status"}},
				Action: with(cmdOrders),
			},
			{
				Name:   "fulfill",
				Usage:  "marca un pedido como entregue y suma su contenido al stock",
				Flags:  []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: with(cmdFulfill),
			},
			{
				Name:  "invoice",
				Usage: "marca la nota fiscal de un pedido",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.BoolFlag{Name: "received", Value: true},
				},
				Action: with(cmdInvoice),
			},
			{
				Name:  "order-pdf",
				Usage: "genera el PDF de un pedido",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.StringFlag{Name: "out", Usage: "archivo destino (por defecto pedido_<id>.pdf)"},
				},
				Action: with(cmdOrderPDF),
			},
			{
				Name:   "export-stock",
				Usage:  "exporta el stock a XLSX",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "out"}},
				Action: with(cmdExportStock),
			},
		},
	}
}

func cmdInit(_ context.Context, c *cli.Context, app *bootstrap.App) error {
	_, err := fmt.Fprintf(c.App.Writer, "backend: %s\n", app.Backend.Kind())
	return err
}

func cmdProducts(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	products, err := app.Products.Search(ctx, c.String("query"))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CÓDIGO\tDESCRIÇÃO\tCATEGORIA\tKG\tPREÇO/KG\tFORNECEDOR\tÚLTIMA ENTREGA")
	for _, p := range products {
		last := "-"
		if p.LastDelivery != nil {
			last = p.LastDelivery.Format("02/01/2006")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Code, p.Description, p.Category, p.Quantity.String(), p.UnitPrice.StringFixed(2), p.Supplier, last)
	}
	return w.Flush()
}

func cmdSuppliers(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	names, err := app.Products.Suppliers(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(c.App.Writer, n)
	}
	return nil
}

func cmdHistory(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	movs, err := app.Stock.History(ctx, c.Int64("code"))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATA\tTIPO\tKG\tMOTIVO")
	for _, m := range movs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Date.Local().Format("02/01/2006 15:04"), m.Type, m.Quantity.String(), m.Reason)
	}
	return w.Flush()
}

func cmdWithdraw(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	qty, err := decimal.NewFromString(c.String("quantity"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("cantidad inválida %q", c.String("quantity")), 1)
	}
	mov, err := app.Stock.Withdraw(ctx, dto.WithdrawalRequest{
		ProductCode: c.Int64("code"),
		Quantity:    qty,
		Reason:      c.String("reason"),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "salida #%d registrada: %s kg del producto %d\n", mov.ID, mov.Quantity, mov.ProductCode)
	return err
}

func cmdReasons(_ context.Context, c *cli.Context, app *bootstrap.App) error {
	for _, r := range app.Stock.WithdrawalReasons() {
		fmt.Fprintln(c.App.Writer, r)
	}
	return nil
}

func cmdOrders(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	var (
		orders []*entity.Order
		err    error
	)
	if s := c.String("status"); s != "" {
		orders, err = app.Orders.ListByStatus(ctx, entity.OrderStatus(s))
	} else {
		orders, err = app.Orders.List(ctx)
	}
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATA\tFORNECEDOR\tITENS\tTOTAL\tSTATUS\tNF")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%t\n",
			o.ID, o.Date.Format("02/01/2006"), o.Supplier, len(o.Items), o.Total().StringFixed(2), o.Status, o.InvoiceReceived)
	}
	return w.Flush()
}

func cmdFulfill(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	id := c.Int64("id")
	if err := app.Orders.SetStatus(ctx, id, entity.OrderStatusFulfilled); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.App.Writer, "pedido #%d entregue\n", id)
	return err
}

func cmdInvoice(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	return app.Orders.SetInvoiceReceived(ctx, c.Int64("id"), c.Bool("received"))
}

func cmdOrderPDF(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	b, name, err := app.Reports.OrderPDF(ctx, c.Int64("id"))
	if err != nil {
		return err
	}
	return writeFile(c, c.String("out"), name, b)
}

func cmdExportStock(ctx context.Context, c *cli.Context, app *bootstrap.App) error {
	b, name, err := app.Reports.StockSheet(ctx)
	if err != nil {
		return err
	}
	return writeFile(c, c.String("out"), name, b)
}

func writeFile(c *cli.Context, out, fallback string, b []byte) error {
	if out == "" {
		out = fallback
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", out, err)
	}
	_, err := fmt.Fprintf(c.App.Writer, "%s (%d bytes) %s\n", out, len(b), time.Now().Format(time.TimeOnly))
	return err
}
