package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/client"
	"github.com/spf13/pflag"
)

const usage = `vendctl talks to a vending service.

Usage:
  vendctl [--url URL] [--timeout DURATION] <command> [flags]

Commands:
  products                     list products and stock
  buy --product ID [--quantity N]
  history [--search TERM] [--machine ID] [--hours H] [--sort date|amount|product] [--order asc|desc]
  balance                      show the machine balance
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "vendctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := pflag.NewFlagSet("vendctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	baseURL := global.String("url", envOr("VENDCTL_URL", "http://localhost:8080"), "service base URL")
	timeout := global.Duration("timeout", client.DefaultTimeout, "request timeout")
	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	c := client.New(*baseURL, *timeout)
	switch rest[0] {
	case "products":
		return listProducts(ctx, c, out)
	case "buy":
		return buy(ctx, c, rest[1:], out)
	case "history":
		return history(ctx, c, rest[1:], out)
	case "balance":
		balance, err := c.Balance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Balance: $%s\n", balance.StringFixed(2))
		return nil
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func listProducts(ctx context.Context, c *client.Client, out io.Writer) error {
	products, err := c.Products(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
	}
	return tw.Flush()
}

func buy(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("buy", pflag.ContinueOnError)
	product := fs.StringP("product", "p", "", "product id")
	quantity := fs.IntP("quantity", "q", 1, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(out, "Dispensing...")
	res, err := c.Purchase(ctx, *product, *quantity)
	if err != nil {
		return err
	}
	if !res.Success {
		if res.RetryAfter > 0 {
			return fmt.Errorf("%s (retry in %s)", res.Message, res.RetryAfter)
		}
		return errors.New(res.Message)
	}

	fmt.Fprintln(out, res.Message)
	if res.TotalCost != nil {
		fmt.Fprintf(out, "Bought %d for $%s, %d left\n", res.QuantityPurchased, res.TotalCost.StringFixed(2), *res.Remaining)
	}
	return nil
}

func history(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	var p client.HistoryParams
	fs.StringVar(&p.SearchTerm, "search", "", "product name contains")
	fs.StringVar(&p.MachineID, "machine", "", "machine id")
	fs.Float64Var(&p.Hours, "hours", 0, "only the last N hours (24 = today, 168 = this week)")
	fs.StringVar(&p.SortField, "sort", "", "date, amount or product")
	fs.StringVar(&p.SortOrder, "order", "", "asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	purchases, err := c.History(ctx, p)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPRODUCT\tQTY\tAMOUNT\tMACHINE")
	for _, pu := range purchases {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			pu.PurchaseTime.Local().Format(time.DateTime), pu.ProductName, pu.Quantity, pu.Amount.StringFixed(2), pu.MachineID)
	}
	return tw.Flush()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
