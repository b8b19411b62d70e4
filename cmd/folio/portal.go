package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/BradenHooton/folio/internal/models"
	"github.com/BradenHooton/folio/internal/portal"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func runStats(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("stats", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	stats, err := portal.NewAnalyticsService(c.client).AuthorStats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Views %d  Chapters %d  Coins %d  Followers %d\n\n",
		stats.TotalViews, stats.TotalChapters, stats.TotalCoins, stats.Followers)

	tw := newTable(c.stdout)
	fmt.Fprintln(tw, "DATE\tVIEWS\tCOINS")
	for _, d := range stats.Daily {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", d.Date, d.Views, d.Coins)
	}
	return tw.Flush()
}

// subcommand splits "list", "approve ID" style arguments
func subcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "list", nil
	}
	return args[0], args[1:]
}

// idArg takes the leading positional id and returns the remaining flags
func (c *cli) idArg(name string, args []string) (string, []string, error) {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		fmt.Fprintf(c.stderr, "folio %s: an id is required\n", name)
		return "", nil, errUsage
	}
	return args[0], args[1:], nil
}

func runModeration(ctx context.Context, c *cli, args []string) error {
	svc := portal.NewModerationService(c.client)
	sub, rest := subcommand(args)

	switch sub {
	case "list":
		items, err := svc.PendingItems(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(c.stdout, "Nothing waiting for review.")
			return nil
		}
		tw := newTable(c.stdout)
		fmt.Fprintln(tw, "ID\tKIND\tTITLE\tAUTHOR\tSUBMITTED")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Kind, it.Title, it.Author, it.SubmittedAt.Format(time.DateOnly))
		}
		return tw.Flush()

	case "approve":
		id, _, err := c.idArg("moderation approve", rest)
		if err != nil {
			return err
		}
		if err := svc.Approve(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Approved %s.\n", id)
		return nil

	case "reject":
		id, rest, err := c.idArg("moderation reject", rest)
		if err != nil {
			return err
		}
		fs := c.newFlagSet("moderation reject", "ID -reason text")
		reason := fs.String("reason", "", "why the content was rejected")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := svc.Reject(ctx, id, *reason); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Rejected %s.\n", id)
		return nil
	}

	fmt.Fprintln(c.stderr, "usage: folio moderation [list | approve ID | reject ID -reason text]")
	return errUsage
}

func runReports(ctx context.Context, c *cli, args []string) error {
	svc := portal.NewReportService(c.client)
	sub, rest := subcommand(args)

	switch sub {
	case "list":
		reports, err := svc.Reports(ctx)
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Fprintln(c.stdout, "No reports.")
			return nil
		}
		tw := newTable(c.stdout)
		fmt.Fprintln(tw, "ID\tSTATUS\tTARGET\tREASON\tREPORTER")
		for _, r := range reports {
			fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%s\t%s\n", r.ID, r.Status, r.TargetType, r.TargetID, r.Reason, r.Reporter)
		}
		return tw.Flush()

	case "resolve":
		id, rest, err := c.idArg("reports resolve", rest)
		if err != nil {
			return err
		}
		fs := c.newFlagSet("reports resolve", "ID [-action dismiss|remove|warn]")
		action := fs.String("action", models.ActionDismiss, "dismiss, remove or warn")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := svc.Resolve(ctx, id, *action); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Resolved %s (%s).\n", id, *action)
		return nil
	}

	fmt.Fprintln(c.stderr, "usage: folio reports [list | resolve ID -action dismiss|remove|warn]")
	return errUsage
}

func runRates(ctx context.Context, c *cli, args []string) error {
	svc := portal.NewRateService(c.client)
	sub, rest := subcommand(args)

	rateFlags := func(name, usage string, args []string) (models.RateRequest, error) {
		fs := c.newFlagSet(name, usage)
		coins := fs.Int64("coins", 0, "coins in the bundle")
		cash := fs.Float64("cash", 0, "cash paid out for the bundle")
		currency := fs.String("currency", "USD", "ISO 4217 currency code")
		active := fs.Bool("active", false, "make this the active rate")
		if err := parseFlags(fs, args); err != nil {
			return models.RateRequest{}, err
		}
		return models.RateRequest{Coins: *coins, CashAmount: *cash, Currency: *currency, Active: *active}, nil
	}

	switch sub {
	case "list":
		rates, err := svc.Rates(ctx)
		if err != nil {
			return err
		}
		tw := newTable(c.stdout)
		fmt.Fprintln(tw, "ID\tCOINS\tCASH\tCURRENCY\tACTIVE\tUPDATED")
		for _, r := range rates {
			active := ""
			if r.Active {
				active = "yes"
			}
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%s\t%s\n", r.ID, r.Coins, r.CashAmount, r.Currency, active, r.UpdatedAt.Format(time.DateOnly))
		}
		return tw.Flush()

	case "create":
		req, err := rateFlags("rates create", "-coins N -cash X [-currency USD] [-active]", rest)
		if err != nil {
			return err
		}
		rate, err := svc.CreateRate(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Created %s: %d coins = %.2f %s.\n", rate.ID, rate.Coins, rate.CashAmount, rate.Currency)
		return nil

	case "update":
		id, rest, err := c.idArg("rates update", rest)
		if err != nil {
			return err
		}
		req, err := rateFlags("rates update", "ID -coins N -cash X [-currency USD] [-active]", rest)
		if err != nil {
			return err
		}
		rate, err := svc.UpdateRate(ctx, id, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Updated %s: %d coins = %.2f %s.\n", rate.ID, rate.Coins, rate.CashAmount, rate.Currency)
		return nil
	}

	fmt.Fprintln(c.stderr, "usage: folio rates [list | create -coins N -cash X | update ID -coins N -cash X]")
	return errUsage
}
