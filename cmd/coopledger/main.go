package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/cache"
	"github.com/coopledger/coopledger/internal/config"
	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/gateway"
	"github.com/coopledger/coopledger/internal/repository/mongodb"
	"github.com/coopledger/coopledger/internal/scheduler"
	"github.com/coopledger/coopledger/internal/service/crm"
	"github.com/coopledger/coopledger/internal/service/eggs"
	"github.com/coopledger/coopledger/internal/service/expenses"
	"github.com/coopledger/coopledger/internal/service/feed"
	"github.com/coopledger/coopledger/internal/service/flock"
	"github.com/coopledger/coopledger/internal/service/reporting"
	"github.com/coopledger/coopledger/internal/session"
	"github.com/coopledger/coopledger/pkg/logger"
)

const usage = `usage: coopledger <command> [args]

commands:
  login <password>                                  obtain a session
  refresh                                           re-fetch all collections
  eggs add <date> <count> [notes]                   log collected eggs
  eggs stats                                        egg production figures
  expenses add <date> <category> <amount> <desc>    log an expense
  expenses stats                                    expense figures
  feed add <brand> <type> <qty> <unit> <date> <price>  log a feed purchase
  feed deplete <id> <date>                          close out a feed bag
  feed stats                                        feed figures
  flock set <hens> <roosters> <chicks> <brooding>   replace flock counts
  flock event <date> <type> <description>           append a timeline event
  flock stats                                       flock figures
  crm customer <name>                               add a customer
  crm sale <customerID> <date> <dozens> <singles> <amount>  record a sale
  crm stats                                         sales figures
  summary                                           today's summary
  watch                                             run the background scheduler`

// app bundles everything the subcommands need.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	auth      *session.AuthClient
	sessions  *session.Manager
	store     *session.FileStore
	cache     *cache.Provider
	eggs      *eggs.Service
	expenses  *expenses.Service
	feed      *feed.Service
	flock     *flock.Service
	crm       *crm.Service
	reporting *reporting.Service
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	a := newApp(cfg, baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, baseLogger *zap.Logger) *app {
	store := session.NewFileStore(cfg.Session.CredentialsPath)
	auth := session.NewAuthClient(cfg.API.BaseURL, cfg.API.Timeout)
	sessions := session.NewManager(store, auth, baseLogger.Named("session"))

	client := gateway.NewClient(cfg.API, sessions, baseLogger.Named("gateway"))
	api := gateway.NewDataAPI(client, baseLogger.Named("gateway.api"))
	provider := cache.NewProvider(api, baseLogger.Named("cache"))

	expenseSvc := expenses.NewService(api, provider, baseLogger.Named("svc.expenses"))
	return &app{
		cfg:       cfg,
		logger:    baseLogger,
		auth:      auth,
		sessions:  sessions,
		store:     store,
		cache:     provider,
		eggs:      eggs.NewService(api, provider, baseLogger.Named("svc.eggs")),
		expenses:  expenseSvc,
		feed:      feed.NewService(api, provider, expenseSvc, baseLogger.Named("svc.feed")),
		flock:     flock.NewService(api, provider, baseLogger.Named("svc.flock")),
		crm:       crm.NewService(api, provider, baseLogger.Named("svc.crm")),
		reporting: reporting.NewService(provider, nil, baseLogger.Named("svc.reporting")),
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		if len(args) != 1 {
			return fmt.Errorf("usage: login <password>")
		}
		creds, err := a.auth.Login(ctx, args[0])
		if err != nil {
			return err
		}
		if err := a.store.Save(ctx, creds); err != nil {
			return err
		}
		fmt.Println("logged in")
		return nil
	case "refresh":
		if err := a.cache.Refresh(ctx); err != nil {
			return err
		}
		fmt.Println("snapshot refreshed")
		return nil
	case "eggs":
		return a.runEggs(ctx, args)
	case "expenses":
		return a.runExpenses(ctx, args)
	case "feed":
		return a.runFeed(ctx, args)
	case "flock":
		return a.runFlock(ctx, args)
	case "crm":
		return a.runCRM(ctx, args)
	case "summary":
		summary, err := a.reporting.BuildDailySummary(ctx)
		if err != nil {
			return err
		}
		fmt.Println(reporting.Format(summary))
		return nil
	case "watch":
		return a.runWatch(ctx)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) runEggs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: eggs add|stats")
	}
	switch args[0] {
	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: eggs add <date> <count> [notes]")
		}
		count, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("count must be a number")
		}
		if exists, err := a.eggs.HasEntryForDate(ctx, args[1]); err == nil && exists {
			fmt.Printf("warning: an entry for %s already exists\n", args[1])
		}
		if err := a.eggs.Add(ctx, eggs.NewEntry{Date: args[1], Count: count, Notes: strings.Join(args[3:], " ")}); err != nil {
			return err
		}
		fmt.Printf("logged %d eggs for %s\n", count, args[1])
		return nil
	case "stats":
		stats, err := a.eggs.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total %d | today %d | this week %d | this month %d | last 7d %d | last 30d %d | daily avg %.2f\n",
			stats.Total, stats.Today, stats.ThisWeek, stats.ThisMonth, stats.Last7Days, stats.Last30Days, stats.DailyAverage)
		return nil
	}
	return fmt.Errorf("unknown eggs subcommand %q", args[0])
}

func (a *app) runExpenses(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: expenses add|stats")
	}
	switch args[0] {
	case "add":
		if len(args) < 5 {
			return fmt.Errorf("usage: expenses add <date> <category> <amount> <description>")
		}
		amount, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("amount must be a number")
		}
		expense := expenses.NewExpense{
			Date:        args[1],
			Category:    args[2],
			Amount:      amount,
			Description: strings.Join(args[4:], " "),
		}
		if err := a.expenses.Add(ctx, expense); err != nil {
			return err
		}
		fmt.Printf("logged %.2f for %s\n", amount, args[2])
		return nil
	case "stats":
		stats, err := a.expenses.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total %.2f | this month %.2f | previous month %.2f | last 30d %.2f\n",
			stats.Total, stats.ThisMonth, stats.PreviousMonth, stats.Last30Days)
		for category, amount := range stats.ByCategory {
			fmt.Printf("  %s: %.2f\n", category, amount)
		}
		return nil
	}
	return fmt.Errorf("unknown expenses subcommand %q", args[0])
}

func (a *app) runFeed(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: feed add|deplete|stats")
	}
	switch args[0] {
	case "add":
		if len(args) != 7 {
			return fmt.Errorf("usage: feed add <brand> <type> <qty> <unit> <openedDate> <pricePerUnit>")
		}
		quantity, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("qty must be a number")
		}
		price, err := strconv.ParseFloat(args[6], 64)
		if err != nil {
			return fmt.Errorf("pricePerUnit must be a number")
		}
		entry := feed.NewEntry{
			Brand:        args[1],
			Type:         args[2],
			Quantity:     quantity,
			Unit:         args[4],
			OpenedDate:   args[5],
			PricePerUnit: price,
		}
		if err := a.feed.Add(ctx, entry); err != nil {
			return err
		}
		fmt.Printf("logged %g %s of %s %s\n", quantity, args[4], args[1], args[2])
		return nil
	case "deplete":
		if len(args) != 3 {
			return fmt.Errorf("usage: feed deplete <id> <date>")
		}
		if err := a.feed.Deplete(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("feed entry %s closed on %s\n", args[1], args[2])
		return nil
	case "stats":
		stats, err := a.feed.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("open %d | depleted %d | total spend %.2f | avg duration %.1f days\n",
			stats.OpenCount, stats.DepletedCount, stats.TotalSpend, stats.AvgDurationDays)
		return nil
	}
	return fmt.Errorf("unknown feed subcommand %q", args[0])
}

func (a *app) runFlock(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: flock set|event|stats")
	}
	switch args[0] {
	case "set":
		if len(args) != 5 {
			return fmt.Errorf("usage: flock set <hens> <roosters> <chicks> <brooding>")
		}
		counts := make([]int, 4)
		for i, arg := range args[1:] {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("counts must be numbers")
			}
			counts[i] = n
		}
		profile, err := a.flock.Profile(ctx)
		if err != nil {
			return err
		}
		updated := models.FlockProfile{}
		if profile != nil {
			updated = *profile
		}
		updated.Hens, updated.Roosters, updated.Chicks, updated.Brooding = counts[0], counts[1], counts[2], counts[3]
		if err := a.flock.SaveProfile(ctx, updated); err != nil {
			return err
		}
		fmt.Printf("flock updated: %d birds\n", updated.TotalBirds())
		return nil
	case "event":
		if len(args) < 4 {
			return fmt.Errorf("usage: flock event <date> <type> <description>")
		}
		event := flock.NewEvent{
			Date:        args[1],
			Type:        args[2],
			Description: strings.Join(args[3:], " "),
		}
		if err := a.flock.AddEvent(ctx, event); err != nil {
			return err
		}
		fmt.Printf("event recorded for %s\n", args[1])
		return nil
	case "stats":
		stats, err := a.flock.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("birds %d | brooding %d\n", stats.TotalBirds, stats.Brooding)
		for eventType, count := range stats.EventCounts {
			fmt.Printf("  %s: %d\n", eventType, count)
		}
		return nil
	}
	return fmt.Errorf("unknown flock subcommand %q", args[0])
}

func (a *app) runCRM(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: crm customer|sale|stats")
	}
	switch args[0] {
	case "customer":
		if len(args) < 2 {
			return fmt.Errorf("usage: crm customer <name>")
		}
		if err := a.crm.AddCustomer(ctx, crm.NewCustomer{Name: strings.Join(args[1:], " ")}); err != nil {
			return err
		}
		fmt.Println("customer added")
		return nil
	case "sale":
		if len(args) != 6 {
			return fmt.Errorf("usage: crm sale <customerID> <date> <dozens> <singles> <amount>")
		}
		dozens, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("dozens must be a number")
		}
		singles, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("singles must be a number")
		}
		amount, err := strconv.ParseFloat(args[5], 64)
		if err != nil {
			return fmt.Errorf("amount must be a number")
		}
		sale := crm.NewSale{
			CustomerID:      args[1],
			SaleDate:        args[2],
			DozenCount:      dozens,
			IndividualCount: singles,
			TotalAmount:     amount,
		}
		if err := a.crm.AddSale(ctx, sale); err != nil {
			return err
		}
		fmt.Printf("sale of %d eggs recorded\n", dozens*12+singles)
		return nil
	case "stats":
		stats, err := a.crm.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("sales %d | revenue %.2f | this month %.2f | eggs sold %d | top customer %s\n",
			stats.SalesCount, stats.TotalRevenue, stats.RevenueThisMonth, stats.EggsSold, stats.TopCustomerID)
		return nil
	}
	return fmt.Errorf("unknown crm subcommand %q", args[0])
}

func (a *app) runWatch(ctx context.Context) error {
	reportingSvc := a.reporting
	if a.cfg.Archive.URI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		archive, err := mongodb.NewMongoDBRepository(connectCtx, a.cfg.Archive.URI, a.cfg.Archive.DBName)
		cancel()
		if err != nil {
			return fmt.Errorf("init archive: %w", err)
		}
		defer func() {
			if err := archive.Close(context.Background()); err != nil {
				a.logger.Error("failed to close archive connection", zap.Error(err))
			}
		}()
		reportingSvc = reporting.NewService(a.cache, archive, a.logger.Named("svc.reporting"))
	}

	if err := a.cache.Refresh(ctx); err != nil {
		a.logger.Warn("initial refresh failed", zap.Error(err))
	}

	sched := scheduler.NewScheduler(a.cfg.Reporting, a.cache, reportingSvc, a.logger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	fmt.Println("watching; press Ctrl-C to stop")
	<-ctx.Done()
	return nil
}
