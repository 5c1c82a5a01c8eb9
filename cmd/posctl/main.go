// posctl is a small operator CLI for the POS backend: menu CRUD plus
// journal reports, useful when the Telegram bot is not at hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"meo-pos/internal/client"
	"meo-pos/internal/config"
	"meo-pos/internal/export"
	"meo-pos/internal/journal"
	"meo-pos/internal/logging"
	"meo-pos/internal/models"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func usage() error {
	fmt.Fprintln(os.Stderr, `Usage: posctl <command> [flags]

Commands:
  list                      print the menu
  create -name N -price P   create a menu item
  update -id I [-name N] [-price P]
                            update a menu item
  delete -id I              delete a menu item
  export [-day YYYY-MM-DD]  write the day's sales workbook
  totals [-day YYYY-MM-DD]  print the day's order count and revenue`)
	return fmt.Errorf("command required")
}

func run(args []string) error {
	if len(args) == 0 {
		return usage()
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	defer cancel()

	api, err := client.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, logger)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		items, err := api.FetchMenu(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("%4d  %-30s %10d\n", item.ID, item.Name, item.Price)
		}
		return nil

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		name := fs.String("name", "", "item name")
		price := fs.Int64("price", 0, "price in minor units")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args[1:])
		if *name == "" {
			return fmt.Errorf("-name is required")
		}

		item, err := api.CreateMenuItem(ctx, models.MenuItemPayload{Name: *name, Price: *price, Description: *desc})
		if err != nil {
			return err
		}
		fmt.Printf("Created item %d\n", item.ID)
		return nil

	case "update":
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		id := fs.Int64("id", 0, "item id")
		name := fs.String("name", "", "item name")
		price := fs.Int64("price", 0, "price in minor units")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args[1:])
		if *id == 0 {
			return fmt.Errorf("-id is required")
		}

		item, err := api.UpdateMenuItem(ctx, *id, models.MenuItemPayload{Name: *name, Price: *price, Description: *desc})
		if err != nil {
			return err
		}
		fmt.Printf("Updated item %d: %s %d\n", item.ID, item.Name, item.Price)
		return nil

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "item id")
		_ = fs.Parse(args[1:])
		if *id == 0 {
			return fmt.Errorf("-id is required")
		}

		if err := api.DeleteMenuItem(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("Deleted item %d\n", *id)
		return nil

	case "export", "totals":
		fs := flag.NewFlagSet(args[0], flag.ExitOnError)
		dayFlag := fs.String("day", "", "day as YYYY-MM-DD, default today")
		_ = fs.Parse(args[1:])

		day := time.Now()
		if *dayFlag != "" {
			day, err = time.ParseInLocation("2006-01-02", *dayFlag, time.Local)
			if err != nil {
				return fmt.Errorf("bad -day: %w", err)
			}
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.Add(24 * time.Hour)

		db, err := journal.New(cfg.Journal.Path, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if args[0] == "totals" {
			count, revenue, err := db.DailyTotals(ctx, start, end)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d orders, revenue %d\n", start.Format("2006-01-02"), count, revenue)
			return nil
		}

		entries, err := db.OrdersBetween(ctx, start, end)
		if err != nil {
			return err
		}
		path, err := export.SalesReport(entries, cfg.Exports.Path, day)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d orders)\n", path, len(entries))
		return nil

	default:
		return usage()
	}
}
