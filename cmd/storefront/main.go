package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"pawmart/internal/api"
	"pawmart/internal/cart"
	"pawmart/internal/config"
	"pawmart/internal/models"
	"pawmart/internal/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: storefront <command> [args]

Commands:
  register <username> <email> <password>
  login <username> <password>
  logout
  whoami
  products
  events
  cart
  add <product|event> <item-id> <quantity>
  update <line-id> <quantity>
  remove <line-id>
  checkout
  orders`)
}

func main() {
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	store := session.NewFileStore(cfg.Tokens.Path)
	sess := session.New(store, cfg.API.BaseURL)
	sess.OnExpired(func() {
		fmt.Println("Session expired. Run `storefront login` to sign in again.")
	})

	client := api.New(cfg.API.BaseURL, sess)
	client.SetTimeout(cfg.API.Timeout)

	ctx := context.Background()
	if err := run(ctx, cfg, client, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, client *api.Client, command string, args []string) error {
	switch command {
	case "register":
		if len(args) != 3 {
			return errors.New("usage: register <username> <email> <password>")
		}
		if err := client.Register(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("Account %q created. Run `storefront login` to sign in.\n", args[0])
		return nil

	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <username> <password>")
		}
		if err := client.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Signed in as %q.\n", args[0])
		return nil

	case "logout":
		if err := client.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil

	case "whoami":
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (id %d)\n", user.Username, user.ID)
		return nil

	case "products":
		products, err := client.Products(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%3d  %-28s %8.2f  %s\n", p.ID, p.Name, p.Price, p.Description)
		}
		return nil

	case "events":
		events, err := client.Events(ctx)
		if err != nil {
			return err
		}
		for _, e := range events {
			fmt.Printf("%3d  %-28s %8.2f  %s\n", e.ID, e.Name, e.Price, e.StartsAt.Format("2006-01-02"))
		}
		return nil

	case "cart":
		lines, err := client.Cart(ctx)
		if err != nil {
			return err
		}
		printCart(lines)
		return nil

	case "add":
		if len(args) != 3 {
			return errors.New("usage: add <product|event> <item-id> <quantity>")
		}
		itemID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[1])
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		line, err := client.AddToCart(ctx, itemID, quantity, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added %q x%d (line %d, %.2f).\n", line.Name(), line.Quantity, line.ID, line.TotalAmount)
		return nil

	case "update":
		if len(args) != 2 {
			return errors.New("usage: update <line-id> <quantity>")
		}
		lineID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid line id %q", args[0])
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return runUpdate(ctx, cfg, client, lineID, quantity)

	case "remove":
		if len(args) != 1 {
			return errors.New("usage: remove <line-id>")
		}
		lineID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid line id %q", args[0])
		}
		if err := client.RemoveCartLine(ctx, lineID); err != nil {
			return err
		}
		fmt.Printf("Removed line %d.\n", lineID)
		return nil

	case "checkout":
		order, err := client.CompleteCart(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Order %s placed: %d item(s), total %.2f.\n", order.Reference, len(order.Items), order.TotalAmount)
		return nil

	case "orders":
		orders, err := client.Orders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Printf("%s  %s  %d item(s)  %.2f\n", o.CreatedAt.Format("2006-01-02 15:04"), o.Reference, len(o.Items), o.TotalAmount)
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// runUpdate drives a quantity edit through the synchronizer so the optimistic
// total shows immediately and the persistence call is debounced, then waits
// for the edit to settle.
func runUpdate(ctx context.Context, cfg *config.Config, client *api.Client, lineID, quantity int) error {
	sync := cart.NewSynchronizer(client, cfg.Cart.DebounceWindow)
	defer sync.Close()

	if err := sync.Refresh(ctx); err != nil {
		return err
	}

	settled := make(chan cart.Snapshot, 1)
	sync.OnChange(func(snap cart.Snapshot) {
		if st, ok := snap.States[lineID]; ok && (st == cart.StateConfirmed || st == cart.StateRolledBack) {
			select {
			case settled <- snap:
			default:
			}
		}
	})

	sync.ChangeQuantity(lineID, quantity)

	snap := sync.Snapshot()
	if snap.Err != "" {
		return errors.New(snap.Err)
	}
	fmt.Printf("Cart total (pending): %.2f\n", snap.Total)

	select {
	case snap = <-settled:
	case <-time.After(cfg.Cart.DebounceWindow + cfg.API.Timeout):
		return errors.New("timed out waiting for the cart update to settle")
	}
	if snap.Err != "" {
		return errors.New(snap.Err)
	}

	printCart(snap.Lines)
	return nil
}

func printCart(lines []models.CartLine) {
	if len(lines) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, l := range lines {
		fmt.Printf("%3d  %-8s %-28s x%-3d %8.2f\n", l.ID, l.Type, l.Name(), l.Quantity, l.TotalAmount)
	}
	fmt.Printf("Total: %.2f\n", models.CartTotal(lines))
}
