// Package console is the operator's text-menu shell. It turns typed input
// into checkout calls and formats the results; it holds no inventory state.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"shopledger/pkg/auth"
	"shopledger/pkg/checkout"
	"shopledger/pkg/inventory"
	"shopledger/pkg/logger"
)

// Shell drives one operator session.
type Shell struct {
	in    *bufio.Scanner
	out   io.Writer
	coord *checkout.Coordinator
	creds *auth.Credentials
	log   *logger.Logger
}

// New creates a shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, coord *checkout.Coordinator, creds *auth.Credentials, log *logger.Logger) *Shell {
	if log == nil {
		log = logger.Nop()
	}
	return &Shell{in: bufio.NewScanner(in), out: out, coord: coord, creds: creds, log: log}
}

// Run shows the main menu until the operator exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		choice, err := s.choose("\nMain Menu:\n1. Admin Login\n2. Exit\n")
		if err != nil {
			return s.done(err)
		}
		switch choice {
		case 1:
			if err := s.login(ctx); err != nil {
				return s.done(err)
			}
			if err := s.adminMenu(ctx); err != nil {
				return s.done(err)
			}
		case 2:
			s.println("Exiting program. Goodbye!")
			return nil
		default:
			s.println("Invalid option. Please try again.")
		}
	}
}

func (s *Shell) done(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) login(ctx context.Context) error {
	for {
		user, err := s.prompt("Enter Admin Username: ")
		if err != nil {
			return err
		}
		pass, err := s.prompt("Enter Admin Password: ")
		if err != nil {
			return err
		}
		if err := s.creds.Verify(user, pass); err == nil {
			s.log.Info(ctx, "admin logged in", "user", user)
			return nil
		}
		s.log.Warn(ctx, "admin login failed", "user", user)
		s.println("Invalid credentials. Please enter valid username and password.")
	}
}

func (s *Shell) adminMenu(ctx context.Context) error {
	const menu = "\nAdmin Actions:\n" +
		"1. Change Admin Credentials\n" +
		"2. Manage Inventory & Shopping\n" +
		"3. Generate Daily Report\n" +
		"4. View Low Stock Alerts\n" +
		"5. View Customer History\n" +
		"6. Exit Admin Menu\n"
	for {
		choice, err := s.choose(menu)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = s.changeCredentials(ctx)
		case 2:
			err = s.inventoryMenu(ctx)
		case 3:
			r := s.coord.DailyReport(ctx)
			s.printf("Total Customers Served: %d\n", r.TotalCustomers)
			s.printf("Total Sales: %s\n", money(r.TotalSales))
		case 4:
			s.showAlerts(ctx)
		case 5:
			s.showHistory(ctx)
		case 6:
			s.println("Exiting Admin Menu.")
			return nil
		default:
			s.println("Invalid option. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) changeCredentials(ctx context.Context) error {
	user, err := s.prompt("Enter new username: ")
	if err != nil {
		return err
	}
	pass, err := s.prompt("Enter new password: ")
	if err != nil {
		return err
	}
	if err := s.creds.Update(user, pass); err != nil {
		s.println("Username and password must not be empty.")
		return nil
	}
	s.log.Info(ctx, "admin credentials changed", "user", user)
	s.println("Admin credentials changed successfully.")
	return nil
}

func (s *Shell) inventoryMenu(ctx context.Context) error {
	const menu = "\nMenu:\n" +
		"1. Add New Product to Inventory\n" +
		"2. Remove Product from Inventory\n" +
		"3. Customer Shopping\n" +
		"4. View All Products\n" +
		"5. View Total Sales\n" +
		"6. Search for a Product\n" +
		"7. Exit\n"
	for {
		choice, err := s.choose(menu)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = s.addProduct(ctx)
		case 2:
			err = s.removeProduct(ctx)
		case 3:
			err = s.shop(ctx)
		case 4:
			s.showProducts(ctx)
		case 5:
			s.printf("Total Sales: %s\n", money(s.coord.DailyReport(ctx).TotalSales))
		case 6:
			err = s.searchProduct(ctx)
		case 7:
			s.println("Exiting Inventory & Shopping Menu.")
			return nil
		default:
			s.println("Invalid option. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) addProduct(ctx context.Context) error {
	name, err := s.prompt("Enter Product Name: ")
	if err != nil {
		return err
	}
	price, err := s.promptDecimal("Enter Product Price: ")
	if err != nil {
		return err
	}
	stock, err := s.promptInt("Enter Product Stock: ", 0)
	if err != nil {
		return err
	}
	if err := s.coord.AddProduct(ctx, name, price, stock); err != nil {
		s.println(describe(err, name))
		return nil
	}
	s.println("Product added successfully!")
	return nil
}

func (s *Shell) removeProduct(ctx context.Context) error {
	name, err := s.prompt("Enter Product Name to Remove: ")
	if err != nil {
		return err
	}
	if err := s.coord.RemoveProduct(ctx, name); err != nil {
		s.println(describe(err, name))
		return nil
	}
	s.println("Product removed successfully!")
	return nil
}

func (s *Shell) searchProduct(ctx context.Context) error {
	name, err := s.prompt("Enter Product Name to Search: ")
	if err != nil {
		return err
	}
	found, err := s.coord.SearchProduct(ctx, name)
	if err != nil {
		s.println(describe(err, name))
		return nil
	}
	for _, p := range found {
		s.printf("Product: %s, Price: %s, Stock: %d\n", p.Name, money(p.UnitPrice), p.Stock)
	}
	return nil
}

// shop runs one customer visit. If input ends mid-visit the visit is
// abandoned and nothing reaches the ledger.
func (s *Shell) shop(ctx context.Context) error {
	name, err := s.prompt("Enter Customer Name: ")
	if err != nil {
		return err
	}
	contact, err := s.prompt("Enter Customer Email: ")
	if err != nil {
		return err
	}
	if err := s.coord.BeginVisit(ctx, name, contact); err != nil {
		return err
	}
	if err := s.basket(ctx); err != nil {
		s.coord.AbandonVisit(ctx)
		return err
	}

	v, err := s.coord.EndVisit(ctx)
	if err != nil {
		return err
	}
	s.printf("\nTotal Spent by %s: %s\n", v.Name, money(v.AmountSpent))
	return nil
}

func (s *Shell) basket(ctx context.Context) error {
	for {
		s.println("\nAvailable Products:")
		s.showProducts(ctx)
		product, err := s.prompt("Enter the product name to purchase: ")
		if err != nil {
			return err
		}
		qty, err := s.promptInt("Enter the quantity: ", 1)
		if err != nil {
			return err
		}
		if line, err := s.coord.RecordPurchase(ctx, product, qty); err != nil {
			s.println(describe(err, product))
		} else {
			s.printf("Purchased %d of %s for %s\n", qty, product, money(line))
		}

		more, err := s.promptYesNo("Would you like to buy more products? (y/n): ")
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (s *Shell) showProducts(ctx context.Context) {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Product Name\tStock\tPrice")
	fmt.Fprintln(tw, "------------\t-----\t-----")
	for p := range s.coord.ListProducts(ctx) {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Name, p.Stock, money(p.UnitPrice))
	}
	tw.Flush()
}

func (s *Shell) showAlerts(ctx context.Context) {
	alerts := s.coord.PendingAlerts(ctx)
	if len(alerts) == 0 {
		s.println("No low stock alerts.")
		return
	}
	s.println("Low Stock Alerts:")
	for _, name := range alerts {
		s.printf("- %s\n", name)
	}
}

func (s *Shell) showHistory(ctx context.Context) {
	visits := s.coord.CustomerHistory(ctx)
	if len(visits) == 0 {
		s.println("No customers served yet.")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Customer\tContact\tSpent")
	for _, v := range visits {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Name, v.Contact, money(v.AmountSpent))
	}
	tw.Flush()
}

func describe(err error, product string) string {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		return "Product not found!"
	case errors.Is(err, inventory.ErrInsufficientStock):
		return "Insufficient stock for product: " + product
	case errors.Is(err, inventory.ErrInvalidArgument):
		return "Price and stock must not be negative, and quantity must be positive."
	}
	return err.Error()
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) prompt(label string) (string, error) {
	for {
		s.printf("%s", label)
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// choose prints menu and reads an option; unparsable input yields -1.
func (s *Shell) choose(menu string) (int, error) {
	s.printf("%sChoose an option: ", menu)
	line, err := s.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return -1, nil
	}
	return n, nil
}

func (s *Shell) promptInt(label string, min int) (int, error) {
	for {
		line, err := s.prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= min {
			return n, nil
		}
		s.printf("Please enter a whole number of at least %d.\n", min)
	}
}

func (s *Shell) promptDecimal(label string) (decimal.Decimal, error) {
	for {
		line, err := s.prompt(label)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(strings.TrimPrefix(line, "$"))
		if err == nil && !d.IsNegative() {
			return d, nil
		}
		s.println("Please enter a non-negative amount.")
	}
}

func (s *Shell) promptYesNo(label string) (bool, error) {
	line, err := s.prompt(label)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}
