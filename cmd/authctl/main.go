// Command authctl runs operator tasks against the configured stores.
//
//	authctl check-db
//	authctl create-admin -username admin -email admin@example.com -password admin123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/you/foodauth/internal/app"
	"github.com/you/foodauth/internal/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: authctl <check-db|create-admin> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}
	c, err := app.NewContainer(cfg, app.NewLogger(cfg))
	if err != nil {
		fatalf("init: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "check-db":
		err = checkDB(ctx, c)
	case "create-admin":
		err = createAdmin(ctx, c, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		c.Close()
		fatalf("%s: %v", os.Args[1], err)
	}
}

func checkDB(ctx context.Context, c *app.Container) error {
	report, err := c.CheckDB(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("driver:   %s\n", report.Driver)
	fmt.Printf("users:    %d\n", report.Users)
	fmt.Printf("policies: %d\n", report.Policies)
	return nil
}

func createAdmin(ctx context.Context, c *app.Container, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	acct := app.AdminAccount{}
	fs.StringVar(&acct.Username, "username", "admin", "admin username")
	fs.StringVar(&acct.Email, "email", "admin@example.com", "admin email")
	fs.StringVar(&acct.Password, "password", "", "admin password (required)")
	fs.StringVar(&acct.Phone, "phone", "", "optional phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, created, err := app.EnsureAdmin(ctx, c.UserRepo, c.PasswordSvc, acct)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("admin created: id=%d username=%s email=%s\n", user.ID, user.Username, user.Email)
	} else {
		fmt.Printf("admin already exists: id=%d username=%s\n", user.ID, user.Username)
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "authctl: "+format+"\n", args...)
	os.Exit(1)
}
