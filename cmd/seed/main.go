// Command seed bootstraps the first OWNER account.
//
// Role elevation normally happens through the admin gateway, which
// requires an existing OWNER. The very first OWNER therefore has to be
// created out-of-band, directly against the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/config"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/database"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/identity"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/user"
)

func main() {
	email := flag.String("email", "", "owner email address")
	password := flag.String("password", "", "owner password")
	name := flag.String("name", "", "owner display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -email <email> -password <password> [-name <name>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	provider := identity.NewPasswordProvider(identity.NewDatastore(db.DB))
	users := user.NewManager(user.NewDatastore(db.DB))

	ident, err := provider.Register(ctx, *email, *password, *name)
	if err != nil {
		log.Fatalf("failed to register credential: %v", err)
	}

	rec, err := users.Resolve(ctx, ident.ID, ident.Email, ident.Name)
	if err != nil {
		log.Fatalf("failed to create directory record: %v", err)
	}

	// No OWNER exists yet to act through the gateway, so write the role
	// directly.
	ds := user.NewDatastore(db.DB)
	if _, err := ds.SetRole(ctx, rec.ID, role.Owner); err != nil {
		log.Fatalf("failed to set owner role: %v", err)
	}

	log.Printf("owner account created: %s (%s)", rec.Email, rec.ID)
}
