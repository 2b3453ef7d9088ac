package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/erddef/erddef"
	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/database/file"
	"github.com/erddef/erddef/database/postgres"
	"github.com/erddef/erddef/schema"
	"github.com/erddef/erddef/util"
	"github.com/jessevdk/go-flags"
)

var version string

// Return parsed options and the database name or catalog snapshot file
func parseOptions(args []string) (database.Config, string, *erddef.Options) {
	var opts struct {
		User     string `short:"U" long:"user" description:"PostgreSQL user name" value-name:"username" default:"postgres"`
		Password string `short:"W" long:"password" description:"PostgreSQL user password, overridden by $PGPASSWORD" value-name:"password"`
		Host     string `short:"h" long:"host" description:"Host or socket directory to connect to the PostgreSQL server" value-name:"hostname" default:"127.0.0.1"`
		Port     uint   `short:"p" long:"port" description:"Port used for the connection" value-name:"port" default:"5432"`
		Prompt   bool   `long:"password-prompt" description:"Force PostgreSQL user password prompt"`
		SslMode  string `long:"sslmode" description:"SSL mode (disable, require, verify-ca, verify-full), overridden by $PGSSLMODE if empty" value-name:"sslmode"`
		SslCa    string `long:"sslrootcert" description:"Root certificate file, overridden by $PGSSLROOTCERT if empty" value-name:"sslrootcert"`

		erddef.CommonOptions `group:"Common Options"`
	}

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[OPTIONS] db_name|current.yml < design.vuerd.json"
	args, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	util.InitSlog(opts.LogLevel)

	if len(args) == 0 {
		fmt.Print("No database is specified!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	} else if len(args) > 1 {
		fmt.Printf("Multiple databases are given: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	options, err := opts.CommonOptions.Options()
	if err != nil {
		log.Fatal(err)
	}

	password, err := erddef.ResolvePassword("PGPASSWORD", opts.Password, opts.Prompt)
	if err != nil {
		log.Fatal(err)
	}

	config := database.Config{
		DbName:   args[0],
		User:     opts.User,
		Password: password,
		Host:     opts.Host,
		Port:     int(opts.Port),
		SslMode:  opts.SslMode,
		SslCa:    opts.SslCa,
	}
	if strings.HasPrefix(opts.Host, "/") {
		config.Socket = opts.Host
	}
	return config, args[0], options
}

func main() {
	config, target, options := parseOptions(os.Args[1:])

	var db database.Database
	if erddef.IsCatalogFile(target) {
		db = file.NewDatabase(target)
	} else {
		var err error
		db, err = postgres.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer db.Close()

	if err := erddef.Run(context.Background(), schema.GeneratorModePostgres, db, options, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
