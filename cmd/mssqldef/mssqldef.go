package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/erddef/erddef"
	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/database/file"
	"github.com/erddef/erddef/database/mssql"
	"github.com/erddef/erddef/schema"
	"github.com/erddef/erddef/util"
	"github.com/jessevdk/go-flags"
)

var version string

// Return parsed options and the database name or catalog snapshot file
func parseOptions(args []string) (database.Config, string, *erddef.Options) {
	var opts struct {
		User     string `short:"U" long:"user" description:"MSSQL user name" value-name:"user_name" default:"sa"`
		Password string `short:"P" long:"password" description:"MSSQL user password, overridden by $MSSQL_PWD" value-name:"password"`
		Host     string `short:"h" long:"host" description:"Host to connect to the MSSQL server" value-name:"host_name" default:"127.0.0.1"`
		Port     uint   `short:"p" long:"port" description:"Port used for the connection" value-name:"port_num" default:"1433"`
		Prompt   bool   `long:"password-prompt" description:"Force MSSQL user password prompt"`

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

	password, err := erddef.ResolvePassword("MSSQL_PWD", opts.Password, opts.Prompt)
	if err != nil {
		log.Fatal(err)
	}

	config := database.Config{
		DbName:   args[0],
		User:     opts.User,
		Password: password,
		Host:     opts.Host,
		Port:     int(opts.Port),
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
		db, err = mssql.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer db.Close()

	if err := erddef.Run(context.Background(), schema.GeneratorModeMssql, db, options, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
