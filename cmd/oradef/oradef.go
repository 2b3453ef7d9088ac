package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/erddef/erddef"
	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/database/file"
	"github.com/erddef/erddef/database/oracle"
	"github.com/erddef/erddef/schema"
	"github.com/erddef/erddef/util"
	"github.com/jessevdk/go-flags"
)

var version string

// Return parsed options and the service name or catalog snapshot file
func parseOptions(args []string) (database.Config, string, *erddef.Options) {
	var opts struct {
		User     string `short:"u" long:"user" description:"Oracle user name, which also owns the compared schema by default" value-name:"user_name" default:"system"`
		Password string `short:"p" long:"password" description:"Oracle user password, overridden by $ORACLE_PWD" value-name:"password"`
		Host     string `short:"h" long:"host" description:"Host to connect to the Oracle listener" value-name:"host_name" default:"127.0.0.1"`
		Port     uint   `short:"P" long:"port" description:"Port used for the connection" value-name:"port_num" default:"1521"`
		Prompt   bool   `long:"password-prompt" description:"Force Oracle user password prompt"`
		SslMode  string `long:"ssl-mode" description:"Set to 'require' or 'verify-full' to connect over TLS" value-name:"ssl_mode"`

		erddef.CommonOptions `group:"Common Options"`
	}

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[OPTIONS] service_name|current.yml < design.vuerd.json"
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
		fmt.Print("No service is specified!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	} else if len(args) > 1 {
		fmt.Printf("Multiple services are given: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	options, err := opts.CommonOptions.Options()
	if err != nil {
		log.Fatal(err)
	}

	password, err := erddef.ResolvePassword("ORACLE_PWD", opts.Password, opts.Prompt)
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
		db, err = oracle.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer db.Close()

	if err := erddef.Run(context.Background(), schema.GeneratorModeOracle, db, options, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
