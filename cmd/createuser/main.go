package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/adanyl0v/go-task-api/internal/app"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	username := pflag.StringP("username", "u", "", "username of the new user")
	password := pflag.StringP("password", "p", "", "password of the new user")
	pflag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createuser --username NAME --password PASSWORD [--config PATH]")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	app.InitDefaultLogger()
	app.MustReadConfig(*configPath)
	app.MustInitApplicationLogger()

	app.MustOpenStorage()
	defer app.CloseStorage()

	app.MustCreateUser(*username, *password)
}
