package main

import (
	"github.com/spf13/pflag"

	"github.com/adanyl0v/go-task-api/internal/app"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	app.InitDefaultLogger()
	app.MustReadConfig(*configPath)
	app.MustInitApplicationLogger()

	app.MustOpenStorage()
	defer app.CloseStorage()

	app.MustBootstrapAdmin()
	app.MustListenAndServeHTTP()
}
