package main

import (
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"github.com/adanyl0v/go-task-manager/internal/app"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML or .env config file")
	pflag.Parse()

	app.InitDefaultLogger()
	app.MustReadConfig(*configPath)
	app.MustInitApplicationLogger()

	app.MustOpenStorage()
	defer app.CloseStorage()

	app.MustConnectRedis()
	defer app.DisconnectRedis()

	app.MustListenAndServeHTTP()
}
