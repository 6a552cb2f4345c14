package main

import (
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/mitchellh/cli"
	"github.com/vantagecompute/vantage-api/cmd/api"
	"github.com/vantagecompute/vantage-api/cmd/gen/genapidoc"
	"github.com/vantagecompute/vantage-api/cmd/migrate"
)

func main() {
	const appName, appVersion = "vantage-api", "1.0.0"

	apiCmd := api.NewCmd(appName, appVersion)

	c := cli.NewCLI(appName, appVersion)
	c.Args = os.Args[1:]
	c.Autocomplete = true
	c.Commands = map[string]cli.CommandFactory{
		"":        apiCmd, // default command if no subcommand defined
		"api":     apiCmd,
		"migrate": migrate.NewCmd(),
		"apidoc": func() (cli.Command, error) {
			return genapidoc.NewApiDocCmd(genapidoc.ApiDocCfg{})
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		log.Println(err)
	}

	os.Exit(exitStatus)
}
