package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Config  string `help:"Path to the YAML config file." default:"configs/config.yaml" type:"path"`
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	Verbose bool   `short:"v" help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Scrape  ScrapeCmd  `cmd:"" help:"Search LinkedIn jobs in a browser and save the results."`
	Extract ExtractCmd `cmd:"" help:"Extract results from a saved LinkedIn results page."`
	Version VersionCmd `cmd:"" help:"Print version."`
}

func NewCLI() *CLI {
	return &CLI{}
}
