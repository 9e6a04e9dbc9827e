package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shpconvert",
	Short: "Converts zipped shapefile layers into EPANET .inp models",
	Long: `shpconvert bundles the conversion pipeline of the web service as a command
line tool. It reads a node layer and a link layer from ZIP archives and
writes an EPANET input file.`,
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cobra.CheckErr(rootCmd.Execute())
}
