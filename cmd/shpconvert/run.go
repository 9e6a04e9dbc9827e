package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kaioribeiro97/simulacao-shp/pkg/convert"
)

var runOutput string

var runCmd = &cobra.Command{
	Use:   "run nodes_archive links_archive",
	Short: "Runs a single conversion and writes the resulting .inp file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return eris.New("Expected 2 arguments!")
		}

		wn, err := convert.FromZips(args[0], args[1])
		if err != nil {
			return err
		}

		out, err := os.Create(runOutput)
		if err != nil {
			return eris.Wrapf(err, "Failed to create %s", runOutput)
		}

		if err := wn.WriteInp(out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return eris.Wrapf(err, "Failed to write %s", runOutput)
		}

		log.Info().
			Int("junctions", wn.JunctionCount()).
			Int("pipes", wn.PipeCount()).
			Msgf("Wrote %s", runOutput)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "modelo_convertido.inp", "path of the generated .inp file")
	rootCmd.AddCommand(runCmd)
}
