package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kaioribeiro97/simulacao-shp/pkg/gis"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect archive",
	Short: "Lists the shapefile layers and attribute columns found in a ZIP archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return eris.New("Expected 1 argument!")
		}

		layers, err := gis.DescribeZip(args[0])
		if err != nil {
			return err
		}

		for _, layer := range layers {
			fmt.Printf("%s: %d records\n", layer.Name, layer.Records)
			fmt.Printf("  columns: %s\n", strings.Join(layer.Columns, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
