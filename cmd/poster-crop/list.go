package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/menta2k/poster-cropper/pkg/cropper"
)

var listCmd = &cobra.Command{
	Use:         "list",
	Short:       "List the poster regions and their output files",
	Annotations: map[string]string{skipLogAnnotation: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		runList()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList() {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tOUTPUT\tCENTER\tSIZE\tRECT")
	fmt.Fprintln(w, "--\t------\t------\t----\t----")

	for _, s := range cropper.Specs() {
		r := s.Rect()
		fmt.Fprintf(w, "%d\t%s\t%d,%d\t%dx%d\t(%d,%d)-(%d,%d)\n",
			s.ID, s.OutputName, s.CenterX, s.CenterY, s.Width, s.Height, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	}
	w.Flush()
}
