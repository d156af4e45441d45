package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	postercrop "github.com/menta2k/poster-cropper"
	"github.com/menta2k/poster-cropper/internal/utils"
)

var checkInput string

var checkCmd = &cobra.Command{
	Use:         "check",
	Short:       "Check that an image is a valid 1024x1024 poster sheet",
	Annotations: map[string]string{skipLogAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runCheck(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "Path to the poster sheet")
	checkCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(out, errOut io.Writer) error {
	if !utils.IsImageFile(checkInput) {
		fmt.Fprintf(errOut, "Warning: %s does not have an image extension, trying to decode anyway\n", filepath.Base(checkInput))
	}

	info, err := postercrop.New().ValidateSource(checkInput)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s, ready to crop\n", filepath.Base(checkInput), info)
	return nil
}
