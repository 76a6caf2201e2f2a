/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hdxscribe/internal/config"
	"hdxscribe/pkg/spec"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   spec.AppName + " [flags] <audio-file>",
	Short: "Play an audio file with scrubbing, marks and tempo control for transcription",
	Long: spec.WelcomeLine + `

Plays one audio file in the terminal with a progress bar. Seek with j/k,
drop marks with m and hop between them with [ and ], slow down with <.
Type h while playing for the list of all commands.

Supported formats: wav, mp3, flac, ogg/oga (vorbis), opus.`,
	Version:       fmt.Sprintf("%d.%d", spec.VersionMajor, spec.VersionMinor),
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cmd.Context(), cfg, args[0])
	},
}

func init() {
	cfg.Bind(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[!] Error: %v\n", err)
		os.Exit(1)
	}
}
