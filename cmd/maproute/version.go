package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

func versionCmd(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if short {
				a.println(version)
				return nil
			}
			info := versionInfo{
				Version: version,
				Commit:  commit,
				Date:    date,
				Go:      runtime.Version(),
				OS:      runtime.GOOS,
				Arch:    runtime.GOARCH,
			}
			if a.jsonOut {
				return a.writeJSON(info)
			}
			fmt.Fprintf(a.stdout, "  Version:    %s\n", info.Version)
			fmt.Fprintf(a.stdout, "  Commit:     %s\n", info.Commit)
			fmt.Fprintf(a.stdout, "  Built:      %s\n", info.Date)
			fmt.Fprintf(a.stdout, "  Go version: %s\n", info.Go)
			fmt.Fprintf(a.stdout, "  OS/Arch:    %s/%s\n", info.OS, info.Arch)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}
