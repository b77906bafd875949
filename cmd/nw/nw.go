package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/julien-sobczak/the-noteweaver/internal/vault"
)

var verboseInfo bool
var verboseDebug bool
var verboseTrace bool

var rootCmd = &cobra.Command{
	Use:   "nw",
	Short: "The NoteWeaver turns a directory of notes into a linked static site",
	Long:  `A note processor where every note is also an entity of a shared graph.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Enable verbose output. The most verbose level wins when multiple flags are passsed.
		if verboseInfo {
			core.CurrentLogger().SetVerboseLevel(core.VerboseInfo)
		}
		if verboseDebug {
			core.CurrentLogger().SetVerboseLevel(core.VerboseDebug)
		}
		if verboseTrace {
			core.CurrentLogger().SetVerboseLevel(core.VerboseTrace)
		}
	},
}

func init() {
	// Use PersistentFlags to make flags accessible to sub-commands
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "v", "", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVarP(&verboseDebug, "vv", "", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&verboseTrace, "vvv", "", false, "enable verbose trace output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// CheckConfig exits when the current directory is not inside a collection.
func CheckConfig() *core.Config {
	return core.CurrentConfig()
}

// LoadRuntime processes every note of the current collection.
func LoadRuntime() *core.Runtime {
	config := CheckConfig()
	files, err := vault.Open(config.FilesDirectory())
	exitOnError(err)
	r := core.NewRuntime(config, core.WithVault(files))
	exitOnError(r.LoadDir(config.SourceDirectory()))
	r.Run()
	return r
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
