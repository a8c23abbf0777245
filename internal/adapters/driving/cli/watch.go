package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contralens/internal/adapters/driving/watcher"
)

var watchDirs []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch directories and ingest dropped contract files",
	Long: `Monitors directories for new .txt and .md files and ingests each one as
a contract. Directories come from the --dir flag or the watch.dirs config
key. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVarP(&watchDirs, "dir", "d", nil, "directory to watch (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if contractService == nil {
		return errors.New("contract service not configured")
	}

	dirs := watchDirs
	if len(dirs) == 0 {
		dirs = configuredWatchDirs()
	}
	if len(dirs) == 0 {
		return errors.New("no directories to watch; pass --dir or set watch.dirs in config")
	}

	w := watcher.New(contractService, dirs)
	return w.Run(cmd.Context())
}

// configuredWatchDirs reads watch.dirs from config. The key is a TOML
// array of strings; anything else is ignored.
func configuredWatchDirs() []string {
	if configStore == nil {
		return nil
	}
	raw, ok := configStore.Get("watch.dirs")
	if !ok {
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	dirs := make([]string, 0, len(items))
	for _, item := range items {
		if dir, ok := item.(string); ok && dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
