package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"fastresume/internal/common"
	"fastresume/internal/errors"
	"fastresume/internal/store"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage saved results",
	Long: `Saved results live in a local SQLite database in the data directory.
Kinds are analysis, career_strategy and interview.`,
}

var historyListCmd = &cobra.Command{
	Use:       "list [kind]",
	Short:     "List saved results, newest first",
	Args:      cobra.ExactArgs(1),
	ValidArgs: historyKinds(),
	RunE:      runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [kind] [id]",
	Short: "Print one saved result",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [kind] [id]",
	Short: "Delete one saved result",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:       "clear [kind]",
	Short:     "Delete every saved result of a kind",
	Args:      cobra.ExactArgs(1),
	ValidArgs: historyKinds(),
	RunE:      runHistoryClear,
}

var (
	historyConfig common.CommandConfig
	historyLimit  int
	historyYes    bool
)

func init() {
	addOutputFlags(historyListCmd, &historyConfig)
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records (0 for all)")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
}

func historyKinds() []string {
	return []string{string(store.KindAnalysis), string(store.KindCareerStrategy), string(store.KindInterview)}
}

// withHistory opens the store, parses kind and runs fn.
func withHistory(cmd *cobra.Command, kindArg string, fn func(*store.HistoryStore, store.Kind) error) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	kind, err := store.ParseKind(kindArg)
	if err != nil {
		return err
	}
	history, err := store.Open(cfg.App.DataDir)
	if err != nil {
		return err
	}
	defer closeHistory(history, logger)

	return fn(history, kind)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}
	return withHistory(cmd, args[0], func(history *store.HistoryStore, kind store.Kind) error {
		records, err := history.List(cmd.Context(), kind, historyLimit)
		if err != nil {
			return err
		}
		return common.NewOutputHandler(logger).HandleOutput(records, historyConfig)
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withHistory(cmd, args[0], func(history *store.HistoryStore, kind store.Kind) error {
		rec, err := history.Get(cmd.Context(), kind, args[1])
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, rec.Payload, "", "  "); err != nil {
			return errors.NewStorageError(errors.ErrCodeStorageFailed, "stored payload is not valid JSON", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.String())
		return nil
	})
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	return withHistory(cmd, args[0], func(history *store.HistoryStore, kind store.Kind) error {
		if err := history.Delete(cmd.Context(), kind, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s record %s\n", kind, args[1])
		return nil
	})
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	return withHistory(cmd, args[0], func(history *store.HistoryStore, kind store.Kind) error {
		if !historyYes && !confirmPrompt(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("Delete all %s history?", kind)) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted")
			return nil
		}
		removed, err := history.Clear(cmd.Context(), kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Removed %d %s records\n", removed, kind)
		return nil
	})
}
