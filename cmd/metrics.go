package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/interview"
	"github.com/spigell/interview-agent/internal/logger"
	"github.com/spigell/interview-agent/internal/storage"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <session-id|snapshot-file>",
	Short: "Print metrics of a saved interview",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		metrics(args[0])
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func metrics(ref string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	snapshot, err := loadSnapshot(ctx, config.Storage, ref)
	if err != nil {
		logger.Fatal("loading interview snapshot", zap.String("ref", ref), zap.Error(err))
	}

	if snapshot.State == nil {
		logger.Warn("snapshot has no saved state; printing the metrics stored with it", zap.String("ref", ref))
	}
	out := snapshot.CurrentMetrics()

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("encoding metrics", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

// loadSnapshot treats ref as a file path when such a file exists and as a
// session id otherwise.
func loadSnapshot(ctx context.Context, cfg *StorageConfig, ref string) (*interview.Snapshot, error) {
	if _, err := os.Stat(ref); err == nil {
		return storage.LoadFile(ref)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	store, closeStore, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	return store.Load(ctx, ref)
}
