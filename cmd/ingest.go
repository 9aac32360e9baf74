package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teamfit/teamfit/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [spreadsheet]",
	Short: "Parse a spreadsheet into canonical problem records and dump them to a file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runIngest(args[0])
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	problems, err := loadProblems(path, logger)
	if err != nil {
		logger.Fatal("loading problem statements", zap.Error(err))
	}

	filename, err := problems.DumpToTmpFile()
	if err != nil {
		logger.Fatal("dumping problems to file", zap.Error(err))
	}

	logger.Info("parsed problem statements",
		zap.String("file", path),
		zap.Int("count", problems.Len()),
		zap.String("dumped_to", filename),
	)
}
