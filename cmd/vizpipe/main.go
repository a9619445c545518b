package main

import (
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dataDir    string
	charts     []string
	asTable    bool
	verbosity  int
)

var root = &cobra.Command{
	Use:          "vizpipe",
	Short:        "Aggregate tabular data and build render-ready chart specs",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.GetLogger("vizpipe").SetLogLevel(verbosity)
	},
}

var run = &cobra.Command{
	Use:   "run",
	Short: "Build the charts declared in a config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCharts(cmd.OutOrStdout(), configPath, dataDir, charts, asTable)
	},
}

var validate = &cobra.Command{
	Use:   "validate",
	Short: "Check a config file without reading any data",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := validateConfig(configPath)
		if err != nil {
			return err
		}

		logger.Infof("%s declares %d valid charts", configPath, n)
		return nil
	},
}

func main() {
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "charts.yaml", "Path to the chart config file")
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity")

	run.Flags().StringVarP(&dataDir, "data", "d", ".", "Directory holding one <source>.csv file per data source")
	run.Flags().StringSliceVar(&charts, "chart", nil, "Only build the named charts")
	run.Flags().BoolVar(&asTable, "table", false, "Print the chart data as text tables instead of JSON")

	root.AddCommand(run, validate)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
