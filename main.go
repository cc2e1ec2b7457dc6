package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/scienceol/solvation/cmd/compute"
	"github.com/scienceol/solvation/cmd/migrate"
	"github.com/scienceol/solvation/internal/config"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/middleware/trace"
	"github.com/scienceol/solvation/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := run(utils.SetupSignalContext(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run executes the root command. Global resources are released after
// Execute because cobra skips the post-run hooks when a command fails.
func run(ctx context.Context, args []string) error {
	root := newRoot()
	root.SetContext(ctx)
	root.SetArgs(args)
	defer cleanGlobalResource()
	return root.Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:               "solvation",
		SilenceUsage:      true,
		Short:             "solvation",
		Long:              "Temperature dependent solvation free energies and infinite dilution K-factors",
		PersistentPreRunE: initGlobalResource,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.AddCommand(compute.NewEvaluate())
	root.AddCommand(compute.NewSweep())
	root.AddCommand(compute.NewSolvents())
	root.AddCommand(migrate.New())
	return root
}

func initGlobalResource(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found - using environment variables")
	}

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.AutomaticEnv()

	conf := config.Global()
	if err := v.Unmarshal(conf); err != nil {
		log.Fatal(err)
	}

	logger.Init(&logger.LogConfig{
		Path:     conf.Log.LogPath,
		LogLevel: conf.Log.LogLevel,
		Console:  conf.Log.LogConsole,
		ServiceEnv: logger.ServiceEnv{
			Platform: conf.Server.Platform,
			Service:  conf.Server.Service,
			Env:      conf.Server.Env,
		},
	})

	return trace.InitTrace(cmd.Context(), &trace.InitConfig{
		ServiceName:    fmt.Sprintf("%s-%s", conf.Server.Service, conf.Server.Platform),
		Version:        conf.Trace.Version,
		Exporter:       conf.Trace.Exporter,
		TraceEndpoint:  conf.Trace.TraceEndpoint,
		MetricEndpoint: conf.Trace.MetricEndpoint,
		Output:         conf.Trace.Output,
	})
}

func cleanGlobalResource() {
	trace.CloseTrace()
	logger.Close()
}
