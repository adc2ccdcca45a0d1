package cmd

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tenantkit/tenantkit/internal/logs"
	"github.com/tenantkit/tenantkit/internal/message"
	"github.com/tenantkit/tenantkit/pkg/modules"
	o "github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

var (
	cfgFile     string
	quietFlag   bool
	noColorFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tenantkit",
	Short: "Tenantkit is a CLI tool for administering Microsoft 365 tenants.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		message.SetQuiet(quietFlag)
		message.SetNoColor(noColorFlag)
		message.Banner()
		logs.FileLogger().Info("command invoked", "command", cmd.CommandPath())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tenantkit.yaml)")
	rootCmd.PersistentFlags().StringP(o.OutputOpt.Name, o.OutputOpt.Short, o.OutputOpt.Value, o.OutputOpt.Description)
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress console status messages")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tenantkit" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tenantkit")
	}

	viper.SetEnvPrefix("TENANTKIT")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func options2Flag(options []*types.Option, cmd *cobra.Command) {
	for _, option := range options {
		option2Flag(option, cmd)
	}
}

func option2Flag(option *types.Option, cmd *cobra.Command) {
	switch option.Type {
	case types.String:
		cmd.Flags().StringP(option.Name, option.Short, option.Value, option.Description)
	case types.Bool:
		value, _ := strconv.ParseBool(option.Value)
		cmd.Flags().BoolP(option.Name, option.Short, value, option.Description)
	case types.Int:
		intValue, _ := strconv.Atoi(option.Value)
		cmd.Flags().IntP(option.Name, option.Short, intValue, option.Description)
	}

	if option.Required {
		cmd.MarkFlagRequired(option.Name)
	}
}

func getOpts(cmd *cobra.Command, declared []*types.Option) []*types.Option {
	opts := getGlobalOpts(cmd)

	opts = append(opts, getOptsFromCmd(cmd, declared)...)
	err := o.ValidateOptions(opts, declared)
	if err != nil {
		message.Error("%s", err)
		os.Exit(1)
	}

	return opts
}

func getGlobalOpts(cmd *cobra.Command) []*types.Option {
	output := o.OutputOpt
	output.Value, _ = cmd.Flags().GetString(output.Name)
	return []*types.Option{&output}
}

func getOptsFromCmd(cmd *cobra.Command, declared []*types.Option) []*types.Option {
	opts := []*types.Option{}
	for _, opt := range o.CreateDeepCopyOfOptions(declared) {
		switch opt.Type {
		case types.String:
			opt.Value, _ = cmd.Flags().GetString(opt.Name)
		case types.Bool:
			value, _ := cmd.Flags().GetBool(opt.Name)
			opt.Value = strconv.FormatBool(value)
		case types.Int:
			value, _ := cmd.Flags().GetInt(opt.Name)
			opt.Value = strconv.Itoa(value)
		}
		opts = append(opts, opt)
	}
	return opts
}

func runModule(module modules.Module, meta modules.Metadata, run modules.Run) {
	logger := logs.ConsoleLogger()

	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range run.Data {
			for _, outputProvider := range module.GetOutputProviders() {
				wg.Add(1)
				go func(outputProvider types.OutputProvider, result types.Result) {
					defer wg.Done()
					if err := outputProvider.Write(result); err != nil {
						logger.Error(err.Error())
					}
				}(outputProvider, result)
			}
		}
	}()

	message.Section("%s", meta.Name)
	if err := module.Invoke(); err != nil {
		logger.Error(err.Error())
	}
	wg.Wait()
}
