package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/toyasm/cmd/cpu"
	"github.com/Manu343726/toyasm/cmd/tools"
	"github.com/Manu343726/toyasm/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "toyasm",
	Short: "An interpreter for a toy assembly language",
	Long: `Toyasm interprets a tiny assembly-like language one line at a time.

Instructions like mov, add, push or jmp operate on a handful of 32 bit
registers (eip, esp, eax, ebx, ecx, edx) and a sparse memory. This CLI gives
access to the interactive interpreter, a batch runner, Starlark scripting and
miscellaneous tools.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(cpu.CpuCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig)

	config.SetDefaults(viper.GetViper())

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.toyasm.yaml)")
	RootCmd.PersistentFlags().String("log-level", "warn", "Minimum level of the console log: debug, info, warn, error")
	RootCmd.PersistentFlags().String("log-file", "", "Append every log record, as JSON, to this file")
	RootCmd.PersistentFlags().Bool("color", true, "Colorize output when writing to a terminal")

	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, RootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag(config.KeyLogFile, RootCmd.PersistentFlags().Lookup("log-file")))
	cobra.CheckErr(viper.BindPFlag(config.KeyColor, RootCmd.PersistentFlags().Lookup("color")))
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

		// Search config in home directory with name ".toyasm" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.FileName)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
