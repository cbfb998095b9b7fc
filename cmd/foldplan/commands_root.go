package main

import (
	"github.com/spf13/cobra"

	"github.com/sourceplane/foldplan/internal/config"
)

var (
	configFile      string
	envFile         string
	outputDir       string
	modelPreset     string
	dbPreset        string
	dataDir         string
	maxTemplateDate string
	createSample    bool
	production      bool
	reportFile      string
	logLevel        string
	logFormat       string
)

var rootCmd = &cobra.Command{
	Use:   "foldplan",
	Short: "Structure prediction planner: FASTA → AlphaFold jobs",
	Long: "foldplan resolves layered configuration, plans AlphaFold runs for monomers, multimers and batches, " +
		"deduplicates MSA searches and either simulates or executes the resulting commands",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Config file (JSON, or YAML for .yaml/.yml)")
	flags.StringVar(&envFile, "env-file", "", "Dotenv file with FOLDPLAN_* overrides")
	flags.StringVarP(&outputDir, "output", "o", "", "Output directory (default depends on the command)")
	flags.StringVar(&modelPreset, "model-preset", "", "Model preset (monomer, monomer_casp14, monomer_ptm, multimer)")
	flags.StringVar(&dbPreset, "db-preset", "", "Database preset (reduced_dbs, full_dbs)")
	flags.StringVar(&dataDir, "data-dir", "", "Path to AlphaFold databases")
	flags.StringVar(&maxTemplateDate, "max-template-date", "", "Maximum template date (YYYY-MM-DD)")
	flags.BoolVar(&createSample, "create-sample", false, "Create sample input at the input path and exit")
	flags.BoolVar(&production, "production", false, "Run in production mode (actually execute AlphaFold)")
	flags.StringVar(&reportFile, "report", "", "Write the batch report to this file (json or yaml)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	registerMonomerCommand(rootCmd)
	registerMultimerCommand(rootCmd)
	registerBatchCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerAnalyzeCommand(rootCmd)
	registerSampleCommand(rootCmd)
}

// cliFlagKeys maps persistent flags onto configuration keys
var cliFlagKeys = []struct {
	flag string
	key  string
	val  func() any
}{
	{"output", config.KeyOutputDir, func() any { return outputDir }},
	{"model-preset", config.KeyModelPreset, func() any { return modelPreset }},
	{"db-preset", config.KeyDBPreset, func() any { return dbPreset }},
	{"data-dir", config.KeyDataDir, func() any { return dataDir }},
	{"max-template-date", config.KeyMaxTemplateDate, func() any { return maxTemplateDate }},
	{"production", config.KeyDemoMode, func() any { return !production }},
	{"log-level", config.KeyLogLevel, func() any { return logLevel }},
}

// cliLayer collects only the flags the user actually set
func cliLayer(cmd *cobra.Command, extra map[string]any) config.Layer {
	values := make(map[string]any)
	for _, f := range cliFlagKeys {
		if cmd.Flags().Changed(f.flag) {
			values[f.key] = f.val()
		}
	}
	for k, v := range extra {
		values[k] = v
	}
	return config.NewLayer(config.SourceCLI, values)
}
