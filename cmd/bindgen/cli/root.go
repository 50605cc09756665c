// Package cli implements the bindgen command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/kotlin"
	"github.com/pagr/bindgen/logger"
	"github.com/pagr/bindgen/model"
)

var (
	outputDir  string
	configPath string
	lang       string
	jsonLogs   bool
)

// tomlConfig mirrors the layout of a bindgen.toml file. Each language
// backend gets its own table, so one file can configure several targets.
type tomlConfig struct {
	Bindings struct {
		Kotlin kotlin.Config `toml:"kotlin"`
	} `toml:"bindings"`
}

// RootCmd represents the bindgen command
var RootCmd = &cobra.Command{
	Use:   "bindgen <interface-model.json>",
	Short: "Generate foreign-language bindings for a native component",
	Long: `Generate foreign-language bindings from a component interface model.

The interface model is the validated JSON description of a component's
public surface (records, enums, objects, callback interfaces, functions)
produced by the upstream interface parser. bindgen renders it into
target-language source that moves values across the FFI boundary.

Supported languages: Kotlin (coming: Swift)

Configuration is read from an optional bindgen.toml:

  [bindings.kotlin]
  package_name = "com.example.todolist"
  cdylib_name = "todolist"

Explicit values always win over defaults derived from the component
namespace.

Examples:
  bindgen todolist.json                      # Kotlin to stdout
  bindgen todolist.json --output out/        # Write <Namespace>.kt
  bindgen todolist.json --config bindgen.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	RootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: stdout)")
	RootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to bindgen.toml")
	RootCmd.Flags().StringVarP(&lang, "lang", "l", "kotlin", "Target language: kotlin")
	RootCmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := logger.Initialize(jsonLogs); err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	if lang != "kotlin" {
		return errors.Newf("invalid language: %s (supported: kotlin)", lang)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "opening interface model")
	}
	defer f.Close()

	ci, err := model.Decode(f)
	if err != nil {
		return errors.Wrap(err, "decoding interface model")
	}
	logger.Logger.Infow("loaded interface model",
		"namespace", ci.Namespace,
		"enums", len(ci.Enums),
		"records", len(ci.Records),
		"objects", len(ci.Objects),
		"callback_interfaces", len(ci.CallbackInterfaces),
		"functions", len(ci.Functions))

	overrides, err := loadOverrides(configPath)
	if err != nil {
		return err
	}
	cfg := kotlin.ResolveConfig(ci, overrides)

	text, err := kotlin.NewWrapper(cfg, ci).Render()
	if err != nil {
		return errors.Wrap(err, "rendering Kotlin bindings")
	}

	if outputDir == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	oracle := kotlin.Oracle{}
	outPath := filepath.Join(outputDir, oracle.ClassName(ci.Namespace)+".kt")
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return errors.Wrap(err, "writing bindings")
	}
	logger.Logger.Infow("wrote bindings", "path", outPath, "bytes", len(text))
	return nil
}

// loadOverrides reads config overrides from a bindgen.toml, or returns the
// zero config when no path was given.
func loadOverrides(path string) (kotlin.Config, error) {
	if path == "" {
		return kotlin.Config{}, nil
	}
	var cfg tomlConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return kotlin.Config{}, errors.Wrapf(err, "loading config %s", path)
	}
	return cfg.Bindings.Kotlin, nil
}
