// Non-destructive image editor - command line front end
//
// Usage:
//
//	app [flags] IMAGE
//
// Editing flags run in the order given, so a command line reads as a
// script:
//
//	app -op 'gaussian {radius: 2}' -op invert -undo -record -op rotate_left -macro-save turn photo.png -save
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"non-destructive-image-editor/internal/algorithms"
	"non-destructive-image-editor/internal/config"
	"non-destructive-image-editor/internal/core"
	"non-destructive-image-editor/internal/imageio"
)

const (
	AppName    = "Non-Destructive Image Editor"
	AppVersion = "1.0.0"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("app", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var script Script
	configPath := fs.String("config", "", "YAML configuration file")
	debugMode := fs.Bool("debug", false, "Enable debug mode with verbose logging")
	list := fs.Bool("list", false, "List the available operations and exit")
	save := fs.Bool("save", false, "Save the image and its edit log when done")
	saveAs := fs.String("save-as", "", "Save the image and its edit log to a new path when done")
	export := fs.String("export", "", "Export the edited image when done")
	showMetrics := fs.Bool("metrics", false, "Compare the edited image with the original when done")
	seed := fs.Uint64("seed", 0, "Seed for -lucky (0 picks one from the clock)")
	script.Bind(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *list {
		printOperations(stdout)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *debugMode {
		cfg.Log.Level = "debug"
		cfg.Log.Format = "text"
		cfg.Debug.History = true
	}

	logger := initLogger(cfg, stderr)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
		"config":     *configPath,
	}).Info("Starting " + AppName)

	if fs.NArg() != 1 {
		logger.Error("Expected exactly one image path")
		fs.Usage()
		return 2
	}

	loaderLogger := logrus.FieldLogger(nil)
	if cfg.Debug.Codec {
		loaderLogger = logger
	}
	session := core.NewEditableImage(imageio.NewImageLoader(loaderLogger), logger)

	var debugger *core.HistoryDebugger
	if cfg.Debug.History {
		debugger = core.NewHistoryDebugger(logger)
		session.SetDebugger(debugger)
	}

	if err := session.Open(fs.Arg(0)); err != nil {
		logger.WithError(err).Error("Failed to open image")
		return 1
	}

	editor := &Editor{
		Session: session,
		Logger:  logger,
		RNG:     newRNG(*seed),
	}
	if err := editor.Execute(script.Steps()); err != nil {
		logger.WithError(err).Error("Edit script failed")
		return 1
	}

	if *showMetrics {
		if err := editor.Report(stdout); err != nil {
			logger.WithError(err).Warn("Metrics unavailable")
		}
	}

	switch {
	case *saveAs != "":
		err = session.SaveAs(*saveAs)
	case *save:
		err = session.Save()
	}
	if err != nil {
		logger.WithError(err).Error("Failed to save")
		return 1
	}

	if *export != "" {
		if err := session.Export(exportPath(*export, cfg.Export.Format)); err != nil {
			logger.WithError(err).Error("Failed to export")
			return 1
		}
	}

	editor.PrintLog(stdout)
	debugger.PrintStatus(stdout)

	logger.Info("Application shutting down gracefully")
	return 0
}

// initLogger initializes the logger from the configuration
func initLogger(cfg config.Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(cfg.Level())

	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	logger.Debug("Debug logging enabled")

	return logger
}

func printOperations(w io.Writer) {
	groups := algorithms.ByCategory()
	for _, category := range algorithms.Categories() {
		fmt.Fprintf(w, "%s:\n", category)
		for _, name := range groups[category] {
			kind, _ := algorithms.KindByName(name)
			info, _ := algorithms.Lookup(kind)
			fmt.Fprintf(w, "  %-20s %s\n", name, info.Description)
			for _, p := range info.Params {
				fmt.Fprintf(w, "      %-12s %-7s %s%s\n", p.Name, p.Type, p.Description, paramBounds(p))
			}
		}
	}
}

func paramBounds(p algorithms.ParameterInfo) string {
	s := ""
	if p.Min != nil && p.Max != nil {
		s += fmt.Sprintf(" [%v..%v]", p.Min, p.Max)
	}
	if len(p.Options) > 0 {
		s += fmt.Sprintf(" %v", p.Options)
	}
	if p.Default != nil {
		s += fmt.Sprintf(" (default %v)", p.Default)
	}
	return s
}
