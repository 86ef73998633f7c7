// Command clustering-exercises prepares the telco churn dataset (and
// two auxiliary datasets) for modeling: acquire, encode, split,
// optionally scale, and write the partitions out.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KwameTaylor/clustering-exercises/src/config"
	"github.com/KwameTaylor/clustering-exercises/src/datasource/db"
	"github.com/KwameTaylor/clustering-exercises/src/datasource/file"
	"github.com/KwameTaylor/clustering-exercises/src/prepare"
	"github.com/KwameTaylor/clustering-exercises/src/scale"
	"github.com/KwameTaylor/clustering-exercises/src/split"
	"github.com/KwameTaylor/clustering-exercises/src/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("pipeline failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	configPath string
	outDir     string
	seed       int64
	doScale    bool
	asXLSX     bool
	watch      bool
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "clustering-exercises",
		Short:         "Prepare churn, mall and grades datasets for modeling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.json", "path to JSON config file")
	root.PersistentFlags().StringVar(&opts.outDir, "out-dir", "", "output directory (default: <data_dir>/prepared)")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "split seed (default: config, then 666)")
	root.PersistentFlags().BoolVar(&opts.asXLSX, "xlsx", false, "write XLSX workbooks instead of CSV")

	telco := &cobra.Command{
		Use:   "telco",
		Short: "Acquire, encode, split and scale the telco churn table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTelco(cmd.Context(), logger, opts)
		},
	}
	telco.Flags().BoolVar(&opts.doScale, "scale", false, "min-max scale feature matrices (fit on train)")
	telco.Flags().BoolVar(&opts.watch, "watch", false, "re-run whenever the cached raw CSV is rewritten")

	mall := &cobra.Command{
		Use:   "mall [file]",
		Short: "Encode and split the mall customers table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runMall(logger, opts, path)
		},
	}

	grades := &cobra.Command{
		Use:   "grades",
		Short: "Wrangle the student grades table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrades(logger, opts)
		},
	}

	root.AddCommand(telco, mall, grades)
	return root
}

func (o *options) resolve(cfg *config.Config) (outDir string, seed int64) {
	outDir = o.outDir
	if outDir == "" {
		outDir = filepath.Join(cfg.DataDir, "prepared")
	}
	seed = o.seed
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = split.DefaultSeed
	}
	return outDir, seed
}

func runTelco(ctx context.Context, logger *zap.Logger, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	outDir, seed := opts.resolve(cfg)

	if err := telcoOnce(ctx, logger, cfg, outDir, seed, opts); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	monitor, err := file.NewMonitor(cfg.TelcoCachePath())
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.TelcoCachePath(), err)
	}
	defer monitor.Close()

	logger.Info("watching raw telco cache", zap.String("path", cfg.TelcoCachePath()))
	return monitor.Watch(func(path string) {
		logger.Info("raw telco cache changed, re-running pipeline", zap.String("path", path))
		if err := telcoOnce(ctx, logger, cfg, outDir, seed, opts); err != nil {
			logger.Error("pipeline re-run failed", zap.Error(err))
		}
	})
}

func telcoOnce(ctx context.Context, logger *zap.Logger, cfg *config.Config, outDir string, seed int64, opts *options) error {
	source, err := db.NewTelcoSource(cfg, logger)
	if err != nil {
		return err
	}
	raw, err := source.Acquire(ctx)
	if err != nil {
		return err
	}

	encoder, err := prepare.NewTelcoEncoder(logger)
	if err != nil {
		return err
	}
	prepared, dropped, err := encoder.Encode(raw)
	if err != nil {
		return err
	}
	logger.Info("encoded telco table",
		zap.Int("rows", prepared.Nrow()),
		zap.Int("dropped", dropped))

	if !opts.doScale {
		parts, err := split.Stratified(prepared, "churn", seed)
		if err != nil {
			return err
		}
		return writeAll(logger, opts, outDir, map[string]dataframe.DataFrame{
			"telco_train":    parts.Train,
			"telco_validate": parts.Validate,
			"telco_test":     parts.Test,
		})
	}

	xy, err := split.TelcoXY(prepared, "churn", seed)
	if err != nil {
		return err
	}
	scaler := scale.NewMinMax(prepare.IDColumn)
	if err := scaler.Fit(xy.XTrain); err != nil {
		return err
	}
	xTrain, err := scaler.Transform(xy.XTrain)
	if err != nil {
		return err
	}
	xValidate, err := scaler.Transform(xy.XValidate)
	if err != nil {
		return err
	}
	xTest, err := scaler.Transform(xy.XTest)
	if err != nil {
		return err
	}
	return writeAll(logger, opts, outDir, map[string]dataframe.DataFrame{
		"telco_X_train_scaled":    xTrain,
		"telco_X_validate_scaled": xValidate,
		"telco_X_test_scaled":     xTest,
		"telco_y_train":           targetTable(xy.XTrain, xy.YTrain),
		"telco_y_validate":        targetTable(xy.XValidate, xy.YValidate),
		"telco_y_test":            targetTable(xy.XTest, xy.YTest),
	})
}

func runMall(logger *zap.Logger, opts *options, path string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	outDir, seed := opts.resolve(cfg)
	if path == "" {
		path = filepath.Join(cfg.DataDir, "mall_customers.csv")
	}

	df, err := readTable(path)
	if err != nil {
		return err
	}
	encoded, err := prepare.Mall(df)
	if err != nil {
		return err
	}
	train, test, validate, err := split.Mall(encoded, seed)
	if err != nil {
		return err
	}
	logger.Info("split mall table",
		zap.Int("train", train.Nrow()),
		zap.Int("test", test.Nrow()),
		zap.Int("validate", validate.Nrow()))
	return writeAll(logger, opts, outDir, map[string]dataframe.DataFrame{
		"mall_train":    train,
		"mall_test":     test,
		"mall_validate": validate,
	})
}

func runGrades(logger *zap.Logger, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	outDir, _ := opts.resolve(cfg)

	df, err := file.ReadCSV(cfg.GradesPath())
	if err != nil {
		return err
	}
	wrangled, dropped, err := prepare.Grades(df)
	if err != nil {
		return err
	}
	logger.Info("wrangled grades table",
		zap.Int("rows", wrangled.Nrow()),
		zap.Int("dropped", dropped))
	return writeAll(logger, opts, outDir, map[string]dataframe.DataFrame{
		"grades": wrangled,
	})
}

func writeAll(logger *zap.Logger, opts *options, outDir string, tables map[string]dataframe.DataFrame) error {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		df := tables[name]
		var path string
		var err error
		if opts.asXLSX {
			path = filepath.Join(outDir, name+".xlsx")
			err = storage.WriteXLSX(df, path, name)
		} else {
			path = filepath.Join(outDir, name+".csv")
			err = storage.WriteCSV(df, path)
		}
		if err != nil {
			return err
		}
		logger.Info("wrote table", zap.String("path", path), zap.Int("rows", df.Nrow()))
	}
	return nil
}

// targetTable pairs a partition's target column with its row
// identifiers so the y files can be rejoined to the scaled X files.
func targetTable(x dataframe.DataFrame, y series.Series) dataframe.DataFrame {
	return dataframe.New(
		series.New(x.Col(prepare.IDColumn).Records(), series.String, prepare.IDColumn),
		y,
	)
}

func readTable(path string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return file.ReadXLSX(path, "Sheet1")
	}
	return file.ReadCSV(path)
}
