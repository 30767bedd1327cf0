package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"goa.design/clue/log"

	"github.com/dnest4/modelgen/codegen/emitter"
	"github.com/dnest4/modelgen/codegen/modelfile"
	"github.com/dnest4/modelgen/runtime/loading"
	"github.com/dnest4/modelgen/runtime/telemetry"
)

type generateOptions struct {
	modelFile   string
	outDir      string
	templateDir string
	class       string
	strict      bool
}

func newRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           "modelgen",
		Short:         "Generate DNest4 model classes from model descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := log.With(cmd.Context(), log.KV{K: "run", V: uuid.NewString()})
			if debug {
				ctx = log.Context(ctx, log.WithDebug())
				log.Debugf(ctx, "debug logs enabled")
			}
			cmd.SetContext(ctx)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logs")
	root.AddCommand(newGenerateCmd(), newRowsCmd(), newTableCmd(), newExampleCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var o generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the model header and source files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVarP(&o.modelFile, "file", "f", "model.yaml", "Model description")
	cmd.Flags().StringVarP(&o.outDir, "out", "o", ".", "Output directory")
	cmd.Flags().StringVar(&o.templateDir, "templates", "", "Directory holding MyModel.h.template and MyModel.cpp.template (default: built-in templates)")
	cmd.Flags().StringVar(&o.class, "class", "", "Generated class name (default: model name)")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Fail when a template lacks a generated block")
	return cmd
}

func runGenerate(ctx context.Context, o generateOptions) error {
	d, err := modelfile.Load(o.modelFile)
	if err != nil {
		return err
	}
	class := d.Class
	if o.class != "" {
		class = o.class
	}
	opts := []emitter.Option{
		emitter.WithOutputDir(o.outDir),
		emitter.WithClass(class),
		emitter.WithStrict(o.strict),
		emitter.WithLogger(telemetry.NewClueLogger()),
		emitter.WithTracer(telemetry.NewClueTracer()),
		emitter.WithMetrics(telemetry.NewClueMetrics()),
	}
	if o.templateDir != "" {
		opts = append(opts, emitter.WithTemplates(emitter.DirSource(o.templateDir)))
	}
	e := emitter.New(opts...)
	log.Print(ctx, log.KV{K: "msg", V: "generating"}, log.KV{K: "model", V: o.modelFile},
		log.KV{K: "class", V: e.Class()}, log.KV{K: "nodes", V: d.Model.Len()})

	res, err := e.Generate(ctx, d.Model)
	if err != nil {
		return err
	}
	log.Print(ctx, log.KV{K: "msg", V: "done"}, log.KV{K: "header", V: res.HeaderPath}, log.KV{K: "source", V: res.SourcePath})
	return nil
}

func newRowsCmd() *cobra.Command {
	var (
		rows   []int
		single bool
	)
	cmd := &cobra.Command{
		Use:   "rows FILE",
		Short: "Print selected data rows of a numeric text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if single {
				r, err := loading.LoadRows[float32](args[0], rows)
				if err != nil {
					return err
				}
				return printRows(cmd.OutOrStdout(), r.NCol, r.Values)
			}
			r, err := loading.LoadRows[float64](args[0], rows)
			if err != nil {
				return err
			}
			return printRows(cmd.OutOrStdout(), r.NCol, r.Values)
		},
	}
	cmd.Flags().IntSliceVar(&rows, "rows", []int{0}, "Zero based data row indices")
	cmd.Flags().BoolVar(&single, "single", false, "Parse in single precision")
	return cmd
}

func newTableCmd() *cobra.Command {
	var (
		delimiter string
		single    bool
	)
	cmd := &cobra.Command{
		Use:   "table FILE",
		Short: "Print the shape of a numeric text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt := loading.WithDelimiter(delimiter)
			if single {
				t, err := loading.LoadTable[float32](args[0], opt)
				if err != nil {
					return err
				}
				return printShape(cmd.OutOrStdout(), t)
			}
			t, err := loading.LoadTable[float64](args[0], opt)
			if err != nil {
				return err
			}
			return printShape(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().StringVar(&delimiter, "delimiter", " ", "Cell delimiter, empty for any whitespace")
	cmd.Flags().BoolVar(&single, "single", false, "Parse in single precision")
	return cmd
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example model description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(modelfile.Example())
			return err
		},
	}
}

func printRows[T loading.Float](w io.Writer, ncol int, values map[int][]T) error {
	idx := make([]int, 0, len(values))
	for i := range values {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	if _, err := fmt.Fprintf(w, "ncol %d\n", ncol); err != nil {
		return err
	}
	for _, i := range idx {
		cells := make([]string, len(values[i]))
		for j, v := range values[i] {
			cells[j] = strconv.FormatFloat(float64(v), 'g', -1, loading.BitSize[T]())
		}
		if _, err := fmt.Fprintf(w, "%d: %s\n", i, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

func printShape[T loading.Float](w io.Writer, table [][]T) error {
	cols := 0
	if len(table) > 0 {
		cols = len(table[0])
	}
	_, err := fmt.Fprintf(w, "%d rows x %d columns\n", len(table), cols)
	return err
}
