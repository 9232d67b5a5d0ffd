package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"coursepilot/internal/app"
	"coursepilot/internal/domain"
	"coursepilot/internal/service"
)

type parseFlags struct {
	mediaType   string
	heuristic   bool
	concurrency int
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mediaType, "type", "", "declared media type (default: from file extension)")
	cmd.Flags().BoolVar(&f.heuristic, "heuristic", false, "skip the language model and use the heuristic parser")
}

func newParseCmd(s *state) *cobra.Command {
	f := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse syllabus files and print the structured record as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.get()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				ps, err := parseFile(cmd, a, args[0], f)
				if err != nil {
					return err
				}
				return printJSON(cmd, ps)
			}
			return parseBatch(cmd, a, args, f)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&f.concurrency, "concurrency", "c", 4, "files parsed in parallel")
	return cmd
}

func parseFile(cmd *cobra.Command, a *app.App, path string, f *parseFlags) (*domain.ParsedSyllabus, error) {
	doc, err := readDocument(path, f.mediaType)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()

	if f.heuristic {
		extracted, err := a.Extractor.Extract(ctx, doc)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(extracted.Text) == "" {
			return nil, domain.ErrEmptyExtraction
		}
		warnExtraction(cmd, doc.FileName, extracted)
		return a.Heuristic.ParseText(extracted.Text), nil
	}

	result, err := a.Syllabus.HandleUpload(ctx, doc)
	if err != nil {
		return nil, err
	}
	warnExtraction(cmd, doc.FileName, result.Extraction)
	return result.Syllabus, nil
}

// warnExtraction writes extraction warnings to stderr, and flags text that
// came from the generic byte decoder.
func warnExtraction(cmd *cobra.Command, file string, ext *domain.ExtractedText) {
	if ext == nil {
		return
	}
	if ext.Degraded {
		cmd.PrintErrf("warning: %s: text recovered by %s decoding, results may be incomplete\n", file, ext.Method)
	}
	for _, w := range ext.Warnings {
		cmd.PrintErrf("warning: %s: %s\n", file, w)
	}
}

type batchOutput struct {
	File     string                 `json:"file"`
	Source   domain.ParseSource     `json:"source,omitempty"`
	Syllabus *domain.ParsedSyllabus `json:"syllabus,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func parseBatch(cmd *cobra.Command, a *app.App, paths []string, f *parseFlags) error {
	docs := make([]domain.RawDocument, 0, len(paths))
	for _, p := range paths {
		doc, err := readDocument(p, f.mediaType)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	worker := service.NewBatchWorker(a.Syllabus, service.BatchConfig{
		Concurrency:        f.concurrency,
		PerDocumentTimeout: 5 * time.Minute,
	}, a.Logger.Named("batch"))

	var failed int
	out := make([]batchOutput, 0, len(docs))
	for _, item := range worker.Run(cmd.Context(), docs) {
		o := batchOutput{File: item.FileName}
		if item.Err != nil {
			o.Error = item.Err.Error()
			failed++
		} else {
			o.Source = item.Result.Source
			o.Syllabus = item.Result.Syllabus
			warnExtraction(cmd, item.FileName, item.Result.Extraction)
		}
		out = append(out, o)
	}
	if err := printJSON(cmd, out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(docs))
	}
	return nil
}

func newDisplayCmd(s *state) *cobra.Command {
	f := &parseFlags{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "display <file>",
		Short: "Print the events of a syllabus with confidence scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.get()
			if err != nil {
				return err
			}
			ps, err := parseFile(cmd, a, args[0], f)
			if err != nil {
				return err
			}
			rows := a.Sync.ToDisplay(ps)
			if asJSON {
				return printJSON(cmd, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events found.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTYPE\tCONFIDENCE\tLABEL")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Date, r.Type, r.Confidence, r.Label)
			}
			return tw.Flush()
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output rows as JSON")
	return cmd
}

func newTextCmd(s *state) *cobra.Command {
	var mediaType string
	cmd := &cobra.Command{
		Use:   "text <file>",
		Short: "Print the plain text extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.get()
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0], mediaType)
			if err != nil {
				return err
			}
			extracted, err := a.Extractor.Extract(cmd.Context(), doc)
			if err != nil {
				return err
			}
			warnExtraction(cmd, doc.FileName, extracted)
			fmt.Fprintln(cmd.OutOrStdout(), extracted.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaType, "type", "", "declared media type (default: from file extension)")
	return cmd
}

func newSyncCmd(s *state) *cobra.Command {
	f := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "sync <file>",
		Short: "Parse a syllabus and append its tasks and events to the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.get()
			if err != nil {
				return err
			}
			ps, err := parseFile(cmd, a, args[0], f)
			if err != nil {
				return err
			}
			res, err := a.Sync.Sync(cmd.Context(), ps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d tasks and %d events (store: %s)\n", res.TasksAdded, res.EventsAdded, a.Config.Store.Driver)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
