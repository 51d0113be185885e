package ingestcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gynocare-chat/internal/config"
	"gynocare-chat/internal/faq"
	"gynocare-chat/internal/llm"
	"gynocare-chat/internal/logging"
	"gynocare-chat/internal/storage"
	"gynocare-chat/internal/vectorstore"
)

const ingestLongDesc string = `Build the FAQ collection from a spreadsheet.

The first sheet (or --sheet) must hold the question, age range and answer
in its first three columns, with a header row. Every question is embedded
and stored in Qdrant; its answers are stored in the SQLite catalog.

An existing collection is left as is unless --force is given, which drops
and rebuilds it.

Examples:
  gynocare ingest --file faq.xlsx
  gynocare ingest --file faq.xlsx --sheet Respostas --force`

const ingestShortDesc string = "Build the FAQ collection from an .xlsx file"

type ingestCommander struct {
	file   string
	sheet  string
	force  bool
	asJSON bool
}

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Path to the FAQ spreadsheet (.xlsx)")
	cmd.Flags().StringVar(&cmder.sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&cmder.force, "force", false, "Drop and rebuild an existing collection")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (c *ingestCommander) run(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("could not open database %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("could not migrate database: %w", err)
	}

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		return fmt.Errorf("could not connect to Qdrant: %w", err)
	}
	defer vectorStore.Close()

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize, nil)
	pipeline := faq.NewPipeline(storage.NewFAQRepo(db), embedder, vectorStore, cfg.CollectionName, cfg.QdrantVectorSize)

	result, err := pipeline.Ingest(ctx, faq.IngestOptions{
		Path:  c.file,
		Sheet: c.sheet,
		Force: c.force,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	return printResult(out, result, c.asJSON)
}

func printResult(out io.Writer, result *faq.IngestResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Skipped {
		fmt.Fprintf(out, "Collection %q already exists with %d points; use --force to rebuild it.\n",
			result.Collection, result.PointsCount)
		return nil
	}

	fmt.Fprintf(out, "Ingested %d questions (%d answers) into %q; collection holds %d points.\n",
		result.Questions, result.Answers, result.Collection, result.PointsCount)
	return nil
}
