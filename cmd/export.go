package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export converts the output document of the last fetch to CSV or Markdown.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	format := strings.ToLower(cmd.String("format"))
	var ext string
	switch format {
	case formatter.FormatCSV:
		ext = ".csv"
	case formatter.FormatMarkdown, "md":
		ext = ".md"
	default:
		return fmt.Errorf("%w: --format must be csv or markdown, got %q", shared.ErrInvalidFlag, format)
	}

	input := cfg.Paths.Output
	if p := cmd.String("input"); p != "" {
		input = p
	}

	output := cmd.String("output")
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}

	doc, err := formatter.ReadDocument(input)
	if err != nil {
		return err
	}

	if err := formatter.WriteExport(doc, format, output); err != nil {
		return err
	}

	r.logger.Info("exported videos", "format", format, "count", doc.VideoCount, "path", output)
	r.writePlain("✓ Exported %d videos to %s\n", doc.VideoCount, output)
	return nil
}
