package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"colophon/internal/application"
	"colophon/internal/domain"
	"colophon/internal/logging"
	"colophon/internal/ports"
)

// writeConcurrency bounds the parallel file writes of one build.
const writeConcurrency = 8

// BuildResult contains the result of a document build
type BuildResult struct {
	// OutDir is the directory the generated files landed in.
	OutDir string
	// Written counts the files of both variants, including the master
	// files, the appendixes, and the status table.
	Written int
	// Usage reports tickets that no module captured, and tickets that
	// several modules captured.
	Usage domain.UsageStats
	// Progress is the completeness overview of the whole ticket set.
	Progress domain.Progress
}

// BuildCommand generates both variants of the release notes document
type BuildCommand struct {
	source   ports.TicketSource
	renderer ports.DocumentRenderer
	template *domain.Template
	outDir   string
	log      *logging.Logger
}

// NewBuildCommand creates a new BuildCommand
func NewBuildCommand(source ports.TicketSource, renderer ports.DocumentRenderer, template *domain.Template, outDir string, log *logging.Logger) *BuildCommand {
	return &BuildCommand{
		source:   source,
		renderer: renderer,
		template: template,
		outDir:   outDir,
		log:      log,
	}
}

// Validate checks if the build operation is valid
func (c *BuildCommand) Validate() error {
	if c.outDir == "" {
		return &application.ValidationError{
			Field:   "outDir",
			Message: "output directory is required",
		}
	}
	if c.template == nil {
		return &application.ValidationError{
			Field:   "template",
			Message: "template is required",
		}
	}
	return nil
}

// variantBuild is the fully resolved, not yet written output of one variant.
type variantBuild struct {
	variant  domain.Variant
	chapters []*domain.Document
	resolved []*domain.ResolvedNode
	tickets  []*domain.Ticket
}

// Execute runs the build command. Both variants resolve before a single
// file is written, so a failing template never leaves a half-generated
// directory behind.
func (c *BuildCommand) Execute(ctx context.Context) (*BuildResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tickets, err := c.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	if len(tickets) == 0 {
		return nil, application.ErrEmptyInput
	}
	tickets = domain.Deduplicate(tickets)
	c.log.Debugf("loaded %d unique tickets", len(tickets))

	builds := make([]*variantBuild, 2)
	group, gctx := errgroup.WithContext(ctx)
	for i, variant := range []domain.Variant{domain.VariantInternal, domain.VariantExternal} {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chapters, resolved, err := domain.BuildVariant(c.template, tickets, variant)
			if err != nil {
				return &application.BuildError{Variant: string(variant), Err: err}
			}
			builds[i] = &variantBuild{
				variant:  variant,
				chapters: chapters,
				resolved: resolved,
				tickets:  domain.VariantTickets(tickets, variant),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Usage warnings come from the internal variant, which sees every
	// ticket that carries a note.
	result := &BuildResult{OutDir: c.outDir}
	result.Usage = domain.ComputeUsage(builds[0].resolved, tickets)
	c.warnUsage(result.Usage)

	table := domain.BuildStatusTable(tickets)
	result.Progress = table.Progress

	files, err := c.renderAll(builds, table)
	if err != nil {
		return nil, err
	}
	if err := c.writeAll(ctx, files); err != nil {
		return nil, err
	}
	result.Written = len(files)

	c.log.Infof("generated %d files in %s", result.Written, c.outDir)
	return result, nil
}

// renderAll renders every output file of the build into memory, keyed by
// path relative to the output directory.
func (c *BuildCommand) renderAll(builds []*variantBuild, table *domain.StatusTable) (map[string]string, error) {
	files := map[string]string{}

	for _, build := range builds {
		dir := string(build.variant)

		for _, chapter := range build.chapters {
			for _, doc := range chapter.Flatten() {
				files[filepath.Join(dir, doc.FileName)] = c.renderer.RenderDocument(doc)
			}
		}
		files[filepath.Join(dir, "master.adoc")] = c.renderer.RenderMaster(build.chapters)

		variantTable := table
		if build.variant == domain.VariantExternal {
			variantTable = domain.BuildStatusTable(build.tickets)
		}
		files[filepath.Join(dir, "appendix.adoc")] = c.renderer.RenderAppendix(variantTable, build.variant)
	}

	tableJSON, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode the status table: %w", err)
	}
	files["status-table.json"] = string(tableJSON)

	return files, nil
}

// writeAll flushes the rendered files to disk with bounded concurrency.
func (c *BuildCommand) writeAll(ctx context.Context, files map[string]string) error {
	for _, variant := range []domain.Variant{domain.VariantInternal, domain.VariantExternal} {
		if err := os.MkdirAll(filepath.Join(c.outDir, string(variant)), 0o755); err != nil {
			return fmt.Errorf("failed to create the output directory: %w", err)
		}
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(writeConcurrency)
	for name, content := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(c.outDir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			c.log.Debugf("wrote %s", path)
			return nil
		})
	}
	return group.Wait()
}

func (c *BuildCommand) warnUsage(usage domain.UsageStats) {
	if len(usage.Unused) > 0 {
		c.log.Warnf("tickets unused in the templates: %s", joinIDs(usage.Unused))
	}
	if len(usage.Reused) > 0 {
		c.log.Warnf("tickets used more than once in the templates: %s", joinIDs(usage.Reused))
	}
}

func joinIDs(ids []domain.TicketID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ", ")
}
