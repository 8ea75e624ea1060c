package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ericfisherdev/prtimeline/internal/adapter/driving/report"
	"github.com/ericfisherdev/prtimeline/internal/application"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [owner/repo] <number>",
		Short: "Compute and print the review timeline of a pull request.",
		Example: `  prtimeline show octo/widgets 42
  prtimeline show octo/widgets#42 --format mermaid
  prtimeline show https://github.com/octo/widgets/pull/42 --publish
  prtimeline show 42 --today 2024-03-01   # inside a clone of the repository`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.runShow,
	}
}

func (a *app) runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ref, err := application.ParsePRRef(args, a.defaultRepo())
	if err != nil {
		return err
	}

	svc, err := a.newService(ctx, a.cfg, ref.Repo)
	if err != nil {
		return err
	}

	tl, err := svc.Compute(ctx, ref.Repo, ref.Number)
	if err != nil {
		return err
	}

	if a.cfg.SkipDraft && tl.PR.IsDraft {
		slog.Info("skipping draft pull request", "pr", ref.String())
		return nil
	}

	rep := report.Report{PR: tl.PR, Windows: tl.Windows}
	if a.cfg.OutputFile == "" {
		out := cmd.OutOrStdout()
		rep.Color = a.cfg.Color && useColor(out)
		if err := report.Write(out, a.format, rep); err != nil {
			return err
		}
	} else {
		if err := writeReportFile(a.cfg.OutputFile, a.format, rep); err != nil {
			return err
		}
		slog.Info("timeline written", "pr", ref.String(), "file", a.cfg.OutputFile, "format", a.format)
	}

	if a.cfg.Publish {
		return svc.Publish(ctx, tl.PR, report.RenderMermaid(tl.Windows))
	}
	return nil
}

// writeReportFile renders rep into path.
func writeReportFile(path string, format report.Format, rep report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	return writeAndClose(f, format, rep)
}

// writeAndClose renders rep into w and closes it. A failed close is reported
// when the write itself succeeded.
func writeAndClose(w io.WriteCloser, format report.Format, rep report.Report) (err error) {
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", closeErr)
		}
	}()

	if err := report.Write(w, format, rep); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// defaultRepo is the configured repository, else the repository of the
// current git checkout, else empty.
func (a *app) defaultRepo() string {
	if a.cfg.Repo != "" {
		return a.cfg.Repo
	}
	repo, err := repository.Current()
	if err != nil {
		slog.Debug("no current repository", "error", err)
		return ""
	}
	return repo.Owner + "/" + repo.Name
}

// useColor reports whether w is a color-capable terminal.
func useColor(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
