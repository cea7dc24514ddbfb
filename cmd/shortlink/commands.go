package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/shortlink/internal/adapter/clipboard"
	"github.com/vadimbarashkov/shortlink/internal/app"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/internal/validate"
	"github.com/vadimbarashkov/shortlink/internal/view"
)

type styles struct {
	success lipgloss.Style
	failure lipgloss.Style
	link    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		success: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		link:    r.NewStyle().Foreground(lipgloss.Color("6")).Underline(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

type cli struct {
	out        io.Writer
	errOut     io.Writer
	configPath string
	copier     interface{ Copy(string) error }
	now        func() time.Time
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:    out,
		errOut: errOut,
		copier: clipboard.New(errOut),
		now:    time.Now,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "shortlink",
		Short:         "Shorten URLs and keep the last 10 results",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runServe,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web page and JSON API",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}

	var copyResult bool
	shortenCmd := &cobra.Command{
		Use:   "shorten <url>",
		Short: "Shorten a URL and add it to the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShorten(cmd, args[0], copyResult)
		},
	}
	shortenCmd.Flags().BoolVar(&copyResult, "copy", false, "copy the short URL to the clipboard")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past results, newest first",
		Args:  cobra.NoArgs,
		RunE:  c.runHistory,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the history",
		Args:  cobra.NoArgs,
		RunE:  c.runClear,
	}

	root.AddCommand(serveCmd, shortenCmd, historyCmd, clearCmd)

	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return c.fail(err)
	}

	if err := app.Run(cmd.Context(), cfg); err != nil {
		return c.fail(err)
	}

	return nil
}

func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	return app.New(cmd.Context(), cfg, app.NewLogger(cfg))
}

func (c *cli) runShorten(cmd *cobra.Command, rawURL string, copyResult bool) error {
	st := newStyles(c.out)

	a, err := c.open(cmd)
	if err != nil {
		return c.fail(err)
	}
	defer a.Close()

	result, err := a.UseCase.ShortenURL(cmd.Context(), rawURL)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			return c.fail(vErr)
		}
		if errors.Is(err, entity.ErrBusy) {
			return c.fail(entity.ErrBusy)
		}
		return c.fail(entity.ErrShortenFailed)
	}

	fmt.Fprintln(c.out, st.link.Render(result.ShortURL))
	fmt.Fprintln(c.out, st.muted.Render(result.OriginalURL))

	if copyResult {
		if err := c.copier.Copy(result.ShortURL); err != nil {
			fmt.Fprintln(c.errOut, newStyles(c.errOut).failure.Render("Failed to copy to clipboard"))
		} else {
			fmt.Fprintln(c.out, st.success.Render("Copied!"))
		}
	}

	c.warnDegraded(a)

	return nil
}

func (c *cli) runHistory(cmd *cobra.Command, _ []string) error {
	st := newStyles(c.out)

	a, err := c.open(cmd)
	if err != nil {
		return c.fail(err)
	}
	defer a.Close()

	items := view.Project(a.UseCase.History(cmd.Context()), c.now())
	if len(items) == 0 {
		fmt.Fprintln(c.out, st.muted.Render("No links yet."))
		return nil
	}

	for _, it := range items {
		fmt.Fprintf(c.out, "%s  %s\n    %s\n",
			st.link.Render(it.ShortURL),
			st.muted.Render(it.Age),
			it.OriginalURL,
		)
	}

	c.warnDegraded(a)

	return nil
}

func (c *cli) runClear(cmd *cobra.Command, _ []string) error {
	a, err := c.open(cmd)
	if err != nil {
		return c.fail(err)
	}
	defer a.Close()

	if err := a.UseCase.ClearHistory(cmd.Context()); err != nil {
		c.warnDegraded(a)
		return nil
	}

	fmt.Fprintln(c.out, newStyles(c.out).success.Render("History cleared"))

	return nil
}

func (c *cli) warnDegraded(a *app.App) {
	if err := a.UseCase.PersistenceStatus(); err != nil {
		fmt.Fprintln(c.errOut, newStyles(c.errOut).failure.Render("Warning: history could not be saved"))
	}
}

// fail prints err the way the page shows a toast and returns it for the exit code.
func (c *cli) fail(err error) error {
	fmt.Fprintln(c.errOut, newStyles(c.errOut).failure.Render(err.Error()))
	return err
}
