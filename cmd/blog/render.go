package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"finitefield.org/hanko-blog/internal/preference"
	"finitefield.org/hanko-blog/internal/router"
	"finitefield.org/hanko-blog/internal/view"
)

func newRenderCmd(c *cli) *cobra.Command {
	var (
		page   bool
		stream bool
	)
	cmd := &cobra.Command{
		Use:   "render [location]",
		Short: "Render the view for a location and print its markup",
		Long: `Render resolves a location such as /posts/welcome-to-my-blog.html or
#welcome-to-my-blog, loads the post and prints the container markup.`,
		Example: "  blog render /posts/welcome-to-my-blog.html\n  BLOG_DEPLOYMENT=multilingual blog render '#welcome-to-my-blog'",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := "/"
			if len(args) == 1 {
				location = args[0]
			}
			return c.render(cmd.Context(), cmd.OutOrStdout(), location, page, stream)
		},
	}
	cmd.Flags().BoolVar(&page, "page", false, "wrap the view in the full HTML document")
	cmd.Flags().BoolVar(&stream, "stream", false, "print every render, including the loading view")
	return cmd
}

// parseLocation splits a location into path and fragment.
func parseLocation(location string) (router.State, error) {
	if strings.HasPrefix(location, "#") {
		return router.State{Path: "/", Fragment: location}, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return router.State{}, fmt.Errorf("parse location %q: %w", location, err)
	}
	state := router.State{Path: u.Path}
	if state.Path == "" {
		state.Path = "/"
	}
	if u.Fragment != "" {
		state.Fragment = "#" + u.Fragment
	}
	return state, nil
}

func (c *cli) render(ctx context.Context, out io.Writer, location string, page, stream bool) error {
	state, err := parseLocation(location)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(c.cfg)
	if err != nil {
		return err
	}
	s, err := buildSite(c.cfg, cat, startConverter(ctx, c.cfg, c.logger), c.logger)
	if err != nil {
		return err
	}

	var pref *preference.Preference
	if c.cfg.Multilingual() {
		store, err := preference.OpenSQLite(c.cfg.Preference.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		pref = preference.New(store, preference.WithLogger(c.logger))
	}

	if stream && !page {
		return s.app.NewSession(pref, view.WriterTarget{W: out}).Start(ctx, state)
	}

	buf := view.NewBuffer()
	sess := s.app.NewSession(pref, buf)
	if err := sess.Start(ctx, state); err != nil {
		return err
	}
	html := buf.Content(view.ContainerID)
	if page {
		html, err = s.app.Renderer().RenderPage(view.Page{
			Lang:         buf.Lang(),
			Content:      html,
			Next:         location,
			Multilingual: s.app.Multilingual(),
		})
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(out, html)
	return err
}
