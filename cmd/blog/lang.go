package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finitefield.org/hanko-blog/internal/preference"
)

func newLangCmd(c *cli) *cobra.Command {
	var codes []string
	for _, code := range preference.Codes() {
		codes = append(codes, string(code))
	}
	return &cobra.Command{
		Use:       "lang [code]",
		Short:     "Show or set the stored interface language",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: codes,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := preference.OpenSQLite(c.cfg.Preference.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()
			pref := preference.New(store, preference.WithLogger(c.logger))

			if len(args) == 1 {
				code, ok := preference.Parse(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", preference.ErrUnsupported, args[0])
				}
				if err := pref.Set(cmd.Context(), code); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), pref.Get(cmd.Context()))
			return err
		},
	}
}
