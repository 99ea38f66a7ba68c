package cmd

import (
	"github.com/spf13/cobra"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/output"
	"github.com/Aman-CERP/storefront/internal/theme"
)

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the current theme",
		Long: `Show the current theme. Without a stored choice the theme follows
theme.prefer_dark, or the terminal background when that is "auto".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			output.New(cmd.OutOrStdout()).Line(sess.Theme.Get().String())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between dark and light",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			t := sess.Theme.Toggle()
			out := output.New(cmd.OutOrStdout())
			out.Successf("Theme is now %s", t)
			warnIfNotPersisted(out, sess.Degraded(), sess.LastError())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <dark|light>",
		Short:     "Choose a theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(theme.Dark), string(theme.Light)},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := theme.Parse(args[0])
			if !ok {
				return sferrors.ValidationError("unknown theme "+args[0], nil).
					WithSuggestion("Use 'dark' or 'light'")
			}

			sess, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			sess.Theme.Set(t)
			out := output.New(cmd.OutOrStdout())
			out.Successf("Theme is now %s", t)
			warnIfNotPersisted(out, sess.Degraded(), sess.LastError())
			return nil
		},
	})

	return cmd
}
