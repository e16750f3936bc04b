package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fergoeqs/second-service/internal/adapter/search"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var truststoreCmd = &cobra.Command{
	Use:   "truststore",
	Short: "Inspect the upstream trust store",
}

var truststoreInspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "List the certificates in a trust store",
	Long:  "List the certificates in a trust store. Defaults to upstream.trust_store and prompts for the password when none is configured.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Upstream.TrustStore
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no trust store configured, pass a path or set upstream.trust_store")
		}

		password := cfg.Upstream.TrustStorePassword
		if password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprint(cmd.ErrOrStderr(), "Enter trust store password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(raw)
		}

		store, err := search.LoadTrustStore(path, password)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SUBJECT\tISSUER\tNOT AFTER\tCA")
		for _, cert := range store.Certificates {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n",
				cert.Subject.String(),
				cert.Issuer.String(),
				cert.NotAfter.Format(time.RFC3339),
				cert.IsCA,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d certificate(s)\n", len(store.Certificates))
		return nil
	},
}

func init() {
	truststoreCmd.AddCommand(truststoreInspectCmd)
	rootCmd.AddCommand(truststoreCmd)
}
