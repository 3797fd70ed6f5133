package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sapictureday/leadgen/internal/crm"
)

var crmCmd = &cobra.Command{
	Use:   "crm",
	Short: "Check CRM connectivity and contact stats",
	Long: `Verifies the Bigin token works and reports how many companies the
duplicate index would cover. Run this before the first --live run.`,
	RunE: runCRMCheck,
}

func init() {
	rootCmd.AddCommand(crmCmd)
}

func runCRMCheck(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Bigin.Token == "" {
		return eris.New("crm: bigin.token is not set (LEADGEN_BIGIN_TOKEN)")
	}

	client := newBiginClient()
	if err := client.TestConnection(ctx); err != nil {
		return eris.Wrap(err, "crm: connection check")
	}
	fmt.Println("Connection OK")

	index := crm.NewDuplicateIndex(client)
	if err := index.Build(ctx); err != nil {
		return err
	}
	fmt.Printf("Indexed companies: %d\n", index.Size())
	return nil
}
