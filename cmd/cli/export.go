package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/go-social/pkg/core/services"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every user and tweet, deleted ones included, as JSON to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		dump, err := adminService(repo, cfg.BcryptCost).Dump(cmd.Context())
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(dump)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		stats, err := adminService(repo, cfg.BcryptCost).Stats(cmd.Context())
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	},
}

// adminService wires the operator service over an open store
func adminService(store ports.Store, bcryptCost int) ports.AdminService {
	return services.NewSet(store, bcryptCost).Admin
}
