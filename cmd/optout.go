package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/empire-sales/leadgen-cli/internal/normalize"
)

var optOutSource string

var optOutCmd = &cobra.Command{
	Use:   "optout",
	Short: "Manage the do-not-call list",
}

var optOutAddCmd = &cobra.Command{
	Use:   "add <phone>",
	Short: "Add a phone number to the do-not-call list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phone, ok := normalize.Phone(args[0])
		if !ok {
			return eris.Errorf("invalid phone number: %s", args[0])
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.AddOptOut(ctx, phone, optOutSource); err != nil {
			return err
		}

		fmt.Printf("%s added to the do-not-call list.\n", normalize.PhoneDisplay(phone))
		return nil
	},
}

var optOutCheckCmd = &cobra.Command{
	Use:   "check <phone>",
	Short: "Check whether a phone number has opted out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phone, ok := normalize.Phone(args[0])
		if !ok {
			return eris.Errorf("invalid phone number: %s", args[0])
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		optedOut, err := st.IsOptedOut(ctx, phone)
		if err != nil {
			return err
		}

		if optedOut {
			fmt.Printf("%s is on the do-not-call list.\n", normalize.PhoneDisplay(phone))
		} else {
			fmt.Printf("%s is callable.\n", normalize.PhoneDisplay(phone))
		}
		return nil
	},
}

func init() {
	optOutAddCmd.Flags().StringVar(&optOutSource, "source", "manual", "where the opt-out request came from")
	optOutCmd.AddCommand(optOutAddCmd)
	optOutCmd.AddCommand(optOutCheckCmd)
	rootCmd.AddCommand(optOutCmd)
}
