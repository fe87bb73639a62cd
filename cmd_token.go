package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hanahehe/restore/verify"
)

var (
	tokenOut  string
	tokenSize int
)

// restore token ORD-XXXXXX: print the verification token and optionally
// write its QR code.
var tokenCmd = &cobra.Command{
	Use:   "token <orderId>",
	Short: "Print an order's verification token and render it as a QR PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := verify.Encode(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		if tokenOut == "" {
			return nil
		}
		png, err := verify.QRCode(token, tokenSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(tokenOut, png, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", tokenOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "QR written to %s\n", tokenOut)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenOut, "out", "o", "", "write the QR code PNG to this file")
	tokenCmd.Flags().IntVar(&tokenSize, "size", 256, "QR code edge in pixels")
}
