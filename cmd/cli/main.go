package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gowallet-cli",
		Short: "GoWallet CLI tool",
		Long:  `A command line interface for interacting with the GoWallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(walletCmd())
	rootCmd.AddCommand(depositCmd())
	rootCmd.AddCommand(withdrawCmd())
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(recalculateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var holderRef string
	var decimalPlaces int32

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/wallets/", map[string]any{
				"holder_ref":     holderRef,
				"decimal_places": decimalPlaces,
			})
		},
	}
	createCmd.Flags().StringVar(&holderRef, "holder", "", "Holder reference")
	createCmd.Flags().Int32Var(&decimalPlaces, "decimal-places", 2, "Decimal places")

	getCmd := &cobra.Command{
		Use:   "get <wallet-id>",
		Short: "Get a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0])
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <wallet-id>",
		Short: "Get a wallet balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0] + "/balance")
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/")
		},
	}

	cmd.AddCommand(createCmd, getCmd, balanceCmd, listCmd)

	return cmd
}

func depositCmd() *cobra.Command {
	var amount, amountFloat, txnID string
	var unconfirmed bool

	cmd := &cobra.Command{
		Use:   "deposit <wallet-id>",
		Short: "Deposit into a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/wallets/"+args[0]+"/deposit",
				mutationBody(amount, amountFloat, txnID, unconfirmed))
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Minor-unit amount")
	cmd.Flags().StringVar(&amountFloat, "amount-float", "", "Fractional amount")
	cmd.Flags().StringVar(&txnID, "transaction-id", "", "Idempotency key")
	cmd.Flags().BoolVar(&unconfirmed, "unconfirmed", false, "Record without moving the balance")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var amount, amountFloat, txnID string
	var unconfirmed, force bool

	cmd := &cobra.Command{
		Use:   "withdraw <wallet-id>",
		Short: "Withdraw from a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/wallets/" + args[0] + "/withdraw"
			if force {
				path += "?force=true"
			}
			return postJSON(path, mutationBody(amount, amountFloat, txnID, unconfirmed))
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Minor-unit amount")
	cmd.Flags().StringVar(&amountFloat, "amount-float", "", "Fractional amount")
	cmd.Flags().StringVar(&txnID, "transaction-id", "", "Idempotency key")
	cmd.Flags().BoolVar(&unconfirmed, "unconfirmed", false, "Record without moving the balance")
	cmd.Flags().BoolVar(&force, "force", false, "Allow a negative balance")

	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount, amountFloat, fee, mode string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer between wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"from_wallet_id": from,
				"to_wallet_id":   to,
				"mode":           mode,
			}
			if amount != "" {
				body["amount"] = amount
			}
			if amountFloat != "" {
				body["amount_float"] = amountFloat
			}
			if fee != "" {
				body["fee"] = fee
			}
			return postJSON("/api/v1/transfers/", body)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source wallet ID")
	cmd.Flags().StringVar(&to, "to", "", "Destination wallet ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Minor-unit amount")
	cmd.Flags().StringVar(&amountFloat, "amount-float", "", "Fractional amount")
	cmd.Flags().StringVar(&fee, "fee", "", "Fee deducted from the deposit leg")
	cmd.Flags().StringVar(&mode, "mode", "strict", "Transfer mode: strict, safe or force")

	return cmd
}

func recalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate <wallet-id>",
		Short: "Rebuild a wallet balance from its confirmed transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/wallets/"+args[0]+"/recalculate", nil)
		},
	}
}

func mutationBody(amount, amountFloat, txnID string, unconfirmed bool) map[string]any {
	body := map[string]any{}
	if amount != "" {
		body["amount"] = amount
	}
	if amountFloat != "" {
		body["amount_float"] = amountFloat
	}
	if txnID != "" {
		body["transaction_id"] = txnID
	}
	if unconfirmed {
		confirmed := false
		body["confirmed"] = confirmed
	}
	return body
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(pretty)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
