package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL     string
	timeout     time.Duration
	accessToken string
)

// Swapped out in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashflow-cli",
		Short: "Cashflow CLI tool",
		Long:  `A command line interface for interacting with the Cashflow API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Cashflow API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", "", "Access token for authenticated endpoints")

	// Balance commands
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the current balances",
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/balance/")
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the balance history",
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/balance/history")
		},
	}

	balanceCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(balanceCmd)

	// Flow commands
	flowsCmd := &cobra.Command{
		Use:   "flows",
		Short: "List recorded flows",
		Run: func(cmd *cobra.Command, args []string) {
			listFlows()
		},
	}
	rootCmd.AddCommand(flowsCmd)

	// Health command
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check API health",
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/ready")
		},
	}
	rootCmd.AddCommand(healthCmd)

	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// hashPasswordCmd hashes a password for seeding users directly in the
// database.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash a password with bcrypt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), 12)
			if err != nil {
				return err
			}

			fmt.Println(string(hash))

			return nil
		},
	}
}

func getAndPrint(path string) {
	body, status := doGet(path)
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func listFlows() {
	body, status := doGet("/api/v1/flows/")
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var flows []struct {
		ID            string `json:"id"`
		Direction     string `json:"direction"`
		Amount        string `json:"amount"`
		PaymentMethod string `json:"payment_method"`
		MovementDate  string `json:"movement_date"`
		Description   string `json:"description"`
	}
	if err := json.Unmarshal(body, &flows); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-28s %-8s %-12s %-18s %-12s %s\n", "ID", "DIR", "AMOUNT", "METHOD", "DATE", "DESCRIPTION")
	for _, f := range flows {
		date := f.MovementDate
		if len(date) >= 10 {
			date = date[:10]
		}
		fmt.Printf("%-28s %-8s %-12s %-18s %-12s %s\n",
			f.ID, f.Direction, f.Amount, f.PaymentMethod, date, truncate(f.Description, 40))
	}
}

func doGet(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	return body, resp.StatusCode
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-3] + "..."
}
