package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var (
	leadsStatus string
	leadsPage   int
	leadsLimit  int
	exportFmt   string
	exportOut   string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Work with contact submissions through the admin API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("SHREESTEEL_TOKEN")
		}
		if authToken == "" {
			fmt.Fprintf(os.Stderr, "Error: SHREESTEEL_TOKEN environment variable not set\n")
			fmt.Fprintf(os.Stderr, "Please set your admin token: export SHREESTEEL_TOKEN=<your-token>\n")
			os.Exit(1)
		}
	},
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contact submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listLeads()
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export contact submissions as CSV or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportLeads()
	},
}

func init() {
	leadsListCmd.Flags().StringVar(&leadsStatus, "status", "", "Filter by status: new, contacted, quoted, converted, closed, spam")
	leadsListCmd.Flags().IntVar(&leadsPage, "page", 1, "Page number")
	leadsListCmd.Flags().IntVar(&leadsLimit, "limit", 20, "Results per page")

	leadsExportCmd.Flags().StringVar(&leadsStatus, "status", "", "Filter by status")
	leadsExportCmd.Flags().StringVar(&exportFmt, "format", "csv", "Export format: csv or json")
	leadsExportCmd.Flags().StringVar(&exportOut, "out", "", "Write to file instead of stdout")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsExportCmd)
}

func apiGet(path string, query url.Values) ([]byte, error) {
	u := apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+authToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		_ = json.Unmarshal(body, &errResp)
		if msg, ok := errResp["message"].(string); ok {
			return nil, fmt.Errorf("API error: %s", msg)
		}
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return body, nil
}

func listLeads() error {
	query := url.Values{}
	query.Set("page", fmt.Sprintf("%d", leadsPage))
	query.Set("limit", fmt.Sprintf("%d", leadsLimit))
	if leadsStatus != "" {
		query.Set("status", leadsStatus)
	}

	body, err := apiGet("/api/contact/submissions", query)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var result struct {
		Data struct {
			Submissions []struct {
				ID             string `json:"id"`
				Name           string `json:"name"`
				Email          string `json:"email"`
				Subject        string `json:"subject"`
				Status         string `json:"status"`
				Source         string `json:"source"`
				SubmissionDate string `json:"submissionDate"`
			} `json:"submissions"`
			Pagination struct {
				Current int   `json:"current"`
				Pages   int   `json:"pages"`
				Total   int64 `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	for _, lead := range result.Data.Submissions {
		fmt.Printf("%-36s  %-10s  %-20s  %-30s  %s\n",
			lead.ID, lead.Status, lead.Name, lead.Email, lead.Subject)
	}
	fmt.Printf("\nPage %d of %d (%d leads)\n",
		result.Data.Pagination.Current, result.Data.Pagination.Pages, result.Data.Pagination.Total)

	return nil
}

func exportLeads() error {
	query := url.Values{}
	query.Set("format", exportFmt)
	if leadsStatus != "" {
		query.Set("status", leadsStatus)
	}

	body, err := apiGet("/api/admin/export/contacts", query)
	if err != nil {
		return err
	}

	if exportOut != "" {
		if err := os.WriteFile(exportOut, body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		fmt.Printf("✓ Exported to %s\n", exportOut)
		return nil
	}

	fmt.Print(string(body))
	return nil
}
