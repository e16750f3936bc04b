package cli

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fergoeqs/second-service/internal/adapter/search"
	"github.com/fergoeqs/second-service/internal/api/dto"
	"github.com/fergoeqs/second-service/internal/core/domain"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
)

var (
	gatewayURL   string
	gatewayToken string
	minTurnover  int64
	maxTurnover  int64
	searchPage   int
	searchSize   int
	sortCriteria string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Query a running gateway",
	Long:  "Call the /orgdirectory endpoints of a running gateway and print the organizations as a table",
}

var searchTurnoverCmd = &cobra.Command{
	Use:   "turnover",
	Short: "Filter organizations by annual turnover",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := json.Marshal(dto.TurnoverFilterRequest{
			MinAnnualTurnover: &minTurnover,
			MaxAnnualTurnover: &maxTurnover,
			Page:              searchPage,
			Size:              searchSize,
		})
		if err != nil {
			return err
		}

		client, err := newGatewayClient()
		if err != nil {
			return err
		}
		return client.run(cmd, "/orgdirectory/filter/turnover", body)
	},
}

var searchOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "List organizations ordered by the given sort criteria",
	Example: `  second-service search order --sort '[{"field":"name","direction":"ASC"}]'
  second-service search order --sort '"annualTurnover"' --page 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := buildOrderBody(sortCriteria, cmd.Flags().Changed("page"), searchPage, cmd.Flags().Changed("size"), searchSize)
		if err != nil {
			return err
		}

		client, err := newGatewayClient()
		if err != nil {
			return err
		}
		return client.run(cmd, "/orgdirectory/order", body)
	},
}

func init() {
	searchCmd.PersistentFlags().StringVar(&gatewayURL, "url", "", "gateway base URL (default derived from api_host and api_port)")
	searchCmd.PersistentFlags().StringVar(&gatewayToken, "token", "", "bearer token sent to the gateway")
	searchCmd.PersistentFlags().IntVar(&searchPage, "page", domain.DefaultPage, "page number, starting at 0")
	searchCmd.PersistentFlags().IntVar(&searchSize, "size", domain.DefaultSize, "page size")

	searchTurnoverCmd.Flags().Int64Var(&minTurnover, "min", 0, "minimum annual turnover")
	searchTurnoverCmd.Flags().Int64Var(&maxTurnover, "max", 0, "maximum annual turnover")
	_ = searchTurnoverCmd.MarkFlagRequired("min")
	_ = searchTurnoverCmd.MarkFlagRequired("max")

	searchOrderCmd.Flags().StringVar(&sortCriteria, "sort", "", "sort criteria as JSON")
	_ = searchOrderCmd.MarkFlagRequired("sort")

	searchCmd.AddCommand(searchTurnoverCmd)
	searchCmd.AddCommand(searchOrderCmd)
	rootCmd.AddCommand(searchCmd)
}

// buildOrderBody wraps the sort criteria in an order request. Pagination is
// only included when explicitly requested so the search service applies its
// own defaults otherwise.
func buildOrderBody(sort string, withPage bool, page int, withSize bool, size int) ([]byte, error) {
	if !json.Valid([]byte(sort)) {
		return nil, fmt.Errorf("--sort must be valid JSON, e.g. '\"name\"' or '[{\"field\":\"name\"}]'")
	}

	req := map[string]json.RawMessage{
		"sort": json.RawMessage(sort),
	}
	if withPage {
		req["page"] = json.RawMessage(strconv.Itoa(page))
	}
	if withSize {
		req["size"] = json.RawMessage(strconv.Itoa(size))
	}
	return json.Marshal(req)
}

type gatewayClient struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
}

func newGatewayClient() (*gatewayClient, error) {
	baseURL := gatewayURL
	scheme := "http"
	if cfg.SSLCert != "" {
		scheme = "https"
	}
	if baseURL == "" {
		host := cfg.APIHost
		if host == "" || host == "0.0.0.0" {
			host = "127.0.0.1"
		}
		baseURL = fmt.Sprintf("%s://%s:%d", scheme, host, cfg.APIPort)
	}

	transport := cleanhttp.DefaultTransport()
	// The gateway's own certificate is often self-signed, trust it directly
	if cfg.SSLCert != "" {
		store, err := search.LoadTrustStore(cfg.SSLCert, "")
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    store.Pool,
		}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   cfg.Upstream.Timeout + 5*time.Second,
	}
	rc.RetryMax = 2
	rc.Logger = nil

	return newGatewayClientWith(baseURL, gatewayToken, rc), nil
}

func newGatewayClientWith(baseURL, token string, rc *retryablehttp.Client) *gatewayClient {
	return &gatewayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    rc,
	}
}

// post sends body to path and returns the response body of a 200 reply
func (g *gatewayClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to gateway failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	return data, nil
}

func (g *gatewayClient) run(cmd *cobra.Command, path string, body []byte) error {
	data, err := g.post(cmd.Context(), path, body)
	if err != nil {
		return err
	}
	return renderOrganizations(cmd.OutOrStdout(), data)
}

// renderOrganizations prints a page of organizations. Bodies that are not a
// page are printed as received.
func renderOrganizations(out io.Writer, data []byte) error {
	var page dto.PaginatedResponse
	if err := json.Unmarshal(data, &page); err != nil || page.Organizations == nil {
		var pretty bytes.Buffer
		if json.Indent(&pretty, data, "", "  ") != nil {
			_, err := out.Write(data)
			return err
		}
		pretty.WriteByte('\n')
		_, err := pretty.WriteTo(out)
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tANNUAL TURNOVER\tCREATED")
	for _, org := range page.Organizations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			org.ID,
			org.Name,
			stringOrDash(org.Type),
			int64OrDash(org.AnnualTurnover),
			stringOrDash(org.CreationDate),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nPage %d of %d (size %d), %d organization(s) total\n",
		page.Page, page.TotalPages, page.Size, page.TotalElements)
	return nil
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func int64OrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}
