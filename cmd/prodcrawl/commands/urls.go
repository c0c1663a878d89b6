package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var urlsCmd = &cobra.Command{
	Use:   "urls <task_id> <domain>",
	Short: "GET /urls/{task_id}/{domain}",
	Long: `Urls fetches the discovered product URLs for one (task_id, domain) pair
from a running Control API: the fast store first, falling back to the
durable store, per spec.md §6.`,
	Args: cobra.ExactArgs(2),
	RunE: runURLs,
}

func init() {
	rootCmd.AddCommand(urlsCmd)
}

func runURLs(_ *cobra.Command, args []string) error {
	taskID, domain := args[0], args[1]
	u := fmt.Sprintf("%s/urls/%s/%s", serverBaseURL(), url.PathEscape(taskID), url.PathEscape(domain))

	body, err := httpGET(u)
	if err != nil {
		logError("urls: %v", err)
		return err
	}
	fmt.Println(string(body))
	return nil
}
