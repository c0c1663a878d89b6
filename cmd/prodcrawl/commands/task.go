package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect or revoke a dispatched crawl task via the Control API",
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <task_id>",
	Short: "GET /task/{task_id}",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskStatus,
}

var taskRevokeCmd = &cobra.Command{
	Use:   "revoke <task_id>",
	Short: "DELETE /task/{task_id}",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRevoke,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskRevokeCmd)

	taskRevokeCmd.Flags().Bool("terminate", false, "cancel in-flight work, not just revoke bookkeeping")
}

func runTaskStatus(_ *cobra.Command, args []string) error {
	body, err := httpGET(fmt.Sprintf("%s/task/%s", serverBaseURL(), url.PathEscape(args[0])))
	if err != nil {
		logError("task status: %v", err)
		return err
	}
	fmt.Println(string(body))
	return nil
}

func runTaskRevoke(cmd *cobra.Command, args []string) error {
	terminate, _ := cmd.Flags().GetBool("terminate")
	u := fmt.Sprintf("%s/task/%s?terminate=%t", serverBaseURL(), url.PathEscape(args[0]), terminate)

	req, err := http.NewRequest(http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	body, err := doRequest(req)
	if err != nil {
		logError("task revoke: %v", err)
		return err
	}
	fmt.Println(string(body))
	return nil
}

func serverBaseURL() string {
	return viper.GetString("server")
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func httpGET(u string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return doRequest(req)
}

func doRequest(req *http.Request) ([]byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commands: request %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("commands: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var errBody map[string]any
		if json.Unmarshal(body, &errBody) == nil {
			return nil, fmt.Errorf("commands: %s: %v", resp.Status, errBody)
		}
		return nil, fmt.Errorf("commands: %s", resp.Status)
	}
	return body, nil
}
