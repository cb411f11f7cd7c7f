package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

func balanceRun(cmd *cobra.Command, args []string) {
	signer, err := loadSigner()
	if err != nil {
		log.Fatal(err)
	}

	bal, err := balance(http.DefaultClient, url, signer.Identity())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(bal)
}

// balance asks the node to replay the chain for the identity.
func balance(client *http.Client, url string, identity string) (string, error) {
	data, err := json.Marshal(map[string]string{"account": identity})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/accounts/balance", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, "balance")
}
