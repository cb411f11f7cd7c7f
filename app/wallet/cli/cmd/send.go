package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run: func(cmd *cobra.Command, args []string) {
		signer, err := loadSigner()
		if err != nil {
			log.Fatal(err)
		}

		status, err := send(http.DefaultClient, url, signer, to, amount)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(status)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Identity of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

// send builds and signs the transaction, then submits it to the node.
func send(client *http.Client, url string, signer signature.Signer, to string, amount uint64) (string, error) {
	tx, err := database.NewTx(database.Account(signer.Identity()), database.Account(to), amount, 0)
	if err != nil {
		return "", err
	}

	signedTx, err := tx.Sign(signer)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(signedTx)
	if err != nil {
		return "", err
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, "status")
}

// decodeResponse returns the named field of a successful response or the
// error reported by the node.
func decodeResponse(resp *http.Response, field string) (string, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return "", fmt.Errorf("decoding response %q: %w", body, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("node returned %d: %v", resp.StatusCode, m["error"])
	}

	return fmt.Sprint(m[field]), nil
}
