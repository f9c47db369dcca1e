package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"decentraspace/cmd/internal/passphrase"
	"decentraspace/crypto"
)

const walletPassEnv = "DSPACE_WALLET_PASS"

var rpcEndpoint = defaultRPCEndpoint()
var rpcAuthToken = os.Getenv("DSPACE_RPC_TOKEN")
var walletPass = passphrase.NewSource(walletPassEnv)

func defaultRPCEndpoint() string {
	if url := strings.TrimSpace(os.Getenv("RPC_URL")); url != "" {
		return url
	}
	return "http://localhost:8546"
}

func main() {
	args := os.Args[1:]
	if len(args) > 1 && args[0] == "--rpc" {
		rpcEndpoint = args[1]
		args = args[2:]
	}
	if len(args) < 1 {
		printUsage()
		return
	}

	switch args[0] {
	case "generate-key":
		generateKey()
	case "address":
		if len(args) < 2 {
			fmt.Println("Error: Please provide a key file.")
			printUsage()
			return
		}
		showAddress(args[1])
	case "balance":
		if len(args) < 2 {
			fmt.Println("Error: Please provide an address.")
			printUsage()
			return
		}
		call("space_getBalance", map[string]interface{}{"address": args[1]})
	case "stats":
		call("space_getPlatformStats", nil)
	case "call":
		if len(args) < 2 {
			fmt.Println("Error: Please provide a method and optional JSON params.")
			printUsage()
			return
		}
		var params map[string]interface{}
		if len(args) > 2 {
			if err := json.Unmarshal([]byte(args[2]), &params); err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid params JSON: %v\n", err)
				os.Exit(1)
			}
		}
		call(args[1], params)
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: space-cli [--rpc <url>] <command>

Commands:
  generate-key              Generate a new key into the wallet.key keystore
  address <keyfile>         Print the address for a saved keystore
  balance <address>         Query an account balance
  stats                     Query platform statistics
  call <method> [params]    Invoke any JSON-RPC method with a JSON params object

The keystore passphrase is read from ` + walletPassEnv + ` or prompted.`)
}

func generateKey() {
	pass, err := walletPass.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key: %v\n", err)
		os.Exit(1)
	}
	if err := crypto.SaveToKeystore("wallet.key", key, pass); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving keystore: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("New encrypted key saved to wallet.key\nAddress: %s\n", key.PubKey().Address().String())
}

func showAddress(path string) {
	pass, err := walletPass.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	key, err := crypto.LoadFromKeystore(path, pass)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decrypting keystore %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Println(key.PubKey().Address().String())
}

func call(method string, params map[string]interface{}) {
	paramList := []interface{}{}
	if params != nil {
		paramList = append(paramList, params)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  paramList,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building request: %v\n", err)
		os.Exit(1)
	}
	req, err := http.NewRequest(http.MethodPost, rpcEndpoint, bytes.NewReader(payload))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if rpcAuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+rpcAuthToken)
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calling %s: %v\n", rpcEndpoint, err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading response: %v\n", err)
		os.Exit(1)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
